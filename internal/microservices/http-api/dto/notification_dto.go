package dto

// ListNotificationsQuery binds GET /api/notifications
type ListNotificationsQuery struct {
	UnreadOnly bool `form:"unread"`
	Limit      int  `form:"limit" binding:"omitempty,min=1,max=200"`
}
