package models

import "time"

type NotificationType string

const (
	NotificationBorrow  NotificationType = "borrow"
	NotificationReturn  NotificationType = "return"
	NotificationOverdue NotificationType = "overdue"
	NotificationReserve NotificationType = "reserve"
	NotificationSystem  NotificationType = "system"
)

// Notification is append-only; IsRead is the only mutable column.
type Notification struct {
	ID            int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipientID   string           `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Type          NotificationType `gorm:"column:notification_type;size:20;not null" json:"notification_type"`
	Title         string           `gorm:"size:200;not null" json:"title"`
	Message       string           `gorm:"type:text" json:"message"`
	CreatedAt     time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
	IsRead        bool             `gorm:"not null;default:false;index" json:"is_read"`
	RelatedBookID *int64           `gorm:"index" json:"related_book_id,omitempty"`

	// Associations
	RelatedBook *Book `gorm:"foreignKey:RelatedBookID" json:"related_book,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
