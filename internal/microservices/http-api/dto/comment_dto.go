package dto

// CreateCommentDTO used for POST /api/books/:book_id/comments
type CreateCommentDTO struct {
	Comment string `json:"comment" binding:"required,max=2000"`
}

// CreateRecommendationDTO used for POST /api/books/:book_id/recommendations
type CreateRecommendationDTO struct {
	Reason string `json:"reason" binding:"max=2000"`
}
