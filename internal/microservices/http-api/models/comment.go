package models

import "time"

type BookComment struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID      int64     `json:"book_id" gorm:"not null;index"`
	CommenterID string    `json:"commenter_id" gorm:"type:uuid;not null;index"`
	Comment     string    `json:"comment" gorm:"not null;type:text"`
	CommentDate time.Time `json:"comment_date" gorm:"autoCreateTime"`
}

func (BookComment) TableName() string {
	return "book_comments"
}

type BookRecommendation struct {
	ID                 int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID             int64     `json:"book_id" gorm:"not null;index"`
	RecommenderID      string    `json:"recommender_id" gorm:"type:uuid;not null;index"`
	Reason             string    `json:"reason" gorm:"type:text"`
	RecommendationDate time.Time `json:"recommendation_date" gorm:"autoCreateTime"`
}

func (BookRecommendation) TableName() string {
	return "book_recommendations"
}
