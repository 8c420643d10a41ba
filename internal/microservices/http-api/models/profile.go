package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfile extends an externally owned user identity with contact details.
type UserProfile struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Username  string    `gorm:"size:150" json:"username"`
	Email     string    `gorm:"size:254" json:"email"`
	Phone     string    `gorm:"size:11" json:"phone"`
	Avatar    *string   `gorm:"size:255" json:"avatar,omitempty"` // path to an externally stored image
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a UserProfile
func (p *UserProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
