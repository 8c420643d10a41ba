package models

import "time"

// Category is a node in the catalog tree. ParentID links root-ward and the
// chain must stay acyclic.
type Category struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Code        *string   `json:"code,omitempty" gorm:"size:50;uniqueIndex"`
	ParentID    *int64    `json:"parent_id,omitempty" gorm:"index"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// association
	Parent *Category `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
}

func (Category) TableName() string {
	return "categories"
}
