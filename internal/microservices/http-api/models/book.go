package models

import "time"

type Book struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:200;not null;index"`
	Author      string    `json:"author" gorm:"size:200;not null;index"`
	CategoryID  *int64    `json:"category_id,omitempty" gorm:"index"`
	ISBN        string    `json:"isbn" gorm:"column:isbn;size:13;uniqueIndex;not null"`
	Quantity    int       `json:"quantity" gorm:"not null;check:chk_books_quantity,quantity >= 0"`
	Available   int       `json:"available" gorm:"not null;check:chk_books_available,available >= 0 AND available <= quantity"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// association
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Book) TableName() string {
	return "books"
}

// OnLoan is the number of copies currently lent out.
func (b Book) OnLoan() int {
	return b.Quantity - b.Available
}
