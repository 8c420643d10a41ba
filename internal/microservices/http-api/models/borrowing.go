package models

import "time"

// BorrowingStatus is derived from (returned, due_date, now) and never stored.
type BorrowingStatus string

const (
	StatusBorrowed BorrowingStatus = "borrowed"
	StatusReturned BorrowingStatus = "returned"
	StatusOverdue  BorrowingStatus = "overdue"
)

// BookBorrowing is a ledger row. Returned=false means the borrowing is open.
// Rows are never deleted except when their book is deleted.
type BookBorrowing struct {
	ID           int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID       int64      `json:"book_id" gorm:"not null;index"`
	BorrowerID   string     `json:"borrower_id" gorm:"type:uuid;not null;index"`
	BorrowedDate time.Time  `json:"borrowed_date" gorm:"not null;index"`
	DueDate      *time.Time `json:"due_date,omitempty" gorm:"index"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	Returned     bool       `json:"returned" gorm:"not null;default:false;index"`

	// association
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
}

func (BookBorrowing) TableName() string {
	return "book_borrowings"
}

// Status computes the display state of the borrowing at now.
func (b BookBorrowing) Status(now time.Time) BorrowingStatus {
	if b.Returned {
		return StatusReturned
	}
	if b.IsOverdue(now) {
		return StatusOverdue
	}
	return StatusBorrowed
}

// IsOverdue reports whether the due date lies strictly before now. Closed
// borrowings are judged at their return date.
func (b BookBorrowing) IsOverdue(now time.Time) bool {
	if b.DueDate == nil {
		return false
	}
	if b.Returned && b.ReturnDate != nil {
		now = *b.ReturnDate
	}
	return b.DueDate.Before(now)
}

// BookReturn records a completed return.
type BookReturn struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID      int64     `json:"book_id" gorm:"not null;index"`
	ReturnerID  string    `json:"returner_id" gorm:"type:uuid;not null;index"`
	BorrowingID int64     `json:"borrowing_id" gorm:"not null;uniqueIndex"`
	ReturnDate  time.Time `json:"return_date" gorm:"not null"`
	Returned    bool      `json:"returned" gorm:"not null;default:true"`
	Late        bool      `json:"late" gorm:"not null;default:false"`
}

func (BookReturn) TableName() string {
	return "book_returns"
}

// BookReservation is a request to borrow a title once a copy frees up.
// Returned flips when the reservation is fulfilled or cancelled.
type BookReservation struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID          int64     `json:"book_id" gorm:"not null;index"`
	ReservationerID string    `json:"reservationer_id" gorm:"type:uuid;not null;index"`
	ReservationDate time.Time `json:"reservation_date" gorm:"not null"`
	Returned        bool      `json:"returned" gorm:"not null;default:false;index"`

	// association
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
}

func (BookReservation) TableName() string {
	return "book_reservations"
}
