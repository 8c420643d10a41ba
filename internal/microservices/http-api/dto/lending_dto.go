package dto

import (
	"time"

	"libmanage/internal/microservices/http-api/models"
)

// BorrowRequest is the body of POST /api/books/:book_id/borrow
type BorrowRequest struct {
	LoanDays int `json:"loan_days" binding:"omitempty,min=1,max=365"`
}

type BorrowingResponse struct {
	ID           int64                  `json:"id"`
	BookID       int64                  `json:"book_id"`
	BookTitle    string                 `json:"book_title,omitempty"`
	BorrowerID   string                 `json:"borrower_id"`
	BorrowedDate time.Time              `json:"borrowed_date"`
	DueDate      *time.Time             `json:"due_date,omitempty"`
	ReturnDate   *time.Time             `json:"return_date,omitempty"`
	Returned     bool                   `json:"returned"`
	Status       models.BorrowingStatus `json:"status"`
}

// FromBorrowing renders a ledger row with its status derived at now.
func FromBorrowing(b models.BookBorrowing, now time.Time) BorrowingResponse {
	resp := BorrowingResponse{
		ID:           b.ID,
		BookID:       b.BookID,
		BorrowerID:   b.BorrowerID,
		BorrowedDate: b.BorrowedDate,
		DueDate:      b.DueDate,
		ReturnDate:   b.ReturnDate,
		Returned:     b.Returned,
		Status:       b.Status(now),
	}
	if b.Book != nil {
		resp.BookTitle = b.Book.Title
	}
	return resp
}

func FromBorrowings(list []models.BookBorrowing, now time.Time) []BorrowingResponse {
	out := make([]BorrowingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, FromBorrowing(b, now))
	}
	return out
}

type ReservationResponse struct {
	ID              int64     `json:"id"`
	BookID          int64     `json:"book_id"`
	BookTitle       string    `json:"book_title,omitempty"`
	ReservationDate time.Time `json:"reservation_date"`
	Open            bool      `json:"open"`
}

func FromReservation(r models.BookReservation) ReservationResponse {
	resp := ReservationResponse{
		ID:              r.ID,
		BookID:          r.BookID,
		ReservationDate: r.ReservationDate,
		Open:            !r.Returned,
	}
	if r.Book != nil {
		resp.BookTitle = r.Book.Title
	}
	return resp
}

func FromReservations(list []models.BookReservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, FromReservation(r))
	}
	return out
}

// ScanRequest lets an admin scan as of a given instant, defaulting to now.
type ScanRequest struct {
	At *time.Time `json:"at"`
}
