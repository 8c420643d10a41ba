package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libmanage/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// ReturnOutcome describes a committed return.
type ReturnOutcome struct {
	Borrowing *models.BookBorrowing
	Book      *models.Book
	// Late is true when the due date was already past at return time.
	Late bool
	// Capped is true when available was already at quantity and was left as is.
	Capped bool
}

// LendingRepository owns the borrowing ledger. Every method that touches
// books.available does so in the same transaction as its ledger write.
type LendingRepository interface {
	Borrow(ctx context.Context, userID string, bookID int64, borrowedAt, dueAt time.Time) (*models.BookBorrowing, error)
	Return(ctx context.Context, userID string, bookID int64, returnedAt time.Time) (*ReturnOutcome, error)
	Reserve(ctx context.Context, userID string, bookID int64, at time.Time) (*models.BookReservation, error)
	CancelReservation(ctx context.Context, userID string, reservationID int64) error

	OpenByUser(ctx context.Context, userID string) ([]models.BookBorrowing, error)
	HistoryByUser(ctx context.Context, userID string) ([]models.BookBorrowing, error)
	ReservationsByUser(ctx context.Context, userID string, openOnly bool) ([]models.BookReservation, error)
	// DueBetween lists open borrowings with from <= due_date <= to.
	DueBetween(ctx context.Context, from, to time.Time) ([]models.BookBorrowing, error)
	// OverdueAt lists open borrowings with due_date < now.
	OverdueAt(ctx context.Context, now time.Time) ([]models.BookBorrowing, error)
}

type lendingRepository struct {
	db *gorm.DB
}

func NewLendingRepository(db *gorm.DB) LendingRepository {
	return &lendingRepository{db: db}
}

func (r *lendingRepository) Borrow(ctx context.Context, userID string, bookID int64, borrowedAt, dueAt time.Time) (*models.BookBorrowing, error) {
	var borrowing *models.BookBorrowing

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// compare-and-decrement: only succeeds while a copy is left
		res := tx.Model(&models.Book{}).
			Where("id = ? AND available > 0", bookID).
			Update("available", gorm.Expr("available - ?", 1))
		if res.Error != nil {
			return fmt.Errorf("decrement available: %w", res.Error)
		}

		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return ErrUnavailable
		}

		due := dueAt
		b := &models.BookBorrowing{
			BookID:       bookID,
			BorrowerID:   userID,
			BorrowedDate: borrowedAt,
			DueDate:      &due,
		}
		if err := tx.Omit("Book").Create(b).Error; err != nil {
			return fmt.Errorf("create borrowing: %w", err)
		}
		b.Book = &book
		borrowing = b
		return nil
	})
	if err != nil {
		return nil, classifyTxError(err)
	}
	return borrowing, nil
}

func (r *lendingRepository) Return(ctx context.Context, userID string, bookID int64, returnedAt time.Time) (*ReturnOutcome, error) {
	var outcome *ReturnOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.BookBorrowing
		if err := tx.
			Where("borrower_id = ? AND book_id = ? AND returned = ?", userID, bookID, false).
			Order("borrowed_date ASC, id ASC").
			First(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoOpenBorrowing
			}
			return fmt.Errorf("find open borrowing: %w", err)
		}

		res := tx.Model(&models.BookBorrowing{}).
			Where("id = ? AND returned = ?", b.ID, false).
			Updates(map[string]any{"returned": true, "return_date": returnedAt})
		if res.Error != nil {
			return fmt.Errorf("close borrowing: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// closed by a concurrent return between our read and write
			return ErrTxConflict
		}
		b.Returned = true
		b.ReturnDate = &returnedAt
		late := b.IsOverdue(returnedAt)

		ret := &models.BookReturn{
			BookID:      bookID,
			ReturnerID:  userID,
			BorrowingID: b.ID,
			ReturnDate:  returnedAt,
			Returned:    true,
			Late:        late,
		}
		if err := tx.Create(ret).Error; err != nil {
			return fmt.Errorf("create return: %w", err)
		}

		inc := tx.Model(&models.Book{}).
			Where("id = ? AND available < quantity", bookID).
			Update("available", gorm.Expr("available + ?", 1))
		if inc.Error != nil {
			return fmt.Errorf("increment available: %w", inc.Error)
		}

		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return err
		}
		b.Book = &book

		outcome = &ReturnOutcome{
			Borrowing: &b,
			Book:      &book,
			Late:      late,
			Capped:    inc.RowsAffected == 0,
		}
		return nil
	})
	if err != nil {
		return nil, classifyTxError(err)
	}
	return outcome, nil
}

// Reserve records a reservation for a title that exists, has copies, and has
// none left to lend.
func (r *lendingRepository) Reserve(ctx context.Context, userID string, bookID int64, at time.Time) (*models.BookReservation, error) {
	var reservation *models.BookReservation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return err
		}
		if book.Available > 0 {
			return fmt.Errorf("%w: %d copies available", ErrReservationNotAllowed, book.Available)
		}
		if book.Quantity == 0 {
			return fmt.Errorf("%w: title has no copies", ErrReservationNotAllowed)
		}

		res := &models.BookReservation{
			BookID:          bookID,
			ReservationerID: userID,
			ReservationDate: at,
		}
		if err := tx.Omit("Book").Create(res).Error; err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}
		res.Book = &book
		reservation = res
		return nil
	})
	if err != nil {
		return nil, classifyTxError(err)
	}
	return reservation, nil
}

func (r *lendingRepository) CancelReservation(ctx context.Context, userID string, reservationID int64) error {
	res := r.db.WithContext(ctx).Model(&models.BookReservation{}).
		Where("id = ? AND reservationer_id = ? AND returned = ?", reservationID, userID, false).
		Update("returned", true)
	if res.Error != nil {
		return fmt.Errorf("cancel reservation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *lendingRepository) OpenByUser(ctx context.Context, userID string) ([]models.BookBorrowing, error) {
	var list []models.BookBorrowing
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("borrower_id = ? AND returned = ?", userID, false).
		Order("due_date ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list open borrowings: %w", err)
	}
	return list, nil
}

func (r *lendingRepository) HistoryByUser(ctx context.Context, userID string) ([]models.BookBorrowing, error) {
	var list []models.BookBorrowing
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("borrower_id = ?", userID).
		Order("borrowed_date DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list borrowing history: %w", err)
	}
	return list, nil
}

func (r *lendingRepository) ReservationsByUser(ctx context.Context, userID string, openOnly bool) ([]models.BookReservation, error) {
	q := r.db.WithContext(ctx).Preload("Book").Where("reservationer_id = ?", userID)
	if openOnly {
		q = q.Where("returned = ?", false)
	}

	var list []models.BookReservation
	if err := q.Order("reservation_date DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return list, nil
}

func (r *lendingRepository) DueBetween(ctx context.Context, from, to time.Time) ([]models.BookBorrowing, error) {
	var list []models.BookBorrowing
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("returned = ? AND due_date >= ? AND due_date <= ?", false, from, to).
		Order("due_date ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list borrowings due soon: %w", err)
	}
	return list, nil
}

func (r *lendingRepository) OverdueAt(ctx context.Context, now time.Time) ([]models.BookBorrowing, error) {
	var list []models.BookBorrowing
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("returned = ? AND due_date < ?", false, now).
		Order("due_date ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list overdue borrowings: %w", err)
	}
	return list, nil
}
