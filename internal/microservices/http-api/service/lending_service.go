package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"libmanage/internal/microservices/http-api/models"
	"libmanage/internal/microservices/http-api/repository"
)

const dateLayout = "2006-01-02"

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

// LendingConfig holds the lending policy knobs.
type LendingConfig struct {
	DefaultLoanDays int
	// ReminderWindow is how far ahead of the due date ScanOverdue starts reminding.
	ReminderWindow time.Duration
	// MaxAttempts bounds how often a conflicting transaction is run.
	MaxAttempts int
	// DedupReminders suppresses repeat scan notifications for the same
	// borrowing, kind and day.
	DedupReminders bool
	DedupTTL       time.Duration
}

func DefaultLendingConfig() LendingConfig {
	return LendingConfig{
		DefaultLoanDays: 30,
		ReminderWindow:  72 * time.Hour,
		MaxAttempts:     3,
		DedupTTL:        24 * time.Hour,
	}
}

// Notifier records a notification for a user.
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

// ReminderDeduper remembers which scan notifications were already sent.
type ReminderDeduper interface {
	// Claim returns true the first time key is seen within ttl.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// ScanSummary reports what one ScanOverdue pass emitted.
type ScanSummary struct {
	Reminders  int `json:"reminders"`
	Overdue    int `json:"overdue"`
	Suppressed int `json:"suppressed"`
	Failed     int `json:"failed"`
}

type LendingService interface {
	Borrow(ctx context.Context, userID string, bookID int64, loanDays int) (*models.BookBorrowing, error)
	Return(ctx context.Context, userID string, bookID int64) (*models.BookBorrowing, error)
	Reserve(ctx context.Context, userID string, bookID int64) (*models.BookReservation, error)
	CancelReservation(ctx context.Context, userID string, reservationID int64) error
	ScanOverdue(ctx context.Context, now time.Time) (*ScanSummary, error)

	CurrentBorrowings(ctx context.Context, userID string) ([]models.BookBorrowing, error)
	History(ctx context.Context, userID string) ([]models.BookBorrowing, error)
	Reservations(ctx context.Context, userID string, openOnly bool) ([]models.BookReservation, error)
}

type LendingOption func(*lendingService)

func WithClock(c Clock) LendingOption {
	return func(s *lendingService) { s.now = c }
}

func WithDeduper(d ReminderDeduper) LendingOption {
	return func(s *lendingService) { s.deduper = d }
}

type lendingService struct {
	repo     repository.LendingRepository
	notifier Notifier
	deduper  ReminderDeduper
	cfg      LendingConfig
	now      Clock
	logger   *slog.Logger
}

func NewLendingService(repo repository.LendingRepository, notifier Notifier, cfg LendingConfig, logger *slog.Logger, opts ...LendingOption) LendingService {
	if cfg.DefaultLoanDays <= 0 {
		cfg.DefaultLoanDays = 30
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &lendingService{
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Borrow lends one copy for loanDays days; loanDays <= 0 means the default period.
func (s *lendingService) Borrow(ctx context.Context, userID string, bookID int64, loanDays int) (*models.BookBorrowing, error) {
	if loanDays <= 0 {
		loanDays = s.cfg.DefaultLoanDays
	}

	var borrowing *models.BookBorrowing
	err := s.withRetry(ctx, "borrow", func() error {
		now := s.now()
		var err error
		borrowing, err = s.repo.Borrow(ctx, userID, bookID, now, now.AddDate(0, 0, loanDays))
		return err
	})
	if err != nil {
		return nil, translate(err)
	}

	s.logger.Info("borrow_committed",
		"user_id", userID,
		"book_id", bookID,
		"borrowing_id", borrowing.ID,
		"due_date", *borrowing.DueDate)

	s.emit(ctx, &models.Notification{
		RecipientID:   userID,
		Type:          models.NotificationBorrow,
		Title:         "Book borrowed",
		Message:       fmt.Sprintf("You borrowed %q. Please return it by %s.", bookTitle(borrowing.Book), borrowing.DueDate.Format(dateLayout)),
		RelatedBookID: &bookID,
	})
	return borrowing, nil
}

// Return closes the caller's oldest open borrowing of the book. A late return
// produces an overdue notification instead of a return notification.
func (s *lendingService) Return(ctx context.Context, userID string, bookID int64) (*models.BookBorrowing, error) {
	var outcome *repository.ReturnOutcome
	err := s.withRetry(ctx, "return", func() error {
		var err error
		outcome, err = s.repo.Return(ctx, userID, bookID, s.now())
		return err
	})
	if err != nil {
		return nil, translate(err)
	}

	if outcome.Capped {
		s.logger.Warn("return_available_capped", "book_id", bookID, "quantity", outcome.Book.Quantity)
	}
	s.logger.Info("return_committed",
		"user_id", userID,
		"book_id", bookID,
		"borrowing_id", outcome.Borrowing.ID,
		"late", outcome.Late)

	title := bookTitle(outcome.Book)
	n := &models.Notification{
		RecipientID:   userID,
		Type:          models.NotificationReturn,
		Title:         "Book returned",
		Message:       fmt.Sprintf("Thank you for returning %q.", title),
		RelatedBookID: &bookID,
	}
	if outcome.Late {
		n.Type = models.NotificationOverdue
		n.Title = "Book returned late"
		n.Message = fmt.Sprintf("%q was returned after its due date of %s.", title, outcome.Borrowing.DueDate.Format(dateLayout))
	}
	s.emit(ctx, n)

	return outcome.Borrowing, nil
}

// Reserve queues the caller for a title whose copies are all on loan.
func (s *lendingService) Reserve(ctx context.Context, userID string, bookID int64) (*models.BookReservation, error) {
	var reservation *models.BookReservation
	err := s.withRetry(ctx, "reserve", func() error {
		var err error
		reservation, err = s.repo.Reserve(ctx, userID, bookID, s.now())
		return err
	})
	if err != nil {
		return nil, translate(err)
	}

	s.logger.Info("reserve_committed", "user_id", userID, "book_id", bookID, "reservation_id", reservation.ID)

	s.emit(ctx, &models.Notification{
		RecipientID:   userID,
		Type:          models.NotificationReserve,
		Title:         "Reservation confirmed",
		Message:       fmt.Sprintf("You reserved %q.", bookTitle(reservation.Book)),
		RelatedBookID: &bookID,
	})
	return reservation, nil
}

func (s *lendingService) CancelReservation(ctx context.Context, userID string, reservationID int64) error {
	if err := s.repo.CancelReservation(ctx, userID, reservationID); err != nil {
		return translate(err)
	}
	s.logger.Info("reservation_cancelled", "user_id", userID, "reservation_id", reservationID)
	return nil
}

// ScanOverdue reminds borrowers whose due date falls within the reminder
// window and warns those already past it. Without deduplication every call
// re-emits for every matching borrowing.
func (s *lendingService) ScanOverdue(ctx context.Context, now time.Time) (*ScanSummary, error) {
	// sqlite compares timestamps as text, so every bound must share one zone.
	now = now.UTC()
	dueSoon, err := s.repo.DueBetween(ctx, now, now.Add(s.cfg.ReminderWindow))
	if err != nil {
		return nil, translate(err)
	}
	overdue, err := s.repo.OverdueAt(ctx, now)
	if err != nil {
		return nil, translate(err)
	}

	summary := &ScanSummary{}
	for i := range dueSoon {
		b := &dueSoon[i]
		n := &models.Notification{
			RecipientID:   b.BorrowerID,
			Type:          models.NotificationOverdue,
			Title:         "Book due soon",
			Message:       fmt.Sprintf("%q is due on %s. Please return it on time.", bookTitle(b.Book), b.DueDate.Format(dateLayout)),
			RelatedBookID: &b.BookID,
		}
		s.scanEmit(ctx, summary, b, "reminder", now, n, &summary.Reminders)
	}
	for i := range overdue {
		b := &overdue[i]
		n := &models.Notification{
			RecipientID:   b.BorrowerID,
			Type:          models.NotificationOverdue,
			Title:         "Book overdue",
			Message:       fmt.Sprintf("%q is overdue. Please return it as soon as possible.", bookTitle(b.Book)),
			RelatedBookID: &b.BookID,
		}
		s.scanEmit(ctx, summary, b, "overdue", now, n, &summary.Overdue)
	}

	s.logger.Info("overdue_scan_completed",
		"reminders", summary.Reminders,
		"overdue", summary.Overdue,
		"suppressed", summary.Suppressed,
		"failed", summary.Failed,
		"dedup", s.dedupEnabled())
	return summary, nil
}

func (s *lendingService) scanEmit(ctx context.Context, summary *ScanSummary, b *models.BookBorrowing, kind string, now time.Time, n *models.Notification, counter *int) {
	if s.dedupEnabled() {
		key := ReminderKey(b.ID, kind, now)
		first, err := s.deduper.Claim(ctx, key, s.cfg.DedupTTL)
		switch {
		case err != nil:
			// fail open
			s.logger.Warn("reminder_dedup_failed", "key", key, "error", err)
		case !first:
			summary.Suppressed++
			return
		}
	}

	if err := s.notifier.Notify(ctx, n); err != nil {
		summary.Failed++
		s.logger.Error("scan_notification_failed", "borrowing_id", b.ID, "kind", kind, "error", err)
		return
	}
	*counter++
}

func (s *lendingService) dedupEnabled() bool {
	return s.cfg.DedupReminders && s.deduper != nil
}

// ReminderKey identifies one scan notification for dedup purposes.
func ReminderKey(borrowingID int64, kind string, now time.Time) string {
	return fmt.Sprintf("reminder:%d:%s:%s", borrowingID, kind, now.UTC().Format(dateLayout))
}

func (s *lendingService) CurrentBorrowings(ctx context.Context, userID string) ([]models.BookBorrowing, error) {
	list, err := s.repo.OpenByUser(ctx, userID)
	return list, translate(err)
}

func (s *lendingService) History(ctx context.Context, userID string) ([]models.BookBorrowing, error) {
	list, err := s.repo.HistoryByUser(ctx, userID)
	return list, translate(err)
}

func (s *lendingService) Reservations(ctx context.Context, userID string, openOnly bool) ([]models.BookReservation, error) {
	list, err := s.repo.ReservationsByUser(ctx, userID, openOnly)
	return list, translate(err)
}

// withRetry runs fn until it stops reporting a transaction conflict or the
// attempt budget is spent.
func (s *lendingService) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, repository.ErrTxConflict) {
			return err
		}
		s.logger.Warn("lending_tx_conflict", "op", op, "attempt", attempt, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}

// emit records a notification after the ledger change committed. Failures
// are logged and never undo the ledger change.
func (s *lendingService) emit(ctx context.Context, n *models.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Error("notification_failed",
			"recipient_id", n.RecipientID,
			"type", n.Type,
			"error", err)
	}
}

func bookTitle(b *models.Book) string {
	if b == nil {
		return "the book"
	}
	return b.Title
}
