package service

import (
	"context"
	"time"

	"libmanage/internal/microservices/http-api/models"
	"libmanage/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/mock"
)

// MockLendingRepository mocks the LendingRepository interface
type MockLendingRepository struct {
	mock.Mock
}

func (m *MockLendingRepository) Borrow(ctx context.Context, userID string, bookID int64, borrowedAt, dueAt time.Time) (*models.BookBorrowing, error) {
	args := m.Called(ctx, userID, bookID, borrowedAt, dueAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookBorrowing), args.Error(1)
}

func (m *MockLendingRepository) Return(ctx context.Context, userID string, bookID int64, returnedAt time.Time) (*repository.ReturnOutcome, error) {
	args := m.Called(ctx, userID, bookID, returnedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ReturnOutcome), args.Error(1)
}

func (m *MockLendingRepository) Reserve(ctx context.Context, userID string, bookID int64, at time.Time) (*models.BookReservation, error) {
	args := m.Called(ctx, userID, bookID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookReservation), args.Error(1)
}

func (m *MockLendingRepository) CancelReservation(ctx context.Context, userID string, reservationID int64) error {
	args := m.Called(ctx, userID, reservationID)
	return args.Error(0)
}

func (m *MockLendingRepository) OpenByUser(ctx context.Context, userID string) ([]models.BookBorrowing, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.BookBorrowing), args.Error(1)
}

func (m *MockLendingRepository) HistoryByUser(ctx context.Context, userID string) ([]models.BookBorrowing, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.BookBorrowing), args.Error(1)
}

func (m *MockLendingRepository) ReservationsByUser(ctx context.Context, userID string, openOnly bool) ([]models.BookReservation, error) {
	args := m.Called(ctx, userID, openOnly)
	return args.Get(0).([]models.BookReservation), args.Error(1)
}

func (m *MockLendingRepository) DueBetween(ctx context.Context, from, to time.Time) ([]models.BookBorrowing, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]models.BookBorrowing), args.Error(1)
}

func (m *MockLendingRepository) OverdueAt(ctx context.Context, now time.Time) ([]models.BookBorrowing, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]models.BookBorrowing), args.Error(1)
}

// MockNotifier records notifications handed to it
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockDeduper struct {
	mock.Mock
}

func (m *MockDeduper) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, recipientID, unreadOnly, limit)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, recipientID string, notificationID int64) error {
	args := m.Called(ctx, recipientID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) Search(ctx context.Context, f repository.BookFilter) ([]models.Book, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) Create(ctx context.Context, b *models.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookRepository) Update(ctx context.Context, b *models.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) Ancestors(ctx context.Context, id int64) ([]models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Totals(ctx context.Context, now, recentSince time.Time) (*repository.LibraryTotals, error) {
	args := m.Called(ctx, now, recentSince)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.LibraryTotals), args.Error(1)
}

func (m *MockStatsRepository) TopBooks(ctx context.Context, limit int) ([]repository.BookBorrowCount, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]repository.BookBorrowCount), args.Error(1)
}

func (m *MockStatsRepository) TopCategories(ctx context.Context, limit int) ([]repository.CategoryBorrowCount, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]repository.CategoryBorrowCount), args.Error(1)
}

func (m *MockStatsRepository) TopReaders(ctx context.Context, limit int) ([]repository.ReaderBorrowCount, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]repository.ReaderBorrowCount), args.Error(1)
}

func (m *MockStatsRepository) CategoryStock(ctx context.Context) ([]repository.CategoryStock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CategoryStock), args.Error(1)
}

func (m *MockStatsRepository) ReaderCounters(ctx context.Context, userID string, now time.Time) (*repository.ReaderCounters, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ReaderCounters), args.Error(1)
}
