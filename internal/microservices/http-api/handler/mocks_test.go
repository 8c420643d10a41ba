package handler_test

import (
	"context"
	"time"

	"libmanage/internal/microservices/http-api/models"
	"libmanage/internal/microservices/http-api/repository"
	"libmanage/internal/microservices/http-api/service"

	"github.com/stretchr/testify/mock"
)

// --- CATALOG ---

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockCatalogService) SearchBooks(ctx context.Context, f repository.BookFilter) ([]models.Book, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogService) CreateBook(ctx context.Context, in service.BookInput) (*models.Book, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockCatalogService) UpdateBook(ctx context.Context, id int64, in service.BookInput) (*models.Book, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockCatalogService) DeleteBook(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, in service.CategoryInput) (*models.Category, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogService) UpdateCategory(ctx context.Context, id int64, in service.CategoryInput) (*models.Category, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) CategoryPath(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// --- LENDING ---

type MockLendingService struct {
	mock.Mock
}

func (m *MockLendingService) Borrow(ctx context.Context, userID string, bookID int64, loanDays int) (*models.BookBorrowing, error) {
	args := m.Called(ctx, userID, bookID, loanDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookBorrowing), args.Error(1)
}

func (m *MockLendingService) Return(ctx context.Context, userID string, bookID int64) (*models.BookBorrowing, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookBorrowing), args.Error(1)
}

func (m *MockLendingService) Reserve(ctx context.Context, userID string, bookID int64) (*models.BookReservation, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookReservation), args.Error(1)
}

func (m *MockLendingService) CancelReservation(ctx context.Context, userID string, reservationID int64) error {
	return m.Called(ctx, userID, reservationID).Error(0)
}

func (m *MockLendingService) ScanOverdue(ctx context.Context, now time.Time) (*service.ScanSummary, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScanSummary), args.Error(1)
}

func (m *MockLendingService) CurrentBorrowings(ctx context.Context, userID string) ([]models.BookBorrowing, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.BookBorrowing), args.Error(1)
}

func (m *MockLendingService) History(ctx context.Context, userID string) ([]models.BookBorrowing, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.BookBorrowing), args.Error(1)
}

func (m *MockLendingService) Reservations(ctx context.Context, userID string, openOnly bool) ([]models.BookReservation, error) {
	args := m.Called(ctx, userID, openOnly)
	return args.Get(0).([]models.BookReservation), args.Error(1)
}

// --- NOTIFICATIONS ---

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// --- STATS / PROFILE / COMMENTS ---

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Status(ctx context.Context) (*service.LibraryStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LibraryStatus), args.Error(1)
}

func (m *MockStatsService) ReaderSummary(ctx context.Context, userID string) (*repository.ReaderCounters, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ReaderCounters), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfileService) Save(ctx context.Context, userID string, in service.ProfileInput) (*models.UserProfile, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) AddComment(ctx context.Context, userID string, bookID int64, text string) (*models.BookComment, error) {
	args := m.Called(ctx, userID, bookID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookComment), args.Error(1)
}

func (m *MockCommentService) ListComments(ctx context.Context, bookID int64) ([]models.BookComment, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).([]models.BookComment), args.Error(1)
}

func (m *MockCommentService) Recommend(ctx context.Context, userID string, bookID int64, reason string) (*models.BookRecommendation, error) {
	args := m.Called(ctx, userID, bookID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookRecommendation), args.Error(1)
}

func (m *MockCommentService) ListRecommendations(ctx context.Context, bookID int64) ([]models.BookRecommendation, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookRecommendation), args.Error(1)
}
