package service

import (
	"context"
	"log/slog"

	"libmanage/internal/microservices/http-api/models"
	"libmanage/internal/microservices/http-api/repository"
)

// Publisher pushes a committed notification to live subscribers.
type Publisher interface {
	Publish(ctx context.Context, n *models.Notification) error
}

type NotificationService interface {
	// Notify appends a notification and then publishes it best-effort.
	Notify(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, userID string, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
}

type notificationService struct {
	repo      repository.NotificationRepository
	publisher Publisher
	logger    *slog.Logger
}

// NewNotificationService wires the sink. publisher may be nil when no live
// push channel is configured.
func NewNotificationService(repo repository.NotificationRepository, publisher Publisher, logger *slog.Logger) NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &notificationService{repo: repo, publisher: publisher, logger: logger}
}

func (s *notificationService) Notify(ctx context.Context, n *models.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.logger.Warn("notification_publish_failed",
			"notification_id", n.ID,
			"recipient_id", n.RecipientID,
			"error", err)
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	list, err := s.repo.ListByRecipient(ctx, userID, unreadOnly, limit)
	return list, translate(err)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	return n, translate(err)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	return translate(s.repo.MarkAsRead(ctx, userID, notificationID))
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.MarkAllAsRead(ctx, userID)
	return n, translate(err)
}
