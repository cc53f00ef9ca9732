package services

import (
	"context"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/interfaces"
	"cleanwave/internal/utils"
	"cleanwave/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserNotifier interface {
	SendUserNotification(email, notificationType string, data map[string]interface{})
}

type NotificationService interface {
	Notify(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, userEmail string, params *utils.PaginationParams) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, userEmail string) error
	MarkAllRead(ctx context.Context, userEmail string) error
	UnreadCount(ctx context.Context, userEmail string) (int64, error)
}

type notificationService struct {
	repo     interfaces.NotificationRepository
	notifier UserNotifier
	logger   *logger.Logger
}

func NewNotificationService(repo interfaces.NotificationRepository, notifier UserNotifier, logger *logger.Logger) NotificationService {
	return &notificationService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// Notify persists the record and delivers it live when the recipient
// is connected.
func (s *notificationService) Notify(ctx context.Context, notification *models.Notification) error {
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.SendUserNotification(notification.UserEmail, string(notification.Type), map[string]interface{}{
			"id":    notification.ID.Hex(),
			"title": notification.Title,
			"body":  notification.Body,
		})
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, userEmail string, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	return s.repo.ListByUser(ctx, userEmail, params)
}

func (s *notificationService) MarkRead(ctx context.Context, id primitive.ObjectID, userEmail string) error {
	return s.repo.MarkRead(ctx, id, userEmail)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userEmail string) error {
	return s.repo.MarkAllRead(ctx, userEmail)
}

func (s *notificationService) UnreadCount(ctx context.Context, userEmail string) (int64, error) {
	return s.repo.CountUnread(ctx, userEmail)
}
