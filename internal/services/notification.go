package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/verzia/verzia/internal/models"
	"github.com/verzia/verzia/internal/repository"
	"github.com/verzia/verzia/pkg/logger"
)

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	logger           *logger.Logger
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, logger *logger.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

func (s *NotificationService) ListRecent(ctx context.Context, recipientID uuid.UUID, limit int) ([]*models.Notification, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.notificationRepo.GetByRecipientID(ctx, recipientID, limit)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	marked, err := s.notificationRepo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	if marked > 0 {
		s.logger.WithFields(map[string]interface{}{
			"recipient_id": recipientID,
			"marked":       marked,
		}).Info("Notifications marked read")
	}
	return marked, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, recipientID)
}

// Delete allows only the recipient to remove a notification.
func (s *NotificationService) Delete(ctx context.Context, actorID, notificationID uuid.UUID) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if notification == nil {
		return ErrNotFound
	}
	if notification.RecipientID != actorID {
		return ErrForbidden
	}
	return s.notificationRepo.Delete(ctx, notificationID)
}
