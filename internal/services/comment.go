package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/verzia/verzia/internal/models"
	"github.com/verzia/verzia/internal/repository"
	"github.com/verzia/verzia/pkg/logger"
	"github.com/verzia/verzia/pkg/queue"
	"gorm.io/gorm"
)

type CommentService struct {
	db          *gorm.DB
	commentRepo *repository.CommentRepository
	photoRepo   *repository.PhotoRepository
	userRepo    *repository.UserRepository
	producer    *queue.KafkaProducer
	logger      *logger.Logger

	previewLength int
}

func NewCommentService(db *gorm.DB, commentRepo *repository.CommentRepository, photoRepo *repository.PhotoRepository, userRepo *repository.UserRepository, producer *queue.KafkaProducer, logger *logger.Logger, previewLength int) *CommentService {
	if previewLength <= 0 {
		previewLength = 20
	}
	return &CommentService{
		db:            db,
		commentRepo:   commentRepo,
		photoRepo:     photoRepo,
		userRepo:      userRepo,
		producer:      producer,
		logger:        logger,
		previewLength: previewLength,
	}
}

// Add appends a comment; a comment by someone other than the photo owner
// writes the owner's notification, carrying a truncated body preview, in
// the same transaction.
func (s *CommentService) Add(ctx context.Context, actorID, photoID uuid.UUID, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}

	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	if photo == nil {
		return nil, ErrNotFound
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}
	if actor == nil {
		return nil, ErrNotFound
	}

	comment := &models.Comment{
		UserID:  actorID,
		PhotoID: photoID,
		Body:    body,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCommentRepository(tx).Create(ctx, comment); err != nil {
			return err
		}
		if photo.OwnerID == actorID {
			return nil
		}
		notification := &models.Notification{
			RecipientID:    photo.OwnerID,
			SenderUsername: actor.Username,
			Kind:           models.NotificationComment,
			PhotoID:        &photoID,
			Message:        fmt.Sprintf("%s commented: %s", actor.Username, s.preview(body)),
			CreatedAt:      time.Now(),
		}
		return repository.NewNotificationRepository(tx).Create(ctx, notification)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	s.publish(ctx, actorID.String(), queue.EventCommentCreated, map[string]interface{}{
		"comment_id": comment.ID,
		"photo_id":   photoID,
		"actor_id":   actorID,
	})

	s.logger.WithFields(map[string]interface{}{
		"comment_id": comment.ID,
		"photo_id":   photoID,
	}).Info("Comment added")
	return comment, nil
}

// Delete allows the comment author, the photo owner, or an admin.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to get comment: %w", err)
	}
	if comment == nil {
		return ErrNotFound
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to get actor: %w", err)
	}
	if actor == nil {
		return ErrNotFound
	}

	photo, err := s.photoRepo.GetByID(ctx, comment.PhotoID)
	if err != nil {
		return fmt.Errorf("failed to get photo: %w", err)
	}

	isOwner := photo != nil && photo.OwnerID == actorID
	if comment.UserID != actorID && !isOwner && !actor.IsAdmin {
		return ErrForbidden
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"comment_id": commentID,
		"actor_id":   actorID,
	}).Info("Comment deleted")
	return nil
}

// ListByPhoto returns the ledger oldest first.
func (s *CommentService) ListByPhoto(ctx context.Context, photoID uuid.UUID, offset, limit int) ([]*models.Comment, error) {
	return s.commentRepo.GetByPhotoID(ctx, photoID, offset, limit)
}

func (s *CommentService) preview(body string) string {
	runes := []rune(body)
	if len(runes) <= s.previewLength {
		return body
	}
	return string(runes[:s.previewLength]) + "..."
}

func (s *CommentService) publish(ctx context.Context, key string, eventType queue.EventType, data map[string]interface{}) {
	if s.producer == nil {
		return
	}
	event := queue.Event{Type: eventType, Timestamp: time.Now(), Data: data}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish activity event")
	}
}
