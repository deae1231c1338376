package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/verzia/verzia/internal/models"
	"github.com/verzia/verzia/internal/repository"
	"github.com/verzia/verzia/pkg/logger"
	"github.com/verzia/verzia/pkg/queue"
	"gorm.io/gorm"
)

type ToggleResult string

const (
	Liked   ToggleResult = "liked"
	Unliked ToggleResult = "unliked"
)

type LikeService struct {
	db        *gorm.DB
	likeRepo  *repository.LikeRepository
	photoRepo *repository.PhotoRepository
	userRepo  *repository.UserRepository
	producer  *queue.KafkaProducer
	logger    *logger.Logger
}

func NewLikeService(db *gorm.DB, likeRepo *repository.LikeRepository, photoRepo *repository.PhotoRepository, userRepo *repository.UserRepository, producer *queue.KafkaProducer, logger *logger.Logger) *LikeService {
	return &LikeService{
		db:        db,
		likeRepo:  likeRepo,
		photoRepo: photoRepo,
		userRepo:  userRepo,
		producer:  producer,
		logger:    logger,
	}
}

// Toggle flips the like state for (actor, photo) and returns the new state
// with the photo's like count. A like by someone other than the owner
// writes the owner's notification in the same transaction. A duplicate
// insert lost to a concurrent request is absorbed as a no-op.
func (s *LikeService) Toggle(ctx context.Context, actorID, photoID uuid.UUID) (ToggleResult, int64, error) {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return "", 0, fmt.Errorf("failed to get photo: %w", err)
	}
	if photo == nil {
		return "", 0, ErrNotFound
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return "", 0, fmt.Errorf("failed to get actor: %w", err)
	}
	if actor == nil {
		return "", 0, ErrNotFound
	}

	existing, err := s.likeRepo.Get(ctx, actorID, photoID)
	if err != nil {
		return "", 0, fmt.Errorf("failed to check like status: %w", err)
	}

	result := Liked
	if existing != nil {
		if _, err := s.likeRepo.Delete(ctx, actorID, photoID); err != nil {
			return "", 0, err
		}
		result = Unliked
	} else {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			like := &models.Like{UserID: actorID, PhotoID: photoID}
			if err := repository.NewLikeRepository(tx).Create(ctx, like); err != nil {
				return err
			}
			if photo.OwnerID == actorID {
				return nil
			}
			notification := &models.Notification{
				RecipientID:    photo.OwnerID,
				SenderUsername: actor.Username,
				Kind:           models.NotificationLike,
				PhotoID:        &photoID,
				Message:        fmt.Sprintf("%s liked your photo", actor.Username),
				CreatedAt:      time.Now(),
			}
			return repository.NewNotificationRepository(tx).Create(ctx, notification)
		})
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", 0, fmt.Errorf("failed to like photo: %w", err)
		}
	}

	count, err := s.likeRepo.CountByPhotoID(ctx, photoID)
	if err != nil {
		return "", 0, err
	}

	s.publish(ctx, actorID.String(), queue.EventLikeToggled, map[string]interface{}{
		"photo_id": photoID,
		"actor_id": actorID,
		"result":   result,
	})

	return result, count, nil
}

func (s *LikeService) Count(ctx context.Context, photoID uuid.UUID) (int64, error) {
	return s.likeRepo.CountByPhotoID(ctx, photoID)
}

func (s *LikeService) HasLiked(ctx context.Context, actorID, photoID uuid.UUID) (bool, error) {
	like, err := s.likeRepo.Get(ctx, actorID, photoID)
	if err != nil {
		return false, err
	}
	return like != nil, nil
}

func (s *LikeService) publish(ctx context.Context, key string, eventType queue.EventType, data map[string]interface{}) {
	if s.producer == nil {
		return
	}
	event := queue.Event{Type: eventType, Timestamp: time.Now(), Data: data}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish activity event")
	}
}
