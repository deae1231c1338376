package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/verzia/verzia/internal/models"
	"github.com/verzia/verzia/internal/repository"
	"github.com/verzia/verzia/pkg/logger"
	"github.com/verzia/verzia/pkg/queue"
	"github.com/verzia/verzia/pkg/storage"
)

type PhotoService struct {
	photoRepo *repository.PhotoRepository
	userRepo  *repository.UserRepository
	store     storage.Store
	producer  *queue.KafkaProducer
	logger    *logger.Logger
}

func NewPhotoService(photoRepo *repository.PhotoRepository, userRepo *repository.UserRepository, store storage.Store, producer *queue.KafkaProducer, logger *logger.Logger) *PhotoService {
	return &PhotoService{
		photoRepo: photoRepo,
		userRepo:  userRepo,
		store:     store,
		producer:  producer,
		logger:    logger,
	}
}

// Upload hands the bytes to the media store and records only the opaque
// reference it returns.
func (s *PhotoService) Upload(ctx context.Context, ownerID uuid.UUID, data []byte, originalName, title, caption string) (*models.Photo, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	if owner == nil {
		return nil, ErrNotFound
	}

	filename, err := s.store.Save(data, originalName)
	if err != nil {
		return nil, err
	}

	photo := &models.Photo{
		OwnerID:  ownerID,
		Filename: filename,
		Title:    title,
		Caption:  caption,
	}

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		// Keep the store consistent with the row that never landed.
		if removeErr := s.store.Remove(filename); removeErr != nil {
			s.logger.WithError(removeErr).Error("Failed to remove orphaned media file")
		}
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}

	s.publish(ctx, ownerID.String(), queue.EventPhotoUploaded, map[string]interface{}{
		"photo_id": photo.ID,
		"owner_id": ownerID,
	})

	s.logger.WithFields(map[string]interface{}{
		"photo_id": photo.ID,
		"owner_id": ownerID,
	}).Info("Photo uploaded")
	return photo, nil
}

func (s *PhotoService) GetByID(ctx context.Context, photoID uuid.UUID) (*models.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	if photo == nil {
		return nil, ErrNotFound
	}
	return photo, nil
}

// Delete removes the photo with its comments and likes. Only the owner or
// an admin may delete.
func (s *PhotoService) Delete(ctx context.Context, actorID, photoID uuid.UUID) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("failed to get photo: %w", err)
	}
	if photo == nil {
		return ErrNotFound
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to get actor: %w", err)
	}
	if actor == nil {
		return ErrNotFound
	}

	if photo.OwnerID != actorID && !actor.IsAdmin {
		return ErrForbidden
	}

	if err := s.photoRepo.DeleteCascade(ctx, photoID); err != nil {
		return err
	}

	if err := s.store.Remove(photo.Filename); err != nil {
		s.logger.WithError(err).WithField("photo_id", photoID).Error("Failed to remove media files")
	}

	s.publish(ctx, actorID.String(), queue.EventPhotoDeleted, map[string]interface{}{
		"photo_id": photoID,
		"actor_id": actorID,
	})

	s.logger.WithFields(map[string]interface{}{
		"photo_id": photoID,
		"actor_id": actorID,
	}).Info("Photo deleted")
	return nil
}

func (s *PhotoService) ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*models.Photo, error) {
	return s.photoRepo.GetByOwnerID(ctx, ownerID, offset, limit)
}

// Feed lists photos of followed users newest first, straight off the
// follow join. No cache, no fan-out.
func (s *PhotoService) Feed(ctx context.Context, viewerID uuid.UUID, offset, limit int) ([]*models.Photo, error) {
	return s.photoRepo.FeedFor(ctx, viewerID, offset, limit)
}

func (s *PhotoService) publish(ctx context.Context, key string, eventType queue.EventType, data map[string]interface{}) {
	if s.producer == nil {
		return
	}
	event := queue.Event{Type: eventType, Timestamp: time.Now(), Data: data}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish activity event")
	}
}
