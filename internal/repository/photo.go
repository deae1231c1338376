package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/verzia/verzia/internal/models"
	"gorm.io/gorm"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

func (r *PhotoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	var photo models.Photo
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		First(&photo, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &photo, nil
}

func (r *PhotoRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*models.Photo, error) {
	var photos []*models.Photo
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to get photos by owner: %w", err)
	}
	return photos, nil
}

// DeleteCascade removes the photo together with its comments and likes in
// one transaction so no orphan rows survive.
func (r *PhotoRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("photo_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("photo_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Photo{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// FeedFor lists photos uploaded by users the viewer follows, newest first.
func (r *PhotoRepository) FeedFor(ctx context.Context, viewerID uuid.UUID, offset, limit int) ([]*models.Photo, error) {
	var photos []*models.Photo
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id IN (?)",
			r.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", viewerID),
		).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to build feed: %w", err)
	}
	return photos, nil
}

func (r *PhotoRepository) CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Photo{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return count, nil
}
