package repository

import (
	"context"
	"fmt"

	"github.com/verzia/verzia/internal/models"
	"gorm.io/gorm"
)

type SiteInfoRepository struct {
	db *gorm.DB
}

func NewSiteInfoRepository(db *gorm.DB) *SiteInfoRepository {
	return &SiteInfoRepository{db: db}
}

func (r *SiteInfoRepository) Get(ctx context.Context) (*models.SiteInfo, error) {
	var info models.SiteInfo
	if err := r.db.WithContext(ctx).First(&info).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get site info: %w", err)
	}
	return &info, nil
}

func (r *SiteInfoRepository) Upsert(ctx context.Context, info *models.SiteInfo) error {
	var existing models.SiteInfo
	err := r.db.WithContext(ctx).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		if err := r.db.WithContext(ctx).Create(info).Error; err != nil {
			return fmt.Errorf("failed to create site info: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load site info: %w", err)
	}

	info.ID = existing.ID
	if err := r.db.WithContext(ctx).Save(info).Error; err != nil {
		return fmt.Errorf("failed to update site info: %w", err)
	}
	return nil
}
