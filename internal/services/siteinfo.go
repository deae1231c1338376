package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/verzia/verzia/internal/models"
	"github.com/verzia/verzia/internal/repository"
)

type SiteInfoService struct {
	siteInfoRepo *repository.SiteInfoRepository
	userRepo     *repository.UserRepository
}

func NewSiteInfoService(siteInfoRepo *repository.SiteInfoRepository, userRepo *repository.UserRepository) *SiteInfoService {
	return &SiteInfoService{siteInfoRepo: siteInfoRepo, userRepo: userRepo}
}

func (s *SiteInfoService) Get(ctx context.Context) (*models.SiteInfo, error) {
	info, err := s.siteInfoRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return &models.SiteInfo{}, nil
	}
	return info, nil
}

// Update is admin-only.
func (s *SiteInfoService) Update(ctx context.Context, actorID uuid.UUID, info *models.SiteInfo) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to get actor: %w", err)
	}
	if actor == nil {
		return ErrNotFound
	}
	if !actor.IsAdmin {
		return ErrForbidden
	}
	return s.siteInfoRepo.Upsert(ctx, info)
}
