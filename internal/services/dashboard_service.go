package services

import (
	"context"

	"github.com/google/uuid"

	"vidtube/internal/apierror"
	"vidtube/internal/models"
	"vidtube/internal/repositories"
)

// DashboardService serves a channel owner's own statistics.
type DashboardService struct {
	repo repositories.DashboardRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo repositories.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// Stats returns the channel totals of ownerID.
func (s *DashboardService) Stats(ctx context.Context, ownerID uuid.UUID) (*models.ChannelStats, error) {
	stats, err := s.repo.ChannelStats(ctx, ownerID)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	return stats, nil
}

// Videos lists every video of ownerID, drafts included.
func (s *DashboardService) Videos(ctx context.Context, ownerID uuid.UUID, opts models.ListOptions) (models.Page[models.VideoCard], error) {
	page, err := s.repo.ChannelVideos(ctx, ownerID, opts)
	if err != nil {
		return page, apierror.Internal(err)
	}
	return page, nil
}
