package repositories

import (
	"context"

	"github.com/google/uuid"

	"vidtube/internal/models"
)

// VideoRepository defines the interface for video data access and read models.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	TogglePublish(ctx context.Context, id uuid.UUID) (bool, error)
	Feed(ctx context.Context, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.VideoCard], error)
	Detail(ctx context.Context, id, viewer uuid.UUID) (*models.VideoDetail, error)
}
