package repositories

import (
	"context"

	"github.com/google/uuid"

	"vidtube/internal/models"
)

// LikeRepository defines the interface for like data access.
type LikeRepository interface {
	Toggle(ctx context.Context, kind models.LikeTarget, targetID, userID uuid.UUID) (bool, error)
	LikedVideos(ctx context.Context, userID uuid.UUID, opts models.ListOptions) (models.Page[models.LikedVideo], error)
}
