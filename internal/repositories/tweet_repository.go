package repositories

import (
	"context"

	"github.com/google/uuid"

	"vidtube/internal/models"
)

// TweetRepository defines the interface for tweet data access.
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ForUser(ctx context.Context, userID uuid.UUID, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.TweetView], error)
}
