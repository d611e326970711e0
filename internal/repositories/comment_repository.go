package repositories

import (
	"context"

	"github.com/google/uuid"

	"vidtube/internal/models"
)

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ForVideo(ctx context.Context, videoID uuid.UUID, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.CommentView], error)
}
