package repositories

import (
	"context"

	"github.com/google/uuid"

	"vidtube/internal/models"
)

// PlaylistRepository defines the interface for playlist data access.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error
	RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (int64, error)
	ForUser(ctx context.Context, userID uuid.UUID, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.PlaylistView], error)
	Detail(ctx context.Context, id, viewer uuid.UUID) (*models.PlaylistView, error)
}
