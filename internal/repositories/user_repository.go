package repositories

import (
	"context"

	"github.com/google/uuid"

	"vidtube/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error
	RotateRefreshToken(ctx context.Context, id uuid.UUID, presented, next string) (bool, error)
	ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (*models.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID uuid.UUID) ([]models.HistoryItem, error)
	AppendWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error
}
