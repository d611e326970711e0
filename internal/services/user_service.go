package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vidtube/internal/apierror"
	"vidtube/internal/models"
	"vidtube/internal/repositories"
)

// UserService handles account details, profile images and channel reads.
type UserService struct {
	userRepo repositories.UserRepository
	media    MediaStore
	logger   *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, media MediaStore, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		media:    media,
		logger:   nopIfNil(logger),
	}
}

// UpdateAccount changes the display name and email of a user.
func (s *UserService) UpdateAccount(ctx context.Context, userID uuid.UUID, fullName, email string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = models.NormalizeIdentity(email)
	if fullName == "" || email == "" {
		return nil, apierror.BadRequest("All fields are required")
	}

	err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"full_name": fullName,
		"email":     email,
	})
	if err != nil {
		return nil, writeFailed(err, "Failed to update account details")
	}
	return s.reload(ctx, userID)
}

// UpdateAvatar replaces the avatar and deletes the previous remote asset.
func (s *UserService) UpdateAvatar(ctx context.Context, user *models.User, localPath string) (*models.User, error) {
	if localPath == "" {
		return nil, apierror.BadRequest("Avatar file is missing")
	}
	return s.replaceImage(ctx, user, localPath, "avatar", "avatar_public_id", user.AvatarPublicID)
}

// UpdateCoverImage replaces the cover image and deletes the previous remote asset.
func (s *UserService) UpdateCoverImage(ctx context.Context, user *models.User, localPath string) (*models.User, error) {
	if localPath == "" {
		return nil, apierror.BadRequest("Cover image file is missing")
	}
	return s.replaceImage(ctx, user, localPath, "cover_image", "cover_image_public_id", user.CoverImagePublicID)
}

func (s *UserService) replaceImage(ctx context.Context, user *models.User, localPath, urlColumn, idColumn, oldPublicID string) (*models.User, error) {
	asset, err := s.media.Upload(ctx, localPath)
	if err != nil {
		return nil, apierror.Upstream("Error while uploading image", err)
	}

	err = s.userRepo.Update(ctx, user.ID, map[string]interface{}{
		urlColumn: asset.URL,
		idColumn:  asset.PublicID,
	})
	if err != nil {
		discardAssets(ctx, s.media, s.logger, asset)
		return nil, writeFailed(err, "Failed to update image")
	}
	if oldPublicID != "" {
		discardPublicIDs(ctx, s.media, s.logger, oldPublicID)
	}
	return s.reload(ctx, user.ID)
}

func (s *UserService) reload(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, readFailed(err, "User does not exist")
	}
	return user, nil
}

// ChannelProfile returns the public profile of username as seen by viewer.
func (s *UserService) ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (*models.ChannelProfile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apierror.BadRequest("Username is missing")
	}
	profile, err := s.userRepo.ChannelProfile(ctx, username, viewer)
	if err != nil {
		return nil, readFailed(err, "Channel does not exist")
	}
	return profile, nil
}

// WatchHistory returns the videos the user watched, oldest first.
func (s *UserService) WatchHistory(ctx context.Context, userID uuid.UUID) ([]models.HistoryItem, error) {
	items, err := s.userRepo.WatchHistory(ctx, userID)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	if items == nil {
		items = []models.HistoryItem{}
	}
	return items, nil
}
