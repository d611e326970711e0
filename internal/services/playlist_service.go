package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"vidtube/internal/apierror"
	"vidtube/internal/models"
	"vidtube/internal/repositories"
)

// PlaylistService handles playlists and their ordered videos.
type PlaylistService struct {
	playlistRepo repositories.PlaylistRepository
	videoRepo    repositories.VideoRepository
	userRepo     repositories.UserRepository
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(playlistRepo repositories.PlaylistRepository, videoRepo repositories.VideoRepository, userRepo repositories.UserRepository) *PlaylistService {
	return &PlaylistService{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
		userRepo:     userRepo,
	}
}

// Create stores a playlist. Every initial video must be visible to the owner.
func (s *PlaylistService) Create(ctx context.Context, ownerID uuid.UUID, name, description string, videoIDs []uuid.UUID) (*models.PlaylistView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierror.BadRequest("Playlist name is required")
	}
	for _, id := range videoIDs {
		if _, err := visibleVideo(ctx, s.videoRepo, id, ownerID); err != nil {
			return nil, err
		}
	}

	playlist := &models.Playlist{
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		VideoIDs:    videoIDs,
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, writeFailed(err, "Failed to create playlist")
	}
	return s.Get(ctx, playlist.ID, ownerID)
}

// Get returns the detail view of a playlist as seen by viewer.
func (s *PlaylistService) Get(ctx context.Context, id, viewer uuid.UUID) (*models.PlaylistView, error) {
	view, err := s.playlistRepo.Detail(ctx, id, viewer)
	if err != nil {
		return nil, readFailed(err, "Playlist not found")
	}
	return view, nil
}

// ForUser lists the playlists of an existing user.
func (s *PlaylistService) ForUser(ctx context.Context, userID uuid.UUID, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.PlaylistView], error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return models.Page[models.PlaylistView]{}, readFailed(err, "User not found")
	}
	page, err := s.playlistRepo.ForUser(ctx, userID, opts, viewer)
	if err != nil {
		return page, apierror.Internal(err)
	}
	return page, nil
}

// Update renames or re-describes an owned playlist.
func (s *PlaylistService) Update(ctx context.Context, id, callerID uuid.UUID, name, description *string) (*models.PlaylistView, error) {
	if err := s.ownedPlaylist(ctx, id, callerID, "update this playlist"); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apierror.BadRequest("Playlist name cannot be empty")
		}
		fields["name"] = trimmed
	}
	if description != nil {
		fields["description"] = strings.TrimSpace(*description)
	}
	if len(fields) == 0 {
		return nil, apierror.BadRequest("Nothing to update")
	}

	if err := s.playlistRepo.Update(ctx, id, fields); err != nil {
		return nil, writeFailed(err, "Failed to update playlist")
	}
	return s.Get(ctx, id, callerID)
}

// Delete removes an owned playlist.
func (s *PlaylistService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	if err := s.ownedPlaylist(ctx, id, callerID, "delete this playlist"); err != nil {
		return err
	}
	if err := s.playlistRepo.Delete(ctx, id); err != nil {
		return writeFailed(err, "Failed to delete playlist")
	}
	return nil
}

// AddVideo appends a video the caller can see to an owned playlist.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, callerID uuid.UUID) (*models.PlaylistView, error) {
	if err := s.ownedPlaylist(ctx, playlistID, callerID, "change this playlist"); err != nil {
		return nil, err
	}
	if _, err := visibleVideo(ctx, s.videoRepo, videoID, callerID); err != nil {
		return nil, err
	}
	if err := s.playlistRepo.AddVideo(ctx, playlistID, videoID); err != nil {
		return nil, writeFailed(err, "Failed to add video to playlist")
	}
	return s.Get(ctx, playlistID, callerID)
}

// RemoveVideo removes every occurrence of a video from an owned playlist.
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, callerID uuid.UUID) (*models.PlaylistView, error) {
	if err := s.ownedPlaylist(ctx, playlistID, callerID, "change this playlist"); err != nil {
		return nil, err
	}
	if _, err := s.playlistRepo.RemoveVideo(ctx, playlistID, videoID); err != nil {
		return nil, writeFailed(err, "Failed to remove video from playlist")
	}
	return s.Get(ctx, playlistID, callerID)
}

func (s *PlaylistService) ownedPlaylist(ctx context.Context, id, callerID uuid.UUID, action string) error {
	playlist, err := s.playlistRepo.GetByID(ctx, id)
	if err != nil {
		return readFailed(err, "Playlist not found")
	}
	return requireOwner(playlist.OwnerID, callerID, action)
}
