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

// VideoService handles video publishing, reads and owner mutations.
type VideoService struct {
	videoRepo repositories.VideoRepository
	userRepo  repositories.UserRepository
	media     MediaStore
	events    EventPublisher
	logger    *zap.Logger
}

// NewVideoService creates a new VideoService. events may be nil.
func NewVideoService(videoRepo repositories.VideoRepository, userRepo repositories.UserRepository, media MediaStore, events EventPublisher, logger *zap.Logger) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		userRepo:  userRepo,
		media:     media,
		events:    events,
		logger:    nopIfNil(logger),
	}
}

// PublishVideoInput carries a new video. File fields are local temp paths.
type PublishVideoInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

// UpdateVideoInput carries optional changes to a video.
type UpdateVideoInput struct {
	Title         *string
	Description   *string
	ThumbnailPath string
}

// Feed lists videos visible to viewer.
func (s *VideoService) Feed(ctx context.Context, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.VideoCard], error) {
	page, err := s.videoRepo.Feed(ctx, opts, viewer)
	if err != nil {
		return page, apierror.Internal(err)
	}
	return page, nil
}

// Publish uploads the video file and thumbnail and stores the new video.
func (s *VideoService) Publish(ctx context.Context, ownerID uuid.UUID, in PublishVideoInput) (*models.Video, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, apierror.BadRequest("Title and description are required")
	}
	if in.VideoPath == "" {
		return nil, apierror.BadRequest("Video file is required")
	}
	if in.ThumbnailPath == "" {
		return nil, apierror.BadRequest("Thumbnail is required")
	}

	videoAsset, thumbAsset, err := uploadPair(ctx, s.media, s.logger, in.VideoPath, in.ThumbnailPath)
	if err != nil {
		return nil, apierror.Upstream("Failed to upload video or thumbnail", err)
	}

	video := &models.Video{
		VideoFile:         videoAsset.URL,
		VideoFilePublicID: videoAsset.PublicID,
		Thumbnail:         thumbAsset.URL,
		ThumbnailPublicID: thumbAsset.PublicID,
		Title:             title,
		Description:       description,
		Duration:          videoAsset.Duration,
		IsPublished:       true,
		OwnerID:           ownerID,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		discardAssets(ctx, s.media, s.logger, videoAsset, thumbAsset)
		return nil, writeFailed(err, "Failed to save video")
	}

	s.logger.Info("video published", zap.String("video_id", video.ID.String()), zap.String("owner_id", ownerID.String()))
	publish(ctx, s.events, s.logger, EventVideoPublished, map[string]string{
		"videoId": video.ID.String(),
		"ownerId": ownerID.String(),
	})
	return video, nil
}

// Get returns the detail view of a video, counts the view and records it in the
// viewer's watch history. Unpublished videos are only visible to their owner.
func (s *VideoService) Get(ctx context.Context, id, viewer uuid.UUID) (*models.VideoDetail, error) {
	detail, err := s.videoRepo.Detail(ctx, id, viewer)
	if err != nil {
		return nil, readFailed(err, "Video not found")
	}
	if !detail.IsPublished && detail.Owner.ID != viewer {
		return nil, apierror.NotFound("Video not found")
	}

	if err := s.videoRepo.IncrementViews(ctx, id); err != nil {
		return nil, writeFailed(err, "Failed to count view")
	}
	detail.Views++

	if viewer != uuid.Nil {
		if err := s.userRepo.AppendWatchHistory(ctx, viewer, id); err != nil {
			return nil, writeFailed(err, "Failed to update watch history")
		}
	}
	return detail, nil
}

// Update changes title, description or thumbnail of an owned video.
func (s *VideoService) Update(ctx context.Context, id, callerID uuid.UUID, in UpdateVideoInput) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, readFailed(err, "Video not found")
	}
	if err := requireOwner(video.OwnerID, callerID, "update this video"); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apierror.BadRequest("Title cannot be empty")
		}
		fields["title"] = title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, apierror.BadRequest("Description cannot be empty")
		}
		fields["description"] = description
	}
	if len(fields) == 0 && in.ThumbnailPath == "" {
		return nil, apierror.BadRequest("Nothing to update")
	}

	var newThumbnailID string
	if in.ThumbnailPath != "" {
		asset, err := s.media.Upload(ctx, in.ThumbnailPath)
		if err != nil {
			return nil, apierror.Upstream("Failed to upload thumbnail", err)
		}
		fields["thumbnail"] = asset.URL
		fields["thumbnail_public_id"] = asset.PublicID
		newThumbnailID = asset.PublicID
	}

	if err := s.videoRepo.Update(ctx, id, fields); err != nil {
		if newThumbnailID != "" {
			discardPublicIDs(ctx, s.media, s.logger, newThumbnailID)
		}
		return nil, writeFailed(err, "Failed to update video")
	}
	if newThumbnailID != "" && video.ThumbnailPublicID != "" {
		discardPublicIDs(ctx, s.media, s.logger, video.ThumbnailPublicID)
	}

	updated, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, readFailed(err, "Video not found")
	}
	return updated, nil
}

// Delete removes an owned video and, best effort, its remote assets.
func (s *VideoService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return readFailed(err, "Video not found")
	}
	if err := requireOwner(video.OwnerID, callerID, "delete this video"); err != nil {
		return err
	}
	if err := s.videoRepo.Delete(ctx, id); err != nil {
		return writeFailed(err, "Failed to delete video")
	}

	discardPublicIDs(ctx, s.media, s.logger, video.VideoFilePublicID, video.ThumbnailPublicID)
	publish(ctx, s.events, s.logger, EventVideoDeleted, map[string]string{
		"videoId": id.String(),
		"ownerId": video.OwnerID.String(),
	})
	return nil
}

// TogglePublish flips the published flag of an owned video.
func (s *VideoService) TogglePublish(ctx context.Context, id, callerID uuid.UUID) (bool, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return false, readFailed(err, "Video not found")
	}
	if err := requireOwner(video.OwnerID, callerID, "change this video"); err != nil {
		return false, err
	}
	published, err := s.videoRepo.TogglePublish(ctx, id)
	if err != nil {
		return false, writeFailed(err, "Failed to toggle publish status")
	}
	return published, nil
}
