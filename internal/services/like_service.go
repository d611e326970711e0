package services

import (
	"context"

	"github.com/google/uuid"

	"vidtube/internal/apierror"
	"vidtube/internal/models"
	"vidtube/internal/repositories"
)

// LikeService toggles likes on videos, comments and tweets.
type LikeService struct {
	likeRepo    repositories.LikeRepository
	videoRepo   repositories.VideoRepository
	commentRepo repositories.CommentRepository
	tweetRepo   repositories.TweetRepository
}

// NewLikeService creates a new LikeService.
func NewLikeService(likeRepo repositories.LikeRepository, videoRepo repositories.VideoRepository, commentRepo repositories.CommentRepository, tweetRepo repositories.TweetRepository) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
	}
}

// Toggle likes or unlikes an existing target and reports the resulting state.
func (s *LikeService) Toggle(ctx context.Context, kind models.LikeTarget, targetID, userID uuid.UUID) (*models.ToggleResult, error) {
	if err := s.targetExists(ctx, kind, targetID, userID); err != nil {
		return nil, err
	}
	active, err := s.likeRepo.Toggle(ctx, kind, targetID, userID)
	if err != nil {
		return nil, writeFailed(err, "Failed to toggle like")
	}
	return &models.ToggleResult{Active: active}, nil
}

func (s *LikeService) targetExists(ctx context.Context, kind models.LikeTarget, id, userID uuid.UUID) error {
	var err error
	switch kind {
	case models.LikeTargetVideo:
		_, err = visibleVideo(ctx, s.videoRepo, id, userID)
		return err
	case models.LikeTargetComment:
		_, err = s.commentRepo.GetByID(ctx, id)
	case models.LikeTargetTweet:
		_, err = s.tweetRepo.GetByID(ctx, id)
	default:
		return apierror.BadRequest("Unknown like target")
	}
	if err != nil {
		return readFailed(err, "Target not found")
	}
	return nil
}

// LikedVideos lists the videos userID liked.
func (s *LikeService) LikedVideos(ctx context.Context, userID uuid.UUID, opts models.ListOptions) (models.Page[models.LikedVideo], error) {
	page, err := s.likeRepo.LikedVideos(ctx, userID, opts)
	if err != nil {
		return page, apierror.Internal(err)
	}
	return page, nil
}
