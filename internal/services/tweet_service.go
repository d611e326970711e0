package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"vidtube/internal/apierror"
	"vidtube/internal/models"
	"vidtube/internal/repositories"
)

// TweetService handles short text posts.
type TweetService struct {
	tweetRepo repositories.TweetRepository
	userRepo  repositories.UserRepository
}

// NewTweetService creates a new TweetService.
func NewTweetService(tweetRepo repositories.TweetRepository, userRepo repositories.UserRepository) *TweetService {
	return &TweetService{tweetRepo: tweetRepo, userRepo: userRepo}
}

// Create posts a tweet for ownerID.
func (s *TweetService) Create(ctx context.Context, ownerID uuid.UUID, content string) (*models.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apierror.BadRequest("Content is required")
	}
	tweet := &models.Tweet{Content: content, OwnerID: ownerID}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, writeFailed(err, "Failed to create tweet")
	}
	return tweet, nil
}

// ForUser lists the tweets of an existing user with like state for viewer.
func (s *TweetService) ForUser(ctx context.Context, userID uuid.UUID, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.TweetView], error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return models.Page[models.TweetView]{}, readFailed(err, "User not found")
	}
	page, err := s.tweetRepo.ForUser(ctx, userID, opts, viewer)
	if err != nil {
		return page, apierror.Internal(err)
	}
	return page, nil
}

// Update changes the content of an owned tweet.
func (s *TweetService) Update(ctx context.Context, id, callerID uuid.UUID, content string) (*models.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apierror.BadRequest("Content is required")
	}
	tweet, err := s.tweetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, readFailed(err, "Tweet not found")
	}
	if err := requireOwner(tweet.OwnerID, callerID, "edit this tweet"); err != nil {
		return nil, err
	}
	if err := s.tweetRepo.UpdateContent(ctx, id, content); err != nil {
		return nil, writeFailed(err, "Failed to update tweet")
	}
	tweet.Content = content
	return tweet, nil
}

// Delete removes an owned tweet.
func (s *TweetService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	tweet, err := s.tweetRepo.GetByID(ctx, id)
	if err != nil {
		return readFailed(err, "Tweet not found")
	}
	if err := requireOwner(tweet.OwnerID, callerID, "delete this tweet"); err != nil {
		return err
	}
	if err := s.tweetRepo.Delete(ctx, id); err != nil {
		return writeFailed(err, "Failed to delete tweet")
	}
	return nil
}
