package services

import (
	"context"

	"github.com/google/uuid"

	"vidtube/internal/apierror"
	"vidtube/internal/models"
	"vidtube/internal/repositories"
)

// SubscriptionService toggles and lists channel subscriptions.
type SubscriptionService struct {
	subRepo  repositories.SubscriptionRepository
	userRepo repositories.UserRepository
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(subRepo repositories.SubscriptionRepository, userRepo repositories.UserRepository) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo, userRepo: userRepo}
}

// Toggle subscribes to or unsubscribes from an existing channel.
func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (*models.ToggleResult, error) {
	if subscriberID == channelID {
		return nil, apierror.BadRequest("You cannot subscribe to your own channel")
	}
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, readFailed(err, "Channel not found")
	}
	active, err := s.subRepo.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		return nil, writeFailed(err, "Failed to toggle subscription")
	}
	return &models.ToggleResult{Active: active}, nil
}

// Subscribers lists the subscribers of an existing channel.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID uuid.UUID, opts models.ListOptions) (models.Page[models.SubscriptionView], error) {
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return models.Page[models.SubscriptionView]{}, readFailed(err, "Channel not found")
	}
	page, err := s.subRepo.Subscribers(ctx, channelID, opts)
	if err != nil {
		return page, apierror.Internal(err)
	}
	return page, nil
}

// SubscribedChannels lists the channels an existing user is subscribed to.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID, opts models.ListOptions) (models.Page[models.SubscriptionView], error) {
	if _, err := s.userRepo.GetByID(ctx, subscriberID); err != nil {
		return models.Page[models.SubscriptionView]{}, readFailed(err, "Subscriber not found")
	}
	page, err := s.subRepo.SubscribedChannels(ctx, subscriberID, opts)
	if err != nil {
		return page, apierror.Internal(err)
	}
	return page, nil
}
