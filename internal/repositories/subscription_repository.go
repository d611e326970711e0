package repositories

import (
	"context"

	"github.com/google/uuid"

	"vidtube/internal/models"
)

// SubscriptionRepository defines the interface for subscription data access.
type SubscriptionRepository interface {
	Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
	Subscribers(ctx context.Context, channelID uuid.UUID, opts models.ListOptions) (models.Page[models.SubscriptionView], error)
	SubscribedChannels(ctx context.Context, subscriberID uuid.UUID, opts models.ListOptions) (models.Page[models.SubscriptionView], error)
}
