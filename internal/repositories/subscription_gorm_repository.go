package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vidtube/internal/models"
)

// GORMSubscriptionRepository is a GORM implementation of SubscriptionRepository.
type GORMSubscriptionRepository struct {
	db *gorm.DB
}

// NewGORMSubscriptionRepository creates a new instance of GORMSubscriptionRepository.
func NewGORMSubscriptionRepository(db *gorm.DB) *GORMSubscriptionRepository {
	return &GORMSubscriptionRepository{db: db}
}

// Toggle subscribes subscriberID to channelID, or unsubscribes if already subscribed.
// It reports whether the subscription exists afterwards.
func (r *GORMSubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	res := db.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return false, translate(res.Error, "remove subscription")
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	sub := models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub).Error; err != nil {
		return false, translate(err, "add subscription")
	}
	return true, nil
}

type subscriptionRow struct {
	SubscribedAt     time.Time
	SubscribersCount int64
	OwnerRow
}

// Subscribers lists the users subscribed to channelID.
func (r *GORMSubscriptionRepository) Subscribers(ctx context.Context, channelID uuid.UUID, opts models.ListOptions) (models.Page[models.SubscriptionView], error) {
	return r.list(ctx, "channel_id", "subscriber_id", channelID, opts)
}

// SubscribedChannels lists the channels subscriberID is subscribed to.
func (r *GORMSubscriptionRepository) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID, opts models.ListOptions) (models.Page[models.SubscriptionView], error) {
	return r.list(ctx, "subscriber_id", "channel_id", subscriberID, opts)
}

// list filters subscriptions on matchColumn and projects the user referenced by profileColumn.
// Both column names are package constants, never caller input.
func (r *GORMSubscriptionRepository) list(ctx context.Context, matchColumn, profileColumn string, id uuid.UUID, opts models.ListOptions) (models.Page[models.SubscriptionView], error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).Where(matchColumn+" = ?", id).Count(&total).Error
	if err != nil {
		return models.Page[models.SubscriptionView]{}, translate(err, "count subscriptions")
	}

	var rows []subscriptionRow
	err = r.db.WithContext(ctx).Table("subscriptions").
		Select(`subscriptions.created_at AS subscribed_at, ` + ownerColumns + `,
			(SELECT COUNT(*) FROM subscriptions AS s2 WHERE s2.channel_id = users.id) AS subscribers_count`).
		Joins("JOIN users ON users.id = subscriptions." + profileColumn).
		Where("subscriptions."+matchColumn+" = ?", id).
		Order("subscriptions.created_at ASC").
		Scopes(paginate(opts)).
		Scan(&rows).Error
	if err != nil {
		return models.Page[models.SubscriptionView]{}, translate(err, "list subscriptions")
	}

	items := make([]models.SubscriptionView, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.SubscriptionView{
			SubscribedAt:     row.SubscribedAt,
			User:             row.profile(),
			SubscribersCount: row.SubscribersCount,
		})
	}
	return models.NewPage(items, opts, total), nil
}
