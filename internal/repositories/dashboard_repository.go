package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/models"
)

// DashboardRepository aggregates a channel owner's totals.
type DashboardRepository interface {
	ChannelStats(ctx context.Context, ownerID uuid.UUID) (*models.ChannelStats, error)
	ChannelVideos(ctx context.Context, ownerID uuid.UUID, opts models.ListOptions) (models.Page[models.VideoCard], error)
}

// GORMDashboardRepository is a GORM implementation of DashboardRepository.
type GORMDashboardRepository struct {
	db *gorm.DB
}

// NewGORMDashboardRepository creates a new instance of GORMDashboardRepository.
func NewGORMDashboardRepository(db *gorm.DB) *GORMDashboardRepository {
	return &GORMDashboardRepository{db: db}
}

// ChannelStats counts the owner's videos, views, video likes, comments and subscribers.
func (r *GORMDashboardRepository) ChannelStats(ctx context.Context, ownerID uuid.UUID) (*models.ChannelStats, error) {
	var stats models.ChannelStats
	err := r.db.WithContext(ctx).Raw(`SELECT
		(SELECT COUNT(*) FROM videos WHERE videos.owner_id = @owner) AS total_videos,
		(SELECT COALESCE(SUM(videos.views), 0) FROM videos WHERE videos.owner_id = @owner) AS total_views,
		(SELECT COUNT(*) FROM likes JOIN videos ON videos.id = likes.target_id
			WHERE likes.target_kind = 'video' AND videos.owner_id = @owner) AS total_video_likes,
		(SELECT COUNT(*) FROM comments JOIN videos ON videos.id = comments.video_id
			WHERE videos.owner_id = @owner) AS total_comments,
		(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.channel_id = @owner) AS total_subscribers`,
		map[string]interface{}{"owner": ownerID}).
		Scan(&stats).Error
	if err != nil {
		return nil, translate(err, "load channel stats")
	}
	return &stats, nil
}

// ChannelVideos lists every video of the owner, published or not, with counts.
func (r *GORMDashboardRepository) ChannelVideos(ctx context.Context, ownerID uuid.UUID, opts models.ListOptions) (models.Page[models.VideoCard], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Video{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return models.Page[models.VideoCard]{}, translate(err, "count channel videos")
	}

	var rows []VideoCardRow
	err := r.db.WithContext(ctx).Table("videos").
		Select(videoCardColumns).
		Joins(joinVideoOwner).
		Where("videos.owner_id = ?", ownerID).
		Scopes(orderBy(opts, videoSortFields, "videos.created_at"), paginate(opts)).
		Scan(&rows).Error
	if err != nil {
		return models.Page[models.VideoCard]{}, translate(err, "list channel videos")
	}

	cards := make([]models.VideoCard, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.card())
	}
	return models.NewPage(cards, opts, total), nil
}
