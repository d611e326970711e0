package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vidtube/internal/models"
)

// GORMLikeRepository is a GORM implementation of LikeRepository.
type GORMLikeRepository struct {
	db *gorm.DB
}

// NewGORMLikeRepository creates a new instance of GORMLikeRepository.
func NewGORMLikeRepository(db *gorm.DB) *GORMLikeRepository {
	return &GORMLikeRepository{db: db}
}

// Toggle removes the user's like on the target if present, otherwise adds it.
// It reports whether the like exists afterwards. Two concurrent first toggles both
// report true and leave exactly one row behind the unique index.
func (r *GORMLikeRepository) Toggle(ctx context.Context, kind models.LikeTarget, targetID, userID uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	res := db.Where("liked_by_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, translate(res.Error, "remove like")
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := models.Like{TargetKind: kind, TargetID: targetID, LikedByID: userID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
		return false, translate(err, "add like")
	}
	return true, nil
}

type likedVideoRow struct {
	LikedAt time.Time
	VideoCardRow
}

// LikedVideos lists the videos userID liked, most recent like first.
func (r *GORMLikeRepository) LikedVideos(ctx context.Context, userID uuid.UUID, opts models.ListOptions) (models.Page[models.LikedVideo], error) {
	filter := func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN videos ON videos.id = likes.target_id").
			Where("likes.target_kind = ? AND likes.liked_by_id = ?", models.LikeTargetVideo, userID).
			Where("(videos.is_published = ? OR videos.owner_id = ?)", true, userID)
	}

	var total int64
	if err := filter(r.db.WithContext(ctx).Table("likes")).Count(&total).Error; err != nil {
		return models.Page[models.LikedVideo]{}, translate(err, "count liked videos")
	}

	var rows []likedVideoRow
	err := filter(r.db.WithContext(ctx).Table("likes")).
		Select("likes.created_at AS liked_at, " + videoCardColumns).
		Joins(joinVideoOwner).
		Order("likes.created_at DESC").
		Scopes(paginate(opts)).
		Scan(&rows).Error
	if err != nil {
		return models.Page[models.LikedVideo]{}, translate(err, "list liked videos")
	}

	items := make([]models.LikedVideo, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.LikedVideo{LikedAt: row.LikedAt, Video: row.card()})
	}
	return models.NewPage(items, opts, total), nil
}
