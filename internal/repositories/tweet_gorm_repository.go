package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/models"
)

var tweetSortFields = sortField{
	"content":   "tweets.content",
	"createdAt": "tweets.created_at",
}

// GORMTweetRepository is a GORM implementation of TweetRepository.
type GORMTweetRepository struct {
	db *gorm.DB
}

// NewGORMTweetRepository creates a new instance of GORMTweetRepository.
func NewGORMTweetRepository(db *gorm.DB) *GORMTweetRepository {
	return &GORMTweetRepository{db: db}
}

// Create inserts a new tweet.
func (r *GORMTweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return translate(err, "failed to create tweet")
	}
	return nil
}

// GetByID finds a tweet by its ID.
func (r *GORMTweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.db.WithContext(ctx).First(&tweet, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("get tweet by ID %s", id))
	}
	return &tweet, nil
}

// UpdateContent replaces the text of a tweet.
func (r *GORMTweetRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	res := r.db.WithContext(ctx).Model(&models.Tweet{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return translate(res.Error, "update tweet")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, fmt.Sprintf("tweet with ID %s not found for update", id))
	}
	return nil
}

// Delete removes a tweet.
func (r *GORMTweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Tweet{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "failed to delete tweet")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, fmt.Sprintf("tweet with ID %s not found for deletion", id))
	}
	return nil
}

type tweetViewRow struct {
	ID         uuid.UUID
	Content    string
	CreatedAt  time.Time
	LikesCount int64
	IsLiked    bool
	OwnerRow
}

// ForUser lists the tweets of userID with like information for viewer.
func (r *GORMTweetRepository) ForUser(ctx context.Context, userID uuid.UUID, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.TweetView], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Tweet{}).Where("owner_id = ?", userID).Count(&total).Error; err != nil {
		return models.Page[models.TweetView]{}, translate(err, "count tweets")
	}

	var rows []tweetViewRow
	err := r.db.WithContext(ctx).Table("tweets").
		Select(`tweets.id, tweets.content, tweets.created_at, `+ownerColumns+`,
			(SELECT COUNT(*) FROM likes WHERE likes.target_kind = 'tweet' AND likes.target_id = tweets.id) AS likes_count,
			EXISTS (SELECT 1 FROM likes WHERE likes.target_kind = 'tweet' AND likes.target_id = tweets.id AND likes.liked_by_id = ?) AS is_liked`,
			viewer).
		Joins("JOIN users ON users.id = tweets.owner_id").
		Where("tweets.owner_id = ?", userID).
		Scopes(orderBy(opts, tweetSortFields, "tweets.created_at"), paginate(opts)).
		Scan(&rows).Error
	if err != nil {
		return models.Page[models.TweetView]{}, translate(err, "list tweets")
	}

	items := make([]models.TweetView, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.TweetView{
			ID:         row.ID,
			Content:    row.Content,
			CreatedAt:  row.CreatedAt,
			Owner:      row.profile(),
			LikesCount: row.LikesCount,
			IsLiked:    row.IsLiked,
		})
	}
	return models.NewPage(items, opts, total), nil
}
