package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/models"
)

var videoSortFields = sortField{
	"title":       "videos.title",
	"description": "videos.description",
	"createdAt":   "videos.created_at",
	"views":       "videos.views",
	"duration":    "videos.duration",
}

const videoCardColumns = `videos.id, videos.video_file, videos.thumbnail, videos.title, videos.description,
	videos.duration, videos.views, videos.is_published, videos.created_at, ` + ownerColumns + `,
	(SELECT COUNT(*) FROM likes WHERE likes.target_kind = 'video' AND likes.target_id = videos.id) AS likes_count,
	(SELECT COUNT(*) FROM comments WHERE comments.video_id = videos.id) AS comments_count`

// VideoCardRow is the scan target of every video card query.
type VideoCardRow struct {
	ID            uuid.UUID
	VideoFile     string
	Thumbnail     string
	Title         string
	Description   string
	Duration      float64
	Views         int64
	IsPublished   bool
	CreatedAt     time.Time
	LikesCount    int64
	CommentsCount int64
	OwnerRow
}

func (row VideoCardRow) card() models.VideoCard {
	return models.VideoCard{
		ID:            row.ID,
		VideoFile:     row.VideoFile,
		Thumbnail:     row.Thumbnail,
		Title:         row.Title,
		Description:   row.Description,
		Duration:      row.Duration,
		Views:         row.Views,
		IsPublished:   row.IsPublished,
		CreatedAt:     row.CreatedAt,
		Owner:         row.profile(),
		LikesCount:    row.LikesCount,
		CommentsCount: row.CommentsCount,
	}
}

// GORMVideoRepository is a GORM implementation of VideoRepository.
type GORMVideoRepository struct {
	db *gorm.DB
}

// NewGORMVideoRepository creates a new instance of GORMVideoRepository.
func NewGORMVideoRepository(db *gorm.DB) *GORMVideoRepository {
	return &GORMVideoRepository{
		db: db,
	}
}

// Create creates a new video in the database.
func (r *GORMVideoRepository) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return translate(err, "failed to create video")
	}
	return nil
}

// GetByID retrieves a single video by its ID from the database.
func (r *GORMVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).First(&video, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("get video by ID %s", id))
	}
	return &video, nil
}

// Update sets the given columns on a video.
func (r *GORMVideoRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("update video %s", id))
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, fmt.Sprintf("video with ID %s not found for update", id))
	}
	return nil
}

// Delete deletes a video by its ID. Comments, likes and playlist entries are left in place.
func (r *GORMVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Video{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "failed to delete video")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, fmt.Sprintf("video with ID %s not found for deletion", id))
	}
	return nil
}

// IncrementViews adds one view in a single UPDATE so concurrent reads never lose a count.
func (r *GORMVideoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return translate(res.Error, "increment views")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, fmt.Sprintf("video %s", id))
	}
	return nil
}

// TogglePublish flips is_published and returns the new value.
func (r *GORMVideoRepository) TogglePublish(ctx context.Context, id uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Video{}).Where("id = ?", id).
		Update("is_published", gorm.Expr("NOT is_published"))
	if res.Error != nil {
		return false, translate(res.Error, "toggle publish status")
	}
	if res.RowsAffected == 0 {
		return false, translate(gorm.ErrRecordNotFound, fmt.Sprintf("video %s", id))
	}

	var video models.Video
	if err := db.Select("is_published").First(&video, "id = ?", id).Error; err != nil {
		return false, translate(err, "read publish status")
	}
	return video.IsPublished, nil
}

func feedFilter(opts models.ListOptions, viewer uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case opts.UserID == nil:
			db = db.Where("videos.is_published = ?", true)
		case viewer != uuid.Nil && *opts.UserID == viewer:
			db = db.Where("videos.owner_id = ?", viewer)
		default:
			db = db.Where("videos.is_published = ? AND videos.owner_id = ?", true, *opts.UserID)
		}
		return db.Scopes(containsAny(opts.Query, "videos.title", "videos.description"))
	}
}

// Feed lists published videos with owner profile, counts and comments. Viewers
// filtering by their own userId also see their drafts.
func (r *GORMVideoRepository) Feed(ctx context.Context, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.VideoCard], error) {
	var total int64
	if err := r.db.WithContext(ctx).Table("videos").Scopes(feedFilter(opts, viewer)).Count(&total).Error; err != nil {
		return models.Page[models.VideoCard]{}, translate(err, "count videos")
	}

	var rows []VideoCardRow
	err := r.db.WithContext(ctx).Table("videos").
		Select(videoCardColumns).
		Joins(joinVideoOwner).
		Scopes(feedFilter(opts, viewer), orderBy(opts, videoSortFields, "videos.created_at"), paginate(opts)).
		Scan(&rows).Error
	if err != nil {
		return models.Page[models.VideoCard]{}, translate(err, "list videos")
	}

	cards := make([]models.VideoCard, 0, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.card())
		ids = append(ids, row.ID)
	}

	comments, err := commentSnippets(ctx, r.db, ids)
	if err != nil {
		return models.Page[models.VideoCard]{}, err
	}
	for i := range cards {
		cards[i].Comments = comments[cards[i].ID]
	}
	return models.NewPage(cards, opts, total), nil
}

type videoDetailRow struct {
	VideoCardRow
	IsLiked          bool
	SubscribersCount int64
	IsSubscribed     bool
}

// Detail returns one video with the viewer's like and subscription flags.
func (r *GORMVideoRepository) Detail(ctx context.Context, id, viewer uuid.UUID) (*models.VideoDetail, error) {
	var row videoDetailRow
	res := r.db.WithContext(ctx).Table("videos").
		Select(videoCardColumns+`,
			EXISTS (SELECT 1 FROM likes WHERE likes.target_kind = 'video' AND likes.target_id = videos.id AND likes.liked_by_id = ?) AS is_liked,
			(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.channel_id = videos.owner_id) AS subscribers_count,
			EXISTS (SELECT 1 FROM subscriptions WHERE subscriptions.channel_id = videos.owner_id AND subscriptions.subscriber_id = ?) AS is_subscribed`,
			viewer, viewer).
		Joins(joinVideoOwner).
		Where("videos.id = ?", id).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, translate(res.Error, "load video detail")
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, fmt.Sprintf("video %s", id))
	}

	comments, err := commentSnippets(ctx, r.db, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	card := row.card()
	card.Comments = comments[id]
	return &models.VideoDetail{
		VideoCard:        card,
		IsLiked:          row.IsLiked,
		SubscribersCount: row.SubscribersCount,
		IsSubscribed:     row.IsSubscribed,
	}, nil
}

type commentSnippetRow struct {
	ID      uuid.UUID
	VideoID uuid.UUID
	Content string
}

// commentSnippets loads the comments of every video in ids, oldest first, keyed by video.
func commentSnippets(ctx context.Context, db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID][]models.CommentSnippet, error) {
	out := make(map[uuid.UUID][]models.CommentSnippet, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []commentSnippetRow
	err := db.WithContext(ctx).Table("comments").
		Select("comments.id, comments.video_id, comments.content").
		Where("comments.video_id IN ?", ids).
		Order("comments.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "load video comments")
	}
	for _, row := range rows {
		out[row.VideoID] = append(out[row.VideoID], models.CommentSnippet{ID: row.ID, Content: row.Content})
	}
	return out, nil
}
