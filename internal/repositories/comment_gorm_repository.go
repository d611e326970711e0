package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/models"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{db: db}
}

// Create inserts a new comment.
func (r *GORMCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return translate(err, "failed to create comment")
	}
	return nil
}

// GetByID finds a comment by its ID.
func (r *GORMCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("get comment by ID %s", id))
	}
	return &comment, nil
}

// UpdateContent replaces the text of a comment.
func (r *GORMCommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return translate(res.Error, "update comment")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, fmt.Sprintf("comment with ID %s not found for update", id))
	}
	return nil
}

// Delete removes a comment.
func (r *GORMCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "failed to delete comment")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, fmt.Sprintf("comment with ID %s not found for deletion", id))
	}
	return nil
}

type commentViewRow struct {
	ID         uuid.UUID
	Content    string
	VideoID    uuid.UUID
	CreatedAt  time.Time
	LikesCount int64
	IsLiked    bool
	OwnerRow
}

// ForVideo lists the comments of a video, oldest first.
func (r *GORMCommentRepository) ForVideo(ctx context.Context, videoID uuid.UUID, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.CommentView], error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("video_id = ?", videoID).Count(&total).Error
	if err != nil {
		return models.Page[models.CommentView]{}, translate(err, "count comments")
	}

	var rows []commentViewRow
	err = r.db.WithContext(ctx).Table("comments").
		Select(`comments.id, comments.content, comments.video_id, comments.created_at, `+ownerColumns+`,
			(SELECT COUNT(*) FROM likes WHERE likes.target_kind = 'comment' AND likes.target_id = comments.id) AS likes_count,
			EXISTS (SELECT 1 FROM likes WHERE likes.target_kind = 'comment' AND likes.target_id = comments.id AND likes.liked_by_id = ?) AS is_liked`,
			viewer).
		Joins("JOIN users ON users.id = comments.owner_id").
		Where("comments.video_id = ?", videoID).
		Order("comments.created_at ASC").
		Scopes(paginate(opts)).
		Scan(&rows).Error
	if err != nil {
		return models.Page[models.CommentView]{}, translate(err, "list comments")
	}

	items := make([]models.CommentView, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.CommentView{
			ID:         row.ID,
			Content:    row.Content,
			VideoID:    row.VideoID,
			CreatedAt:  row.CreatedAt,
			Owner:      row.profile(),
			LikesCount: row.LikesCount,
			IsLiked:    row.IsLiked,
		})
	}
	return models.NewPage(items, opts, total), nil
}
