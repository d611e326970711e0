package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	user.Username = models.NormalizeIdentity(user.Username)
	user.Email = models.NormalizeIdentity(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("get user by ID %s", id))
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", models.NormalizeIdentity(username)).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("get user by username %s", username))
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", models.NormalizeIdentity(email)).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("get user by email %s", email))
	}
	return &user, nil
}

// GetByUsernameOrEmail retrieves the first user matching either identity.
func (r *GORMUserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", models.NormalizeIdentity(username), models.NormalizeIdentity(email)).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "get user by username or email")
	}
	return &user, nil
}

// Update sets the given columns on a user.
func (r *GORMUserRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if email, ok := fields["email"].(string); ok {
		fields["email"] = models.NormalizeIdentity(email)
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("update user %s", id))
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, fmt.Sprintf("user with ID %s not found for update", id))
	}
	return nil
}

// SetRefreshToken stores token as the user's only valid refresh token. nil revokes it.
func (r *GORMUserRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("refresh_token", token)
	if res.Error != nil {
		return translate(res.Error, "store refresh token")
	}
	return nil
}

// RotateRefreshToken replaces presented with next only if presented is still the stored token.
// It reports false when another request already rotated or revoked it.
func (r *GORMUserRepository) RotateRefreshToken(ctx context.Context, id uuid.UUID, presented, next string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", id, presented).
		Update("refresh_token", next)
	if res.Error != nil {
		return false, translate(res.Error, "rotate refresh token")
	}
	return res.RowsAffected == 1, nil
}

type channelRow struct {
	ID                        uuid.UUID
	Username                  string
	FullName                  string
	Email                     string
	Avatar                    string
	CoverImage                string
	SubscribersCount          int64
	ChannelsSubscribedToCount int64
	IsSubscribed              bool
}

// ChannelProfile builds the public channel view of username as seen by viewer.
func (r *GORMUserRepository) ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (*models.ChannelProfile, error) {
	var row channelRow
	res := r.db.WithContext(ctx).Table("users").
		Select(`users.id, users.username, users.full_name, users.email, users.avatar, users.cover_image,
			(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.channel_id = users.id) AS subscribers_count,
			(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.subscriber_id = users.id) AS channels_subscribed_to_count,
			EXISTS (SELECT 1 FROM subscriptions WHERE subscriptions.channel_id = users.id AND subscriptions.subscriber_id = ?) AS is_subscribed`,
			viewer).
		Where("users.username = ?", models.NormalizeIdentity(username)).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, translate(res.Error, "load channel profile")
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, fmt.Sprintf("channel %s", username))
	}
	return &models.ChannelProfile{
		ID:                        row.ID,
		Username:                  row.Username,
		FullName:                  row.FullName,
		Email:                     row.Email,
		Avatar:                    row.Avatar,
		CoverImage:                row.CoverImage,
		SubscribersCount:          row.SubscribersCount,
		ChannelsSubscribedToCount: row.ChannelsSubscribedToCount,
		IsSubscribed:              row.IsSubscribed,
	}, nil
}

type historyRow struct {
	ID          uuid.UUID
	VideoFile   string
	Thumbnail   string
	Title       string
	Description string
	Duration    float64
	Views       int64
	WatchedAt   time.Time
	OwnerRow
}

// WatchHistory lists the videos userID watched, oldest first.
func (r *GORMUserRepository) WatchHistory(ctx context.Context, userID uuid.UUID) ([]models.HistoryItem, error) {
	var rows []historyRow
	err := r.db.WithContext(ctx).Table("watch_history_entries").
		Select(`videos.id, videos.video_file, videos.thumbnail, videos.title, videos.description,
			videos.duration, videos.views, watch_history_entries.watched_at, `+ownerColumns).
		Joins("JOIN videos ON videos.id = watch_history_entries.video_id").
		Joins(joinVideoOwner).
		Where("watch_history_entries.user_id = ?", userID).
		Order("watch_history_entries.seq ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "load watch history")
	}

	items := make([]models.HistoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.HistoryItem{
			ID:          row.ID,
			VideoFile:   row.VideoFile,
			Thumbnail:   row.Thumbnail,
			Title:       row.Title,
			Description: row.Description,
			Duration:    row.Duration,
			Views:       row.Views,
			Owner:       row.profile(),
			WatchedAt:   row.WatchedAt,
		})
	}
	return items, nil
}

// AppendWatchHistory records that userID watched videoID.
func (r *GORMUserRepository) AppendWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	entry := models.WatchHistoryEntry{UserID: userID, VideoID: videoID, WatchedAt: time.Now()}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return translate(err, "append watch history")
	}
	return nil
}
