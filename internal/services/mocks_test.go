package services_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"vidtube/internal/media"
	"vidtube/internal/models"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockUserRepository) RotateRefreshToken(ctx context.Context, id uuid.UUID, presented, next string) (bool, error) {
	args := m.Called(ctx, id, presented, next)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (*models.ChannelProfile, error) {
	args := m.Called(ctx, username, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelProfile), args.Error(1)
}

func (m *MockUserRepository) WatchHistory(ctx context.Context, userID uuid.UUID) ([]models.HistoryItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoryItem), args.Error(1)
}

func (m *MockUserRepository) AppendWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	args := m.Called(ctx, userID, videoID)
	return args.Error(0)
}

// MockVideoRepository is a mock implementation of repositories.VideoRepository
type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Create(ctx context.Context, video *models.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *MockVideoRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVideoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVideoRepository) TogglePublish(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockVideoRepository) Feed(ctx context.Context, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.VideoCard], error) {
	args := m.Called(ctx, opts, viewer)
	return args.Get(0).(models.Page[models.VideoCard]), args.Error(1)
}

func (m *MockVideoRepository) Detail(ctx context.Context, id, viewer uuid.UUID) (*models.VideoDetail, error) {
	args := m.Called(ctx, id, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VideoDetail), args.Error(1)
}

// MockCommentRepository is a mock implementation of repositories.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) ForVideo(ctx context.Context, videoID uuid.UUID, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.CommentView], error) {
	args := m.Called(ctx, videoID, opts, viewer)
	return args.Get(0).(models.Page[models.CommentView]), args.Error(1)
}

// MockTweetRepository is a mock implementation of repositories.TweetRepository
type MockTweetRepository struct {
	mock.Mock
}

func (m *MockTweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	args := m.Called(ctx, tweet)
	return args.Error(0)
}

func (m *MockTweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tweet), args.Error(1)
}

func (m *MockTweetRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *MockTweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTweetRepository) ForUser(ctx context.Context, userID uuid.UUID, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.TweetView], error) {
	args := m.Called(ctx, userID, opts, viewer)
	return args.Get(0).(models.Page[models.TweetView]), args.Error(1)
}

// MockLikeRepository is a mock implementation of repositories.LikeRepository
type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Toggle(ctx context.Context, kind models.LikeTarget, targetID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, kind, targetID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) LikedVideos(ctx context.Context, userID uuid.UUID, opts models.ListOptions) (models.Page[models.LikedVideo], error) {
	args := m.Called(ctx, userID, opts)
	return args.Get(0).(models.Page[models.LikedVideo]), args.Error(1)
}

// MockSubscriptionRepository is a mock implementation of repositories.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	args := m.Called(ctx, subscriberID, channelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) Subscribers(ctx context.Context, channelID uuid.UUID, opts models.ListOptions) (models.Page[models.SubscriptionView], error) {
	args := m.Called(ctx, channelID, opts)
	return args.Get(0).(models.Page[models.SubscriptionView]), args.Error(1)
}

func (m *MockSubscriptionRepository) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID, opts models.ListOptions) (models.Page[models.SubscriptionView], error) {
	args := m.Called(ctx, subscriberID, opts)
	return args.Get(0).(models.Page[models.SubscriptionView]), args.Error(1)
}

// MockPlaylistRepository is a mock implementation of repositories.PlaylistRepository
type MockPlaylistRepository struct {
	mock.Mock
}

func (m *MockPlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	args := m.Called(ctx, playlist)
	return args.Error(0)
}

func (m *MockPlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Playlist), args.Error(1)
}

func (m *MockPlaylistRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockPlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	args := m.Called(ctx, playlistID, videoID)
	return args.Error(0)
}

func (m *MockPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (int64, error) {
	args := m.Called(ctx, playlistID, videoID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlaylistRepository) ForUser(ctx context.Context, userID uuid.UUID, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.PlaylistView], error) {
	args := m.Called(ctx, userID, opts, viewer)
	return args.Get(0).(models.Page[models.PlaylistView]), args.Error(1)
}

func (m *MockPlaylistRepository) Detail(ctx context.Context, id, viewer uuid.UUID) (*models.PlaylistView, error) {
	args := m.Called(ctx, id, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlaylistView), args.Error(1)
}

// MockMediaStore is a mock implementation of services.MediaStore
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, localPath string) (*media.Asset, error) {
	args := m.Called(ctx, localPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.Asset), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, publicID string) (bool, error) {
	args := m.Called(ctx, publicID)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}
