package models

import (
	"time"

	"github.com/google/uuid"
)

// OwnerProfile is the only projection of a user that is ever embedded in another view.
type OwnerProfile struct {
	ID       uuid.UUID `json:"_id"`
	Username string    `json:"username"`
	FullName string    `json:"fullname"`
	Avatar   string    `json:"avatar"`
}

// CommentSnippet is the slim comment shape joined into video views.
type CommentSnippet struct {
	ID      uuid.UUID `json:"_id"`
	Content string    `json:"content"`
}

// VideoCard is a feed entry: video fields, flattened owner, derived counts and joined comments.
type VideoCard struct {
	ID            uuid.UUID        `json:"_id"`
	VideoFile     string           `json:"videoFile"`
	Thumbnail     string           `json:"thumbnail"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Duration      float64          `json:"duration"`
	Views         int64            `json:"views"`
	IsPublished   bool             `json:"isPublished"`
	CreatedAt     time.Time        `json:"createdAt"`
	Owner         OwnerProfile     `json:"owner"`
	LikesCount    int64            `json:"likesCount"`
	CommentsCount int64            `json:"commentsCount"`
	Comments      []CommentSnippet `json:"comments,omitempty"`
}

// VideoDetail is the single-video read model.
type VideoDetail struct {
	VideoCard
	IsLiked          bool  `json:"isLiked"`
	SubscribersCount int64 `json:"subscribersCount"`
	IsSubscribed     bool  `json:"isSubscribed"`
}

// ChannelProfile is the public profile of a user as a channel.
type ChannelProfile struct {
	ID                        uuid.UUID `json:"_id"`
	Username                  string    `json:"username"`
	FullName                  string    `json:"fullname"`
	Email                     string    `json:"email"`
	Avatar                    string    `json:"avatar"`
	CoverImage                string    `json:"coverImage"`
	SubscribersCount          int64     `json:"subscribersCount"`
	ChannelsSubscribedToCount int64     `json:"channelsSubscribedToCount"`
	IsSubscribed              bool      `json:"isSubscribed"`
}

// HistoryItem is a watched video with its owner flattened.
type HistoryItem struct {
	ID          uuid.UUID    `json:"_id"`
	VideoFile   string       `json:"videoFile"`
	Thumbnail   string       `json:"thumbnail"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Duration    float64      `json:"duration"`
	Views       int64        `json:"views"`
	Owner       OwnerProfile `json:"owner"`
	WatchedAt   time.Time    `json:"watchedAt"`
}

// CommentView is a comment with its author and like information.
type CommentView struct {
	ID         uuid.UUID    `json:"_id"`
	Content    string       `json:"content"`
	VideoID    uuid.UUID    `json:"video"`
	CreatedAt  time.Time    `json:"createdAt"`
	Owner      OwnerProfile `json:"owner"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
}

// TweetView is a tweet with its author and like information.
type TweetView struct {
	ID         uuid.UUID    `json:"_id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	Owner      OwnerProfile `json:"owner"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
}

// LikedVideo is an entry of a user's liked-videos list.
type LikedVideo struct {
	LikedAt time.Time `json:"likedAt"`
	Video   VideoCard `json:"video"`
}

// SubscriptionView is one side of a subscription relation projected as a profile.
type SubscriptionView struct {
	SubscribedAt     time.Time    `json:"subscribedAt"`
	User             OwnerProfile `json:"user"`
	SubscribersCount int64        `json:"subscribersCount"`
}

// PlaylistVideoView is a video as listed inside a playlist.
type PlaylistVideoView struct {
	ID          uuid.UUID `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
}

// PlaylistView is a playlist with its owner and ordered videos.
type PlaylistView struct {
	ID          uuid.UUID           `json:"_id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Owner       OwnerProfile        `json:"owner"`
	Videos      []PlaylistVideoView `json:"videos"`
	VideosCount int64               `json:"videosCount"`
	TotalViews  int64               `json:"totalViews"`
}

// ChannelStats aggregates a channel's totals.
type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalVideoLikes  int64 `json:"totalVideoLikes"`
	TotalComments    int64 `json:"totalComments"`
	TotalSubscribers int64 `json:"totalSubscribers"`
}

// ToggleResult reports the state a toggle operation left behind.
type ToggleResult struct {
	Active bool `json:"active"`
}
