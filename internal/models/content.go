package models

import "github.com/google/uuid"

// Video is an uploaded, playable media item owned by a user.
type Video struct {
	Base
	VideoFile         string    `json:"videoFile" gorm:"not null"`
	VideoFilePublicID string    `json:"-"`
	Thumbnail         string    `json:"thumbnail" gorm:"not null"`
	ThumbnailPublicID string    `json:"-"`
	Title             string    `json:"title" gorm:"not null"`
	Description       string    `json:"description" gorm:"not null"`
	Duration          float64   `json:"duration"`
	Views             int64     `json:"views" gorm:"not null;default:0"`
	IsPublished       bool      `json:"isPublished" gorm:"not null;default:true"`
	OwnerID           uuid.UUID `json:"owner" gorm:"type:uuid;index;not null"`
}

// Comment is a text reply on a video.
type Comment struct {
	Base
	Content string    `json:"content" gorm:"not null"`
	VideoID uuid.UUID `json:"video" gorm:"type:uuid;index;not null"`
	OwnerID uuid.UUID `json:"owner" gorm:"type:uuid;index;not null"`
}

// Tweet is a short text post on a channel.
type Tweet struct {
	Base
	Content string    `json:"content" gorm:"not null"`
	OwnerID uuid.UUID `json:"owner" gorm:"type:uuid;index;not null"`
}

// LikeTarget names the kind of entity a Like points at.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Valid reports whether t is one of the known target kinds.
func (t LikeTarget) Valid() bool {
	switch t {
	case LikeTargetVideo, LikeTargetComment, LikeTargetTweet:
		return true
	}
	return false
}

// Like is a polymorphic (user, target) record. At most one exists per pair.
type Like struct {
	Base
	TargetKind LikeTarget `json:"targetKind" gorm:"type:varchar(16);not null;uniqueIndex:idx_like_pair,priority:2"`
	TargetID   uuid.UUID  `json:"targetId" gorm:"type:uuid;not null;uniqueIndex:idx_like_pair,priority:3;index"`
	LikedByID  uuid.UUID  `json:"likedBy" gorm:"type:uuid;not null;uniqueIndex:idx_like_pair,priority:1"`
}

// Subscription links a subscriber to a channel. At most one exists per pair.
type Subscription struct {
	Base
	SubscriberID uuid.UUID `json:"subscriber" gorm:"type:uuid;not null;uniqueIndex:idx_subscription_pair,priority:1"`
	ChannelID    uuid.UUID `json:"channel" gorm:"type:uuid;not null;uniqueIndex:idx_subscription_pair,priority:2;index"`
}

// Playlist is a named, ordered collection of videos.
type Playlist struct {
	Base
	Name        string      `json:"name" gorm:"not null"`
	Description string      `json:"description"`
	OwnerID     uuid.UUID   `json:"owner" gorm:"type:uuid;index;not null"`
	VideoIDs    []uuid.UUID `json:"videos" gorm:"-"`
}

// PlaylistVideo is one slot in a playlist. Duplicate video ids are allowed.
type PlaylistVideo struct {
	Seq        uint      `gorm:"primaryKey;autoIncrement"`
	PlaylistID uuid.UUID `gorm:"type:uuid;index;not null"`
	VideoID    uuid.UUID `gorm:"type:uuid;not null"`
}

// All lists every model that must be migrated.
func All() []interface{} {
	return []interface{}{
		&User{},
		&WatchHistoryEntry{},
		&Video{},
		&Comment{},
		&Tweet{},
		&Like{},
		&Subscription{},
		&Playlist{},
		&PlaylistVideo{},
	}
}
