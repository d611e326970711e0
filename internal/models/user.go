package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a channel owner / viewer account.
type User struct {
	Base
	Username           string  `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	Email              string  `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	FullName           string  `json:"fullname" gorm:"column:full_name;type:varchar(255);not null"`
	Avatar             string  `json:"avatar" gorm:"not null"`
	AvatarPublicID     string  `json:"-"`
	CoverImage         string  `json:"coverImage"`
	CoverImagePublicID string  `json:"-"`
	Password           string  `json:"-" gorm:"type:varchar(255);not null"`
	RefreshToken       *string `json:"-"`
}

// NormalizeIdentity lowercases and trims the fields that must be unique case-insensitively.
func NormalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// WatchHistoryEntry records one playback of a video by a user. Seq keeps insertion order.
type WatchHistoryEntry struct {
	Seq       uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	VideoID   uuid.UUID `json:"videoId" gorm:"type:uuid;not null"`
	WatchedAt time.Time `json:"watchedAt"`
}
