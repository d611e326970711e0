package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vidtube/internal/models"
)

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// newTestDB opens an isolated in-memory SQLite database with every model migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "User " + username,
		Avatar:   "https://cdn.example.com/" + username + ".png",
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedVideo(t *testing.T, db *gorm.DB, owner *models.User, title string, createdAt time.Time) *models.Video {
	t.Helper()
	video := &models.Video{
		Base:        models.Base{CreatedAt: createdAt},
		VideoFile:   "https://cdn.example.com/" + title + ".mp4",
		Thumbnail:   "https://cdn.example.com/" + title + ".jpg",
		Title:       title,
		Description: "about " + title,
		Duration:    10,
		IsPublished: true,
		OwnerID:     owner.ID,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}

func ctx() context.Context {
	return context.Background()
}
