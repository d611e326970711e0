package repositories_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/models"
	"vidtube/internal/repositories"
)

func TestGORMUserRepository_CreateNormalizesAndRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)

	user := &models.User{Username: " Alice ", Email: "Alice@Example.com", FullName: "Alice", Avatar: "a.png", Password: "x"}
	require.NoError(t, repo.Create(ctx(), user))
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)

	dup := &models.User{Username: "ALICE", Email: "other@example.com", FullName: "Other", Avatar: "b.png", Password: "x"}
	err := repo.Create(ctx(), dup)
	assert.True(t, errors.Is(err, repositories.ErrDuplicate), "got %v", err)

	found, err := repo.GetByUsernameOrEmail(ctx(), "nobody", "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.GetByID(ctx(), uuid.New())
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestGORMUserRepository_RotateRefreshToken(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	user := seedUser(t, db, "alice")

	first := "token-1"
	require.NoError(t, repo.SetRefreshToken(ctx(), user.ID, &first))

	ok, err := repo.RotateRefreshToken(ctx(), user.ID, "token-1", "token-2")
	require.NoError(t, err)
	assert.True(t, ok)

	// Replaying the old token must not rotate again.
	ok, err = repo.RotateRefreshToken(ctx(), user.ID, "token-1", "token-3")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetRefreshToken(ctx(), user.ID, nil))
	ok, err = repo.RotateRefreshToken(ctx(), user.ID, "token-2", "token-4")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGORMUserRepository_ChannelProfile(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	subs := repositories.NewGORMSubscriptionRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := subs.Toggle(ctx(), bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = subs.Toggle(ctx(), carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = subs.Toggle(ctx(), alice.ID, carol.ID)
	require.NoError(t, err)

	profile, err := repo.ChannelProfile(ctx(), "Alice", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, profile.ID)
	assert.Equal(t, int64(2), profile.SubscribersCount)
	assert.Equal(t, int64(1), profile.ChannelsSubscribedToCount)
	assert.True(t, profile.IsSubscribed)

	profile, err = repo.ChannelProfile(ctx(), "alice", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	_, err = repo.ChannelProfile(ctx(), "nobody", uuid.Nil)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestGORMUserRepository_WatchHistoryKeepsOrder(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	v1 := seedVideo(t, db, bob, "first", baseTime)
	v2 := seedVideo(t, db, bob, "second", baseTime.Add(time.Minute))

	require.NoError(t, repo.AppendWatchHistory(ctx(), alice.ID, v2.ID))
	require.NoError(t, repo.AppendWatchHistory(ctx(), alice.ID, v1.ID))
	require.NoError(t, repo.AppendWatchHistory(ctx(), alice.ID, v2.ID))

	history, err := repo.WatchHistory(ctx(), alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, v2.ID, history[0].ID)
	assert.Equal(t, v1.ID, history[1].ID)
	assert.Equal(t, v2.ID, history[2].ID)
	assert.Equal(t, "bob", history[0].Owner.Username)

	empty, err := repo.WatchHistory(ctx(), bob.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
