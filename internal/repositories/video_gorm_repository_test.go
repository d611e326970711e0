package repositories_test

import (
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/models"
	"vidtube/internal/repositories"
)

func seedFifteen(t *testing.T, repo *repositories.GORMVideoRepository, owner *models.User) {
	t.Helper()
	for i := 1; i <= 15; i++ {
		video := &models.Video{
			Base:        models.Base{CreatedAt: baseTime.Add(time.Duration(i) * time.Minute)},
			VideoFile:   "file.mp4",
			Thumbnail:   "thumb.jpg",
			Title:       fmt.Sprintf("video-%02d", i),
			Description: "desc",
			Views:       int64(100 - i),
			IsPublished: true,
			OwnerID:     owner.ID,
		}
		require.NoError(t, repo.Create(ctx(), video))
	}
}

func TestGORMVideoRepository_FeedPagination(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMVideoRepository(db)
	alice := seedUser(t, db, "alice")
	seedFifteen(t, repo, alice)

	page, err := repo.Feed(ctx(), models.ListOptions{Page: 2, Limit: 10}, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, int64(15), page.Total)
	require.Len(t, page.Items, 5)
	for i, item := range page.Items {
		assert.Equal(t, fmt.Sprintf("video-%02d", 11+i), item.Title)
		assert.Equal(t, "alice", item.Owner.Username)
	}

	page, err = repo.Feed(ctx(), models.ListOptions{Page: 3, Limit: 10}, uuid.Nil)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestGORMVideoRepository_FeedSort(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMVideoRepository(db)
	alice := seedUser(t, db, "alice")
	seedFifteen(t, repo, alice)

	// Views decrease with creation time, so descending views equals creation order.
	page, err := repo.Feed(ctx(), models.ListOptions{Page: 1, Limit: 3, SortBy: "views", SortType: "desc"}, uuid.Nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "video-01", page.Items[0].Title)

	page, err = repo.Feed(ctx(), models.ListOptions{Page: 1, Limit: 3, SortBy: "views", SortType: "asc"}, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "video-15", page.Items[0].Title)

	// A field outside the allow-list falls back to createdAt ascending.
	page, err = repo.Feed(ctx(), models.ListOptions{Page: 1, Limit: 3, SortBy: "owner_id; DROP TABLE videos", SortType: "desc"}, uuid.Nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "video-01", page.Items[0].Title)
	assert.Equal(t, "video-03", page.Items[2].Title)
}

func TestGORMVideoRepository_FeedFiltersAndCounts(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMVideoRepository(db)
	likes := repositories.NewGORMLikeRepository(db)
	comments := repositories.NewGORMCommentRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	cats := seedVideo(t, db, alice, "Cats 100%", baseTime)
	seedVideo(t, db, alice, "dogs", baseTime.Add(time.Minute))
	hidden := seedVideo(t, db, bob, "draft cats", baseTime.Add(2*time.Minute))
	require.NoError(t, db.Model(hidden).Update("is_published", false).Error)

	_, err := likes.Toggle(ctx(), models.LikeTargetVideo, cats.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, comments.Create(ctx(), &models.Comment{Base: models.Base{CreatedAt: baseTime}, Content: "first", VideoID: cats.ID, OwnerID: bob.ID}))
	require.NoError(t, comments.Create(ctx(), &models.Comment{Base: models.Base{CreatedAt: baseTime.Add(time.Second)}, Content: "second", VideoID: cats.ID, OwnerID: alice.ID}))

	page, err := repo.Feed(ctx(), models.ListOptions{Page: 1, Limit: 10, Query: "CATS"}, uuid.Nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	card := page.Items[0]
	assert.Equal(t, cats.ID, card.ID)
	assert.Equal(t, int64(1), card.LikesCount)
	assert.Equal(t, int64(2), card.CommentsCount)
	require.Len(t, card.Comments, 2)
	assert.Equal(t, "first", card.Comments[0].Content)

	// Wildcards in the query are matched literally.
	page, err = repo.Feed(ctx(), models.ListOptions{Page: 1, Limit: 10, Query: "100%"}, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	page, err = repo.Feed(ctx(), models.ListOptions{Page: 1, Limit: 10, Query: "%"}, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	// The owner sees their unpublished video, others do not.
	page, err = repo.Feed(ctx(), models.ListOptions{Page: 1, Limit: 10, UserID: &bob.ID}, bob.ID)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	page, err = repo.Feed(ctx(), models.ListOptions{Page: 1, Limit: 10, UserID: &bob.ID}, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestGORMVideoRepository_FeedHidesDraftsUnlessOwnChannel(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMVideoRepository(db)
	alice := seedUser(t, db, "alice")
	draft := seedVideo(t, db, alice, "draft", baseTime)
	require.NoError(t, db.Model(draft).Update("is_published", false).Error)
	seedVideo(t, db, alice, "live", baseTime.Add(time.Minute))

	page, err := repo.Feed(ctx(), models.ListOptions{Page: 1, Limit: 10}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "live", page.Items[0].Title)

	page, err = repo.Feed(ctx(), models.ListOptions{Page: 1, Limit: 10, UserID: &alice.ID}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = repo.Feed(ctx(), models.ListOptions{Page: 1, Limit: 10, UserID: &alice.ID}, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestGORMVideoRepository_FeedTiesAreStableAcrossPages(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMVideoRepository(db)
	alice := seedUser(t, db, "alice")

	var want []string
	for i := 0; i < 6; i++ {
		want = append(want, seedVideo(t, db, alice, fmt.Sprintf("same-%d", i), baseTime).ID.String())
	}
	sort.Strings(want)

	for _, sortType := range []string{"asc", "desc"} {
		var got []string
		for p := 1; p <= 3; p++ {
			page, err := repo.Feed(ctx(), models.ListOptions{Page: p, Limit: 2, SortBy: "views", SortType: sortType}, uuid.Nil)
			require.NoError(t, err)
			for _, item := range page.Items {
				got = append(got, item.ID.String())
			}
		}
		assert.Equal(t, want, got, sortType)
	}
}

func TestGORMVideoRepository_Detail(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMVideoRepository(db)
	likes := repositories.NewGORMLikeRepository(db)
	subs := repositories.NewGORMSubscriptionRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	video := seedVideo(t, db, alice, "intro", baseTime)

	_, err := likes.Toggle(ctx(), models.LikeTargetVideo, video.ID, bob.ID)
	require.NoError(t, err)
	_, err = subs.Toggle(ctx(), bob.ID, alice.ID)
	require.NoError(t, err)

	detail, err := repo.Detail(ctx(), video.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsLiked)
	assert.True(t, detail.IsSubscribed)
	assert.Equal(t, int64(1), detail.LikesCount)
	assert.Equal(t, int64(1), detail.SubscribersCount)
	assert.Equal(t, "User alice", detail.Owner.FullName)

	detail, err = repo.Detail(ctx(), video.ID, uuid.Nil)
	require.NoError(t, err)
	assert.False(t, detail.IsLiked)
	assert.False(t, detail.IsSubscribed)

	_, err = repo.Detail(ctx(), uuid.New(), uuid.Nil)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestGORMVideoRepository_ViewsAndPublish(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMVideoRepository(db)
	alice := seedUser(t, db, "alice")
	video := seedVideo(t, db, alice, "intro", baseTime)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementViews(ctx(), video.ID))
	}
	stored, err := repo.GetByID(ctx(), video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stored.Views)

	published, err := repo.TogglePublish(ctx(), video.ID)
	require.NoError(t, err)
	assert.False(t, published)
	published, err = repo.TogglePublish(ctx(), video.ID)
	require.NoError(t, err)
	assert.True(t, published)

	require.NoError(t, repo.Delete(ctx(), video.ID))
	err = repo.Delete(ctx(), video.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
	err = repo.IncrementViews(ctx(), video.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}
