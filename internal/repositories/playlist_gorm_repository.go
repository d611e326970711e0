package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/models"
)

// visibleToViewer keeps published videos and the viewer's own drafts. Args: true, viewer.
const visibleToViewer = "(videos.is_published = ? OR videos.owner_id = ?)"

const playlistViewColumns = `playlists.id, playlists.name, playlists.description, playlists.created_at, playlists.updated_at, ` + ownerColumns + `,
	(SELECT COUNT(*) FROM playlist_videos JOIN videos ON videos.id = playlist_videos.video_id
		WHERE playlist_videos.playlist_id = playlists.id AND ` + visibleToViewer + `) AS videos_count,
	(SELECT COALESCE(SUM(videos.views), 0) FROM playlist_videos JOIN videos ON videos.id = playlist_videos.video_id
		WHERE playlist_videos.playlist_id = playlists.id AND ` + visibleToViewer + `) AS total_views`

// GORMPlaylistRepository is a GORM implementation of PlaylistRepository.
type GORMPlaylistRepository struct {
	db *gorm.DB
}

// NewGORMPlaylistRepository creates a new instance of GORMPlaylistRepository.
func NewGORMPlaylistRepository(db *gorm.DB) *GORMPlaylistRepository {
	return &GORMPlaylistRepository{db: db}
}

// Create stores the playlist and its initial videos in one transaction.
func (r *GORMPlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(playlist).Error; err != nil {
			return err
		}
		if len(playlist.VideoIDs) == 0 {
			return nil
		}
		items := make([]models.PlaylistVideo, 0, len(playlist.VideoIDs))
		for _, videoID := range playlist.VideoIDs {
			items = append(items, models.PlaylistVideo{PlaylistID: playlist.ID, VideoID: videoID})
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return translate(err, "failed to create playlist")
	}
	return nil
}

// GetByID loads a playlist with its video ids in insertion order.
func (r *GORMPlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	db := r.db.WithContext(ctx)
	var playlist models.Playlist
	if err := db.First(&playlist, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("get playlist by ID %s", id))
	}
	err := db.Model(&models.PlaylistVideo{}).
		Where("playlist_id = ?", id).
		Order("seq ASC").
		Pluck("video_id", &playlist.VideoIDs).Error
	if err != nil {
		return nil, translate(err, "load playlist videos")
	}
	return &playlist, nil
}

// Update applies the given column changes to a playlist.
func (r *GORMPlaylistRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Playlist{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "update playlist")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, fmt.Sprintf("playlist with ID %s not found for update", id))
	}
	return nil
}

// Delete removes the playlist and its entries.
func (r *GORMPlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Playlist{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return translate(err, fmt.Sprintf("delete playlist %s", id))
	}
	return nil
}

// AddVideo appends videoID to the playlist. The same video may appear more than once.
func (r *GORMPlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	item := models.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID}
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return translate(err, "add video to playlist")
	}
	return r.touch(ctx, playlistID)
}

// RemoveVideo removes every occurrence of videoID and reports how many were removed.
func (r *GORMPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistVideo{})
	if res.Error != nil {
		return 0, translate(res.Error, "remove video from playlist")
	}
	if res.RowsAffected > 0 {
		if err := r.touch(ctx, playlistID); err != nil {
			return 0, err
		}
	}
	return res.RowsAffected, nil
}

func (r *GORMPlaylistRepository) touch(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.Playlist{}).Where("id = ?", id).
		UpdateColumn("updated_at", time.Now()).Error
	return translate(err, "touch playlist")
}

type playlistViewRow struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	VideosCount int64
	TotalViews  int64
	OwnerRow
}

type playlistVideoRow struct {
	PlaylistID  uuid.UUID
	ID          uuid.UUID
	Title       string
	Description string
	VideoFile   string
	Thumbnail   string
	Duration    float64
	Views       int64
}

func (r *GORMPlaylistRepository) viewQuery(ctx context.Context, viewer uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Table("playlists").
		Select(playlistViewColumns, true, viewer, true, viewer).
		Joins("JOIN users ON users.id = playlists.owner_id")
}

// ForUser lists the playlists owned by userID. Videos viewer may not see are left out.
func (r *GORMPlaylistRepository) ForUser(ctx context.Context, userID uuid.UUID, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.PlaylistView], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Playlist{}).Where("owner_id = ?", userID).Count(&total).Error; err != nil {
		return models.Page[models.PlaylistView]{}, translate(err, "count playlists")
	}

	var rows []playlistViewRow
	err := r.viewQuery(ctx, viewer).
		Where("playlists.owner_id = ?", userID).
		Order("playlists.created_at ASC").
		Order("playlists.id ASC").
		Scopes(paginate(opts)).
		Scan(&rows).Error
	if err != nil {
		return models.Page[models.PlaylistView]{}, translate(err, "list playlists")
	}

	views, err := r.assemble(ctx, rows, viewer)
	if err != nil {
		return models.Page[models.PlaylistView]{}, err
	}
	return models.NewPage(views, opts, total), nil
}

// Detail returns one playlist with its owner and the ordered videos viewer may see.
func (r *GORMPlaylistRepository) Detail(ctx context.Context, id, viewer uuid.UUID) (*models.PlaylistView, error) {
	var rows []playlistViewRow
	err := r.viewQuery(ctx, viewer).
		Where("playlists.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "load playlist")
	}
	if len(rows) == 0 {
		return nil, translate(gorm.ErrRecordNotFound, fmt.Sprintf("playlist %s", id))
	}

	views, err := r.assemble(ctx, rows, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (r *GORMPlaylistRepository) assemble(ctx context.Context, rows []playlistViewRow, viewer uuid.UUID) ([]models.PlaylistView, error) {
	views := make([]models.PlaylistView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var videoRows []playlistVideoRow
	err := r.db.WithContext(ctx).Table("playlist_videos").
		Select(`playlist_videos.playlist_id, videos.id, videos.title, videos.description,
			videos.video_file, videos.thumbnail, videos.duration, videos.views`).
		Joins("JOIN videos ON videos.id = playlist_videos.video_id").
		Where("playlist_videos.playlist_id IN ?", ids).
		Where(visibleToViewer, true, viewer).
		Order("playlist_videos.seq ASC").
		Scan(&videoRows).Error
	if err != nil {
		return nil, translate(err, "load playlist videos")
	}

	byPlaylist := make(map[uuid.UUID][]models.PlaylistVideoView, len(rows))
	for _, v := range videoRows {
		byPlaylist[v.PlaylistID] = append(byPlaylist[v.PlaylistID], models.PlaylistVideoView{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
			VideoFile:   v.VideoFile,
			Thumbnail:   v.Thumbnail,
			Duration:    v.Duration,
			Views:       v.Views,
		})
	}

	for _, row := range rows {
		videos := byPlaylist[row.ID]
		if videos == nil {
			videos = []models.PlaylistVideoView{}
		}
		views = append(views, models.PlaylistView{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
			Owner:       row.profile(),
			Videos:      videos,
			VideosCount: row.VideosCount,
			TotalViews:  row.TotalViews,
		})
	}
	return views, nil
}
