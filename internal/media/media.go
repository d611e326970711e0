// Package media delegates binary assets (videos, thumbnails, avatars) to a remote object store.
package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Asset describes an object stored on the remote media host.
type Asset struct {
	URL      string  `json:"url"`
	PublicID string  `json:"publicId"`
	Duration float64 `json:"duration,omitempty"`
}

// Store is a remote media-object store.
type Store interface {
	Upload(ctx context.Context, localPath string) (*Asset, error)
	Delete(ctx context.Context, publicID string) (bool, error)
}

// Prober extracts the playback duration of a local media file.
type Prober interface {
	Duration(ctx context.Context, localPath string) (float64, error)
}

// ErrNoFile is returned when Upload is called without a local file.
var ErrNoFile = errors.New("media: no local file provided")

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".mkv": {}, ".webm": {}, ".avi": {}, ".m4v": {},
}

// IsVideo reports whether path looks like a video file.
func IsVideo(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ObjectKey derives a collision-free object key that keeps the file extension.
func ObjectKey(localPath string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(localPath))
}

// Delegate wraps a Store with the local-file contract: the temporary file handed
// to Upload is always removed once the remote call returns, whatever the outcome.
type Delegate struct {
	store  Store
	prober Prober
	logger *zap.Logger
}

// NewDelegate builds a Delegate. prober may be nil.
func NewDelegate(store Store, prober Prober, logger *zap.Logger) *Delegate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Delegate{store: store, prober: prober, logger: logger}
}

// Upload pushes localPath to the remote store and removes the local file.
func (d *Delegate) Upload(ctx context.Context, localPath string) (*Asset, error) {
	if strings.TrimSpace(localPath) == "" {
		return nil, ErrNoFile
	}
	defer d.removeLocal(localPath)

	var duration float64
	if d.prober != nil && IsVideo(localPath) {
		dur, err := d.prober.Duration(ctx, localPath)
		if err != nil {
			d.logger.Warn("probe media duration", zap.String("path", localPath), zap.Error(err))
		}
		duration = dur
	}

	asset, err := d.store.Upload(ctx, localPath)
	if err != nil {
		d.logger.Error("media upload failed", zap.String("path", localPath), zap.Error(err))
		return nil, err
	}
	if asset.Duration == 0 {
		asset.Duration = duration
	}
	return asset, nil
}

// Delete removes a remote object. An empty publicID is a no-op.
func (d *Delegate) Delete(ctx context.Context, publicID string) (bool, error) {
	if publicID == "" {
		return false, nil
	}
	ok, err := d.store.Delete(ctx, publicID)
	if err != nil {
		d.logger.Warn("media delete failed", zap.String("public_id", publicID), zap.Error(err))
	}
	return ok, err
}

func (d *Delegate) removeLocal(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		d.logger.Warn("remove temp upload", zap.String("path", path), zap.Error(err))
	}
}
