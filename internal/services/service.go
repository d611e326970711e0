package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vidtube/internal/apierror"
	"vidtube/internal/media"
	"vidtube/internal/models"
	"vidtube/internal/repositories"
)

// Routing keys of the lifecycle events published by the services.
const (
	EventUserRegistered = "user.registered"
	EventVideoPublished = "video.published"
	EventVideoDeleted   = "video.deleted"
)

// MediaStore uploads local files to, and deletes objects from, the remote media host.
type MediaStore interface {
	Upload(ctx context.Context, localPath string) (*media.Asset, error)
	Delete(ctx context.Context, publicID string) (bool, error)
}

// EventPublisher publishes lifecycle events. A nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// requireOwner fails with 403 unless caller owns the resource.
func requireOwner(ownerID, callerID uuid.UUID, action string) error {
	if ownerID != callerID {
		return apierror.Forbidden("You are not allowed to " + action)
	}
	return nil
}

// visibleVideo loads a video the viewer may see. Another user's draft reads as missing.
func visibleVideo(ctx context.Context, videos repositories.VideoRepository, id, viewer uuid.UUID) (*models.Video, error) {
	video, err := videos.GetByID(ctx, id)
	if err != nil {
		return nil, readFailed(err, "Video not found")
	}
	if !video.IsPublished && video.OwnerID != viewer {
		return nil, apierror.NotFound("Video not found")
	}
	return video, nil
}

// readFailed maps a repository read error: missing records become 404, anything else 500.
func readFailed(err error, notFound string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apierror.NotFound(notFound)
	}
	return apierror.Internal(err)
}

// writeFailed maps a repository write error: missing records become 404, unique
// violations 409 and store failures 502.
func writeFailed(err error, message string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apierror.NotFound("Resource no longer exists")
	case errors.Is(err, repositories.ErrDuplicate):
		return apierror.Conflict("Resource already exists")
	default:
		return apierror.Upstream(message, err)
	}
}

func publish(ctx context.Context, events EventPublisher, logger *zap.Logger, key string, payload interface{}) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, key, payload); err != nil {
		logger.Warn("failed to publish event", zap.String("routing_key", key), zap.Error(err))
	}
}

// uploadPair uploads primary and, when given, secondary concurrently. If either
// upload fails the one that succeeded is deleted again.
func uploadPair(ctx context.Context, store MediaStore, logger *zap.Logger, primary, secondary string) (*media.Asset, *media.Asset, error) {
	var first, second *media.Asset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		asset, err := store.Upload(gctx, primary)
		first = asset
		return err
	})
	if secondary != "" {
		g.Go(func() error {
			asset, err := store.Upload(gctx, secondary)
			second = asset
			return err
		})
	}
	if err := g.Wait(); err != nil {
		discardAssets(ctx, store, logger, first, second)
		return nil, nil, err
	}
	return first, second, nil
}

// discardAssets deletes remote assets on a best-effort basis.
func discardAssets(ctx context.Context, store MediaStore, logger *zap.Logger, assets ...*media.Asset) {
	for _, asset := range assets {
		if asset == nil || asset.PublicID == "" {
			continue
		}
		if _, err := store.Delete(ctx, asset.PublicID); err != nil {
			logger.Warn("failed to delete remote asset", zap.String("public_id", asset.PublicID), zap.Error(err))
		}
	}
}

func discardPublicIDs(ctx context.Context, store MediaStore, logger *zap.Logger, ids ...string) {
	assets := make([]*media.Asset, 0, len(ids))
	for _, id := range ids {
		assets = append(assets, &media.Asset{PublicID: id})
	}
	discardAssets(ctx, store, logger, assets...)
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
