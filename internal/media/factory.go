package media

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vidtube/internal/config"
)

// NewFromConfig builds the Delegate for the configured media driver.
func NewFromConfig(ctx context.Context, cfg config.MediaConfig, logger *zap.Logger) (*Delegate, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case "s3", "":
		store, err = NewS3Store(ctx, cfg)
	case "minio":
		store, err = NewMinioStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	var prober Prober
	if cfg.FFProbeEnabled {
		prober = FFProbe{}
	}
	return NewDelegate(store, prober, logger), nil
}
