package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFProbe reads media durations with the ffprobe binary.
type FFProbe struct{}

// Duration returns the container duration of localPath in seconds.
func (FFProbe) Duration(ctx context.Context, localPath string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	out, err := ffmpeg.Probe(localPath)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", localPath, err)
	}
	return parseProbeDuration(out)
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbeDuration(raw string) (float64, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if out.Format.Duration == "" {
		return 0, nil
	}
	d, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out.Format.Duration, err)
	}
	return d, nil
}
