package clip

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/roaldarbol/boris-clip/deps"
	"github.com/roaldarbol/boris-clip/diag"
	"github.com/roaldarbol/boris-clip/probe"
)

// ProgressFunc is invoked before each clip is cut: current is 1-based.
type ProgressFunc func(current, total int, outputName string)

// Extractor shells out to ffmpeg to cut one clip per plan.
type Extractor struct {
	// Fast selects stream-copy: much faster, but cut points snap to the
	// nearest keyframe. The default re-encodes for frame-accurate cuts.
	Fast bool
}

// ExtractAll cuts every planned clip into outputDir and returns the paths of
// the clips that were created. A per-clip ffmpeg failure is reported as a
// warning and the remaining plans still run; only a missing ffmpeg binary or
// an unwritable output directory is fatal. Cancelling ctx stops between
// clips, never mid-clip, and returns the clips written so far with ctx's
// error.
func (e Extractor) ExtractAll(ctx context.Context, plans []Plan, video probe.VideoInfo, outputDir string, r diag.Reporter, progress ProgressFunc) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := deps.CheckFfmpeg(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	created := make([]string, 0, len(plans))
	for i, plan := range plans {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		if progress != nil {
			progress(i+1, len(plans), plan.OutputName)
		}

		outPath := filepath.Join(outputDir, plan.OutputName)
		if err := e.extractOne(video.Path, plan, outPath); err != nil {
			r.Warnf("ffmpeg failed for %s: %v", plan.OutputName, err)
			continue
		}
		created = append(created, outPath)
	}
	return created, nil
}

// extractOne cuts a single clip. In fast mode the seek happens before the
// input (keyframe-snapped); otherwise after, which forces a re-encode but
// keeps the cut frame-accurate.
func (e Extractor) extractOne(videoPath string, plan Plan, outPath string) error {
	start := fmt.Sprintf("%.6f", plan.Bout.Start)
	duration := fmt.Sprintf("%.6f", plan.Bout.Duration())

	if e.Fast {
		return ffmpeg.Input(videoPath, ffmpeg.KwArgs{"ss": start}).
			Output(outPath, ffmpeg.KwArgs{"t": duration, "c": "copy"}).
			OverWriteOutput().
			Silent(true).
			Run()
	}
	return ffmpeg.Input(videoPath).
		Output(outPath, ffmpeg.KwArgs{"ss": start, "t": duration}).
		OverWriteOutput().
		Silent(true).
		Run()
}
