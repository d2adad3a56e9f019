// Package probe extracts video metadata through ffprobe.
package probe

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/roaldarbol/boris-clip/deps"
	"github.com/roaldarbol/boris-clip/diag"
)

// VideoInfo is the probed metadata for one video file. It is produced once
// per invocation and read-only afterwards.
type VideoInfo struct {
	Path     string // absolute path
	Filename string // display basename
	Duration float64
	FPS      float64 // 0 means unknown
}

// ffprobe JSON output, reduced to the fields we read.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Duration   string `json:"duration"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Probe runs ffprobe on a video file and returns its metadata. An unknown
// duration is fatal; an unknown frame rate is reported as a warning and
// defaulted to 0 so the validator can skip the frame-rate check.
func Probe(videoPath string, r diag.Reporter) (VideoInfo, error) {
	if err := deps.CheckFfprobe(); err != nil {
		return VideoInfo{}, err
	}

	raw, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return VideoInfo{}, fmt.Errorf("ffprobe failed for %s: %w", videoPath, err)
	}

	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return VideoInfo{}, fmt.Errorf("could not parse ffprobe output for %s: %w", videoPath, err)
	}

	// Duration: prefer format-level, fall back to the video stream.
	duration, haveDuration := parseFloat(out.Format.Duration)
	fps := 0.0
	for _, stream := range out.Streams {
		if stream.CodecType != "video" {
			continue
		}
		if !haveDuration {
			duration, haveDuration = parseFloat(stream.Duration)
		}
		fps = parseFrameRate(stream.RFrameRate)
		break
	}

	if !haveDuration {
		return VideoInfo{}, fmt.Errorf("could not determine duration for %s", videoPath)
	}
	if fps == 0 {
		r.Warnf("could not determine frame rate for %s; frame-accurate seeking may be unreliable", videoPath)
	}

	abs, err := filepath.Abs(videoPath)
	if err != nil {
		abs = videoPath
	}

	return VideoInfo{
		Path:     abs,
		Filename: filepath.Base(videoPath),
		Duration: duration,
		FPS:      fps,
	}, nil
}

// Stem returns the video filename without its extension, used for clip naming.
func (v VideoInfo) Stem() string {
	return strings.TrimSuffix(v.Filename, filepath.Ext(v.Filename))
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseFrameRate reduces an ffprobe rational like "30000/1001" to a float.
// Returns 0 for missing or malformed rates.
func parseFrameRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		v, _ := parseFloat(rate)
		return v
	}
	n, okN := parseFloat(num)
	d, okD := parseFloat(den)
	if !okN || !okD || d == 0 {
		return 0
	}
	return n / d
}
