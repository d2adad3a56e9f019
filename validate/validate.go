// Package validate cross-checks parsed BORIS annotations against probed
// video metadata before any clip is extracted.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/roaldarbol/boris-clip/annotation"
	"github.com/roaldarbol/boris-clip/diag"
	"github.com/roaldarbol/boris-clip/probe"
)

const (
	// DurationTolerance is the allowed drift between declared and probed
	// duration, and for the bout bounds check (seconds).
	DurationTolerance = 1.0
	// FPSTolerance is the allowed drift between declared and probed frame rates.
	FPSTolerance = 0.1
)

// Validate runs the consistency checks between annotations and the video.
//
// All four checks run unconditionally and in a fixed order so the output is
// deterministic; no check suppresses a later one. Soft mismatches (frame
// rate, duration drift) are always warnings. Hard conditions (filename
// mismatch, out-of-bounds bouts) make Validate return an error unless force
// is set, in which case they are downgraded to warnings and processing
// continues.
func Validate(ann annotation.ParsedAnnotations, video probe.VideoInfo, force bool, r diag.Reporter) error {
	var hard []string

	if msg := checkMediaFilename(ann, video, r); msg != "" {
		hard = append(hard, msg)
	}
	checkFPS(ann, video, r)
	checkDuration(ann, video, r)
	if msg := checkBoutBounds(ann, video); msg != "" {
		hard = append(hard, msg)
	}

	if len(hard) == 0 {
		return nil
	}
	if force {
		for _, msg := range hard {
			r.Warnf("%s (continuing because --force was passed)", msg)
		}
		return nil
	}
	return fmt.Errorf("%s. Pass --force to override", strings.Join(hard, "; "))
}

func checkMediaFilename(ann annotation.ParsedAnnotations, video probe.VideoInfo, r diag.Reporter) string {
	if ann.MediaFilename == "" {
		r.Warnf("BORIS file does not reference a media filename; skipping the filename check")
		return ""
	}
	if ann.MediaFilename != video.Filename {
		return fmt.Sprintf("media filename in BORIS file (%q) does not match the provided video (%q)",
			ann.MediaFilename, video.Filename)
	}
	return ""
}

func checkFPS(ann annotation.ParsedAnnotations, video probe.VideoInfo, r diag.Reporter) {
	if ann.FPS == 0 || video.FPS == 0 {
		return
	}
	if math.Abs(ann.FPS-video.FPS) > FPSTolerance {
		r.Warnf("frame rate in BORIS file (%.4f) differs from the video's (%.4f); "+
			"re-encoded clips (default) stay frame-accurate, stream-copy (--fast) cut points may drift",
			ann.FPS, video.FPS)
	}
}

func checkDuration(ann annotation.ParsedAnnotations, video probe.VideoInfo, r diag.Reporter) {
	if ann.Duration == 0 {
		return
	}
	diff := math.Abs(ann.Duration - video.Duration)
	if diff > DurationTolerance {
		r.Warnf("duration in BORIS file (%.3fs) differs from the video duration (%.3fs) by %.3fs",
			ann.Duration, video.Duration, diff)
	}
}

func checkBoutBounds(ann annotation.ParsedAnnotations, video probe.VideoInfo) string {
	var violations []annotation.Bout
	for _, b := range ann.Bouts {
		if b.Stop > video.Duration+DurationTolerance {
			violations = append(violations, b)
		}
	}
	if len(violations) == 0 {
		return ""
	}

	shown := violations
	if len(shown) > 5 {
		shown = shown[:5]
	}
	details := make([]string, 0, len(shown))
	for _, b := range shown {
		details = append(details, fmt.Sprintf("%q/%q ends at %.3fs", b.Behaviour, b.Subject, b.Stop))
	}
	msg := fmt.Sprintf("%d bout(s) end after the video duration (%.3fs): %s",
		len(violations), video.Duration, strings.Join(details, "; "))
	if len(violations) > 5 {
		msg += fmt.Sprintf(" ... and %d more", len(violations)-5)
	}
	return msg
}
