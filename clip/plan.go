// Package clip turns parsed bouts into extraction plans and drives ffmpeg to
// cut them out of the source video.
package clip

import (
	"github.com/roaldarbol/boris-clip/annotation"
	"github.com/roaldarbol/boris-clip/diag"
	"github.com/roaldarbol/boris-clip/probe"
)

// Options controls planning.
type Options struct {
	Padding Padding
	// MaxClips caps the number of clips per (behaviour, subject) group;
	// 0 means unlimited. The first bouts in input order win.
	MaxClips int
	// MaxDuration truncates padded clips longer than this many seconds from
	// the end; 0 means unlimited.
	MaxDuration float64
}

// Plan is one extraction work item: the final padded/clamped/truncated
// interval plus the original interval the output name is derived from.
type Plan struct {
	OutputName string
	Bout       annotation.Bout
	// Original unpadded interval, kept so naming is padding-invariant.
	OriginalStart float64
	OriginalStop  float64
}

// BuildPlans computes the ordered extraction plans for a set of bouts.
//
// Bouts are expected in chronological order; the per-group cap keeps the
// first MaxClips encountered and silently drops the rest (an intentional
// truncation policy, not an error). Each survivor is padded by event
// classification, clamped to [0, video duration], optionally truncated from
// the end, and dropped with a warning when nothing remains.
func BuildPlans(bouts []annotation.Bout, video probe.VideoInfo, opts Options, r diag.Reporter) []Plan {
	bouts = applyMaxClips(bouts, opts.MaxClips)

	plans := make([]Plan, 0, len(bouts))
	for _, bout := range bouts {
		pre, post := opts.Padding.StatePre, opts.Padding.StatePost
		if bout.IsPoint {
			pre, post = opts.Padding.PointPre, opts.Padding.PointPost
		}

		padded := bout.WithPadding(pre, post, video.Duration)
		if opts.MaxDuration > 0 {
			padded = padded.TruncateTo(opts.MaxDuration)
		}

		if padded.Duration() <= 0 {
			r.Warnf("bout (%q, %q) at t=%.3fs has zero or negative duration after padding; skipping",
				bout.Subject, bout.Behaviour, bout.Start)
			continue
		}

		plans = append(plans, Plan{
			OutputName:    OutputName(video, padded, bout.Start, bout.Stop),
			Bout:          padded,
			OriginalStart: bout.Start,
			OriginalStop:  bout.Stop,
		})
	}
	return plans
}

// applyMaxClips keeps at most max bouts per (behaviour, subject) group.
func applyMaxClips(bouts []annotation.Bout, max int) []annotation.Bout {
	if max <= 0 {
		return bouts
	}
	counts := make(map[boutGroup]int)
	kept := make([]annotation.Bout, 0, len(bouts))
	for _, b := range bouts {
		g := boutGroup{behaviour: b.Behaviour, subject: b.Subject}
		if counts[g] < max {
			kept = append(kept, b)
			counts[g]++
		}
	}
	return kept
}

// boutGroup is the case-sensitive grouping key for the per-group cap.
type boutGroup struct {
	behaviour string
	subject   string
}
