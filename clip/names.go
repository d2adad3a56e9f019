package clip

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roaldarbol/boris-clip/annotation"
	"github.com/roaldarbol/boris-clip/probe"
)

// NoFocalSubjectToken is the filename component used when a bout has no
// focal subject.
const NoFocalSubjectToken = "no-focal-subject"

var (
	unsafeChars    = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// SanitizeLabel converts a BORIS label to a safe filename component: every
// character outside [A-Za-z0-9_-] becomes an underscore, runs collapse, and
// leading/trailing underscores are stripped.
func SanitizeLabel(name string) string {
	name = unsafeChars.ReplaceAllString(strings.TrimSpace(name), "_")
	name = underscoreRuns.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// subjectToken normalises a subject label for naming. Empty and
// conventionally-empty labels all map to NoFocalSubjectToken.
func subjectToken(subject string) string {
	switch strings.ToLower(strings.TrimSpace(subject)) {
	case "", "no focal subject", NoFocalSubjectToken:
		return NoFocalSubjectToken
	}
	return SanitizeLabel(subject)
}

// OutputName builds the clip filename for a bout:
//
//	{video_stem}_{behaviour}_{subject}_{start}-{stop}.mp4
//
// The interval uses the original (unpadded) times at millisecond precision so
// the name is stable across runs with different padding settings.
func OutputName(video probe.VideoInfo, b annotation.Bout, originalStart, originalStop float64) string {
	interval := fmt.Sprintf("%.3f-%.3f", originalStart, originalStop)
	parts := []string{video.Stem(), SanitizeLabel(b.Behaviour), subjectToken(b.Subject), interval}

	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "_") + ".mp4"
}
