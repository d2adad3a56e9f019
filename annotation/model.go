// Package annotation parses BORIS behavioural annotation exports into a
// normalised set of bouts. Three source formats are supported: the tabular
// events CSV (paired START/STOP rows), the aggregated events CSV (one row per
// bout) and the .boris project file (JSON).
package annotation

// SourceFormat identifies which parser produced a ParsedAnnotations.
type SourceFormat string

const (
	FormatTabular    SourceFormat = "tabular-events"
	FormatAggregated SourceFormat = "aggregated-events"
	FormatProject    SourceFormat = "boris-project"
)

// Bout is a single annotated behavioural event. State events span
// [Start, Stop]; point events are instantaneous with Start == Stop.
// Bouts are value objects; padding and truncation return new instances.
type Bout struct {
	Subject   string
	Behaviour string
	Start     float64 // seconds
	Stop      float64 // seconds
	IsPoint   bool
}

// Duration returns the bout length in seconds (zero for point events).
func (b Bout) Duration() float64 {
	return b.Stop - b.Start
}

// WithPadding returns a copy of the bout with pre seconds added before the
// start and post seconds after the stop. The start is clamped to 0; the stop
// is clamped to videoDuration when it is known (> 0).
func (b Bout) WithPadding(pre, post, videoDuration float64) Bout {
	padded := b
	padded.Start = b.Start - pre
	if padded.Start < 0 {
		padded.Start = 0
	}
	padded.Stop = b.Stop + post
	if videoDuration > 0 && padded.Stop > videoDuration {
		padded.Stop = videoDuration
	}
	return padded
}

// TruncateTo returns a copy of the bout shortened to at most maxDuration
// seconds. Truncation always moves the stop; the start never changes.
func (b Bout) TruncateTo(maxDuration float64) Bout {
	if b.Duration() <= maxDuration {
		return b
	}
	truncated := b
	truncated.Stop = b.Start + maxDuration
	return truncated
}

// ParsedAnnotations is the normalised result of parsing one observation.
// Metadata fields are best-effort: zero values mean the source file did not
// declare them.
type ParsedAnnotations struct {
	Bouts []Bout

	// ObsID is the observation identifier, populated for .boris projects.
	ObsID string
	// MediaFilename is the basename of the annotated media file.
	MediaFilename string
	// MediaPath is the full media path, only available from .boris projects.
	MediaPath string
	// FPS is the frame rate declared by the annotation file (0 = undeclared).
	FPS float64
	// Duration is the media duration declared by the file (0 = undeclared).
	Duration float64

	Format SourceFormat
}

// StateCount returns the number of state-event bouts.
func (p ParsedAnnotations) StateCount() int {
	n := 0
	for _, b := range p.Bouts {
		if !b.IsPoint {
			n++
		}
	}
	return n
}

// PointCount returns the number of point-event bouts.
func (p ParsedAnnotations) PointCount() int {
	return len(p.Bouts) - p.StateCount()
}
