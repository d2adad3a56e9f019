package clip

// DefaultPointPadding is the padding applied to each side of a point event
// when the caller specifies no padding at all. Point events are zero-width,
// so without padding they would never survive planning.
const DefaultPointPadding = 5.0

// FlagValue is an optional float: Set records whether the caller supplied it,
// so an explicit zero is distinguishable from an omitted flag.
type FlagValue struct {
	Value float64
	Set   bool
}

// Or returns the flag's value when set, otherwise fallback.
func (f FlagValue) Or(fallback float64) float64 {
	if f.Set {
		return f.Value
	}
	return fallback
}

// PaddingFlags carries the raw padding arguments from the CLI.
type PaddingFlags struct {
	Padding FlagValue // --padding: both sides, state events
	Pre     FlagValue // --padding-pre: overrides the pre side only
	Post    FlagValue // --padding-post: overrides the post side only

	PointPadding FlagValue // --point-padding: both sides, point events
	PointPre     FlagValue // --point-padding-pre
	PointPost    FlagValue // --point-padding-post
}

// Padding is the resolved per-side padding, split by event classification.
type Padding struct {
	StatePre  float64
	StatePost float64
	PointPre  float64
	PointPost float64
}

// Resolve applies the padding precedence rules.
//
// For state events: --padding sets both sides; --padding-pre/--padding-post
// each replace only their side, leaving the other governed by --padding (or
// zero when no combined value was given).
//
// For point events: an explicit --point-padding* wins (with --point-padding
// defaulting the unset side to DefaultPointPadding); otherwise point events
// inherit the general padding when any was specified, and fall back to
// DefaultPointPadding each side when none was.
func (f PaddingFlags) Resolve() Padding {
	pre := f.Pre.Or(f.Padding.Or(0))
	post := f.Post.Or(f.Padding.Or(0))

	p := Padding{StatePre: pre, StatePost: post}

	switch {
	case f.PointPadding.Set || f.PointPre.Set || f.PointPost.Set:
		base := f.PointPadding.Or(DefaultPointPadding)
		p.PointPre = f.PointPre.Or(base)
		p.PointPost = f.PointPost.Or(base)
	case f.Padding.Set || f.Pre.Set || f.Post.Set:
		p.PointPre = pre
		p.PointPost = post
	default:
		p.PointPre = DefaultPointPadding
		p.PointPost = DefaultPointPadding
	}
	return p
}
