package clip

import "testing"

func set(v float64) FlagValue { return FlagValue{Value: v, Set: true} }

func TestResolveNoFlags(t *testing.T) {
	got := PaddingFlags{}.Resolve()
	want := Padding{StatePre: 0, StatePost: 0, PointPre: DefaultPointPadding, PointPost: DefaultPointPadding}
	if got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolveCombinedPadding(t *testing.T) {
	got := PaddingFlags{Padding: set(2)}.Resolve()
	want := Padding{StatePre: 2, StatePost: 2, PointPre: 2, PointPost: 2}
	if got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolvePerSideOverride(t *testing.T) {
	got := PaddingFlags{Padding: set(2), Post: set(7)}.Resolve()
	want := Padding{StatePre: 2, StatePost: 7, PointPre: 2, PointPost: 7}
	if got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolvePerSideOnly(t *testing.T) {
	// --padding-pre without --padding leaves the post side at zero, and point
	// events inherit the general padding because some was specified.
	got := PaddingFlags{Pre: set(3)}.Resolve()
	want := Padding{StatePre: 3, StatePost: 0, PointPre: 3, PointPost: 0}
	if got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolvePointPaddingWins(t *testing.T) {
	got := PaddingFlags{Padding: set(2), PointPadding: set(1)}.Resolve()
	want := Padding{StatePre: 2, StatePost: 2, PointPre: 1, PointPost: 1}
	if got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolvePointPerSideDefaultsOtherSide(t *testing.T) {
	// An explicit point-side flag puts point events on the point branch; the
	// unset side falls back to the default, not the general padding.
	got := PaddingFlags{Padding: set(2), PointPre: set(1)}.Resolve()
	want := Padding{StatePre: 2, StatePost: 2, PointPre: 1, PointPost: DefaultPointPadding}
	if got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolveExplicitZero(t *testing.T) {
	// --point-padding 0 is an explicit request for no padding, not an omission.
	got := PaddingFlags{PointPadding: set(0)}.Resolve()
	want := Padding{PointPre: 0, PointPost: 0}
	if got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}
}
