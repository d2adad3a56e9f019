package annotation

import (
	"strings"
	"testing"

	"github.com/roaldarbol/boris-clip/diag"
)

func eventsTable(rows ...[]string) *table {
	return &table{
		header: []string{"Time", "Subject", "Behavior", "Status"},
		rows:   rows,
	}
}

func TestParseTabularPairsStartStop(t *testing.T) {
	c := &diag.Collector{}
	ann, err := parseTabular(eventsTable(
		[]string{"1.0", "ind1", "walking", "START"},
		[]string{"4.0", "ind1", "walking", "STOP"},
	), c)
	if err != nil {
		t.Fatalf("parseTabular() error = %v", err)
	}

	if len(ann.Bouts) != 1 {
		t.Fatalf("got %d bouts, want 1", len(ann.Bouts))
	}
	want := Bout{Subject: "ind1", Behaviour: "walking", Start: 1.0, Stop: 4.0}
	if ann.Bouts[0] != want {
		t.Fatalf("bout = %+v, want %+v", ann.Bouts[0], want)
	}
	if len(c.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", c.Warnings)
	}
}

func TestParseTabularIgnoresInterleavedKeys(t *testing.T) {
	c := &diag.Collector{}
	ann, err := parseTabular(eventsTable(
		[]string{"1.0", "ind1", "walking", "START"},
		[]string{"2.0", "ind2", "walking", "START"},
		[]string{"3.0", "ind1", "grooming", "POINT"},
		[]string{"4.0", "ind1", "walking", "STOP"},
		[]string{"5.0", "ind2", "walking", "STOP"},
	), c)
	if err != nil {
		t.Fatalf("parseTabular() error = %v", err)
	}
	if len(ann.Bouts) != 3 {
		t.Fatalf("got %d bouts, want 3", len(ann.Bouts))
	}
	// ind1/walking pairs across the unrelated rows.
	found := false
	for _, b := range ann.Bouts {
		if b.Subject == "ind1" && b.Behaviour == "walking" {
			found = true
			if b.Start != 1.0 || b.Stop != 4.0 {
				t.Fatalf("ind1/walking = [%v, %v], want [1, 4]", b.Start, b.Stop)
			}
		}
	}
	if !found {
		t.Fatalf("ind1/walking bout missing: %+v", ann.Bouts)
	}
}

func TestParseTabularSortsByTime(t *testing.T) {
	c := &diag.Collector{}
	ann, err := parseTabular(eventsTable(
		[]string{"4.0", "ind1", "walking", "STOP"},
		[]string{"1.0", "ind1", "walking", "START"},
	), c)
	if err != nil {
		t.Fatalf("parseTabular() error = %v", err)
	}
	if len(ann.Bouts) != 1 {
		t.Fatalf("got %d bouts, want 1 (rows should be sorted before pairing)", len(ann.Bouts))
	}
}

func TestParseTabularUnmatchedStop(t *testing.T) {
	c := &diag.Collector{}
	ann, err := parseTabular(eventsTable(
		[]string{"4.0", "ind1", "walking", "STOP"},
	), c)
	if err != nil {
		t.Fatalf("parseTabular() error = %v", err)
	}
	if len(ann.Bouts) != 0 {
		t.Fatalf("got %d bouts, want 0", len(ann.Bouts))
	}
	if len(c.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(c.Warnings), c.Warnings)
	}
	if !strings.Contains(c.Warnings[0], "no matching START") {
		t.Fatalf("warning = %q, want mention of missing START", c.Warnings[0])
	}
}

func TestParseTabularUnclosedStart(t *testing.T) {
	c := &diag.Collector{}
	ann, err := parseTabular(eventsTable(
		[]string{"1.0", "ind1", "walking", "START"},
	), c)
	if err != nil {
		t.Fatalf("parseTabular() error = %v", err)
	}
	if len(ann.Bouts) != 0 {
		t.Fatalf("got %d bouts, want 0", len(ann.Bouts))
	}
	if len(c.Warnings) != 1 || !strings.Contains(c.Warnings[0], "never closed") {
		t.Fatalf("warnings = %v, want one never-closed warning", c.Warnings)
	}
}

func TestParseTabularDoubleStartOverwrites(t *testing.T) {
	c := &diag.Collector{}
	ann, err := parseTabular(eventsTable(
		[]string{"1.0", "ind1", "walking", "START"},
		[]string{"2.0", "ind1", "walking", "START"},
		[]string{"4.0", "ind1", "walking", "STOP"},
	), c)
	if err != nil {
		t.Fatalf("parseTabular() error = %v", err)
	}
	if len(ann.Bouts) != 1 {
		t.Fatalf("got %d bouts, want 1", len(ann.Bouts))
	}
	if ann.Bouts[0].Start != 2.0 {
		t.Fatalf("bout start = %v, want 2.0 (later START wins)", ann.Bouts[0].Start)
	}
	if len(c.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(c.Warnings), c.Warnings)
	}
}

func TestParseTabularPointStatuses(t *testing.T) {
	for _, status := range []string{"POINT", "PUNCTUAL", "point"} {
		c := &diag.Collector{}
		ann, err := parseTabular(eventsTable(
			[]string{"7.0", "ind1", "scratch", status},
		), c)
		if err != nil {
			t.Fatalf("parseTabular(%s) error = %v", status, err)
		}
		if len(ann.Bouts) != 1 {
			t.Fatalf("status %s: got %d bouts, want 1", status, len(ann.Bouts))
		}
		b := ann.Bouts[0]
		if !b.IsPoint || b.Start != 7.0 || b.Stop != 7.0 {
			t.Fatalf("status %s: bout = %+v, want zero-width point at 7.0", status, b)
		}
	}
}

func TestParseTabularUnknownStatusSkipped(t *testing.T) {
	c := &diag.Collector{}
	ann, err := parseTabular(eventsTable(
		[]string{"1.0", "ind1", "walking", "WIBBLE"},
	), c)
	if err != nil {
		t.Fatalf("parseTabular() error = %v", err)
	}
	if len(ann.Bouts) != 0 {
		t.Fatalf("got %d bouts, want 0", len(ann.Bouts))
	}
	if len(c.Warnings) != 1 || !strings.Contains(c.Warnings[0], "unknown event status") {
		t.Fatalf("warnings = %v, want unknown-status warning", c.Warnings)
	}
}

func TestParseTabularUnparseableTimeSkipped(t *testing.T) {
	c := &diag.Collector{}
	ann, err := parseTabular(eventsTable(
		[]string{"soon", "ind1", "walking", "START"},
		[]string{"1.0", "ind1", "walking", "START"},
		[]string{"4.0", "ind1", "walking", "STOP"},
	), c)
	if err != nil {
		t.Fatalf("parseTabular() error = %v", err)
	}
	if len(ann.Bouts) != 1 {
		t.Fatalf("got %d bouts, want 1", len(ann.Bouts))
	}
	if len(c.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(c.Warnings), c.Warnings)
	}
}

func TestParseTabularMissingColumn(t *testing.T) {
	tbl := &table{header: []string{"Time", "Subject", "Behavior"}} // no status
	if _, err := parseTabular(tbl, &diag.Collector{}); err == nil {
		t.Fatalf("expected error for missing Status column")
	}
}

func TestParseTabularLegacyStatusColumn(t *testing.T) {
	tbl := &table{
		header: []string{"Time", "Subject", "Behavior", "Behavior type"},
		rows: [][]string{
			{"1.0", "ind1", "walking", "START"},
			{"4.0", "ind1", "walking", "STOP"},
		},
	}
	ann, err := parseTabular(tbl, &diag.Collector{})
	if err != nil {
		t.Fatalf("parseTabular() error = %v", err)
	}
	if len(ann.Bouts) != 1 {
		t.Fatalf("got %d bouts, want 1", len(ann.Bouts))
	}
}

func TestParseTabularMetadataExtraction(t *testing.T) {
	c := &diag.Collector{}
	tbl := &table{
		header: []string{"Time", "Subject", "Behavior", "Status", "Media file path", "FPS", "Total length"},
		rows: [][]string{
			{"1.0", "ind1", "walking", "START", "/videos/trial.mp4", "25", "60.5"},
			{"4.0", "ind1", "walking", "STOP", "/videos/trial.mp4", "25", "60.5"},
		},
	}
	ann, err := parseTabular(tbl, c)
	if err != nil {
		t.Fatalf("parseTabular() error = %v", err)
	}
	if ann.MediaFilename != "trial.mp4" {
		t.Fatalf("MediaFilename = %q, want trial.mp4", ann.MediaFilename)
	}
	if ann.FPS != 25 {
		t.Fatalf("FPS = %v, want 25", ann.FPS)
	}
	if ann.Duration != 60.5 {
		t.Fatalf("Duration = %v, want 60.5", ann.Duration)
	}
	if len(c.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", c.Warnings)
	}
}

func TestParseTabularConflictingMetadataWarns(t *testing.T) {
	c := &diag.Collector{}
	tbl := &table{
		header: []string{"Time", "Subject", "Behavior", "Status", "Media file path"},
		rows: [][]string{
			{"1.0", "ind1", "walking", "START", "/videos/a.mp4"},
			{"4.0", "ind1", "walking", "STOP", "/videos/b.mp4"},
		},
	}
	ann, err := parseTabular(tbl, c)
	if err != nil {
		t.Fatalf("parseTabular() error = %v", err)
	}
	if ann.MediaFilename != "a.mp4" {
		t.Fatalf("MediaFilename = %q, want a.mp4 (first value wins)", ann.MediaFilename)
	}
	if len(c.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(c.Warnings), c.Warnings)
	}
}
