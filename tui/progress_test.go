package tui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

func TestViewTruncatesMultiByteNames(t *testing.T) {
	m := newModel(10)
	m.width = 30
	m.completed = 3
	m.currentFile = strings.Repeat("é", 80) + ".mp4"

	out := m.View()
	if !utf8.ValidString(out) {
		t.Fatalf("View() produced invalid UTF-8: %q", out)
	}
	if !strings.Contains(out, "...") {
		t.Errorf("long filename was not truncated: %q", out)
	}
}

func TestUpdateQuitsOnCtrlC(t *testing.T) {
	m := newModel(10)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c did not produce a command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Fatalf("ctrl+c produced %T, want tea.QuitMsg", msg)
	}
}

func TestRunExtractionCompletes(t *testing.T) {
	reported := 0
	err := RunExtraction(2, func(ctx context.Context, report func(completed, errors int, current string)) {
		report(1, 0, "a.mp4")
		report(2, 0, "")
		reported = 2
	}, tea.WithInput(&bytes.Buffer{}), tea.WithOutput(io.Discard))
	if err != nil {
		t.Fatalf("RunExtraction error: %v", err)
	}
	if reported != 2 {
		t.Fatalf("worker did not finish before RunExtraction returned")
	}
}

func TestRunExtractionWaitsForWorkerOnEarlyQuit(t *testing.T) {
	input := bytes.NewReader([]byte{0x03}) // ctrl+c

	cancelled := false
	workReturned := false
	err := RunExtraction(5, func(ctx context.Context, report func(completed, errors int, current string)) {
		report(1, 0, "first.mp4")
		<-ctx.Done()
		cancelled = true
		workReturned = true
	}, tea.WithInput(input), tea.WithOutput(io.Discard))
	if err != nil {
		t.Fatalf("RunExtraction error: %v", err)
	}
	if !cancelled {
		t.Error("worker context was not cancelled on early quit")
	}
	if !workReturned {
		t.Error("RunExtraction returned before the worker finished")
	}
}
