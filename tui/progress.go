// Package tui renders the extraction progress display.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	amberStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	textStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("189"))
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// ProgressMsg updates the progress display. Completed counts clips attempted
// so far (successful or not); Errors counts the failures among them.
type ProgressMsg struct {
	Completed   int
	Errors      int
	CurrentFile string
}

// DoneMsg ends the progress display.
type DoneMsg struct{}

// Model is the Bubbletea model for extraction progress.
type Model struct {
	total       int
	completed   int
	errors      int
	currentFile string
	width       int
	done        bool
}

func newModel(total int) Model {
	return Model{total: total, width: 60}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case ProgressMsg:
		m.completed = msg.Completed
		m.errors = msg.Errors
		m.currentFile = msg.CurrentFile
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	innerW := m.width - 4
	if innerW > 60 {
		innerW = 60
	}
	if innerW < 10 {
		innerW = 10
	}

	var pct int
	if m.total > 0 {
		pct = m.completed * 100 / m.total
	}

	barWidth := innerW - 6
	filled := 0
	if m.total > 0 {
		filled = barWidth * m.completed / m.total
	}
	if filled > barWidth {
		filled = barWidth
	}

	bar := greenStyle.Render(strings.Repeat("█", filled)) +
		amberStyle.Render(strings.Repeat("░", barWidth-filled))

	lines := []string{
		bar + textStyle.Render(fmt.Sprintf(" %3d%%", pct)),
	}

	counter := fmt.Sprintf("%d/%d clips", m.completed, m.total)
	if m.errors > 0 {
		counter += "  " + redStyle.Render(fmt.Sprintf("%d errors", m.errors))
	}
	lines = append(lines, textStyle.Render(counter))

	switch {
	case m.done:
		lines = append(lines, greenStyle.Render("Extraction complete"))
	case m.currentFile != "":
		name := m.currentFile
		if lipgloss.Width(name) > innerW {
			name = ansi.Truncate(name, innerW-3, "...")
		}
		lines = append(lines, textStyle.Render(name))
	}

	return borderStyle.Render(strings.Join(lines, "\n")) + "\n"
}

// RunExtraction shows the progress UI while work runs in the background.
// work must call report after every attempted clip and honour ctx, which is
// cancelled when the display is closed early (ctrl+c). RunExtraction does not
// return until work has, so callers may read anything work wrote.
func RunExtraction(total int, work func(ctx context.Context, report func(completed, errors int, current string)), opts ...tea.ProgramOption) error {
	p := tea.NewProgram(newModel(total), opts...)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		work(ctx, func(completed, errors int, current string) {
			p.Send(ProgressMsg{Completed: completed, Errors: errors, CurrentFile: current})
		})
		// A no-op when the program already quit.
		p.Send(DoneMsg{})
	}()

	_, err := p.Run()
	cancel()
	<-done
	return err
}
