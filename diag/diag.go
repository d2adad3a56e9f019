// Package diag provides the warning sink shared by the parsing, validation
// and planning packages. Core packages report recoverable problems through a
// Reporter instead of writing to the terminal directly, so tests can inspect
// emitted diagnostics.
package diag

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Reporter receives recoverable diagnostics from the pipeline.
type Reporter interface {
	Warnf(format string, args ...any)
}

// Collector accumulates warnings in memory. Used by tests and to decide
// whether an interactive confirmation is needed before extraction.
type Collector struct {
	Warnings []string
}

func (c *Collector) Warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Console writes styled warnings to a terminal stream and counts them.
type Console struct {
	w     io.Writer
	count int
	label lipgloss.Style
}

// NewConsole creates a Console reporter writing to w (normally stderr).
func NewConsole(w io.Writer) *Console {
	return &Console{
		w:     w,
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
}

func (c *Console) Warnf(format string, args ...any) {
	c.count++
	fmt.Fprintf(c.w, "%s %s\n", c.label.Render("Warning:"), fmt.Sprintf(format, args...))
}

// Count returns the number of warnings emitted so far.
func (c *Console) Count() int {
	return c.count
}
