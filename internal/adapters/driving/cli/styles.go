package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette used when writing to a terminal.
var (
	colourPrimary   = lipgloss.Color("#7C3AED") // Purple
	colourSecondary = lipgloss.Color("#06B6D4") // Cyan
	colourMuted     = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess   = lipgloss.Color("#A6E3A1") // Green
	colourWarning   = lipgloss.Color("#F9E2AF") // Yellow
	colourError     = lipgloss.Color("#F38BA8") // Red
)

// styles holds the lipgloss styles for command output.
type styles struct {
	// Title style for headers.
	Title lipgloss.Style

	// Label style for section labels and sources.
	Label lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Success style for stored files.
	Success lipgloss.Style

	// Warning style for skipped files.
	Warning lipgloss.Style

	// Error style for failures.
	Error lipgloss.Style
}

// stylesFor returns coloured styles when w is a terminal and plain ones otherwise.
func stylesFor(w io.Writer) *styles {
	if !isTerminal(w) {
		plain := lipgloss.NewStyle()
		return &styles{
			Title:   plain,
			Label:   plain,
			Muted:   plain,
			Success: plain,
			Warning: plain,
			Error:   plain,
		}
	}

	return &styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(colourPrimary),
		Label:   lipgloss.NewStyle().Bold(true).Foreground(colourSecondary),
		Muted:   lipgloss.NewStyle().Foreground(colourMuted),
		Success: lipgloss.NewStyle().Foreground(colourSuccess),
		Warning: lipgloss.NewStyle().Foreground(colourWarning),
		Error:   lipgloss.NewStyle().Foreground(colourError),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
