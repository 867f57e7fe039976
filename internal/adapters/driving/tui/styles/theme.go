// Package styles provides colour themes and styling for the viewer TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the viewer.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Highlight is the background for search matches.
	Highlight lipgloss.Color

	// HighlightCurrent is the background for the active search match.
	HighlightCurrent lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:          lipgloss.Color("#7C3AED"), // Purple
		Foreground:       lipgloss.Color("#CDD6F4"), // Light gray
		Muted:            lipgloss.Color("#6C7086"), // Medium gray
		Error:            lipgloss.Color("#F38BA8"), // Red
		Highlight:        lipgloss.Color("#F9E2AF"), // Yellow
		HighlightCurrent: lipgloss.Color("#FAB387"), // Orange
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for the header line.
	Title lipgloss.Style

	// Normal style for page text.
	Normal lipgloss.Style

	// Muted style for status and help text.
	Muted lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Match style for search matches.
	Match lipgloss.Style

	// CurrentMatch style for the active search match.
	CurrentMatch lipgloss.Style

	// Help style for the help footer.
	Help lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Error),

		Match: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(theme.Highlight),

		CurrentMatch: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(theme.HighlightCurrent),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}
