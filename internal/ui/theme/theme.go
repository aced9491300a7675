package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scorecard/internal/assessment"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
)

// StatusColor maps a subject status to its badge color.
func StatusColor(s assessment.Status) color.Color {
	switch s {
	case assessment.StatusWeak:
		return Error
	case assessment.StatusAverage:
		return Accent
	case assessment.StatusGood:
		return Secondary
	case assessment.StatusStrong:
		return Success
	}
	return TextDim
}

// Status renders a subject status as a colored badge.
func Status(s assessment.Status) string {
	return lipgloss.NewStyle().
		Foreground(StatusColor(s)).
		Bold(true).
		Render(string(s))
}
