package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scorecard/internal/ui/theme"
)

// ScoreBar displays a value out of Max as a horizontal bar, with an
// optional goal marker.
type ScoreBar struct {
	Label string
	Value int
	Max   int
	// Goal draws a marker at this value when positive.
	Goal  int
	Width int
	Fill  color.Color
}

// NewScoreBar creates a bar filled in the theme's secondary color.
func NewScoreBar(label string, value, total, width int) ScoreBar {
	return ScoreBar{
		Label: label,
		Value: value,
		Max:   total,
		Width: width,
		Fill:  theme.Secondary,
	}
}

// WithGoal returns a copy of the bar with a goal marker.
func (b ScoreBar) WithGoal(goal int) ScoreBar {
	b.Goal = goal
	return b
}

// Cells returns how many of width cells v out of total fills, clamped to
// [0, width].
func Cells(v, total, width int) int {
	if total <= 0 || width <= 0 {
		return 0
	}
	n := v * width / total
	return min(max(n, 0), width)
}

// View renders the bar.
func (b ScoreBar) View() string {
	var out string
	if b.Label != "" {
		out = lipgloss.NewStyle().Foreground(theme.Text).Width(14).Render(b.Label)
	}

	suffix := fmt.Sprintf("  %d/%d", b.Value, b.Max)
	barWidth := max(b.Width-lipgloss.Width(out)-len(suffix), 4)

	filled := Cells(b.Value, b.Max, barWidth)
	goalAt := -1
	if b.Goal > 0 {
		goalAt = min(Cells(b.Goal, b.Max, barWidth), barWidth-1)
	}

	fill := lipgloss.NewStyle().Background(b.Fill)
	empty := lipgloss.NewStyle().Background(theme.Border)
	marker := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var bar strings.Builder
	for i := range barWidth {
		switch {
		case i == goalAt:
			bar.WriteString(marker.Render("│"))
		case i < filled:
			bar.WriteString(fill.Render(" "))
		default:
			bar.WriteString(empty.Render(" "))
		}
	}

	return out + bar.String() + lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
}
