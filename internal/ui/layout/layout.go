// Package layout frames dashboard screens: a header bar, the body and a
// footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scorecard/internal/ui/theme"
)

// Below this the summary, subject and plan cards do not fit.
const (
	MinWidth  = 60
	MinHeight = 20
)

type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small!\n\nNeed at least %dx%d, have %dx%d.",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Body.Render(msg))
}

var bar = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border).
	Padding(0, 1)

// RenderHeader shows the app name and student on the left and status on
// the right.
func RenderHeader(student, status string, width int) string {
	left := theme.Title.Render("Scorecard") + theme.Hint.Render("  ·  ") + theme.Body.Render(student)
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)

	// Border and padding take two columns each side.
	gap := max(width-4-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return bar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar.Width(width).Render(strings.Join(parts, desc.Render("  ·  ")))
}

// RenderFrame stacks header, body and footer, clipping the body to the
// rows left between them.
func RenderFrame(header, body, footer string, width, height int) string {
	rows := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body = lipgloss.NewStyle().Width(width).Height(rows).MaxHeight(rows).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
