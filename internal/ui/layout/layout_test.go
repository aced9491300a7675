package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(59, 40))
	assert.True(t, IsTooSmall(100, 19))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
}

func TestRenderMinSizeMessage(t *testing.T) {
	out := RenderMinSizeMessage(40, 10)
	assert.Contains(t, out, "Terminal too small!")
	assert.Contains(t, out, "have 40x10")
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader("Rahul", "ready", 80)
	assert.Contains(t, out, "Scorecard")
	assert.Contains(t, out, "Rahul")
	assert.Contains(t, out, "ready")
	assert.Equal(t, 80, lipgloss.Width(out))
}

func TestRenderFrame_FitsHeight(t *testing.T) {
	header := RenderHeader("Rahul", "", 80)
	footer := RenderFooter([]KeyHint{{Key: "q", Description: "quit"}}, 80)
	body := strings.Repeat("line\n", 100)

	out := RenderFrame(header, body, footer, 80, 24)

	assert.Equal(t, 24, lipgloss.Height(out))
	assert.Contains(t, out, "quit")
}
