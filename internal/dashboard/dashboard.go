// Package dashboard is the terminal view of a student's assessment and
// improvement plan.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scorecard/internal/assessment"
	"github.com/abhisek/scorecard/internal/plan"
	"github.com/abhisek/scorecard/internal/ui/components"
	"github.com/abhisek/scorecard/internal/ui/layout"
	"github.com/abhisek/scorecard/internal/ui/theme"
)

// Planner generates improvement plans. *plan.Service satisfies it.
type Planner interface {
	GeneratePlan(ctx context.Context, snap assessment.Snapshot) plan.Result
}

// planReadyMsg carries the settled plan back to the UI goroutine.
type planReadyMsg struct {
	result plan.Result
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx     context.Context
	planner Planner
	snap    assessment.Snapshot

	spinner spinner.Model
	result  *plan.Result

	width  int
	height int
}

// New creates a dashboard for snap. The plan is requested once, on Init.
func New(ctx context.Context, planner Planner, snap assessment.Snapshot) Model {
	return Model{
		ctx:     ctx,
		planner: planner,
		snap:    snap,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.requestPlan())
}

func (m Model) requestPlan() tea.Cmd {
	ctx, planner, snap := m.ctx, m.planner, m.snap
	return func() tea.Msg {
		return planReadyMsg{result: planner.GeneratePlan(ctx, snap)}
	}
}

// Loading reports whether the plan request is still outstanding.
func (m Model) Loading() bool {
	return m.result == nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case planReadyMsg:
		res := msg.result
		m.result = &res
		return m, nil

	case spinner.TickMsg:
		if !m.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m Model) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	status := ""
	if m.snap.Percentile > 0 {
		status = fmt.Sprintf("P%d", m.snap.Percentile)
	}
	header := layout.RenderHeader(m.snap.StudentName, status, m.width)
	footer := layout.RenderFooter([]layout.KeyHint{
		{Key: "q", Description: "Quit"},
	}, m.width)

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderSummary(),
		m.renderSubjects(),
		m.renderPlan(),
	)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m Model) renderSummary() string {
	s := m.snap
	var lines []string
	if s.TotalMarks > 0 {
		lines = append(lines, fmt.Sprintf("Marks        %d / %d", s.Marks, s.TotalMarks))
	}
	if s.Percentile > 0 {
		line := fmt.Sprintf("Percentile   %d", s.Percentile)
		if s.GoalPercentile > 0 {
			line += fmt.Sprintf("  (goal %d)", s.GoalPercentile)
		}
		lines = append(lines, line)
	}
	if s.TotalStudents > 0 {
		lines = append(lines, fmt.Sprintf("Rank         %d of %d", s.Rank, s.TotalStudents))
	}
	if s.OverallAccuracy > 0 {
		lines = append(lines, fmt.Sprintf("Accuracy     %d%%", s.OverallAccuracy))
	}
	if len(lines) == 0 {
		return ""
	}
	body := theme.Title.Render("Summary") + "\n" + theme.Body.Render(strings.Join(lines, "\n"))
	if s.Percentile > 0 {
		bar := components.NewScoreBar("Percentile", s.Percentile, 100, m.barWidth()).WithGoal(s.GoalPercentile)
		body += "\n" + bar.View()
	}
	return theme.Card.Render(body)
}

// barWidth fits score bars inside a card on the current terminal.
func (m Model) barWidth() int {
	return min(max(m.width-8, 30), 72)
}

func (m Model) renderSubjects() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Subjects"))
	if len(m.snap.Subjects) == 0 {
		b.WriteString("\n" + theme.Hint.Render("No subjects recorded."))
	}
	for _, sub := range m.snap.Subjects {
		if sub.TotalScore > 0 {
			bar := components.NewScoreBar(sub.Name, sub.Score, sub.TotalScore, m.barWidth()-10)
			bar.Fill = theme.StatusColor(sub.Status)
			fmt.Fprintf(&b, "\n%s  %s", bar.View(), theme.Status(sub.Status))
			continue
		}
		fmt.Fprintf(&b, "\n%-14s %s", sub.Name, theme.Status(sub.Status))
	}
	return theme.Card.Render(b.String())
}

func (m Model) renderPlan() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Improvement Plan"))

	if m.Loading() {
		b.WriteString("\n" + m.spinner.View() + " " + theme.Hint.Render("Preparing your plan..."))
		return theme.Card.Render(b.String())
	}

	if m.result.FocusSubject != "" {
		b.WriteString(theme.Hint.Render("  focus: " + m.result.FocusSubject))
	}
	for i, step := range m.result.Steps {
		fmt.Fprintf(&b, "\n%d. %s", i+1, theme.Body.Render(step))
	}
	return theme.Card.Render(b.String())
}

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, planner Planner, snap assessment.Snapshot) error {
	p := tea.NewProgram(New(ctx, planner, snap), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
