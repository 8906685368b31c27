package tui

import (
	"fmt"
	"strings"

	"rehab/internal/plan"
	"rehab/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HomeModel is the home screen: sitting timer, focus, daily progress and
// a quick-start list led by the recommended plan.
type HomeModel struct {
	tracker *service.Tracker
	cursor  int
}

// NewHomeModel creates a new home model
func NewHomeModel(tracker *service.Tracker) HomeModel {
	return HomeModel{tracker: tracker}
}

// quickPlans is the recommended plan followed by the rest of the library
func (m HomeModel) quickPlans() []plan.Plan {
	rec := m.tracker.Home().Recommended
	plans := []plan.Plan{rec}
	for _, p := range m.tracker.Library().Plans {
		if p.ID != rec.ID {
			plans = append(plans, p)
		}
	}
	return plans
}

// Update handles messages
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	plans := m.quickPlans()
	m.cursor = min(m.cursor, len(plans)-1)

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(plans)-1 {
			m.cursor++
		}
	case "enter":
		return m, send(startWorkoutMsg{plan: plans[m.cursor]})
	case "s":
		return m, send(startWorkoutMsg{plan: plans[0]})
	case "p":
		return m, send(openPostureMsg{})
	}
	return m, nil
}

// View renders the home screen
func (m HomeModel) View() string {
	h := m.tracker.Home()

	timer := m.renderTimerCard(h)
	progress := m.renderProgressCard(h)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, timer, "  ", progress)

	sections := []string{
		topRow,
		m.renderFocusCard(h),
		m.renderQuickStart(),
		statusStyle.Render("enter: start selected  s: start recommended  p: adjust focus areas"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HomeModel) renderTimerCard(h service.HomeData) string {
	if h.Due {
		title := errorStyle.Bold(true).Render("Time to Move!")
		lines := []string{
			title,
			"",
			fmt.Sprintf("You've been sitting for %s.", formatDuration(h.Elapsed)),
			fmt.Sprintf("Press s to start %s.", h.Recommended.Name),
		}
		return alertCardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	title := cardTitleStyle.Render("Next Session")
	lines := []string{
		bigNumberStyle.Render(formatClock(h.Remaining)),
		"",
		RenderProgressBar(float64(h.Elapsed)/float64(max(h.Interval, 1)), 30),
		mutedStyle.Render(fmt.Sprintf("Reminding every ~%d min", h.IntervalMinutes)),
		mutedStyle.Render("Sitting for " + formatClock(h.Elapsed)),
	}
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (m HomeModel) renderProgressCard(h service.HomeData) string {
	title := cardTitleStyle.Render("Daily Progress")

	status := successStyle.Render("Daily goal reached!")
	if h.TargetRemaining > 0 {
		status = mutedStyle.Render(remainingText(h.TargetRemaining))
	}

	lines := []string{
		RenderMetric("Completed", fmt.Sprintf("%d / %d", h.CompletedToday, h.Goal)),
		RenderProgressBar(float64(h.ProgressPercent)/100, 24) + fmt.Sprintf(" %d%%", h.ProgressPercent),
		"",
		status,
	}
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (m HomeModel) renderFocusCard(h service.HomeData) string {
	title := cardTitleStyle.Render("Today's Focus")

	focus := mutedStyle.Render("No focus areas yet. Press p to pick some.")
	if len(h.FocusAreas) > 0 {
		focus = strings.Join(h.FocusAreas, ", ")
	}

	rec := h.Recommended
	lines := []string{
		focus,
		"",
		RenderMetric("Recommended", rec.Name),
		RenderMetric("Intensity", string(rec.Intensity)),
		RenderMetric("Length", fmt.Sprintf("%s, %s", plural(rec.ActionCount(), "exercise"), formatClock(rec.TotalSeconds()))),
	}
	return cardStyle.Width(78).Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (m HomeModel) renderQuickStart() string {
	title := cardTitleStyle.Render("Quick Start")

	var rows []string
	for i, p := range m.quickPlans() {
		label := fmt.Sprintf("%-20s %-7s %s", p.Name, p.Intensity, formatClock(p.TotalSeconds()))
		if i == 0 {
			label += "  (recommended)"
		}
		if i == m.cursor {
			rows = append(rows, selectedRowStyle.Render(label))
		} else {
			rows = append(rows, rowStyle.Render(label))
		}
	}
	return cardStyle.Width(78).Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, rows...)))
}
