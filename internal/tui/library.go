package tui

import (
	"fmt"

	"rehab/internal/plan"
	"rehab/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LibraryModel lists the workout plans followed by every single exercise
type LibraryModel struct {
	plans     []plan.Plan
	exercises []plan.Plan
	cursor    int
}

// NewLibraryModel creates a new library model
func NewLibraryModel(tracker *service.Tracker) LibraryModel {
	lib := tracker.Library()
	return LibraryModel{
		plans:     lib.Plans,
		exercises: lib.ExercisePlans(),
	}
}

func (m LibraryModel) items() []plan.Plan {
	out := make([]plan.Plan, 0, len(m.plans)+len(m.exercises))
	out = append(out, m.plans...)
	return append(out, m.exercises...)
}

// Update handles messages
func (m LibraryModel) Update(msg tea.Msg) (LibraryModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	total := len(m.plans) + len(m.exercises)
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < total-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = total - 1
	case "enter":
		if total > 0 {
			return m, send(startWorkoutMsg{plan: m.items()[m.cursor]})
		}
	}
	return m, nil
}

// View renders the library
func (m LibraryModel) View() string {
	var rows []string

	rows = append(rows, sectionStyle.Render("Workouts"))
	for i, p := range m.plans {
		label := fmt.Sprintf("%-20s %-7s %-12s %s", p.Name, p.Intensity, plural(p.ActionCount(), "exercise"), formatClock(p.TotalSeconds()))
		rows = append(rows, m.renderRow(i, label))
	}

	rows = append(rows, "", sectionStyle.Render("Single Exercises"))
	for i, p := range m.exercises {
		desc := ""
		if len(p.Exercises) > 0 {
			desc = p.Exercises[0].Description
		}
		label := fmt.Sprintf("%-20s %s", p.Name, desc)
		rows = append(rows, m.renderRow(len(m.plans)+i, label))
	}

	title := cardTitleStyle.Render("Exercise Library")
	card := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, rows...)))
	help := statusStyle.Render("j/k: move  enter: start")

	return lipgloss.JoinVertical(lipgloss.Left, card, help)
}

func (m LibraryModel) renderRow(i int, label string) string {
	if i == m.cursor {
		return selectedRowStyle.Render(label)
	}
	return rowStyle.Render(label)
}
