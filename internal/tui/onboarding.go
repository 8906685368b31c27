package tui

import (
	"fmt"
	"slices"

	"rehab/internal/plan"
	"rehab/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// OnboardingModel picks problem areas and, on first run, the daily goal.
// With adjust set it is the posture setup dialog: areas only, esc closes.
type OnboardingModel struct {
	areas    []plan.BodyArea
	selected []string // selection order drives the recommendation
	cursor   int
	goal     int
	adjust   bool
	warning  string
}

// NewOnboardingModel creates the first-run form, or the posture setup
// dialog when adjust is true.
func NewOnboardingModel(tracker *service.Tracker, adjust bool) OnboardingModel {
	return OnboardingModel{
		areas:    tracker.Library().Areas,
		selected: tracker.PostureAreas(),
		goal:     min(max(tracker.Goal(), service.MinOnboardingGoal), service.MaxOnboardingGoal),
		adjust:   adjust,
	}
}

// Update handles messages
func (m OnboardingModel) Update(msg tea.Msg) (OnboardingModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.areas)-1 {
			m.cursor++
		}
	case " ", "x":
		m.toggle(m.areas[m.cursor].ID)
		m.warning = ""
	case "+", "=", "right", "l":
		if !m.adjust && m.goal < service.MaxOnboardingGoal {
			m.goal++
		}
	case "-", "left", "h":
		if !m.adjust && m.goal > service.MinOnboardingGoal {
			m.goal--
		}
	case "enter":
		if len(m.selected) == 0 {
			m.warning = "Select at least one area to continue"
			return m, nil
		}
		areas := slices.Clone(m.selected)
		if m.adjust {
			return m, send(savePostureMsg{areas: areas})
		}
		return m, send(completeOnboardingMsg{areas: areas, goal: m.goal})
	case "esc":
		if m.adjust {
			return m, send(closePostureMsg{})
		}
	}
	return m, nil
}

func (m *OnboardingModel) toggle(id string) {
	if i := slices.Index(m.selected, id); i >= 0 {
		m.selected = slices.Delete(m.selected, i, i+1)
		return
	}
	m.selected = append(m.selected, id)
}

// View renders the form
func (m OnboardingModel) View() string {
	var sections []string

	if m.adjust {
		sections = append(sections, cardTitleStyle.Render("Adjust your Plan"))
	} else {
		sections = append(sections,
			cardTitleStyle.Render("Welcome! Let's set up your routine"),
			mutedStyle.Render("Step 1 of 2: where do you feel tension after sitting?"),
			"")
	}

	var rows []string
	for i, a := range m.areas {
		mark := "[ ]"
		if n := slices.Index(m.selected, a.ID); n >= 0 {
			mark = fmt.Sprintf("[%d]", n+1)
		}
		label := mark + " " + a.Label
		if i == m.cursor {
			rows = append(rows, selectedRowStyle.Render(label))
		} else {
			rows = append(rows, rowStyle.Render(label))
		}
	}
	sections = append(sections, cardStyle.Width(50).Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))

	if !m.adjust {
		sections = append(sections,
			"",
			mutedStyle.Render("Step 2 of 2: how many sessions a day?"),
			cardStyle.Width(50).Render(RenderMetric("Daily goal", fmt.Sprintf("- %d +", m.goal))))
	}

	if m.warning != "" {
		sections = append(sections, warningStyle.Render(m.warning))
	}

	help := "j/k: move  space: toggle  +/-: goal  enter: start"
	if m.adjust {
		help = "j/k: move  space: toggle  enter: save  esc: close"
	}
	sections = append(sections, statusStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
