package tui

import (
	"fmt"

	"rehab/internal/service"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// ProfileModel shows the display name and totals and edits the name
type ProfileModel struct {
	tracker *service.Tracker
	input   textinput.Model
}

// NewProfileModel creates a new profile model
func NewProfileModel(tracker *service.Tracker) ProfileModel {
	ti := textinput.New()
	ti.Placeholder = service.AnonymousName
	ti.CharLimit = 40
	ti.Width = 30
	ti.Prompt = "> "

	m := ProfileModel{tracker: tracker, input: ti}
	return m.Reset()
}

// Reset discards edits and shows the stored name
func (m ProfileModel) Reset() ProfileModel {
	m.input.Blur()
	m.input.SetValue(m.tracker.Profile().DisplayName)
	return m
}

// Editing reports whether the name field has focus
func (m ProfileModel) Editing() bool {
	return m.input.Focused()
}

// Update handles messages
func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if !m.Editing() {
			switch key.String() {
			case "e", "enter":
				m.input.CursorEnd()
				return m, m.input.Focus()
			}
			return m, nil
		}

		switch key.String() {
		case "enter":
			name := m.input.Value()
			m.input.Blur()
			return m, send(saveProfileMsg{name: name})
		case "esc":
			return m.Reset(), nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the profile
func (m ProfileModel) View() string {
	p := m.tracker.Profile()

	avatar := mutedStyle.Render("none")
	if p.AvatarDataURL != nil {
		avatar = fmt.Sprintf("set (%s)", humanize.Bytes(uint64(len(*p.AvatarDataURL))))
	}

	nameLine := RenderMetric("Display name", p.Name())
	if m.Editing() {
		nameLine = lipgloss.JoinHorizontal(lipgloss.Left, metricLabelStyle.Render("Display name"), m.input.View())
	}

	lines := []string{
		nameLine,
		RenderMetric("Avatar", avatar),
		"",
		RenderMetric("Total sessions", humanize.Comma(int64(m.tracker.SessionCount()))),
		RenderMetric("Daily goal", plural(m.tracker.Goal(), "session")),
	}
	title := cardTitleStyle.Render("Profile")
	card := cardStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, lines...)))

	help := "e: edit name"
	if m.Editing() {
		help = "enter: save  esc: discard"
	}
	return lipgloss.JoinVertical(lipgloss.Left, card, statusStyle.Render(help))
}
