package tui

import (
	"fmt"

	"rehab/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SettingsModel edits the daily goal and clears history
type SettingsModel struct {
	tracker    *service.Tracker
	draft      int
	confirming bool
}

// NewSettingsModel creates a new settings model
func NewSettingsModel(tracker *service.Tracker) SettingsModel {
	return SettingsModel{tracker: tracker}.Reset()
}

// Reset drops unsaved edits
func (m SettingsModel) Reset() SettingsModel {
	m.draft = m.tracker.Goal()
	m.confirming = false
	return m
}

// Confirming reports whether the clear-data prompt is open
func (m SettingsModel) Confirming() bool {
	return m.confirming
}

// Update handles messages
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.confirming {
		switch key.String() {
		case "y":
			m.confirming = false
			return m, send(clearDataMsg{})
		case "n", "esc":
			m.confirming = false
		}
		return m, nil
	}

	switch key.String() {
	case "+", "=", "up", "k":
		m.draft++
	case "-", "down", "j":
		if m.draft > 1 {
			m.draft--
		}
	case "enter":
		return m, send(updateGoalMsg{goal: m.draft})
	case "x":
		m.confirming = true
	}
	return m, nil
}

// View renders the settings
func (m SettingsModel) View() string {
	goal := fmt.Sprintf("%d sessions per day", m.draft)
	if m.draft != m.tracker.Goal() {
		goal = warningStyle.Render(goal + "  (unsaved)")
	}

	w := m.tracker.Window()
	goalCard := cardStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Daily Session Goal"),
		RenderMetric("Goal", goal),
		RenderMetric("Active hours", fmt.Sprintf("%02d:00 - %02d:00", w.StartHour, w.EndHour)),
		"",
		mutedStyle.Render("Reminders spread your remaining sessions over the rest of the active hours."),
	))

	dataLines := []string{
		cardTitleStyle.Render("Data"),
		RenderMetric("User ID", m.tracker.Owner()),
		RenderMetric("Sessions stored", fmt.Sprint(m.tracker.SessionCount())),
	}
	if m.confirming {
		dataLines = append(dataLines, "", errorStyle.Bold(true).Render("Delete all session history? This cannot be undone. (y/n)"))
	}
	dataCard := cardStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left, dataLines...))

	help := statusStyle.Render("+/-: change goal  enter: save goal  x: clear all data")
	return lipgloss.JoinVertical(lipgloss.Left, goalCard, dataCard, help)
}
