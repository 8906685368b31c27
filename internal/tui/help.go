package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (HelpModel, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	sections = append(sections, m.renderSection("Navigation", []keyHelp{
		{"1", "Home"},
		{"2", "Exercise library"},
		{"3", "Stats"},
		{"4", "Profile"},
		{"5", "Settings"},
		{"s", "Start the recommended workout when it's time to move"},
		{"?", "Help (this screen)"},
		{"esc", "Close help"},
		{"q", "Quit"},
	}))

	sections = append(sections, m.renderSection("Home", []keyHelp{
		{"j / k", "Move through quick start"},
		{"enter", "Start selected workout"},
		{"p", "Adjust focus areas"},
	}))

	sections = append(sections, m.renderSection("Workout", []keyHelp{
		{"enter", "Finish and log (early finish allowed)"},
		{"n", "Skip to next exercise"},
		{"esc", "Cancel without logging"},
	}))

	sections = append(sections, m.renderSection("Stats", []keyHelp{
		{"h / l", "Previous / next month"},
		{"t", "Back to this month"},
		{"j / k", "Scroll history"},
	}))

	sections = append(sections, m.renderSection("Settings", []keyHelp{
		{"+ / -", "Change daily goal"},
		{"enter", "Save goal"},
		{"x", "Clear all session data"},
	}))

	sections = append(sections, m.renderReminderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderReminderHelp() string {
	lines := []string{
		"",
		sectionStyle.Render("How reminders work"),
		"",
		"  " + mutedStyle.Render("During active hours the sessions you still owe today are spread evenly"),
		"  " + mutedStyle.Render("over the time left. Outside active hours you get a reminder every 25 min."),
		"  " + mutedStyle.Render("Finishing or cancelling a workout resets the sitting timer."),
	}
	return strings.Join(lines, "\n")
}
