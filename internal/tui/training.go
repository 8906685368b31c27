package tui

import (
	"fmt"
	"time"

	"rehab/internal/plan"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TrainingModel runs a workout. It has its own one-second tick; a new
// generation is started per workout so ticks from an abandoned workout are
// ignored.
type TrainingModel struct {
	runner *plan.Runner
	gen    int
}

type trainingTickMsg struct {
	gen int
}

func trainingTickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return trainingTickMsg{gen: gen}
	})
}

// NewTrainingModel creates an idle training model
func NewTrainingModel() TrainingModel {
	return TrainingModel{}
}

// Start begins p and its countdown
func (m TrainingModel) Start(p plan.Plan, defaults []plan.Exercise) (TrainingModel, tea.Cmd) {
	m.gen++
	m.runner = plan.NewRunner(p, defaults)
	if m.runner.Complete() {
		return m, nil
	}
	return m, trainingTickCmd(m.gen)
}

// Stop abandons the workout and its outstanding tick
func (m TrainingModel) Stop() TrainingModel {
	m.gen++
	m.runner = nil
	return m
}

// Update handles messages
func (m TrainingModel) Update(msg tea.Msg) (TrainingModel, tea.Cmd) {
	if m.runner == nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case trainingTickMsg:
		if msg.gen != m.gen || m.runner.Complete() {
			return m, nil
		}
		if m.runner.Tick() {
			return m, nil
		}
		return m, trainingTickCmd(m.gen)

	case tea.KeyMsg:
		switch msg.String() {
		case "n", "right":
			m.runner.Skip()
		case "enter", "f":
			return m, send(finishWorkoutMsg{plan: m.runner.Plan()})
		case "esc", "c":
			return m, send(cancelWorkoutMsg{})
		}
	}
	return m, nil
}

// View renders the workout
func (m TrainingModel) View() string {
	if m.runner == nil {
		return "\n  No workout in progress."
	}

	r := m.runner
	p := r.Plan()

	title := cardTitleStyle.Render(p.Name)
	position := mutedStyle.Render(fmt.Sprintf("Action %d of %d", r.Position(), r.Total()))

	name := "Workout Complete"
	desc := "Awesome work! Press enter to log your session and reset the timer."
	if ex, ok := r.Current(); ok {
		name = ex.Name
		desc = ex.Description
	}

	lines := []string{
		title,
		position,
		RenderProgressBar(r.WorkoutProgress(), 40),
		"",
		bigNumberStyle.Render(formatClock(r.SecondsLeft())),
		RenderProgressBar(r.ExerciseProgress(), 40),
		"",
		lipgloss.NewStyle().Bold(true).Render(name),
		mutedStyle.Width(60).Render(desc),
	}
	card := cardStyle.Width(66).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	finish := "enter: finish & log workout early"
	if r.Complete() {
		finish = successStyle.Render("enter: log session & go home")
	}
	help := statusStyle.Render(finish + "  n: next exercise  esc: cancel workout")

	return lipgloss.JoinVertical(lipgloss.Left, card, help)
}
