package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rehab/internal/notify"
	"rehab/internal/plan"
	"rehab/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenHome Screen = iota
	ScreenLibrary
	ScreenStats
	ScreenProfile
	ScreenSettings
	ScreenTraining
	ScreenOnboarding
	ScreenPosture
	ScreenHelp
)

const notifyTimeout = 5 * time.Second

// Options holds display preferences and collaborators for the App
type Options struct {
	WeekStart   time.Weekday
	HistoryDays int
	Notifier    notify.Notifier
	Logger      *slog.Logger
}

// App is the root Bubble Tea model. All Tracker mutations happen in Update.
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	home       HomeModel
	library    LibraryModel
	stats      StatsModel
	profile    ProfileModel
	settings   SettingsModel
	training   TrainingModel
	onboarding OnboardingModel
	posture    OnboardingModel
	help       HelpModel

	// Services
	tracker  *service.Tracker
	notifier notify.Notifier
	log      *slog.Logger

	// tickGen identifies the live sitting tick; ticks from older generations are dropped
	tickGen int

	// Window dimensions
	width  int
	height int

	// Status message
	status    string
	statusErr bool
}

// NewApp creates a new App around an already loaded tracker
func NewApp(tracker *service.Tracker, opts Options) *App {
	if opts.Notifier == nil {
		opts.Notifier = notify.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = 14
	}

	a := &App{
		screen:     ScreenHome,
		tracker:    tracker,
		notifier:   opts.Notifier,
		log:        opts.Logger,
		home:       NewHomeModel(tracker),
		library:    NewLibraryModel(tracker),
		stats:      NewStatsModel(tracker, opts.WeekStart, opts.HistoryDays),
		profile:    NewProfileModel(tracker),
		settings:   NewSettingsModel(tracker),
		training:   NewTrainingModel(),
		onboarding: NewOnboardingModel(tracker, false),
		help:       NewHelpModel(),
	}
	if !tracker.Onboarded() {
		a.screen = ScreenOnboarding
	}
	return a
}

// tickMsg is the once-a-second sitting tick
type tickMsg struct {
	gen int
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// restartTick abandons any outstanding tick and starts a new one
func (a *App) restartTick() tea.Cmd {
	a.tickGen++
	return tickCmd(a.tickGen)
}

// Intent messages emitted by screens and applied by the App
type (
	startWorkoutMsg       struct{ plan plan.Plan }
	finishWorkoutMsg      struct{ plan plan.Plan }
	cancelWorkoutMsg      struct{}
	updateGoalMsg         struct{ goal int }
	savePostureMsg        struct{ areas []string }
	saveProfileMsg        struct{ name string }
	clearDataMsg          struct{}
	completeOnboardingMsg struct {
		areas []string
		goal  int
	}
	openPostureMsg  struct{}
	closePostureMsg struct{}
	notifyResultMsg struct{ err error }
)

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.restartTick()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != a.tickGen {
			return a, nil
		}
		cmds := []tea.Cmd{tickCmd(a.tickGen)}
		// no desktop reminder until areas are chosen
		if a.tracker.Tick() && a.tracker.Onboarded() {
			cmds = append(cmds, a.reminderNotification())
		}
		return a, tea.Batch(cmds...)

	case tea.ResumeMsg:
		return a, a.restartTick()

	case notifyResultMsg:
		if msg.err != nil {
			a.log.Warn("desktop notification failed", "error", msg.err)
		}
		return a, nil

	case tea.KeyMsg:
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var cmd tea.Cmd
		a.stats, cmd = a.stats.Update(msg)
		return a, cmd

	case startWorkoutMsg:
		return a, a.startWorkout(msg.plan)

	case finishWorkoutMsg:
		s, err := a.tracker.FinishWorkout(msg.plan)
		if err != nil {
			a.setError("Could not log session", err)
			return a, nil
		}
		a.training = a.training.Stop()
		a.screen = ScreenHome
		h := a.tracker.Home()
		a.setStatus(fmt.Sprintf("Logged %s. %s", s.Plan.Name, remainingText(h.TargetRemaining)))
		return a, nil

	case cancelWorkoutMsg:
		a.tracker.CancelWorkout()
		a.training = a.training.Stop()
		a.screen = ScreenHome
		a.setStatus("Workout cancelled")
		return a, nil

	case updateGoalMsg:
		if err := a.tracker.UpdateGoal(msg.goal); err != nil {
			a.setError("Could not update goal", err)
			return a, nil
		}
		a.setStatus(fmt.Sprintf("Daily goal set to %s", plural(msg.goal, "session")))
		return a, nil

	case savePostureMsg:
		if err := a.tracker.SavePostureAreas(msg.areas); err != nil {
			a.setError("Could not save areas", err)
			return a, nil
		}
		a.screen = a.prevScreen
		a.setStatus("Focus areas updated")
		return a, nil

	case saveProfileMsg:
		if err := a.tracker.SaveProfile(msg.name, a.tracker.Profile().AvatarDataURL); err != nil {
			a.setError("Could not save profile", err)
			return a, nil
		}
		a.profile = a.profile.Reset()
		a.setStatus("Profile saved")
		return a, nil

	case clearDataMsg:
		if err := a.tracker.ClearData(); err != nil {
			a.setError("Could not clear data", err)
			return a, nil
		}
		a.stats = a.stats.Refresh()
		a.setStatus("All session data cleared")
		return a, nil

	case completeOnboardingMsg:
		if err := a.tracker.CompleteOnboarding(msg.areas, msg.goal); err != nil {
			a.setError("Could not finish setup", err)
			return a, nil
		}
		a.screen = ScreenHome
		a.home = NewHomeModel(a.tracker)
		a.setStatus("You're all set")
		return a, nil

	case openPostureMsg:
		a.posture = NewOnboardingModel(a.tracker, true)
		a.prevScreen = a.screen
		a.screen = ScreenPosture
		return a, nil

	case closePostureMsg:
		a.screen = a.prevScreen
		return a, nil
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenHome:
		a.home, cmd = a.home.Update(msg)
	case ScreenLibrary:
		a.library, cmd = a.library.Update(msg)
	case ScreenStats:
		a.stats, cmd = a.stats.Update(msg)
	case ScreenProfile:
		a.profile, cmd = a.profile.Update(msg)
	case ScreenSettings:
		a.settings, cmd = a.settings.Update(msg)
	case ScreenTraining:
		a.training, cmd = a.training.Update(msg)
	case ScreenOnboarding:
		a.onboarding, cmd = a.onboarding.Update(msg)
	case ScreenPosture:
		a.posture, cmd = a.posture.Update(msg)
	case ScreenHelp:
		a.help, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// handleGlobalKey applies app-wide bindings. Screens that capture text or
// run a workout only get ctrl+c and ctrl+z.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit, true
	case "ctrl+z":
		return tea.Suspend, true
	}

	if a.capturesKeys() {
		return nil, false
	}

	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "1":
		a.switchTo(ScreenHome)
		return nil, true
	case "2":
		a.switchTo(ScreenLibrary)
		return nil, true
	case "3":
		a.switchTo(ScreenStats)
		return nil, true
	case "4":
		a.switchTo(ScreenProfile)
		return nil, true
	case "5":
		a.switchTo(ScreenSettings)
		return nil, true
	case "?":
		if a.screen != ScreenHelp {
			a.prevScreen = a.screen
			a.screen = ScreenHelp
		}
		return nil, true
	case "esc":
		if a.screen == ScreenHelp {
			a.screen = a.prevScreen
			return nil, true
		}
	case "s":
		if a.tracker.Home().Due {
			return a.startWorkout(a.tracker.Home().Recommended), true
		}
	}
	return nil, false
}

func (a *App) capturesKeys() bool {
	switch a.screen {
	case ScreenTraining, ScreenOnboarding, ScreenPosture:
		return true
	case ScreenProfile:
		return a.profile.Editing()
	case ScreenSettings:
		return a.settings.Confirming()
	}
	return false
}

func (a *App) switchTo(s Screen) {
	a.status = ""
	a.screen = s
	switch s {
	case ScreenStats:
		a.stats = a.stats.Refresh()
	case ScreenProfile:
		a.profile = a.profile.Reset()
	case ScreenSettings:
		a.settings = a.settings.Reset()
	}
}

func (a *App) startWorkout(p plan.Plan) tea.Cmd {
	a.tracker.StartWorkout(p)
	var cmd tea.Cmd
	a.training, cmd = a.training.Start(p, a.tracker.Library().Exercises)
	a.screen = ScreenTraining
	a.status = ""
	return cmd
}

func (a *App) reminderNotification() tea.Cmd {
	h := a.tracker.Home()
	body := notify.ReminderBody(h.Recommended.Name, h.CompletedToday, h.Goal)
	n := a.notifier
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		return notifyResultMsg{err: n.Notify(ctx, "Time to Move!", body)}
	}
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(prefix string, err error) {
	a.log.Error(prefix, "error", err)
	a.statusErr = true
	switch {
	case errors.Is(err, service.ErrStorageWrite):
		a.status = prefix + ": changes were not saved"
	default:
		a.status = fmt.Sprintf("%s: %v", prefix, err)
	}
}

// View renders the app
func (a *App) View() string {
	var content string
	switch a.screen {
	case ScreenHome:
		content = a.home.View()
	case ScreenLibrary:
		content = a.library.View()
	case ScreenStats:
		content = a.stats.View()
	case ScreenProfile:
		content = a.profile.View()
	case ScreenSettings:
		content = a.settings.View()
	case ScreenTraining:
		content = a.training.View()
	case ScreenOnboarding:
		content = a.onboarding.View()
	case ScreenPosture:
		content = a.posture.View()
	case ScreenHelp:
		content = a.help.View()
	}

	sections := []string{a.renderHeader()}
	if a.showNav() {
		sections = append(sections, a.renderNav())
		if a.screen != ScreenHome && a.tracker.Home().Due {
			sections = append(sections, a.renderAlertBanner())
		}
	}
	sections = append(sections, content, a.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) showNav() bool {
	switch a.screen {
	case ScreenTraining, ScreenOnboarding:
		return false
	}
	return true
}

func (a *App) renderHeader() string {
	h := a.tracker.Home()
	title := "My Rehab"
	if a.screen == ScreenOnboarding {
		return headerStyle.Render(title)
	}
	timer := fmt.Sprintf("sitting %s  next in %s", formatClock(h.Elapsed), formatClock(h.Remaining))
	return headerStyle.Render(title + "  " + timer)
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Home", ScreenHome},
		{"2", "Exercises", ScreenLibrary},
		{"3", "Stats", ScreenStats},
		{"4", "Profile", ScreenProfile},
		{"5", "Settings", ScreenSettings},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderAlertBanner() string {
	h := a.tracker.Home()
	return errorStyle.Bold(true).Render(fmt.Sprintf("Time to Move! Press s to start %s.", h.Recommended.Name))
}

func (a *App) renderFooter() string {
	if a.status == "" {
		return ""
	}
	if a.statusErr {
		return statusStyle.Foreground(errorColor).Render(a.status)
	}
	return statusStyle.Render(a.status)
}

func remainingText(n int) string {
	if n <= 0 {
		return "Daily goal reached!"
	}
	return plural(n, "more session") + " to reach today's goal."
}
