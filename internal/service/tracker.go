package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"rehab/internal/ledger"
	"rehab/internal/plan"
	"rehab/internal/scheduler"
	"rehab/internal/store"
)

var (
	// ErrStorageWrite is returned when a change could not be persisted.
	// In-memory state is left as it was before the call.
	ErrStorageWrite = ledger.ErrStorageWrite

	ErrNoAreas     = errors.New("select at least one area")
	ErrUnknownArea = errors.New("unknown body area")
	ErrInvalidGoal = scheduler.ErrInvalidGoal
)

// KV is the persistent key-value store the tracker reads and writes
type KV interface {
	GetValue(key string) (string, error)
	SetValue(key, value string) error
	DeleteValue(key string) error
}

// Options configures a Tracker. Zero fields get defaults.
type Options struct {
	Library     *plan.Library
	Window      scheduler.Window
	DefaultGoal int
	Clock       scheduler.Clock
	Location    *time.Location
	Logger      *slog.Logger
	Owner       string
}

// Tracker is the application state: goal, profile, posture areas, the
// session ledger and the sitting reminder. Its methods are not safe for
// concurrent use; the TUI calls them only from its update loop.
type Tracker struct {
	kv       KV
	library  *plan.Library
	sched    *scheduler.Scheduler
	clock    scheduler.Clock
	loc      *time.Location
	log      *slog.Logger
	owner    string
	ledger   *ledger.Ledger
	reminder *scheduler.Reminder

	goal    int
	profile Profile
	posture []string
	workout *plan.Plan

	// last observed calendar day and window state, for tick-driven recomputes
	lastDay    time.Time
	lastInside bool
}

// NewTracker builds the application state from whatever kv holds.
// Malformed values are logged and replaced by defaults; loading never fails.
func NewTracker(kv KV, opts Options) *Tracker {
	if opts.Library == nil {
		opts.Library = plan.DefaultLibrary()
	}
	if opts.Window == (scheduler.Window{}) {
		opts.Window = scheduler.DefaultWindow()
	}
	if opts.DefaultGoal <= 0 {
		opts.DefaultGoal = FallbackGoal
	}
	if opts.Clock == nil {
		opts.Clock = scheduler.SystemClock{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Owner == "" {
		opts.Owner = DefaultOwner
	}

	t := &Tracker{
		kv:      kv,
		library: opts.Library,
		sched:   scheduler.New(opts.Window),
		clock:   opts.Clock,
		loc:     opts.Location,
		log:     opts.Logger,
		owner:   opts.Owner,
	}

	goal, err := loadGoal(kv, opts.DefaultGoal)
	if err != nil {
		t.log.Warn("using default goal", "goal", goal, "error", err)
	}
	t.goal = goal

	if t.profile, err = loadProfile(kv); err != nil {
		t.log.Warn("ignoring stored profile", "error", err)
	}

	posture, err := loadPosture(kv)
	if err != nil {
		t.log.Warn("ignoring stored posture areas", "error", err)
	}
	t.posture = t.cleanAreas(posture)

	var report ledger.LoadReport
	t.ledger, report = ledger.Load(kv, t.owner,
		ledger.WithClock(t.now),
		ledger.WithLocation(t.loc),
		ledger.WithLogger(t.log),
	)
	t.log.Info("tracker loaded",
		"goal", t.goal,
		"areas", len(t.posture),
		"sessions", report.Loaded,
		"skipped", report.Skipped)

	t.reminder = scheduler.NewReminder(opts.Window.OutsideInterval)
	t.Recompute()
	return t
}

func (t *Tracker) now() time.Time {
	return t.clock.Now().In(t.loc)
}

// cleanAreas drops unknown and repeated ids, keeping first-seen order
func (t *Tracker) cleanAreas(areas []string) []string {
	var out []string
	for _, id := range areas {
		if _, ok := t.library.Area(id); !ok {
			t.log.Warn("dropping unknown posture area", "area", id)
			continue
		}
		if slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Recompute derives the reminder interval from the current time, goal and
// today's session count.
func (t *Tracker) Recompute() {
	now := t.now()
	completed := t.ledger.CountOnDay(now)

	interval, err := t.sched.Interval(now, scheduler.NormalizeGoal(t.goal), completed)
	if err != nil {
		// goal is always positive here
		t.log.Error("computing interval", "error", err)
		return
	}
	t.reminder.SetInterval(interval)

	t.lastDay = startOfDay(now)
	t.lastInside = t.sched.Window().Contains(now)

	t.log.Debug("interval recomputed",
		"interval", interval,
		"goal", t.goal,
		"completed", completed)
}

// Tick advances the sitting counter by one second. It reports whether the
// reminder became due on this tick. Crossing midnight or the active window
// boundary triggers a recompute first.
func (t *Tracker) Tick() bool {
	wasDue := t.reminder.Due()

	now := t.now()
	if !startOfDay(now).Equal(t.lastDay) || t.sched.Window().Contains(now) != t.lastInside {
		t.Recompute()
	}
	t.reminder.Tick()

	fired := !wasDue && t.reminder.Due()
	if fired {
		t.log.Info("reminder due",
			"elapsed", t.reminder.Elapsed(),
			"interval", t.reminder.Interval())
	}
	return fired
}

// StartWorkout marks p as in progress and suppresses the reminder
func (t *Tracker) StartWorkout(p plan.Plan) {
	t.workout = &p
	t.reminder.StartWorkout()
	t.log.Info("workout started", "plan", p.Name)
}

// ActiveWorkout returns the plan in progress, if any
func (t *Tracker) ActiveWorkout() (plan.Plan, bool) {
	if t.workout == nil {
		return plan.Plan{}, false
	}
	return *t.workout, true
}

// FinishWorkout records a session for p, resets the sitting counter and
// recomputes the interval. On a storage failure the workout stays active
// and nothing is recorded.
func (t *Tracker) FinishWorkout(p plan.Plan) (ledger.Session, error) {
	s, err := t.ledger.Append(ledger.Session{Plan: p})
	if err != nil {
		return ledger.Session{}, err
	}
	t.workout = nil
	t.reminder.EndWorkout()
	t.Recompute()
	return s, nil
}

// CancelWorkout discards the workout without recording it
func (t *Tracker) CancelWorkout() {
	if t.workout != nil {
		t.log.Info("workout cancelled", "plan", t.workout.Name)
	}
	t.workout = nil
	t.reminder.EndWorkout()
	t.Recompute()
}

// Dismiss restarts the sitting counter after a reminder that was
// acknowledged without a workout. Nothing is recorded.
func (t *Tracker) Dismiss() {
	if t.workout != nil {
		return
	}
	t.reminder.EndWorkout()
	t.Recompute()
}

// UpdateGoal persists a new daily goal
func (t *Tracker) UpdateGoal(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGoal, n)
	}
	if err := write(t.kv, GoalKey, fmt.Sprint(n)); err != nil {
		return err
	}
	t.goal = n
	t.Recompute()
	return nil
}

// SavePostureAreas persists the selected areas in selection order.
// Repeats are dropped; unknown ids are rejected.
func (t *Tracker) SavePostureAreas(areas []string) error {
	clean, err := t.validAreas(areas)
	if err != nil {
		return err
	}

	if err := writeJSON(t.kv, PostureKey, clean); err != nil {
		return err
	}
	t.posture = clean
	return nil
}

// validAreas rejects unknown ids and an empty selection and drops repeats
func (t *Tracker) validAreas(areas []string) ([]string, error) {
	var clean []string
	for _, id := range areas {
		if _, ok := t.library.Area(id); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownArea, id)
		}
		if !slices.Contains(clean, id) {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return nil, ErrNoAreas
	}
	return clean, nil
}

// SaveProfile persists the display name, trimmed and defaulting to
// AnonymousName, and the avatar data URL as given.
func (t *Tracker) SaveProfile(name string, avatar *string) error {
	p := Profile{DisplayName: Profile{DisplayName: name}.Name()}
	if avatar != nil && *avatar != "" {
		a := *avatar
		p.AvatarDataURL = &a
	}
	if err := writeJSON(t.kv, ProfileKey, p); err != nil {
		return err
	}
	t.profile = p
	return nil
}

// ClearData removes every recorded session
func (t *Tracker) ClearData() error {
	if err := t.ledger.ClearAll(); err != nil {
		return err
	}
	t.Recompute()
	return nil
}

// CompleteOnboarding saves the first posture areas and goal. A goal that is
// not positive becomes FallbackGoal.
//
// The goal is written first and the posture areas last, since stored areas
// mark onboarding as done. If the areas cannot be written the goal is put
// back, and memory is only updated once both writes succeeded.
func (t *Tracker) CompleteOnboarding(areas []string, goal int) error {
	clean, err := t.validAreas(areas)
	if err != nil {
		return err
	}
	if goal <= 0 {
		goal = FallbackGoal
	}

	prevGoal, err := t.kv.GetValue(GoalKey)
	hadGoal := err == nil
	if err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return fmt.Errorf("reading %s: %w", GoalKey, err)
	}

	if err := write(t.kv, GoalKey, fmt.Sprint(goal)); err != nil {
		return err
	}
	if err := writeJSON(t.kv, PostureKey, clean); err != nil {
		if rerr := restore(t.kv, GoalKey, prevGoal, hadGoal); rerr != nil {
			t.log.Error("restoring goal after failed onboarding", "error", rerr)
		}
		return err
	}

	t.goal = goal
	t.posture = clean
	t.Recompute()
	return nil
}

// HomeData is a snapshot of everything the home screen shows
type HomeData struct {
	Now             time.Time
	Elapsed         int
	Remaining       int
	Interval        int
	IntervalMinutes int
	Due             bool
	InWorkout       bool

	Goal            int
	CompletedToday  int
	ProgressPercent int
	TargetRemaining int

	Recommended plan.Plan
	FocusAreas  []string
	Onboarded   bool
}

// Home builds the home screen snapshot
func (t *Tracker) Home() HomeData {
	now := t.now()
	completed := t.ledger.CountOnDay(now)
	interval := t.reminder.Interval()

	return HomeData{
		Now:             now,
		Elapsed:         t.reminder.Elapsed(),
		Remaining:       t.reminder.Remaining(),
		Interval:        interval,
		IntervalMinutes: max(int(math.Round(float64(interval)/SecondsPerMinute)), 1),
		Due:             t.reminder.Due(),
		InWorkout:       t.reminder.InWorkout(),
		Goal:            t.goal,
		CompletedToday:  completed,
		ProgressPercent: progressPercent(completed, t.goal),
		TargetRemaining: max(t.goal-completed, 0),
		Recommended:     t.library.Recommend(t.posture),
		FocusAreas:      t.library.AreaLabels(t.posture),
		Onboarded:       len(t.posture) > 0,
	}
}

func progressPercent(completed, goal int) int {
	if goal <= 0 {
		return 0
	}
	return min(int(math.Round(float64(completed)*100/float64(goal))), 100)
}

// Accessors

func (t *Tracker) Goal() int { return t.goal }
func (t *Tracker) Profile() Profile { return t.profile }
func (t *Tracker) Owner() string { return t.owner }
func (t *Tracker) Library() *plan.Library { return t.library }
func (t *Tracker) Location() *time.Location { return t.loc }
func (t *Tracker) Now() time.Time { return t.now() }
func (t *Tracker) Sessions() []ledger.Session { return t.ledger.All() }
func (t *Tracker) SessionCount() int { return t.ledger.Len() }
func (t *Tracker) Onboarded() bool { return len(t.posture) > 0 }
func (t *Tracker) CompletedToday() int { return t.ledger.CountOnDay(t.now()) }
func (t *Tracker) Window() scheduler.Window { return t.sched.Window() }
func (t *Tracker) Reminder() scheduler.Reminder { return *t.reminder }

// PostureAreas returns the selected area ids in selection order
func (t *Tracker) PostureAreas() []string {
	return slices.Clone(t.posture)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
