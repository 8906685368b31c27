// Package scheduler decides how long the user may sit before the next
// exercise reminder.
package scheduler

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidGoal is returned when the daily goal is not positive
var ErrInvalidGoal = errors.New("daily goal must be at least 1")

// Window is the daily span during which reminders are spread proportionally
type Window struct {
	StartHour       int // local hour the active window opens
	EndHour         int // local hour the active window closes
	OutsideInterval int // seconds, used outside the active window
	MinRemaining    int // seconds, floor for the remaining window
}

// DefaultWindow is 09:00 to 21:00 with a 25 minute fallback
func DefaultWindow() Window {
	return Window{
		StartHour:       9,
		EndHour:         21,
		OutsideInterval: 25 * 60,
		MinRemaining:    60,
	}
}

// Bounds returns the active window on the calendar day containing now,
// in now's location.
func (w Window) Bounds(now time.Time) (start, end time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	start = time.Date(y, m, d, w.StartHour, 0, 0, 0, loc)
	end = time.Date(y, m, d, w.EndHour, 0, 0, 0, loc)
	return start, end
}

// Contains reports whether now falls inside the active window (inclusive)
func (w Window) Contains(now time.Time) bool {
	start, end := w.Bounds(now)
	return !now.Before(start) && !now.After(end)
}

// TotalSeconds is the elapsed length of the active window on the day
// containing now. It differs from the nominal hour count when a DST
// change falls inside the window.
func (w Window) TotalSeconds(now time.Time) int {
	start, end := w.Bounds(now)
	return int(end.Sub(start).Seconds())
}

// Scheduler computes reminder intervals for a window
type Scheduler struct {
	window Window
}

// New creates a scheduler for the given window
func New(w Window) *Scheduler {
	return &Scheduler{window: w}
}

// Window returns the scheduler's active window
func (s *Scheduler) Window() Window {
	return s.window
}

// Interval returns the number of seconds the user may sit before the next
// reminder. Outside the active window it returns the fixed fallback.
// Inside, the remaining window is divided evenly over the sessions still
// needed today, with at least one session always counted as remaining.
func (s *Scheduler) Interval(now time.Time, dailyGoal, completedToday int) (int, error) {
	if dailyGoal <= 0 {
		return 0, ErrInvalidGoal
	}
	if completedToday < 0 {
		completedToday = 0
	}

	w := s.window
	start, end := w.Bounds(now)
	if now.Before(start) || now.After(end) {
		return w.OutsideInterval, nil
	}

	elapsed := now.Sub(start).Seconds()
	total := float64(w.TotalSeconds(now))

	remainingSessions := max(dailyGoal-completedToday, 1)
	remainingWindow := math.Max(total-elapsed, float64(w.MinRemaining))

	interval := int(math.Round(remainingWindow / float64(remainingSessions)))
	return max(interval, 1), nil
}

// NormalizeGoal clamps a goal to the minimum of 1
func NormalizeGoal(goal int) int {
	if goal < 1 {
		return 1
	}
	return goal
}
