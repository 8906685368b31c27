package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

var testLoc = time.FixedZone("test", 2*3600)

func at(hour, min, sec int) time.Time {
	return time.Date(2024, 3, 12, hour, min, sec, 0, testLoc)
}

func TestInterval_Scenarios(t *testing.T) {
	s := New(DefaultWindow())

	tests := []struct {
		name      string
		now       time.Time
		goal      int
		completed int
		want      int
	}{
		{"start of window, nothing done", at(9, 0, 0), 5, 0, 8640},
		{"start of window, goal met", at(9, 0, 0), 5, 5, 43200},
		{"start of window, goal exceeded", at(9, 0, 0), 5, 9, 43200},
		{"after window", at(22, 0, 0), 5, 0, 1500},
		{"after window ignores progress", at(22, 0, 0), 1, 7, 1500},
		{"before window", at(7, 30, 0), 5, 0, 1500},
		{"midday halfway", at(15, 0, 0), 4, 1, 7200},
		{"end of window uses one minute floor", at(21, 0, 0), 5, 0, 12},
		{"last minute rounds", at(20, 59, 30), 1, 0, 60},
		{"one second past end", at(21, 0, 1), 5, 0, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Interval(tt.now, tt.goal, tt.completed)
			if err != nil {
				t.Fatalf("Interval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Interval(%s, %d, %d) = %d, want %d",
					tt.now.Format("15:04:05"), tt.goal, tt.completed, got, tt.want)
			}
		})
	}
}

func TestInterval_InvalidGoal(t *testing.T) {
	s := New(DefaultWindow())
	for _, goal := range []int{0, -1, -100} {
		if _, err := s.Interval(at(10, 0, 0), goal, 0); !errors.Is(err, ErrInvalidGoal) {
			t.Errorf("Interval(goal=%d) error = %v, want ErrInvalidGoal", goal, err)
		}
	}
}

func TestInterval_Bounds(t *testing.T) {
	s := New(DefaultWindow())
	total := DefaultWindow().TotalSeconds(at(12, 0, 0))

	for hour := 0; hour < 24; hour++ {
		for _, min := range []int{0, 17, 59} {
			now := at(hour, min, 0)
			inside := DefaultWindow().Contains(now)
			for goal := 1; goal <= 12; goal++ {
				for completed := 0; completed <= 15; completed++ {
					got, err := s.Interval(now, goal, completed)
					if err != nil {
						t.Fatalf("Interval() error = %v", err)
					}
					if !inside {
						if got != 1500 {
							t.Fatalf("outside window %s got %d, want 1500", now.Format("15:04"), got)
						}
						continue
					}
					if got < 1 || got > total {
						t.Fatalf("Interval(%s, %d, %d) = %d, outside [1, %d]",
							now.Format("15:04"), goal, completed, got, total)
					}
				}
			}
		}
	}
}

// Fewer sessions left spreads the same remaining window over fewer
// reminders, so the interval holds or widens as completedToday grows and
// stays flat once the goal is met.
func TestInterval_MonotonicInCompleted(t *testing.T) {
	s := New(DefaultWindow())

	for _, now := range []time.Time{at(9, 0, 0), at(12, 34, 56), at(20, 0, 0), at(20, 59, 59)} {
		for goal := 1; goal <= 10; goal++ {
			prev := 0
			for completed := 0; completed <= goal+2; completed++ {
				got, _ := s.Interval(now, goal, completed)
				if got < prev {
					t.Errorf("Interval shrank from %d to %d at %s goal=%d completed=%d",
						prev, got, now.Format("15:04:05"), goal, completed)
				}
				if completed > goal && got != prev {
					t.Errorf("Interval changed past goal: %d -> %d at %s goal=%d completed=%d",
						prev, got, now.Format("15:04:05"), goal, completed)
				}
				prev = got
			}
		}
	}
}

func TestInterval_NegativeCompletedTreatedAsZero(t *testing.T) {
	s := New(DefaultWindow())
	a, _ := s.Interval(at(9, 0, 0), 5, -3)
	b, _ := s.Interval(at(9, 0, 0), 5, 0)
	if a != b {
		t.Errorf("Interval(completed=-3) = %d, want %d", a, b)
	}
}

func TestInterval_CustomWindow(t *testing.T) {
	s := New(Window{StartHour: 8, EndHour: 16, OutsideInterval: 600, MinRemaining: 120})

	got, _ := s.Interval(at(8, 0, 0), 4, 0)
	if got != 7200 {
		t.Errorf("Interval() = %d, want 7200", got)
	}
	got, _ = s.Interval(at(17, 0, 0), 4, 0)
	if got != 600 {
		t.Errorf("Interval() outside = %d, want 600", got)
	}
	got, _ = s.Interval(at(16, 0, 0), 2, 0)
	if got != 60 {
		t.Errorf("Interval() at close = %d, want 60", got)
	}
}

func TestInterval_DSTInsideWindow(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}
	// clocks jump from 02:00 to 03:00 on 2024-03-10
	w := Window{StartHour: 0, EndHour: 12, OutsideInterval: 1500, MinRemaining: 60}
	dstDay := time.Date(2024, 3, 10, 0, 0, 0, 0, ny)
	normalDay := time.Date(2024, 3, 11, 0, 0, 0, 0, ny)

	if got := w.TotalSeconds(dstDay); got != 11*3600 {
		t.Errorf("TotalSeconds(DST day) = %d, want %d", got, 11*3600)
	}
	if got := w.TotalSeconds(normalDay); got != 12*3600 {
		t.Errorf("TotalSeconds(normal day) = %d, want %d", got, 12*3600)
	}

	s := New(w)
	got, _ := s.Interval(dstDay, 1, 0)
	if got != w.TotalSeconds(dstDay) {
		t.Errorf("Interval() at window start = %d, want the whole window %d", got, w.TotalSeconds(dstDay))
	}
	// 04:00 local is 3h after midnight in elapsed time
	got, _ = s.Interval(time.Date(2024, 3, 10, 4, 0, 0, 0, ny), 1, 0)
	if got != 8*3600 {
		t.Errorf("Interval() at 04:00 = %d, want %d", got, 8*3600)
	}
}

func TestNormalizeGoal(t *testing.T) {
	tests := []struct{ in, want int }{{-5, 1}, {0, 1}, {1, 1}, {7, 7}}
	for _, tt := range tests {
		if got := NormalizeGoal(tt.in); got != tt.want {
			t.Errorf("NormalizeGoal(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReminder(t *testing.T) {
	r := NewReminder(3)

	if r.Due() {
		t.Fatal("new reminder should not be due")
	}
	if fired := r.Tick(); fired {
		t.Error("Tick 1 should not fire")
	}
	r.Tick()
	if fired := r.Tick(); !fired {
		t.Error("Tick 3 should fire")
	}
	if !r.Due() {
		t.Error("reminder should be due at elapsed == interval")
	}
	if fired := r.Tick(); fired {
		t.Error("already due reminder should not fire again")
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", r.Remaining())
	}

	r.StartWorkout()
	if r.Due() {
		t.Error("workout should suppress due flag")
	}
	r.Tick()
	if r.Due() {
		t.Error("ticks during workout should not raise due flag")
	}

	r.EndWorkout()
	if r.Elapsed() != 0 {
		t.Errorf("Elapsed() after EndWorkout = %d, want 0", r.Elapsed())
	}
	if r.Due() || r.InWorkout() {
		t.Error("reminder should be idle after EndWorkout")
	}

	r.SetInterval(0)
	if r.Interval() != 1 {
		t.Errorf("Interval() = %d, want floor of 1", r.Interval())
	}
}

func TestReminder_IntervalChangeKeepsElapsed(t *testing.T) {
	r := NewReminder(100)
	for i := 0; i < 50; i++ {
		r.Tick()
	}
	r.SetInterval(40)
	if !r.Due() {
		t.Error("shrinking interval below elapsed should make reminder due")
	}
	r.SetInterval(200)
	if r.Due() {
		t.Error("growing interval above elapsed should clear due")
	}
	if r.Elapsed() != 50 {
		t.Errorf("Elapsed() = %d, want 50", r.Elapsed())
	}
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(at(9, 0, 0))
	c.Advance(90 * time.Minute)
	if got := c.Now(); !got.Equal(at(10, 30, 0)) {
		t.Errorf("Now() = %v, want 10:30", got)
	}
	c.Set(at(22, 0, 0))
	if got := c.Now(); !got.Equal(at(22, 0, 0)) {
		t.Errorf("Now() = %v, want 22:00", got)
	}
}

func TestRunTicker_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0

	err := RunTicker(ctx, time.Millisecond, func(time.Time) {
		ticks++
		if ticks == 3 {
			cancel()
		}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunTicker() error = %v, want context.Canceled", err)
	}
	if ticks < 3 {
		t.Errorf("ticks = %d, want at least 3", ticks)
	}
}
