package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"rehab/internal/config"
	"rehab/internal/ledger"
	"rehab/internal/plan"
	"rehab/internal/scheduler"
	"rehab/internal/service"
	"rehab/internal/store"
)

var testLoc = time.FixedZone("test", 0)

// setupTestDB creates an in-memory store for testing
func setupTestDB(t *testing.T) *store.DB {
	t.Helper()

	db, err := store.NewTestStore()
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func newTestTracker(t *testing.T, clock scheduler.Clock) *service.Tracker {
	t.Helper()
	return service.NewTracker(setupTestDB(t), service.Options{
		Clock:    clock,
		Location: testLoc,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// recordingNotifier remembers every notification it was asked to send
type recordingNotifier struct {
	mu     sync.Mutex
	bodies []string
}

func (r *recordingNotifier) Notify(_ context.Context, _, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodies = append(r.bodies, body)
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies)
}

func TestPrintStatus(t *testing.T) {
	clock := scheduler.NewManualClock(time.Date(2024, 3, 12, 9, 0, 0, 0, testLoc))
	tr := newTestTracker(t, clock)
	if err := tr.CompleteOnboarding([]string{"lower_back"}, 4); err != nil {
		t.Fatalf("CompleteOnboarding() error = %v", err)
	}
	p, _ := tr.Library().Plan("2")
	tr.StartWorkout(p)
	if _, err := tr.FinishWorkout(p); err != nil {
		t.Fatalf("FinishWorkout() error = %v", err)
	}

	var buf bytes.Buffer
	if err := printStatus(&buf, tr, clock.Now().Add(-3*time.Minute)); err != nil {
		t.Fatalf("printStatus() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Anonymous (local-guest-user)",
		"1 / 4 sessions (25%)",
		"every 240 min",
		"Lower Back & Core",
		"Core Activation (6 exercises, 3:00)",
		"3 minutes ago",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := printStatus(&buf, tr, time.Time{}); err != nil {
		t.Fatalf("printStatus() error = %v", err)
	}
	if strings.Contains(buf.String(), "History saved") {
		t.Errorf("never-saved history should not print a save time:\n%s", buf.String())
	}
}

func TestPrintHistory(t *testing.T) {
	now := time.Date(2024, 3, 12, 18, 0, 0, 0, testLoc)
	desk := plan.Plan{ID: "1", Name: "Desk Stretch", Actions: 4, Intensity: plan.IntensityLow}
	sessions := []ledger.Session{
		{ID: "a", Plan: desk, Date: time.Date(2024, 3, 1, 10, 0, 0, 0, testLoc)},
		{ID: "b", Plan: desk, Date: time.Date(2024, 3, 11, 10, 0, 0, 0, testLoc)},
		{ID: "c", Plan: desk, Date: time.Date(2024, 3, 12, 15, 30, 0, 0, testLoc)},
	}

	tests := []struct {
		name     string
		days     int
		contains []string
		excludes []string
	}{
		{
			name:     "last two days",
			days:     2,
			contains: []string{"Tue Mar 12, 2024  (1)", "Mon Mar 11, 2024  (1)", "15:30", "2 hours ago"},
			excludes: []string{"Mar 1, 2024"},
		},
		{
			name:     "everything",
			days:     0,
			contains: []string{"Fri Mar 1, 2024  (1)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printHistory(&buf, sessions, tt.days, now, testLoc)
			out := buf.String()

			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("missing %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("unexpected %q:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestPrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil, 7, time.Now(), testLoc)
	if got := buf.String(); got != "No sessions yet.\n" {
		t.Errorf("printHistory() = %q", got)
	}
}

func TestWatch_NotifiesAndRearms(t *testing.T) {
	// 22:00 is outside the active window, so the interval is the 1500s fallback
	clock := scheduler.NewManualClock(time.Date(2024, 3, 12, 22, 0, 0, 0, testLoc))
	tr := newTestTracker(t, clock)
	n := &recordingNotifier{}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, &buf, tr, n, 50*time.Microsecond)
	}()

	// two full intervals of ticks
	deadline := time.After(20 * time.Second)
	for n.count() < 2 {
		select {
		case <-deadline:
			t.Fatalf("only %d notifications before timeout", n.count())
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; err != context.Canceled {
		t.Errorf("watch() error = %v, want context.Canceled", err)
	}
	if len(tr.Sessions()) != 0 {
		t.Error("watch must not record sessions")
	}
	if !strings.Contains(buf.String(), "Time to Move!") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if _, err := loadConfig(path); err == nil {
		t.Error("loadConfig() should fail for a missing explicit file")
	}

	cfg := config.DefaultConfig()
	cfg.Schedule.DefaultGoal = 8
	if err := config.SaveFile(path, &cfg); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	got, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if got.Schedule.DefaultGoal != 8 {
		t.Errorf("DefaultGoal = %d, want 8", got.Schedule.DefaultGoal)
	}

	cfg.Schedule.ActiveStartHour = 22
	if err := config.SaveFile(path, &cfg); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Error("loadConfig() should reject an inverted window")
	}
}

func TestLoadConfig_FirstRunAppliesEnv(t *testing.T) {
	home := t.TempDir()
	dataDir := filepath.Join(home, "elsewhere")
	t.Setenv("HOME", home)
	t.Setenv("REHAB_DATA_DIR", dataDir)
	t.Setenv("REHAB_DEFAULT_GOAL", "3")
	t.Setenv("REHAB_ACTIVE_START_HOUR", "8")

	for _, run := range []string{"first run", "second run"} {
		cfg, err := loadConfig("")
		if err != nil {
			t.Fatalf("%s: loadConfig() error = %v", run, err)
		}
		if cfg.Schedule.DefaultGoal != 3 || cfg.Schedule.ActiveStartHour != 8 || cfg.DataDir != dataDir {
			t.Errorf("%s: goal %d, start hour %d, data dir %q", run,
				cfg.Schedule.DefaultGoal, cfg.Schedule.ActiveStartHour, cfg.DataDir)
		}
	}

	if _, err := os.Stat(filepath.Join(home, ".rehab", "config.json")); err != nil {
		t.Errorf("example config not created: %v", err)
	}
}

func TestOpenLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	log, f, err := openLog(dir, "warn")
	if err != nil {
		t.Fatalf("openLog() error = %v", err)
	}
	log.Info("hidden")
	log.Warn("shown", "key", "value")
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") || !strings.Contains(out, "msg=shown key=value") {
		t.Errorf("log = %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWindowFromConfig(t *testing.T) {
	got := windowFromConfig(config.DefaultConfig().Schedule)
	if got != scheduler.DefaultWindow() {
		t.Errorf("windowFromConfig(defaults) = %+v, want %+v", got, scheduler.DefaultWindow())
	}
}
