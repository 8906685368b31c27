package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"rehab/internal/config"
	"rehab/internal/notify"
	"rehab/internal/plan"
	"rehab/internal/scheduler"
	"rehab/internal/service"
	"rehab/internal/store"
)

const logFileName = "rehab.log"

// env is everything a command needs, built from the config
type env struct {
	cfg      *config.Config
	db       *store.DB
	tracker  *service.Tracker
	notifier notify.Notifier
	log      *slog.Logger
	logFile  *os.File
}

func openEnv() (*env, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	dir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	if e.log, e.logFile, err = openLog(dir, cfg.Log.Level); err != nil {
		return nil, err
	}

	lib := plan.DefaultLibrary()
	if cfg.Library.PlansFile != "" {
		if lib, err = plan.LoadLibrary(cfg.Library.PlansFile); err != nil {
			e.Close()
			return nil, err
		}
	}

	if e.db, err = store.Open(dir); err != nil {
		e.Close()
		return nil, err
	}

	e.tracker = service.NewTracker(e.db, service.Options{
		Library:     lib,
		Window:      windowFromConfig(cfg.Schedule),
		DefaultGoal: cfg.Schedule.DefaultGoal,
		Logger:      e.log,
	})
	e.notifier = notify.New(cfg.Notifications.Desktop, e.log)
	return e, nil
}

// loadConfig reads the config file. A missing default config is created
// from the defaults and then loaded like any other, so .env and REHAB_*
// overrides apply on the first run too. A missing explicit path is an error.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
		if errors.Is(err, config.ErrNoConfig) {
			if err := config.CreateExample(); err != nil {
				return nil, fmt.Errorf("creating example config: %w", err)
			}
			cfg, err = config.Load()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func windowFromConfig(s config.ScheduleConfig) scheduler.Window {
	return scheduler.Window{
		StartHour:       s.ActiveStartHour,
		EndHour:         s.ActiveEndHour,
		OutsideInterval: s.OutsideWindowSeconds,
		MinRemaining:    s.MinRemainingSeconds,
	}
}

// openLog appends structured logs to <dir>/rehab.log. The terminal belongs
// to the TUI, so nothing is logged to stderr.
func openLog(dir, level string) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: parseLevel(level)})), f, nil
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Close releases the database and log file
func (e *env) Close() error {
	var errs []error
	if e.db != nil {
		errs = append(errs, e.db.Close())
	}
	if e.logFile != nil {
		errs = append(errs, e.logFile.Close())
	}
	return errors.Join(errs...)
}
