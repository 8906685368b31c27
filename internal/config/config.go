package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	DataDir       string              `json:"data_dir"`
	Schedule      ScheduleConfig      `json:"schedule"`
	Library       LibraryConfig       `json:"library"`
	Notifications NotificationsConfig `json:"notifications"`
	Display       DisplayConfig       `json:"display"`
	Log           LogConfig           `json:"log"`
}

// ScheduleConfig holds the active window and reminder defaults
type ScheduleConfig struct {
	ActiveStartHour      int `json:"active_start_hour"`
	ActiveEndHour        int `json:"active_end_hour"`
	OutsideWindowSeconds int `json:"outside_window_seconds"`
	MinRemainingSeconds  int `json:"min_remaining_seconds"`
	DefaultGoal          int `json:"default_goal"`
}

// LibraryConfig points at an optional YAML plan library
type LibraryConfig struct {
	PlansFile string `json:"plans_file"`
}

// NotificationsConfig controls desktop notifications
type NotificationsConfig struct {
	Desktop bool `json:"desktop"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	WeekStart   string `json:"week_start"`
	HistoryDays int    `json:"history_days"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `json:"level"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Schedule: ScheduleConfig{
			ActiveStartHour:      9,
			ActiveEndHour:        21,
			OutsideWindowSeconds: 1500,
			MinRemainingSeconds:  60,
			DefaultGoal:          5,
		},
		Display: DisplayConfig{
			WeekStart:   "sunday",
			HistoryDays: 14,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration from ~/.rehab/config.json.
// A .env file next to it and REHAB_* environment variables override file values.
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from an explicit path
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Missing .env is fine; existing variables win over it
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	applyEnvOverrides(&cfg)
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills zero values from DefaultConfig
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Schedule.ActiveStartHour == 0 && c.Schedule.ActiveEndHour == 0 {
		c.Schedule.ActiveStartHour = defaults.Schedule.ActiveStartHour
		c.Schedule.ActiveEndHour = defaults.Schedule.ActiveEndHour
	}
	if c.Schedule.OutsideWindowSeconds == 0 {
		c.Schedule.OutsideWindowSeconds = defaults.Schedule.OutsideWindowSeconds
	}
	if c.Schedule.MinRemainingSeconds == 0 {
		c.Schedule.MinRemainingSeconds = defaults.Schedule.MinRemainingSeconds
	}
	if c.Schedule.DefaultGoal == 0 {
		c.Schedule.DefaultGoal = defaults.Schedule.DefaultGoal
	}
	if c.Display.WeekStart == "" {
		c.Display.WeekStart = defaults.Display.WeekStart
	}
	if c.Display.HistoryDays == 0 {
		c.Display.HistoryDays = defaults.Display.HistoryDays
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REHAB_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("REHAB_ACTIVE_START_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.ActiveStartHour = h
		}
	}
	if v := os.Getenv("REHAB_ACTIVE_END_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.ActiveEndHour = h
		}
	}
	if v := os.Getenv("REHAB_DEFAULT_GOAL"); v != "" {
		if g, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.DefaultGoal = g
		}
	}
	if v := os.Getenv("REHAB_PLANS_FILE"); v != "" {
		cfg.Library.PlansFile = v
	}
	if v := os.Getenv("REHAB_DESKTOP_NOTIFY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Notifications.Desktop = b
		}
	}
	if v := os.Getenv("REHAB_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
}

// SaveFile writes the configuration to an explicit path
func SaveFile(path string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	return SaveFile(path, &example)
}

// Validate checks that the config values are usable
func (c *Config) Validate() error {
	s := c.Schedule
	if s.ActiveStartHour < 0 || s.ActiveStartHour > 23 {
		return fmt.Errorf("schedule.active_start_hour must be between 0 and 23, got %d", s.ActiveStartHour)
	}
	if s.ActiveEndHour < 1 || s.ActiveEndHour > 24 {
		return fmt.Errorf("schedule.active_end_hour must be between 1 and 24, got %d", s.ActiveEndHour)
	}
	if s.ActiveStartHour >= s.ActiveEndHour {
		return fmt.Errorf("schedule.active_start_hour (%d) must be before schedule.active_end_hour (%d)", s.ActiveStartHour, s.ActiveEndHour)
	}
	if s.OutsideWindowSeconds < 1 {
		return fmt.Errorf("schedule.outside_window_seconds must be positive, got %d", s.OutsideWindowSeconds)
	}
	if s.MinRemainingSeconds < 1 {
		return fmt.Errorf("schedule.min_remaining_seconds must be positive, got %d", s.MinRemainingSeconds)
	}
	if s.DefaultGoal < 1 {
		return fmt.Errorf("schedule.default_goal must be at least 1, got %d", s.DefaultGoal)
	}

	if c.Display.WeekStart != "" && c.Display.WeekStart != "sunday" && c.Display.WeekStart != "monday" {
		return fmt.Errorf("display.week_start must be \"sunday\" or \"monday\", got %q", c.Display.WeekStart)
	}
	if c.Display.HistoryDays < 0 {
		return fmt.Errorf("display.history_days must not be negative, got %d", c.Display.HistoryDays)
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	return nil
}

// ResolveDataDir returns the data directory, falling back to the config directory
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return GetConfigDir()
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".rehab"), nil
}
