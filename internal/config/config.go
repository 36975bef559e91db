// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/wasabi/internal/slot"
	"github.com/javiermolinar/wasabi/internal/tui/theme"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
	User     UserConfig     `toml:"user"`
}

// ScheduleConfig holds the slot grid and overlap settings, plus the working
// window searched by suggest.
type ScheduleConfig struct {
	SlotMinutes int      `toml:"slot_minutes"` // must divide 60
	MaxOverlap  int      `toml:"max_overlap"`  // existing tasks allowed per slot
	Workdays    []string `toml:"workdays"`     // e.g., ["monday", "tuesday", ...]
	DayStart    string   `toml:"day_start"`    // e.g., "09:00"
	DayEnd      string   `toml:"day_end"`      // e.g., "17:00"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error", "off"
	Format string `toml:"format"` // "console" or "json"
}

// UIConfig holds terminal output settings.
type UIConfig struct {
	Color string `toml:"color"` // "auto", "always", "never"
	Theme string `toml:"theme"` // board theme, see theme.Available
}

// UserConfig identifies who is making changes.
type UserConfig struct {
	Name string `toml:"name"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			SlotMinutes: 15,
			MaxOverlap:  5,
			Workdays:    []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
			DayStart:    "09:00",
			DayEnd:      "17:00",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		UI: UIConfig{
			Color: "auto",
			Theme: "mocha",
		},
		User: UserConfig{
			Name: defaultUserName(),
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "wasabi.db"
	}
	return filepath.Join(home, ".local", "share", "wasabi", "wasabi.db")
}

func defaultUserName() string {
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	return "anonymous"
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "wasabi", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// normalize lowercases the enumerated settings, which are matched
// case-insensitively.
func (c *Config) normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.UI.Color = strings.ToLower(strings.TrimSpace(c.UI.Color))
	c.UI.Theme = strings.ToLower(strings.TrimSpace(c.UI.Theme))
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("WASABI_SLOT_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WASABI_SLOT_MINUTES: %w", err)
		}
		cfg.Schedule.SlotMinutes = n
	}
	if v := os.Getenv("WASABI_MAX_OVERLAP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WASABI_MAX_OVERLAP: %w", err)
		}
		cfg.Schedule.MaxOverlap = n
	}
	if v := os.Getenv("WASABI_DAY_START"); v != "" {
		cfg.Schedule.DayStart = v
	}
	if v := os.Getenv("WASABI_DAY_END"); v != "" {
		cfg.Schedule.DayEnd = v
	}
	if v := os.Getenv("WASABI_WORKDAYS"); v != "" {
		cfg.Schedule.Workdays = strings.Split(v, ",")
	}
	if v := os.Getenv("WASABI_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("WASABI_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("WASABI_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("WASABI_COLOR"); v != "" {
		cfg.UI.Color = v
	}
	if v := os.Getenv("WASABI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("WASABI_USER"); v != "" {
		cfg.User.Name = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var (
	validLevels  = []string{"debug", "info", "warn", "error", "off"}
	validFormats = []string{"console", "json"}
	validColors  = []string{"auto", "always", "never"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	m := c.Schedule.SlotMinutes
	if m <= 0 || 60%m != 0 {
		return fmt.Errorf("slot_minutes must be a positive divisor of 60, got %d", m)
	}
	if c.Schedule.MaxOverlap <= 0 {
		return fmt.Errorf("max_overlap must be positive, got %d", c.Schedule.MaxOverlap)
	}
	start, err := slot.ParseClock(c.Schedule.DayStart)
	if err != nil {
		return fmt.Errorf("day_start: %w", err)
	}
	end, err := slot.ParseClock(c.Schedule.DayEnd)
	if err != nil {
		return fmt.Errorf("day_end: %w", err)
	}
	if start >= end {
		return errors.New("day_start must be before day_end")
	}
	if len(c.Schedule.Workdays) == 0 {
		return errors.New("at least one workday must be configured")
	}
	for _, day := range c.Schedule.Workdays {
		if _, ok := weekdays[strings.ToLower(strings.TrimSpace(day))]; !ok {
			return fmt.Errorf("invalid workday: %s", day)
		}
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if !oneOf(c.Log.Level, validLevels) {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if !oneOf(c.Log.Format, validFormats) {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}
	if !oneOf(c.UI.Color, validColors) {
		return fmt.Errorf("invalid color mode: %s", c.UI.Color)
	}
	if !theme.IsAvailable(c.UI.Theme) {
		return fmt.Errorf("invalid theme: %s (available: %s)", c.UI.Theme, strings.Join(theme.Available(), ", "))
	}
	if strings.TrimSpace(c.User.Name) == "" {
		return errors.New("user name must be set")
	}
	return nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WorkdaySet returns the configured workdays. Unknown names are skipped.
func (c *Config) WorkdaySet() []time.Weekday {
	var out []time.Weekday
	for _, d := range c.Schedule.Workdays {
		if wd, ok := weekdays[strings.ToLower(strings.TrimSpace(d))]; ok {
			out = append(out, wd)
		}
	}
	return out
}

func oneOf(v string, allowed []string) bool {
	v = strings.ToLower(v)
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
