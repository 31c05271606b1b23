// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/slotbook/internal/resource"
	"github.com/javiermolinar/slotbook/internal/slotclock"
)

// Config holds the application configuration.
type Config struct {
	Schedule  ScheduleConfig      `toml:"schedule"`
	Storage   StorageConfig       `toml:"storage"`
	UI        UIConfig            `toml:"ui"`
	Directory DirectoryConfig     `toml:"directory"`
	Resources []resource.Resource `toml:"resources"`
}

// ScheduleConfig describes the slot grid of every day.
type ScheduleConfig struct {
	StartHour   int `toml:"start_hour"`   // first visible hour, e.g. 9
	EndHour     int `toml:"end_hour"`     // exclusive, e.g. 20
	SlotMinutes int `toml:"slot_minutes"` // e.g. 15
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme    string `toml:"theme"`    // "mocha", "macchiato", "frappe", "latte"
	Category string `toml:"category"` // initial column set: "room" or "practitioner"
	Operator string `toml:"operator"` // stamped on new bookings as created_by
}

// DirectoryConfig points at an external resource export. When File is set it
// replaces the inline [[resources]] list.
type DirectoryConfig struct {
	File string `toml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			StartHour:   9,
			EndHour:     20,
			SlotMinutes: 15,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme:    "frappe",
			Category: string(resource.CategoryRoom),
			Operator: defaultOperator(),
		},
		Resources: []resource.Resource{
			{ID: "room-1", Name: "Room 1", Category: resource.CategoryRoom},
			{ID: "room-2", Name: "Room 2", Category: resource.CategoryRoom},
			{ID: "room-3", Name: "Room 3", Category: resource.CategoryRoom},
			{ID: "pr-ana", Name: "Ana", Category: resource.CategoryPractitioner},
			{ID: "pr-ben", Name: "Ben", Category: resource.CategoryPractitioner},
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "slotbook.db"
	}
	return filepath.Join(home, ".local", "share", "slotbook", "slotbook.db")
}

func defaultOperator() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "front-desk"
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "slotbook", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies
// overrides from .env files and the environment (the environment wins).
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	env, err := newEnv(".env", filepath.Join(filepath.Dir(path), ".env"))
	if err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg, env); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	if cfg.Directory.File != "" {
		cfg.Directory.File = expandPath(cfg.Directory.File)
		if !filepath.IsAbs(cfg.Directory.File) {
			cfg.Directory.File = filepath.Join(filepath.Dir(path), cfg.Directory.File)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
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

	// An inline [[resources]] list replaces the defaults rather than extending them.
	defaults := cfg.Resources
	cfg.Resources = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Resources == nil {
		cfg.Resources = defaults
	}

	return nil
}

// lookupFunc resolves an override variable; empty means unset.
type lookupFunc func(key string) string

// newEnv layers the process environment over the given dotenv files. Earlier
// files win over later ones; missing files are skipped.
func newEnv(files ...string) (lookupFunc, error) {
	vars := map[string]string{}
	for i := len(files) - 1; i >= 0; i-- {
		m, err := godotenv.Read(files[i])
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", files[i], err)
		}
		for k, v := range m {
			vars[k] = v
		}
	}
	return func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return vars[key]
	}, nil
}

// applyEnvOverrides applies SLOTBOOK_* overrides to the config.
func applyEnvOverrides(cfg *Config, env lookupFunc) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"SLOTBOOK_START_HOUR", &cfg.Schedule.StartHour},
		{"SLOTBOOK_END_HOUR", &cfg.Schedule.EndHour},
		{"SLOTBOOK_SLOT_MINUTES", &cfg.Schedule.SlotMinutes},
	}
	for _, o := range ints {
		v := env(o.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", o.key, v)
		}
		*o.dst = n
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"SLOTBOOK_DB_PATH", &cfg.Storage.DBPath},
		{"SLOTBOOK_UI_THEME", &cfg.UI.Theme},
		{"SLOTBOOK_CATEGORY", &cfg.UI.Category},
		{"SLOTBOOK_OPERATOR", &cfg.UI.Operator},
		{"SLOTBOOK_DIRECTORY_FILE", &cfg.Directory.File},
	}
	for _, o := range strs {
		if v := env(o.key); v != "" {
			*o.dst = v
		}
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

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Clock(); err != nil {
		return err
	}
	if _, err := resource.ParseCategory(c.UI.Category); err != nil {
		return fmt.Errorf("ui.category: %w", err)
	}
	if c.Directory.File == "" {
		if len(c.Resources) == 0 {
			return errors.New("at least one resource must be configured")
		}
		if _, err := resource.NewDirectory(c.Resources); err != nil {
			return fmt.Errorf("resources: %w", err)
		}
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// Clock returns the slot grid described by the schedule section.
func (c *Config) Clock() (slotclock.Clock, error) {
	return slotclock.FromConfig(slotclock.Config{
		StartHour:   c.Schedule.StartHour,
		EndHour:     c.Schedule.EndHour,
		SlotMinutes: c.Schedule.SlotMinutes,
	})
}

// ResourceDirectory returns the configured resources, reading the external
// directory file when one is set.
func (c *Config) ResourceDirectory() (*resource.Directory, error) {
	if c.Directory.File != "" {
		return resource.LoadFile(c.Directory.File)
	}
	return resource.NewDirectory(c.Resources)
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
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
