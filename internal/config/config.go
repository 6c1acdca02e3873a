package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/pomocycle/internal/cycles"
)

const fileName = "config.yaml"

type Config struct {
	Timer  TimerConfig  `yaml:"timer"`
	UI     UIConfig     `yaml:"ui"`
	Log    LogConfig    `yaml:"log"`
	Export ExportConfig `yaml:"export"`
}

type TimerConfig struct {
	// DefaultMinutes pre-fills the duration field. 0 leaves it blank.
	DefaultMinutes int           `yaml:"default_minutes"`
	TickInterval   time.Duration `yaml:"tick_interval"`
	Bell           bool          `yaml:"bell"`
}

type UIConfig struct {
	AltScreen bool `yaml:"alt_screen"`
}

type LogConfig struct {
	// Path of the log file. Empty disables logging since the terminal
	// belongs to the UI.
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

type ExportConfig struct {
	// Dir receives exported history. Empty means the home directory.
	Dir string `yaml:"dir"`
}

func Default() *Config {
	return &Config{
		Timer: TimerConfig{
			DefaultMinutes: 25,
			TickInterval:   time.Second,
			Bell:           true,
		},
		UI: UIConfig{
			AltScreen: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.config/pomocycle/config.yaml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pomocycle", fileName), nil
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

func (c *Config) Validate() error {
	if c.Timer.DefaultMinutes != 0 {
		if err := cycles.ValidateMinutes(c.Timer.DefaultMinutes); err != nil {
			return fmt.Errorf("timer.default_minutes: %w", err)
		}
	}
	if c.Timer.TickInterval < 100*time.Millisecond || c.Timer.TickInterval > time.Second {
		return fmt.Errorf("timer.tick_interval must be between 100ms and 1s, got %s", c.Timer.TickInterval)
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// ExportDir resolves where exports are written.
func (c *Config) ExportDir() (string, error) {
	if c.Export.Dir != "" {
		return c.Export.Dir, nil
	}
	return os.UserHomeDir()
}
