// Package config loads skill-coach configuration from YAML with
// defaults merged underneath.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// StorageConfig holds database settings.
type StorageConfig struct {
	Path string `yaml:"path,omitempty"` // SQLite file path
}

// UserConfig identifies the local learner.
type UserConfig struct {
	ID int `yaml:"id,omitempty"`
}

// SchedulerConfig tunes the spaced repetition model.
type SchedulerConfig struct {
	DesiredRetention float64 `yaml:"desired_retention,omitempty"` // target recall probability (default 0.9)
}

// RemindConfig controls the reminder daemon.
type RemindConfig struct {
	Schedule string `yaml:"schedule,omitempty"` // e.g. "30m", "2h", or cron "0 9 * * *"
	MinDue   int    `yaml:"min_due,omitempty"`  // notify only at this many due cards
	Quiet    bool   `yaml:"quiet,omitempty"`    // suppress desktop notifications, log only
}

// OptimizerConfig tunes weight training.
type OptimizerConfig struct {
	MinReviews   int     `yaml:"min_reviews,omitempty"` // history size required before training
	Epochs       int     `yaml:"epochs,omitempty"`
	LearningRate float64 `yaml:"learning_rate,omitempty"`
}

// Config is the full skill-coach configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage,omitempty"`
	User      UserConfig      `yaml:"user,omitempty"`
	Scheduler SchedulerConfig `yaml:"scheduler,omitempty"`
	Remind    RemindConfig    `yaml:"remind,omitempty"`
	Optimizer OptimizerConfig `yaml:"optimizer,omitempty"`
}

// GetConfigPath returns the default config file path.
// Can be overridden via SKILL_COACH_CONFIG environment variable.
func GetConfigPath() string {
	if envPath := os.Getenv("SKILL_COACH_CONFIG"); envPath != "" {
		return expandPath(envPath)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./.skill-coach/config.yaml"
	}
	return filepath.Join(homeDir, ".skill-coach", "config.yaml")
}

// DefaultDBPath returns the default database location.
func DefaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./.skill-coach/skills.db"
	}
	return filepath.Join(homeDir, ".skill-coach", "skills.db")
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Storage:   StorageConfig{Path: DefaultDBPath()},
		User:      UserConfig{ID: 1},
		Scheduler: SchedulerConfig{DesiredRetention: 0.9},
		Remind: RemindConfig{
			Schedule: "30m",
			MinDue:   1,
		},
		Optimizer: OptimizerConfig{
			MinReviews:   100,
			Epochs:       5,
			LearningRate: 0.04,
		},
	}
}

// Load reads the config file at path and merges it onto the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	defaults := Defaults()

	expandedPath := expandPath(path)
	if _, err := os.Stat(expandedPath); err != nil {
		return &defaults, nil
	}

	configYAML, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", expandedPath, err)
	}

	var loaded Config
	if err := yaml.Unmarshal(configYAML, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := mergo.Merge(&defaults, loaded, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	return &defaults, nil
}

// Save writes the configuration to the specified path.
func Save(cfg *Config, path string) error {
	expandedPath := expandPath(path)

	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(expandedPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
