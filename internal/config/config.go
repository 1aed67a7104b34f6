// Package config loads cinedex settings from an optional YAML file,
// CINEDEX_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned when loaded settings fail validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the resolved application configuration.
type Config struct {
	DBPath        string   `mapstructure:"db_path"`
	WatchedFolder string   `mapstructure:"watched_folder"`
	Placeholder   string   `mapstructure:"placeholder"`
	Reviewers     []string `mapstructure:"reviewers"`
	LogFile       string   `mapstructure:"log_file"`
	LogLevel      string   `mapstructure:"log_level"`
}

// Viper keys, shared with flag bindings in cmd/cinedex.
const (
	KeyDBPath        = "db_path"
	KeyWatchedFolder = "watched_folder"
	KeyPlaceholder   = "placeholder"
	KeyReviewers     = "reviewers"
	KeyLogFile       = "log_file"
	KeyLogLevel      = "log_level"
)

// DataDir returns the per-user directory holding the database, log and default folder.
func DataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "cinedex")
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	dataDir := DataDir()

	v.SetDefault(KeyDBPath, filepath.Join(dataDir, "cinedex.sqlite"))
	v.SetDefault(KeyWatchedFolder, filepath.Join(dataDir, "movie"))
	v.SetDefault(KeyPlaceholder, ".gitkeep")
	v.SetDefault(KeyReviewers, []string{"A", "B"})
	v.SetDefault(KeyLogFile, filepath.Join(dataDir, "cinedex.log"))
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix("cinedex")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (if non-empty) into v and returns the validated config.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db_path is empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.WatchedFolder) == "" {
		return fmt.Errorf("%w: watched_folder is empty", ErrInvalidConfig)
	}
	if len(c.Reviewers) != 2 {
		return fmt.Errorf("%w: reviewers needs exactly 2 names, got %d", ErrInvalidConfig, len(c.Reviewers))
	}
	return nil
}

// ReviewerA is the display name of the first reviewer.
func (c *Config) ReviewerA() string { return c.Reviewers[0] }

// ReviewerB is the display name of the second reviewer.
func (c *Config) ReviewerB() string { return c.Reviewers[1] }
