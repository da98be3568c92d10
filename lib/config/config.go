// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/roomview/lib/ref"
)

// EnvironmentVariable names the configuration file when no --config
// flag is given.
const EnvironmentVariable = "ROOMVIEW_CONFIG"

// Config is the configuration for roomview.
type Config struct {
	// Matrix configures the homeserver connection.
	Matrix MatrixConfig `yaml:"matrix" json:"matrix"`

	// Timeline configures sync and history loading.
	Timeline TimelineConfig `yaml:"timeline" json:"timeline"`

	// UI configures the terminal presentation.
	UI UIConfig `yaml:"ui" json:"ui"`

	// Log configures diagnostic logging.
	Log LogConfig `yaml:"log" json:"log"`
}

// MatrixConfig configures the homeserver connection.
type MatrixConfig struct {
	// Homeserver is the client-server API base URL, e.g.
	// "https://matrix.example.org".
	Homeserver string `yaml:"homeserver" json:"homeserver"`

	// UserID is the fully qualified Matrix user ID of the account.
	UserID string `yaml:"user_id" json:"user_id"`

	// TokenFile holds the access token. --login writes it; every other
	// run reads it. Mode 0600 is expected.
	TokenFile string `yaml:"token_file" json:"token_file"`

	// Room is the room ID or alias opened when --room is not given.
	Room string `yaml:"room" json:"room"`
}

// TimelineConfig configures sync and history loading.
type TimelineConfig struct {
	// InitialLimit is the number of recent events requested per room in
	// the first sync.
	// Default: 50
	InitialLimit int `yaml:"initial_limit" json:"initial_limit"`

	// HistoryPageSize is the number of events requested per /messages
	// page when scrolling back.
	// Default: 50
	HistoryPageSize int `yaml:"history_page_size" json:"history_page_size"`

	// PollTimeout is the long-poll timeout for incremental syncs.
	// Default: 30s
	PollTimeout string `yaml:"poll_timeout" json:"poll_timeout"`

	// HighlightKeywords highlight any message containing one of them,
	// in addition to the local user's name.
	HighlightKeywords []string `yaml:"highlight_keywords" json:"highlight_keywords"`
}

// UIConfig configures the terminal presentation.
type UIConfig struct {
	// HighlightColor is the lipgloss colour of highlighted rows: an ANSI
	// index ("214") or hex value ("#ffaf00"). The name "orange" is
	// accepted as an alias for "214".
	// Default: orange
	HighlightColor string `yaml:"highlight_color" json:"highlight_color"`

	// TimeFormat is the Go time layout of the per-row timestamp.
	// Default: 15:04
	TimeFormat string `yaml:"time_format" json:"time_format"`

	// DateFormat is the Go time layout of the date separator shown when
	// the day changes.
	// Default: Monday, 2 January 2006
	DateFormat string `yaml:"date_format" json:"date_format"`

	// Timezone is an IANA zone name used for timestamps. Empty means
	// the local zone.
	Timezone string `yaml:"timezone" json:"timezone"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is the minimum slog level: debug, info, warn or error.
	// Default: info
	Level string `yaml:"level" json:"level"`

	// File, when set, receives JSON log records in addition to the
	// status bar.
	File string `yaml:"file" json:"file"`
}

// Default returns the default configuration, used as the base before
// the config file is applied.
func Default() *Config {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join("${HOME}", ".config")
	}

	return &Config{
		Matrix: MatrixConfig{
			TokenFile: filepath.Join(configDir, "roomview", "token"),
		},
		Timeline: TimelineConfig{
			InitialLimit:    50,
			HistoryPageSize: 50,
			PollTimeout:     "30s",
		},
		UI: UIConfig{
			HighlightColor: "orange",
			TimeFormat:     "15:04",
			DateFormat:     "Monday, 2 January 2006",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the file named by ROOMVIEW_CONFIG.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your roomview config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path. Files ending in .json or
// .jsonc are parsed as JSON with comments and trailing commas; anything
// else is YAML.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in path
// fields.
func (c *Config) expandVariables() {
	c.Matrix.TokenFile = expandVars(c.Matrix.TokenFile)
	c.Log.File = expandVars(c.Log.File)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Matrix.Homeserver == "" {
		errs = append(errs, errors.New("matrix.homeserver is required"))
	} else if !strings.HasPrefix(c.Matrix.Homeserver, "https://") && !strings.HasPrefix(c.Matrix.Homeserver, "http://") {
		errs = append(errs, fmt.Errorf("matrix.homeserver must be an http or https URL, got %q", c.Matrix.Homeserver))
	}
	if c.Matrix.UserID == "" {
		errs = append(errs, errors.New("matrix.user_id is required"))
	} else if _, err := ref.ParseUserID(c.Matrix.UserID); err != nil {
		errs = append(errs, fmt.Errorf("matrix.user_id: %w", err))
	}
	if c.Matrix.TokenFile == "" {
		errs = append(errs, errors.New("matrix.token_file is required"))
	}

	if c.Timeline.InitialLimit <= 0 {
		errs = append(errs, fmt.Errorf("timeline.initial_limit must be positive, got %d", c.Timeline.InitialLimit))
	}
	if c.Timeline.HistoryPageSize <= 0 {
		errs = append(errs, fmt.Errorf("timeline.history_page_size must be positive, got %d", c.Timeline.HistoryPageSize))
	}
	if _, err := c.Timeline.PollTimeoutDuration(); err != nil {
		errs = append(errs, err)
	}

	if c.UI.TimeFormat == "" {
		errs = append(errs, errors.New("ui.time_format is required"))
	}
	if _, err := c.UI.Location(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// PollTimeoutDuration parses PollTimeout.
func (t TimelineConfig) PollTimeoutDuration() (time.Duration, error) {
	duration, err := time.ParseDuration(t.PollTimeout)
	if err != nil {
		return 0, fmt.Errorf("timeline.poll_timeout: %w", err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("timeline.poll_timeout must be positive, got %s", t.PollTimeout)
	}
	return duration, nil
}

// Location resolves Timezone; empty means time.Local.
func (u UIConfig) Location() (*time.Location, error) {
	if u.Timezone == "" {
		return time.Local, nil
	}
	location, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ui.timezone: %w", err)
	}
	return location, nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
