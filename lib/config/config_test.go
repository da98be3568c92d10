// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Timeline.InitialLimit != 50 || cfg.Timeline.HistoryPageSize != 50 {
		t.Errorf("expected limits 50/50, got %d/%d", cfg.Timeline.InitialLimit, cfg.Timeline.HistoryPageSize)
	}
	if cfg.UI.HighlightColor != "orange" {
		t.Errorf("expected highlight_color=orange, got %s", cfg.UI.HighlightColor)
	}
	if !strings.HasSuffix(cfg.Matrix.TokenFile, filepath.Join("roomview", "token")) {
		t.Errorf("unexpected default token_file %s", cfg.Matrix.TokenFile)
	}
	duration, err := cfg.Timeline.PollTimeoutDuration()
	if err != nil || duration != 30*time.Second {
		t.Errorf("PollTimeoutDuration = %v, %v; want 30s", duration, err)
	}
}

func TestLoad_RequiresEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when ROOMVIEW_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "ROOMVIEW_CONFIG environment variable not set") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

func TestLoad_WithEnvironmentVariable(t *testing.T) {
	path := writeConfig(t, "roomview.yaml", `
matrix:
  homeserver: https://matrix.test.local
  user_id: "@alice:test.local"
`)
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Matrix.Homeserver != "https://matrix.test.local" {
		t.Errorf("expected homeserver from file, got %s", cfg.Matrix.Homeserver)
	}
	// Unset keys keep their defaults.
	if cfg.Timeline.HistoryPageSize != 50 {
		t.Errorf("expected default history_page_size, got %d", cfg.Timeline.HistoryPageSize)
	}
}

func TestLoadFile_YAML(t *testing.T) {
	t.Setenv("ROOMVIEW_TEST_STATE", "/state")
	path := writeConfig(t, "roomview.yaml", `
matrix:
  homeserver: https://matrix.test.local
  user_id: "@alice:test.local"
  token_file: ${ROOMVIEW_TEST_STATE}/token
  room: "#general:test.local"

timeline:
  initial_limit: 20
  history_page_size: 100
  poll_timeout: 10s
  highlight_keywords: [deploy, outage]

ui:
  highlight_color: "#ff0000"
  time_format: "15:04:05"
  timezone: Asia/Tokyo

log:
  level: debug
  file: ${ROOMVIEW_TEST_UNSET:-/var/log}/roomview.log
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if cfg.Matrix.TokenFile != "/state/token" {
		t.Errorf("expected expanded token_file=/state/token, got %s", cfg.Matrix.TokenFile)
	}
	if cfg.Log.File != "/var/log/roomview.log" {
		t.Errorf("expected default-expanded log file, got %s", cfg.Log.File)
	}
	if cfg.Matrix.Room != "#general:test.local" {
		t.Errorf("expected room=#general:test.local, got %s", cfg.Matrix.Room)
	}
	if cfg.Timeline.InitialLimit != 20 || cfg.Timeline.HistoryPageSize != 100 {
		t.Errorf("unexpected limits %d/%d", cfg.Timeline.InitialLimit, cfg.Timeline.HistoryPageSize)
	}
	if len(cfg.Timeline.HighlightKeywords) != 2 || cfg.Timeline.HighlightKeywords[1] != "outage" {
		t.Errorf("unexpected highlight_keywords %v", cfg.Timeline.HighlightKeywords)
	}
	if cfg.UI.DateFormat != "Monday, 2 January 2006" {
		t.Errorf("expected default date_format, got %s", cfg.UI.DateFormat)
	}

	location, err := cfg.UI.Location()
	if err != nil || location.String() != "Asia/Tokyo" {
		t.Errorf("Location = %v, %v", location, err)
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, %v", level, err)
	}
}

func TestLoadFile_JSONC(t *testing.T) {
	path := writeConfig(t, "roomview.jsonc", `{
  // Comments and trailing commas are allowed.
  "matrix": {
    "homeserver": "http://localhost:8008",
    "user_id": "@alice:localhost",
  },
  /* block comment */
  "timeline": {"history_page_size": 25},
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Matrix.Homeserver != "http://localhost:8008" {
		t.Errorf("expected homeserver from JSONC, got %s", cfg.Matrix.Homeserver)
	}
	if cfg.Timeline.HistoryPageSize != 25 {
		t.Errorf("expected history_page_size=25, got %d", cfg.Timeline.HistoryPageSize)
	}
	if cfg.Timeline.InitialLimit != 50 {
		t.Errorf("expected default initial_limit, got %d", cfg.Timeline.InitialLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadFile(writeConfig(t, "bad.yaml", "matrix: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
	if _, err := LoadFile(writeConfig(t, "bad.json", `{"matrix": 42}`)); err == nil {
		t.Error("expected error for mistyped JSON")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Matrix.Homeserver = "https://matrix.test.local"
		cfg.Matrix.UserID = "@alice:test.local"
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr []string
	}{
		{
			name:   "valid",
			modify: func(*Config) {},
		},
		{
			name: "missing matrix settings",
			modify: func(c *Config) {
				c.Matrix = MatrixConfig{}
			},
			wantErr: []string{"matrix.homeserver is required", "matrix.user_id is required", "matrix.token_file is required"},
		},
		{
			name: "bad homeserver scheme",
			modify: func(c *Config) {
				c.Matrix.Homeserver = "matrix.test.local"
			},
			wantErr: []string{"matrix.homeserver must be an http or https URL"},
		},
		{
			name: "bad user id",
			modify: func(c *Config) {
				c.Matrix.UserID = "alice"
			},
			wantErr: []string{"matrix.user_id:"},
		},
		{
			name: "bad timeline values",
			modify: func(c *Config) {
				c.Timeline.InitialLimit = 0
				c.Timeline.HistoryPageSize = -1
				c.Timeline.PollTimeout = "soon"
			},
			wantErr: []string{"timeline.initial_limit", "timeline.history_page_size", "timeline.poll_timeout"},
		},
		{
			name: "non-positive poll timeout",
			modify: func(c *Config) {
				c.Timeline.PollTimeout = "0s"
			},
			wantErr: []string{"timeline.poll_timeout must be positive"},
		},
		{
			name: "bad ui and log",
			modify: func(c *Config) {
				c.UI.TimeFormat = ""
				c.UI.Timezone = "Nowhere/Special"
				c.Log.Level = "loud"
			},
			wantErr: []string{"ui.time_format is required", "ui.timezone", "log.level"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := valid()
			test.modify(cfg)
			err := cfg.Validate()
			if len(test.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			for _, want := range test.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err.Error(), want)
				}
			}
		})
	}
}
