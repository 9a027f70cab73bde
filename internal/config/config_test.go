package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Calendar.BaseURL != "http://localhost:3000" {
		t.Errorf("Calendar.BaseURL = %q, expected default", cfg.Calendar.BaseURL)
	}
	if cfg.Planner.Model != "llama3.1:8b" {
		t.Errorf("Planner.Model = %q, expected default", cfg.Planner.Model)
	}
	if cfg.Agent.MaxIterations != 10 {
		t.Errorf("Agent.MaxIterations = %d, expected 10", cfg.Agent.MaxIterations)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[calendar]
base_url = "http://calendar.internal:3000"

[maps]
api_key = "file-key"

[planner]
model = "qwen2.5:7b"

[agent]
max_iterations = 5

[log]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	// Make sure ambient environment does not shadow the file values.
	t.Setenv("BETHERE_CALENDAR_URL", "")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Calendar.BaseURL != "http://calendar.internal:3000" {
		t.Errorf("Calendar.BaseURL = %q", cfg.Calendar.BaseURL)
	}
	if cfg.Maps.APIKey != "file-key" {
		t.Errorf("Maps.APIKey = %q", cfg.Maps.APIKey)
	}
	if cfg.Planner.Model != "qwen2.5:7b" {
		t.Errorf("Planner.Model = %q", cfg.Planner.Model)
	}
	if cfg.Agent.MaxIterations != 5 {
		t.Errorf("Agent.MaxIterations = %d", cfg.Agent.MaxIterations)
	}
	// Values the file does not mention keep their defaults.
	if cfg.Planner.BaseURL != "http://localhost:11434" {
		t.Errorf("Planner.BaseURL = %q, expected default", cfg.Planner.BaseURL)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[calendar]
base_url = "http://from-file:3000"

[maps]
api_key = "file-key"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv("BETHERE_CALENDAR_URL", "http://from-env:3000")
	t.Setenv("GOOGLE_MAPS_API_KEY", "env-key")
	t.Setenv("BETHERE_MAX_ITERATIONS", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Calendar.BaseURL != "http://from-env:3000" {
		t.Errorf("Calendar.BaseURL = %q, expected env value", cfg.Calendar.BaseURL)
	}
	if cfg.Maps.APIKey != "env-key" {
		t.Errorf("Maps.APIKey = %q, expected env value", cfg.Maps.APIKey)
	}
	if cfg.Agent.MaxIterations != 3 {
		t.Errorf("Agent.MaxIterations = %d, expected env value", cfg.Agent.MaxIterations)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Error("expected error for missing explicit config path")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(*Config) {}, false},
		{"empty calendar url", func(c *Config) { c.Calendar.BaseURL = "" }, true},
		{"empty planner model", func(c *Config) { c.Planner.Model = "" }, true},
		{"zero iterations", func(c *Config) { c.Agent.MaxIterations = 0 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "yaml" }, true},
		{"bad transport", func(c *Config) { c.Server.Transport = "websocket" }, true},
		{"http transport", func(c *Config) { c.Server.Transport = "streamable-http" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := LogConfig{Level: tt.input}.SlogLevel()
			if err != nil {
				t.Fatalf("SlogLevel(%q) error = %v", tt.input, err)
			}
			if level != tt.expected {
				t.Errorf("SlogLevel(%q) = %v, expected %v", tt.input, level, tt.expected)
			}
		})
	}
}

func TestHistoryResolvedPath(t *testing.T) {
	explicit := HistoryConfig{Path: "/tmp/custom.db"}
	path, err := explicit.ResolvedPath()
	if err != nil {
		t.Fatalf("ResolvedPath() error = %v", err)
	}
	if path != "/tmp/custom.db" {
		t.Errorf("ResolvedPath() = %q, expected explicit path", path)
	}

	derived, err := HistoryConfig{}.ResolvedPath()
	if err != nil {
		t.Fatalf("ResolvedPath() error = %v", err)
	}
	if filepath.Base(derived) != "history.db" {
		t.Errorf("ResolvedPath() = %q, expected history.db basename", derived)
	}
}
