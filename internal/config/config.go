package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Defaults applied before the file and environment are consulted.
const (
	DefaultCalendarURL   = "http://localhost:3000"
	DefaultGeocodeURL    = "https://maps.googleapis.com"
	DefaultRoutesURL     = "https://routes.googleapis.com"
	DefaultPlannerURL    = "http://localhost:11434"
	DefaultPlannerModel  = "llama3.1:8b"
	DefaultMaxIterations = 10
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultTransport     = "stdio"
	DefaultHTTPAddr      = ":8080"
	DefaultMetricsAddr   = ":9090"
)

// Config is the full bethere configuration.
type Config struct {
	Calendar CalendarConfig `toml:"calendar"`
	Maps     MapsConfig     `toml:"maps"`
	Planner  PlannerConfig  `toml:"planner"`
	Agent    AgentConfig    `toml:"agent"`
	History  HistoryConfig  `toml:"history"`
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
}

// CalendarConfig points at the calendar backend.
type CalendarConfig struct {
	BaseURL string `toml:"base_url"`
}

// MapsConfig covers both mapping services: geocoding and routing.
type MapsConfig struct {
	APIKey     string `toml:"api_key"`
	GeocodeURL string `toml:"geocode_url"`
	RoutesURL  string `toml:"routes_url"`
}

// PlannerConfig points at the Ollama-compatible chat API that selects
// tool calls.
type PlannerConfig struct {
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// AgentConfig bounds the orchestration loop.
type AgentConfig struct {
	MaxIterations int `toml:"max_iterations"`
}

// HistoryConfig locates the local chat history store. An empty path
// selects <user config dir>/bethere/history.db.
type HistoryConfig struct {
	Path string `toml:"path"`
}

// LogConfig selects log level and output format.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig covers the serve command: MCP transport plus the
// optional health and metrics listener.
type ServerConfig struct {
	Transport      string `toml:"transport"`
	HTTPAddr       string `toml:"http_addr"`
	MetricsAddr    string `toml:"metrics_addr"`
	MetricsEnabled bool   `toml:"metrics_enabled"`
}

// Default returns the configuration used when no file and no
// environment overrides are present.
func Default() *Config {
	return &Config{
		Calendar: CalendarConfig{BaseURL: DefaultCalendarURL},
		Maps: MapsConfig{
			GeocodeURL: DefaultGeocodeURL,
			RoutesURL:  DefaultRoutesURL,
		},
		Planner: PlannerConfig{
			BaseURL: DefaultPlannerURL,
			Model:   DefaultPlannerModel,
		},
		Agent:   AgentConfig{MaxIterations: DefaultMaxIterations},
		History: HistoryConfig{},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Server: ServerConfig{
			Transport:   DefaultTransport,
			HTTPAddr:    DefaultHTTPAddr,
			MetricsAddr: DefaultMetricsAddr,
		},
	}
}

// Load resolves the configuration: defaults, then the TOML file, then
// environment variables. An explicit path must exist; with an empty
// path the usual locations are tried and a missing file falls back to
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if data != nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile returns the config file contents, or nil when no file is
// found and none was explicitly requested.
func readFile(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		return data, nil
	}

	// Try first the current dir, then the user config dir.
	candidates := []string{"bethere.toml"}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "bethere", "config.toml"))
	}
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err == nil {
			return data, nil
		}
	}
	return nil, nil
}

// applyEnv layers environment variables over the loaded values. The
// maps key keeps its historical name, GOOGLE_MAPS_API_KEY; everything
// else is prefixed BETHERE_.
func (c *Config) applyEnv() {
	envString("BETHERE_CALENDAR_URL", &c.Calendar.BaseURL)
	envString("GOOGLE_MAPS_API_KEY", &c.Maps.APIKey)
	envString("BETHERE_GEOCODE_URL", &c.Maps.GeocodeURL)
	envString("BETHERE_ROUTES_URL", &c.Maps.RoutesURL)
	envString("BETHERE_PLANNER_URL", &c.Planner.BaseURL)
	envString("BETHERE_PLANNER_MODEL", &c.Planner.Model)
	envInt("BETHERE_MAX_ITERATIONS", &c.Agent.MaxIterations)
	envString("BETHERE_HISTORY_PATH", &c.History.Path)
	envString("BETHERE_LOG_LEVEL", &c.Log.Level)
	envString("BETHERE_LOG_FORMAT", &c.Log.Format)
}

// Validate rejects values that would fail later in less obvious places.
func (c *Config) Validate() error {
	if c.Calendar.BaseURL == "" {
		return fmt.Errorf("calendar.base_url must not be empty")
	}
	if c.Maps.GeocodeURL == "" || c.Maps.RoutesURL == "" {
		return fmt.Errorf("maps.geocode_url and maps.routes_url must not be empty")
	}
	if c.Planner.BaseURL == "" || c.Planner.Model == "" {
		return fmt.Errorf("planner.base_url and planner.model must not be empty")
	}
	if c.Agent.MaxIterations < 1 {
		return fmt.Errorf("agent.max_iterations must be at least 1, got %d", c.Agent.MaxIterations)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch c.Server.Transport {
	case "stdio", "streamable-http":
	default:
		return fmt.Errorf("server.transport must be stdio or streamable-http, got %q", c.Server.Transport)
	}
	return nil
}

// SlogLevel parses the configured level into a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got %q", l.Level)
}

// ResolvedPath returns the history database path, deriving the default
// under the user config dir when none is configured.
func (h HistoryConfig) ResolvedPath() (string, error) {
	if h.Path != "" {
		return h.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving history path: %w", err)
	}
	return filepath.Join(dir, "bethere", "history.db"), nil
}

func envString(key string, target *string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func envInt(key string, target *int) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}
