// Package config loads the TOML configuration shared by the binaries.
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
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Draft    DraftConfig    `toml:"draft"`
	Formats  FormatsConfig  `toml:"formats"`
	Events   EventsConfig   `toml:"events"`
	Scryfall ScryfallConfig `toml:"scryfall"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Port           int      `toml:"port"`
	CORSOrigins    []string `toml:"cors_origins"`
	RequestTimeout string   `toml:"request_timeout"` // e.g. "60s"
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path        string `toml:"path"`
	AutoMigrate bool   `toml:"auto_migrate"`
	JournalMode string `toml:"journal_mode"`
	BusyTimeout string `toml:"busy_timeout"` // e.g. "5s"
}

// DraftConfig contains generation defaults and limits.
type DraftConfig struct {
	DefaultSeats      int `toml:"default_seats"`
	DefaultPacks      int `toml:"default_packs"`
	DefaultPackSize   int `toml:"default_pack_size"`
	MaxSeats          int `toml:"max_seats"`
	SimulationWorkers int `toml:"simulation_workers"`
}

// FormatsConfig locates the format library.
type FormatsConfig struct {
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"` // Reload on file changes
}

// EventsConfig contains NATS settings. An empty URL disables publishing.
type EventsConfig struct {
	NATSURL       string `toml:"nats_url"`
	SubjectPrefix string `toml:"subject_prefix"`
}

// ScryfallConfig contains card import settings.
type ScryfallConfig struct {
	Enabled           bool    `toml:"enabled"`
	BaseURL           string  `toml:"base_url"`
	UserAgent         string  `toml:"user_agent"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Pretty bool   `toml:"pretty"` // Human-readable console output
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			CORSOrigins:    []string{"http://localhost:*", "http://127.0.0.1:*"},
			RequestTimeout: "60s",
		},
		Database: DatabaseConfig{
			Path:        filepath.Join(defaultDir(), "cubedraft.db"),
			AutoMigrate: true,
			JournalMode: "WAL",
			BusyTimeout: "5s",
		},
		Draft: DraftConfig{
			DefaultSeats:      8,
			DefaultPacks:      3,
			DefaultPackSize:   15,
			MaxSeats:          16,
			SimulationWorkers: 4,
		},
		Formats: FormatsConfig{
			Dir:   filepath.Join(defaultDir(), "formats"),
			Watch: true,
		},
		Events: EventsConfig{
			SubjectPrefix: "cubedraft",
		},
		Scryfall: ScryfallConfig{
			Enabled:           true,
			BaseURL:           "https://api.scryfall.com",
			UserAgent:         "cubedraft/1.0",
			RequestsPerSecond: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultDir is ~/.cubedraft, or .cubedraft when there is no home directory.
func defaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".cubedraft"
	}
	return filepath.Join(homeDir, ".cubedraft")
}

// Path returns the default configuration file path.
func Path() string {
	return filepath.Join(defaultDir(), "config.toml")
}

// Load loads the configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom loads the configuration from path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return config, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the configuration to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from CUBEDRAFT_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("CUBEDRAFT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CUBEDRAFT_PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("CUBEDRAFT_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("CUBEDRAFT_NATS_URL"); v != "" {
		c.Events.NATSURL = v
	}
	if v := os.Getenv("CUBEDRAFT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CUBEDRAFT_FORMATS_DIR"); v != "" {
		c.Formats.Dir = v
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if _, err := time.ParseDuration(c.Server.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request timeout %q: %w", c.Server.RequestTimeout, err)
	}

	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if _, err := time.ParseDuration(c.Database.BusyTimeout); err != nil {
		return fmt.Errorf("invalid busy timeout %q: %w", c.Database.BusyTimeout, err)
	}
	switch strings.ToUpper(c.Database.JournalMode) {
	case "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF":
	default:
		return fmt.Errorf("invalid journal mode %q", c.Database.JournalMode)
	}

	if c.Draft.DefaultSeats <= 0 {
		return fmt.Errorf("default seats must be positive: %d", c.Draft.DefaultSeats)
	}
	if c.Draft.DefaultPacks <= 0 || c.Draft.DefaultPackSize <= 0 {
		return fmt.Errorf("default format needs packs and slots: %d x %d", c.Draft.DefaultPacks, c.Draft.DefaultPackSize)
	}
	if c.Draft.MaxSeats < 0 {
		return fmt.Errorf("max seats cannot be negative: %d", c.Draft.MaxSeats)
	}
	if c.Draft.MaxSeats > 0 && c.Draft.DefaultSeats > c.Draft.MaxSeats {
		return fmt.Errorf("default seats %d exceed max seats %d", c.Draft.DefaultSeats, c.Draft.MaxSeats)
	}
	if c.Draft.SimulationWorkers <= 0 {
		return fmt.Errorf("simulation workers must be positive: %d", c.Draft.SimulationWorkers)
	}

	if c.Scryfall.RequestsPerSecond < 0 {
		return fmt.Errorf("scryfall requests per second cannot be negative: %v", c.Scryfall.RequestsPerSecond)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	return nil
}

// GetRequestTimeout returns the request timeout as a duration.
func (c *Config) GetRequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.RequestTimeout)
}

// GetBusyTimeout returns the SQLite busy timeout as a duration.
func (c *Config) GetBusyTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Database.BusyTimeout)
}
