package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreYAML   = "yaml"
	StoreSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	SaveDir  string `env:"NUMSHIFT_SAVE_DIR" envDefault:".saves"`
	Store    string `env:"NUMSHIFT_STORE" envDefault:"yaml"`
	DBPath   string `env:"NUMSHIFT_DB_PATH" envDefault:".saves/numshift.db"`
	LogLevel string `env:"NUMSHIFT_LOG_LEVEL" envDefault:"info"`
	// LogFile receives logs; empty discards them so the TUI stays clean.
	LogFile string `env:"NUMSHIFT_LOG_FILE"`
	// GeminiAPIKey enables the move advisor when set.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	Model        string `env:"NUMSHIFT_MODEL" envDefault:"gemini-2.5-flash"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	switch cfg.Store {
	case StoreYAML, StoreSQLite:
	default:
		return nil, fmt.Errorf("NUMSHIFT_STORE must be %q or %q, got %q", StoreYAML, StoreSQLite, cfg.Store)
	}
	return &cfg, nil
}

// AdvisorEnabled reports whether a Gemini key was configured.
func (c *Config) AdvisorEnabled() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

// SlogLevel maps LogLevel onto slog, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
