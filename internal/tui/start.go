package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/n4ze3m/num-shift/internal/advisor"
	"github.com/n4ze3m/num-shift/internal/config"
	"github.com/n4ze3m/num-shift/internal/models"
	"github.com/n4ze3m/num-shift/internal/storage"
	"github.com/n4ze3m/num-shift/internal/storage/sqlite"
)

// Start runs the daily puzzle with configuration from the environment.
func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	return StartWith(cfg, models.ModeDaily)
}

// StartWith wires logging, storage and the optional advisor from cfg and
// runs the client in mode.
func StartWith(cfg *config.Config, mode models.Mode) error {
	logger, closeLog, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var adv *advisor.Advisor
	if cfg.AdvisorEnabled() {
		adv, err = advisor.New(context.Background(), cfg.GeminiAPIKey, cfg.Model, logger)
		if err != nil {
			return fmt.Errorf("create advisor: %w", err)
		}
		defer adv.Close()
	}

	logger.Info("starting", "mode", mode, "store", cfg.Store, "advisor", adv != nil)
	return Run(Options{
		Mode:    mode,
		Store:   store,
		Advisor: adv,
		Logger:  logger,
	})
}

// OpenStore opens the backend named by cfg.Store.
func OpenStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	default:
		return storage.NewFileStore(cfg.SaveDir), nil
	}
}

// NewLogger builds a text logger writing to cfg.LogFile, or discarding
// everything when no file is set. The alternate screen owns stdout.
func NewLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	return NewLoggerTo(cfg, nil)
}

// NewLoggerTo is NewLogger with a fallback writer used when cfg.LogFile is
// empty. A nil fallback discards.
func NewLoggerTo(cfg *config.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		if fallback == nil {
			return slog.New(slog.DiscardHandler), func() {}, nil
		}
		return newTextLogger(fallback, cfg.SlogLevel()), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newTextLogger(f, cfg.SlogLevel()), func() { _ = f.Close() }, nil
}

func newTextLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
