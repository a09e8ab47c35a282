// Package sqlite provides a SQLite-backed storage.Store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/n4ze3m/num-shift/internal/models"
	"github.com/n4ze3m/num-shift/internal/storage"
	"github.com/n4ze3m/num-shift/internal/storage/sqlite/migrations"
)

// Store persists snapshots as YAML documents keyed by mode.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens the database at path, creating its directory if needed, and
// applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if snap == nil || snap.Mode == "" {
		return fmt.Errorf("snapshot mode is required")
	}
	body, err := models.EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", snap.Mode, err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO snapshots (mode, key, body, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(mode) DO UPDATE SET
		   key = excluded.key,
		   body = excluded.body,
		   updated_at = excluded.updated_at`,
		string(snap.Mode),
		snap.Key,
		string(body),
		toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save %s snapshot: %w", snap.Mode, err)
	}
	return nil
}

func (s *Store) LoadSnapshot(ctx context.Context, mode models.Mode) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var body string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE mode = ?`, string(mode)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s snapshot: %w", mode, err)
	}
	return models.DecodeSnapshot([]byte(body))
}

func (s *Store) MarkDailyCompleted(ctx context.Context, day string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(day) == "" {
		return fmt.Errorf("day is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO daily_completions (day, completed_at) VALUES (?, ?)`,
		day, toMillis(at),
	)
	if err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("mark daily %s: %w", day, err)
	}
	return nil
}

func (s *Store) DailyCompleted(ctx context.Context, day string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	var found int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM daily_completions WHERE day = ?`, day).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check daily %s: %w", day, err)
	}
	return true, nil
}

func (s *Store) LabUnlocked(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_completions`).Scan(&count); err != nil {
		return false, fmt.Errorf("count daily completions: %w", err)
	}
	return count > 0, nil
}

// isUniqueViolation reports a repeated daily_completions day.
func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
