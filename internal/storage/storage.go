// Package storage persists play sessions and daily wins between runs.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/n4ze3m/num-shift/internal/models"
)

// ErrNotFound is returned when nothing has been saved for a mode.
var ErrNotFound = errors.New("not found")

// Store keeps one snapshot per mode and the set of won days.
type Store interface {
	// SaveSnapshot replaces the saved snapshot for snap.Mode.
	SaveSnapshot(ctx context.Context, snap *models.Snapshot) error
	// LoadSnapshot returns the saved snapshot for mode or ErrNotFound.
	LoadSnapshot(ctx context.Context, mode models.Mode) (*models.Snapshot, error)
	// MarkDailyCompleted records that the daily for day was won. Marking a
	// day twice keeps the first time.
	MarkDailyCompleted(ctx context.Context, day string, at time.Time) error
	// DailyCompleted reports whether day was won.
	DailyCompleted(ctx context.Context, day string) (bool, error)
	// LabUnlocked reports whether any daily was ever won.
	LabUnlocked(ctx context.Context) (bool, error)
	Close() error
}
