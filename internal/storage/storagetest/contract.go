// Package storagetest holds the behavior every storage.Store must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/n4ze3m/num-shift/internal/engine"
	"github.com/n4ze3m/num-shift/internal/models"
	"github.com/n4ze3m/num-shift/internal/storage"
)

// Run exercises a fresh store from open against the Store contract.
func Run(t *testing.T, open func(t *testing.T) storage.Store) {
	t.Helper()

	t.Run("missing snapshot", func(t *testing.T) {
		s := open(t)
		_, err := s.LoadSnapshot(context.Background(), models.ModeDaily)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("snapshot round trip per mode", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		lab := engine.NewLab(3, 420)
		require.NoError(t, lab.PerformMutation(models.Swap(0, 1)))
		labSnap := lab.Snapshot()

		day := time.Date(2023, time.May, 15, 12, 0, 0, 0, time.UTC)
		daily := engine.NewDaily(day, false)
		_, err := daily.PerformMutation(models.Bump(4, models.Increment))
		require.NoError(t, err)
		dailySnap := daily.Snapshot()

		require.NoError(t, s.SaveSnapshot(ctx, &labSnap))
		require.NoError(t, s.SaveSnapshot(ctx, &dailySnap))

		got, err := s.LoadSnapshot(ctx, models.ModeLab)
		require.NoError(t, err)
		require.Equal(t, labSnap, *got)

		got, err = s.LoadSnapshot(ctx, models.ModeDaily)
		require.NoError(t, err)
		require.Equal(t, dailySnap, *got)

		resumed, err := engine.RestoreLab(got)
		require.Error(t, err, "a daily snapshot does not resume a lab run")
		require.Nil(t, resumed)
	})

	t.Run("save replaces", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		lab := engine.NewLab(1, 0)
		first := lab.Snapshot()
		require.NoError(t, s.SaveSnapshot(ctx, &first))

		require.NoError(t, lab.PerformMutation(models.Swap(2, 3)))
		second := lab.Snapshot()
		require.NoError(t, s.SaveSnapshot(ctx, &second))

		got, err := s.LoadSnapshot(ctx, models.ModeLab)
		require.NoError(t, err)
		require.Len(t, got.History, 1)
		require.Equal(t, second.Current, got.Current)
	})

	t.Run("daily completions", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		unlocked, err := s.LabUnlocked(ctx)
		require.NoError(t, err)
		require.False(t, unlocked)

		done, err := s.DailyCompleted(ctx, "2023-05-15")
		require.NoError(t, err)
		require.False(t, done)

		at := time.Date(2023, time.May, 15, 18, 4, 0, 0, time.UTC)
		require.NoError(t, s.MarkDailyCompleted(ctx, "2023-05-15", at))
		require.NoError(t, s.MarkDailyCompleted(ctx, "2023-05-15", at.Add(time.Hour)))

		done, err = s.DailyCompleted(ctx, "2023-05-15")
		require.NoError(t, err)
		require.True(t, done)

		done, err = s.DailyCompleted(ctx, "2023-05-16")
		require.NoError(t, err)
		require.False(t, done)

		unlocked, err = s.LabUnlocked(ctx)
		require.NoError(t, err)
		require.True(t, unlocked)
	})

	t.Run("canceled context", func(t *testing.T) {
		s := open(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.LoadSnapshot(ctx, models.ModeLab)
		require.ErrorIs(t, err, context.Canceled)
	})
}
