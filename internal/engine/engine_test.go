package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/n4ze3m/num-shift/internal/models"
	"github.com/n4ze3m/num-shift/internal/puzzle"
	"github.com/n4ze3m/num-shift/internal/random"
)

func testConfig() models.GameConfig {
	return models.GameConfig{
		BaseNumber:         "123456",
		TargetNumber:       "123465",
		MutationPool:       []string{"0", "7"},
		FlipMap:            models.FlipMap(),
		MaxAttempts:        3,
		AvailableMutations: []models.MutationKind{models.KindSwap, models.KindFlip, models.KindReplace, models.KindBump},
		LockedPositions:    []int{},
	}
}

// replaceAll solves any puzzle with one replace per wrong digit.
func replaceAll(current, target string) []models.Mutation {
	var out []models.Mutation
	for i := range current {
		if current[i] != target[i] {
			out = append(out, models.Replace(i, string(target[i])))
		}
	}
	return out
}

func TestApply(t *testing.T) {
	cases := []struct {
		name string
		in   string
		m    models.Mutation
		want string
	}{
		{"swap", "123456", models.Swap(0, 5), "623451"},
		{"swap same position", "123456", models.Swap(2, 2), "123456"},
		{"flip", "123456", models.Flip(4, "2"), "123426"},
		{"flip verbatim", "123456", models.Flip(0, "7"), "723456"},
		{"replace", "123456", models.Replace(3, "0"), "123056"},
		{"shift left", "123456", models.Shift(3, models.Left), "124356"},
		{"shift right", "123456", models.Shift(3, models.Right), "123546"},
		{"shift left edge", "123456", models.Shift(0, models.Left), "123456"},
		{"shift right edge", "123456", models.Shift(5, models.Right), "123456"},
		{"bump up", "123456", models.Bump(1, models.Increment), "133456"},
		{"bump down", "123456", models.Bump(1, models.Decrement), "113456"},
		{"bump 9 up wraps", "900000", models.Bump(0, models.Increment), "000000"},
		{"bump 0 down wraps", "012345", models.Bump(0, models.Decrement), "912345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Apply(tc.in, tc.m)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestApplyRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		m    models.Mutation
	}{
		{"swap one position", models.Mutation{Type: models.KindSwap, Positions: []int{1}}},
		{"swap out of range", models.Swap(0, 6)},
		{"swap negative", models.Swap(-1, 2)},
		{"flip out of range", models.Flip(6, "5")},
		{"replace not a digit", models.Replace(0, "x")},
		{"replace two digits", models.Replace(0, "12")},
		{"shift bad direction", models.Shift(2, models.Increment)},
		{"bump bad direction", models.Bump(2, models.Left)},
		{"bump out of range", models.Bump(9, models.Increment)},
		{"unknown", models.Mutation{Type: "teleport"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Apply("123456", tc.m)
			require.ErrorIs(t, err, ErrInvalidMutation)
		})
	}
}

func TestNewSession(t *testing.T) {
	s := NewSession(testConfig())
	require.Equal(t, "123456", s.Current)
	require.Equal(t, 3, s.AttemptsRemaining)
	require.Empty(t, s.History)
	require.False(t, s.Complete)
	require.Equal(t, InProgress, s.State())
	require.InDelta(t, 4.0/6.0, s.Progress(), 1e-9)
}

func TestPerformMutationRecordsHistory(t *testing.T) {
	s := NewSession(testConfig())
	require.NoError(t, s.PerformMutation(models.Bump(0, models.Increment)))

	require.Equal(t, "223456", s.Current)
	require.Equal(t, 2, s.AttemptsRemaining)
	require.Equal(t, []models.HistoryEntry{
		{Mutation: models.Bump(0, models.Increment), Before: "123456", After: "223456"},
	}, s.History)
	require.NoError(t, s.VerifyHistory())
}

func TestInvalidMutationLeavesSessionUntouched(t *testing.T) {
	s := NewSession(testConfig())
	err := s.PerformMutation(models.Swap(0, 9))
	require.ErrorIs(t, err, ErrInvalidMutation)
	require.Equal(t, "123456", s.Current)
	require.Equal(t, 3, s.AttemptsRemaining)
	require.Empty(t, s.History)
}

func TestCompletionLocksSession(t *testing.T) {
	s := NewSession(testConfig())
	require.NoError(t, s.PerformMutation(models.Swap(4, 5)))
	require.True(t, s.Complete)
	require.Equal(t, Complete, s.State())
	require.Equal(t, 1.0, s.Progress())

	history := append([]models.HistoryEntry(nil), s.History...)
	require.ErrorIs(t, s.PerformMutation(models.Swap(0, 1)), ErrComplete)
	require.Equal(t, history, s.History)
	require.Equal(t, "123465", s.Current)

	require.False(t, s.Undo(), "undo is refused after the solve")
	require.Equal(t, 2, s.AttemptsRemaining)
}

func TestAttemptsRunOut(t *testing.T) {
	s := NewSession(testConfig())
	for i := 0; i < 3; i++ {
		require.NoError(t, s.PerformMutation(models.Bump(0, models.Increment)))
	}
	require.Equal(t, 0, s.AttemptsRemaining)
	require.Equal(t, Exhausted, s.State())
	require.ErrorIs(t, s.PerformMutation(models.Swap(4, 5)), ErrNoAttempts)
	require.Len(t, s.History, 3)

	// undo refunds, so play can resume
	require.True(t, s.Undo())
	require.Equal(t, InProgress, s.State())
	require.NoError(t, s.PerformMutation(models.Bump(0, models.Increment)))
}

func TestUndoOnEmptyHistory(t *testing.T) {
	s := NewSession(testConfig())
	require.False(t, s.Undo())
	require.Equal(t, 3, s.AttemptsRemaining)
}

func TestUndoRoundTrip(t *testing.T) {
	cfg := puzzle.Lab(4)
	cfg.MaxAttempts = 1000
	s := NewSession(cfg)
	rng := random.New(2024)

	for i := 0; i < 300 && !s.Complete; i++ {
		m := randomMutation(rng)
		current, attempts := s.Current, s.AttemptsRemaining

		require.NoError(t, s.PerformMutation(m))
		if s.Complete {
			break
		}
		require.True(t, s.Undo())
		require.Equal(t, current, s.Current, "move %d: %+v", i, m)
		require.Equal(t, attempts, s.AttemptsRemaining)

		// keep the move so the walk goes somewhere
		require.NoError(t, s.PerformMutation(m))
		require.NoError(t, s.VerifyHistory())
	}
}

func randomMutation(rng *random.Source) models.Mutation {
	pos := rng.NextInt(0, models.Length-1)
	switch rng.NextInt(0, 4) {
	case 0:
		return models.Swap(pos, rng.NextInt(0, models.Length-1))
	case 1:
		return models.Flip(pos, string(rune('0'+rng.NextInt(0, 9))))
	case 2:
		if rng.NextInt(0, 1) == 0 {
			return models.Shift(pos, models.Left)
		}
		return models.Shift(pos, models.Right)
	case 3:
		return models.Replace(pos, string(rune('0'+rng.NextInt(0, 9))))
	default:
		if rng.NextInt(0, 1) == 0 {
			return models.Bump(pos, models.Decrement)
		}
		return models.Bump(pos, models.Increment)
	}
}

func TestLockedPositions(t *testing.T) {
	cfg := testConfig()
	cfg.LockedPositions = []int{2}
	s := NewSession(cfg)

	require.ErrorIs(t, s.PerformMutation(models.Swap(2, 4)), ErrLockedPosition)
	require.ErrorIs(t, s.PerformMutation(models.Shift(3, models.Left)), ErrLockedPosition)
	require.ErrorIs(t, s.PerformMutation(models.Bump(2, models.Increment)), ErrLockedPosition)
	require.NoError(t, s.PerformMutation(models.Shift(3, models.Right)))
	require.Len(t, s.History, 1)
}

func TestReset(t *testing.T) {
	s := NewSession(testConfig())
	require.NoError(t, s.PerformMutation(models.Swap(4, 5)))

	next := puzzle.Lab(2)
	s.Reset(next)
	require.Equal(t, next.BaseNumber, s.Current)
	require.Equal(t, next.MaxAttempts, s.AttemptsRemaining)
	require.Empty(t, s.History)
	require.False(t, s.Complete)
}

func TestRestore(t *testing.T) {
	s := NewSession(testConfig())
	require.NoError(t, s.PerformMutation(models.Bump(0, models.Increment)))
	snap := s.Snapshot(models.ModeLab, "level-1")

	restored, err := Restore(&snap, "level-1")
	require.NoError(t, err)
	require.Equal(t, s, restored)

	_, err = Restore(&snap, "level-2")
	require.ErrorIs(t, err, ErrStaleSnapshot)
	_, err = Restore(nil, "level-1")
	require.ErrorIs(t, err, ErrStaleSnapshot)

	bad := snap
	bad.Current = "999999"
	_, err = Restore(&bad, "level-1")
	require.ErrorIs(t, err, ErrCorruptSnapshot)

	bad = snap
	bad.AttemptsRemaining = -1
	_, err = Restore(&bad, "level-1")
	require.ErrorIs(t, err, ErrCorruptSnapshot)

	bad = snap
	bad.Current = "12"
	_, err = Restore(&bad, "level-1")
	require.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	s := NewSession(testConfig())
	require.NoError(t, s.PerformMutation(models.Bump(0, models.Increment)))
	snap := s.Snapshot(models.ModeDaily, "2023-05-15")
	require.True(t, s.Undo())
	require.NoError(t, s.PerformMutation(models.Bump(1, models.Increment)))
	require.Equal(t, "223456", snap.History[0].After)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "in progress", InProgress.String())
	require.Equal(t, "complete", Complete.String())
	require.Equal(t, "exhausted", Exhausted.String())
	require.Equal(t, "unknown", State(7).String())
}

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{ErrComplete, ErrNoAttempts, ErrDailyLocked, ErrInvalidMutation,
		ErrLockedPosition, ErrNotComplete, ErrStaleSnapshot, ErrCorruptSnapshot, ErrNotOffered}
	for i, a := range all {
		for j, b := range all {
			require.Equal(t, i == j, errors.Is(a, b))
		}
	}
}

var may15 = time.Date(2023, time.May, 15, 9, 0, 0, 0, time.UTC)

func TestDailySolveLocksDay(t *testing.T) {
	d := NewDaily(may15, false)
	require.Equal(t, "2023-05-15", d.Key)
	require.Equal(t, "258514", d.Session.Current)

	moves := replaceAll(d.Session.Current, d.Session.Config.TargetNumber)
	require.Len(t, moves, 6)
	for i, m := range moves {
		solved, err := d.PerformMutation(m)
		require.NoError(t, err)
		require.Equal(t, i == len(moves)-1, solved)
	}
	require.True(t, d.Locked)
	require.Equal(t, 13-6, d.Session.AttemptsRemaining)

	_, err := d.PerformMutation(models.Swap(0, 1))
	require.ErrorIs(t, err, ErrDailyLocked)
	require.ErrorIs(t, d.Reset(), ErrDailyLocked)
	require.False(t, d.Undo())
}

func TestDailyAlreadyWonInEarlierSession(t *testing.T) {
	d := NewDaily(may15, true)
	_, err := d.PerformMutation(models.Swap(0, 1))
	require.ErrorIs(t, err, ErrDailyLocked)
	require.Empty(t, d.Session.History)
}

func TestDailyResetAndStale(t *testing.T) {
	d := NewDaily(may15, false)
	_, err := d.PerformMutation(models.Swap(0, 1))
	require.NoError(t, err)
	require.True(t, d.Undo())
	_, err = d.PerformMutation(models.Swap(0, 1))
	require.NoError(t, err)

	require.NoError(t, d.Reset())
	require.Equal(t, "258514", d.Session.Current)
	require.Equal(t, 13, d.Session.AttemptsRemaining)

	require.False(t, d.Stale(may15.Add(14*time.Hour)))
	require.True(t, d.Stale(may15.Add(15*time.Hour)))
}

func TestRestoreDaily(t *testing.T) {
	d := NewDaily(may15, false)
	_, err := d.PerformMutation(models.Bump(2, models.Decrement))
	require.NoError(t, err)
	snap := d.Snapshot()
	require.Equal(t, models.ModeDaily, snap.Mode)

	resumed, err := RestoreDaily(&snap, may15.Add(time.Hour), false)
	require.NoError(t, err)
	require.Equal(t, d.Session, resumed.Session)

	_, err = RestoreDaily(&snap, may15.AddDate(0, 0, 1), false)
	require.ErrorIs(t, err, ErrStaleSnapshot)

	labSnap := snap
	labSnap.Mode = models.ModeLab
	_, err = RestoreDaily(&labSnap, may15, false)
	require.ErrorIs(t, err, ErrStaleSnapshot)
}

// The win can be saved in the snapshot while recording the completion
// failed; the solved board must still not be replayable.
func TestRestoreSolvedDailyStaysLocked(t *testing.T) {
	d := NewDaily(may15, false)
	for _, m := range replaceAll(d.Session.Current, d.Session.Config.TargetNumber) {
		_, err := d.PerformMutation(m)
		require.NoError(t, err)
	}
	snap := d.Snapshot()
	require.Equal(t, snap.Config.TargetNumber, snap.Current)

	resumed, err := RestoreDaily(&snap, may15.Add(time.Hour), false)
	require.NoError(t, err)
	require.True(t, resumed.Locked)
	require.ErrorIs(t, resumed.Reset(), ErrDailyLocked)
	require.Equal(t, "542851", resumed.Session.Current)

	_, err = resumed.PerformMutation(models.Swap(0, 1))
	require.ErrorIs(t, err, ErrDailyLocked)
	require.False(t, resumed.Undo())

	resumed.Locked = false
	require.ErrorIs(t, resumed.Reset(), ErrDailyLocked, "a complete board refuses reset on its own")
	require.Equal(t, "542851", resumed.Session.Current)
}

func TestLabScoresAndAdvances(t *testing.T) {
	l := NewLab(1, 0)
	require.Equal(t, "282690", l.Session.Current)
	require.ErrorIs(t, l.NextLevel(), ErrNotComplete)

	for _, m := range replaceAll(l.Session.Current, l.Session.Config.TargetNumber) {
		require.NoError(t, l.PerformMutation(m))
	}
	require.True(t, l.Session.Complete)
	// 100 + 12/18*50 + (50 - 6*2)
	require.Equal(t, 171, l.LevelScore)

	require.NoError(t, l.NextLevel())
	require.Equal(t, 2, l.Level)
	require.Equal(t, 171, l.TotalScore)
	require.Zero(t, l.LevelScore)
	require.Equal(t, "800235", l.Session.Current)
	require.Equal(t, 10, l.Session.AttemptsRemaining)
	require.Equal(t, "level-2", l.Key())
}

func TestLabResetLevel(t *testing.T) {
	l := NewLab(3, 500)
	require.NoError(t, l.PerformMutation(models.Swap(0, 1)))
	require.True(t, l.Undo())
	require.NoError(t, l.PerformMutation(models.Swap(0, 1)))

	l.ResetLevel()
	require.Equal(t, 3, l.Level)
	require.Equal(t, 500, l.TotalScore)
	require.Equal(t, "163850", l.Session.Current)
	require.Empty(t, l.Session.History)
}

func TestRestoreLab(t *testing.T) {
	l := NewLab(2, 300)
	require.NoError(t, l.PerformMutation(models.Swap(0, 1)))
	snap := l.Snapshot()
	require.Equal(t, &models.LabProgress{Level: 2, TotalScore: 300}, snap.Lab)

	resumed, err := RestoreLab(&snap)
	require.NoError(t, err)
	require.Equal(t, l.Session, resumed.Session)
	require.Equal(t, 2, resumed.Level)
	require.Equal(t, 300, resumed.TotalScore)

	snap.Key = "level-9"
	_, err = RestoreLab(&snap)
	require.ErrorIs(t, err, ErrStaleSnapshot)

	_, err = RestoreLab(nil)
	require.ErrorIs(t, err, ErrStaleSnapshot)
}

func TestScore(t *testing.T) {
	require.Equal(t, 171, Score(1, 12, 18, 6))
	require.Equal(t, 1100, Score(10, 10, 10, 0))
	require.Equal(t, 100, Score(1, 0, 10, 40))
	require.Equal(t, 150, Score(1, 0, 0, 0))
}

func TestShareSummary(t *testing.T) {
	d := NewDaily(may15, false)
	for _, m := range replaceAll(d.Session.Current, d.Session.Config.TargetNumber) {
		_, err := d.PerformMutation(m)
		require.NoError(t, err)
	}
	sum := d.Session.Summary()
	require.Equal(t, 6, sum.MoveCount)
	require.Equal(t, "258514", sum.BaseNumber)
	require.Equal(t, "542851", sum.TargetNumber)

	require.Equal(t, "Daily Num Shift (May 15)\n258514 → 542851\nSolved in 6 moves\n🔢🔢🔢🔢🔢🔢",
		FormatShare(sum, may15))
	require.Equal(t, "🔼", Emoji(models.KindBump))
	require.Equal(t, "❓", Emoji("teleport"))
}

func TestOffered(t *testing.T) {
	s := NewSession(testConfig())
	require.NoError(t, s.Offered(models.Swap(0, 1)))
	require.NoError(t, s.Offered(models.Replace(0, "7")))
	require.ErrorIs(t, s.Offered(models.Replace(0, "3")), ErrNotOffered)
	require.ErrorIs(t, s.Offered(models.Shift(0, models.Right)), ErrNotOffered)
}
