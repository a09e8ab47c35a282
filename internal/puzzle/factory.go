// Package puzzle turns generator output into play-ready configs for the
// two game modes. The daily puzzle is seeded by the UTC calendar day and
// is the same for everyone; lab puzzles are seeded by level number.
package puzzle

import (
	"fmt"
	"time"

	"github.com/n4ze3m/num-shift/internal/generator"
	"github.com/n4ze3m/num-shift/internal/models"
)

const (
	dailyAttemptFactor = 1.2
	labAttemptFactor   = 1.5
	labSeedStride      = 1000

	// FirstLevel is where the lab starts.
	FirstLevel = 1
)

// DayStart returns midnight UTC of t's UTC day.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DailySeed is the Unix time in seconds of the start of t's UTC day.
func DailySeed(t time.Time) int64 {
	return DayStart(t).Unix()
}

// DailyKey identifies t's daily puzzle in saved snapshots.
func DailyKey(t time.Time) string {
	return DayStart(t).Format(time.DateOnly)
}

// LabSeed is the seed for a lab level.
func LabSeed(level int) int64 {
	return int64(level) * labSeedStride
}

// LabKey identifies a lab level in saved snapshots.
func LabKey(level int) string {
	return fmt.Sprintf("level-%d", level)
}

// Daily builds the config for t's UTC day.
func Daily(t time.Time, opts ...generator.Option) models.GameConfig {
	g := generator.New(DailySeed(t), opts...)
	return newConfig(g.GeneratePuzzle(), g.Seed(), dailyAttemptFactor)
}

// Lab builds the config for a lab level. Levels below FirstLevel are
// treated as FirstLevel.
func Lab(level int, opts ...generator.Option) models.GameConfig {
	if level < FirstLevel {
		level = FirstLevel
	}
	g := generator.New(LabSeed(level), opts...)
	return newConfig(g.GeneratePuzzle(), g.Seed(), labAttemptFactor)
}

func newConfig(p generator.Puzzle, seed int64, factor float64) models.GameConfig {
	return models.GameConfig{
		BaseNumber:   p.Base,
		TargetNumber: p.Target,
		MutationPool: p.MutationPool,
		FlipMap:      models.FlipMap(),
		MaxAttempts:  int(float64(len(p.Operations)) * factor),
		// shift is a generation-only operation
		AvailableMutations: []models.MutationKind{
			models.KindSwap,
			models.KindFlip,
			models.KindReplace,
			models.KindBump,
		},
		LockedPositions: []int{},
		SpecialPatterns: SpecialPatterns(),
		Seed:            seed,
	}
}

// UntilNextDaily is the time left before the next UTC midnight.
func UntilNextDaily(now time.Time) time.Duration {
	return DayStart(now).AddDate(0, 0, 1).Sub(now)
}

// FormatCountdown renders d as "Hh Mm".
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", h, m)
}

// OptimalMoves is a rough lower estimate of the moves a puzzle needs:
// 70% of the differing positions, at least one.
func OptimalMoves(base, target string) int {
	diff := 0
	for i := 0; i < len(base) && i < len(target); i++ {
		if base[i] != target[i] {
			diff++
		}
	}
	return max(1, int(float64(diff)*0.7))
}
