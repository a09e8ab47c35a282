package engine

import (
	"fmt"
	"math"

	"github.com/n4ze3m/num-shift/internal/generator"
	"github.com/n4ze3m/num-shift/internal/models"
	"github.com/n4ze3m/num-shift/internal/puzzle"
)

// Lab is the endless mode: solve a level, bank its score, move on.
type Lab struct {
	Session    *Session
	Level      int
	TotalScore int
	// LevelScore is set once, on the move that solves the level.
	LevelScore int

	opts []generator.Option
}

// NewLab starts at level with totalScore already banked.
func NewLab(level, totalScore int, opts ...generator.Option) *Lab {
	if level < puzzle.FirstLevel {
		level = puzzle.FirstLevel
	}
	return &Lab{
		Session:    NewSession(puzzle.Lab(level, opts...)),
		Level:      level,
		TotalScore: totalScore,
		opts:       opts,
	}
}

// RestoreLab resumes a lab run from snap.
func RestoreLab(snap *models.Snapshot, opts ...generator.Option) (*Lab, error) {
	if snap == nil || snap.Mode != models.ModeLab || snap.Lab == nil {
		return nil, ErrStaleSnapshot
	}
	s, err := Restore(snap, puzzle.LabKey(snap.Lab.Level))
	if err != nil {
		return nil, err
	}
	return &Lab{
		Session:    s,
		Level:      snap.Lab.Level,
		TotalScore: snap.Lab.TotalScore,
		LevelScore: snap.Lab.LevelScore,
		opts:       opts,
	}, nil
}

// Key identifies the current level in saved snapshots.
func (l *Lab) Key() string {
	return puzzle.LabKey(l.Level)
}

// PerformMutation applies m and scores the level when m solves it.
func (l *Lab) PerformMutation(m models.Mutation) error {
	if err := l.Session.PerformMutation(m); err != nil {
		return err
	}
	if l.Session.Complete && l.LevelScore == 0 {
		s := l.Session
		l.LevelScore = Score(l.Level, s.AttemptsRemaining, s.Config.MaxAttempts, s.MovesUsed())
	}
	return nil
}

// Undo takes back the last move of an unsolved level.
func (l *Lab) Undo() bool {
	return l.Session.Undo()
}

// NextLevel banks the level score and starts the next level.
func (l *Lab) NextLevel() error {
	if !l.Session.Complete {
		return fmt.Errorf("level %d: %w", l.Level, ErrNotComplete)
	}
	l.TotalScore += l.LevelScore
	l.Level++
	l.LevelScore = 0
	l.Session.Reset(puzzle.Lab(l.Level, l.opts...))
	return nil
}

// ResetLevel starts the current level over without banking anything.
func (l *Lab) ResetLevel() {
	l.LevelScore = 0
	l.Session.Reset(puzzle.Lab(l.Level, l.opts...))
}

// Snapshot captures the run for persistence.
func (l *Lab) Snapshot() models.Snapshot {
	snap := l.Session.Snapshot(models.ModeLab, l.Key())
	snap.Lab = &models.LabProgress{
		Level:      l.Level,
		TotalScore: l.TotalScore,
		LevelScore: l.LevelScore,
	}
	return snap
}

// Score rates a solved level: 100 per level, up to 50 for unspent
// attempts, and up to 50 for solving in few moves.
func Score(level, attemptsRemaining, maxAttempts, movesUsed int) int {
	base := float64(level * 100)
	efficiency := 0.0
	if maxAttempts > 0 {
		efficiency = math.Max(0, float64(attemptsRemaining)/float64(maxAttempts)*50)
	}
	moves := math.Max(0, float64(50-movesUsed*2))
	return int(math.Round(base + efficiency + moves))
}
