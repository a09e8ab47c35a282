// Package engine runs play sessions: it applies player mutations to the
// current number, keeps an undo log, spends attempts, and detects the
// solve. Daily and Lab wrap a Session with the rules of each mode.
//
// Nothing here locks; a session belongs to one player at a time.
package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/n4ze3m/num-shift/internal/models"
)

var (
	// ErrComplete rejects moves on a solved puzzle.
	ErrComplete = errors.New("puzzle already solved")
	// ErrNoAttempts rejects moves once the attempt budget is spent.
	ErrNoAttempts = errors.New("no attempts remaining")
	// ErrDailyLocked rejects play on a daily already won in an earlier session.
	ErrDailyLocked = errors.New("today's puzzle is already solved")
	// ErrInvalidMutation reports a structurally invalid mutation.
	ErrInvalidMutation = errors.New("invalid mutation")
	// ErrLockedPosition rejects a mutation touching a locked position.
	ErrLockedPosition = errors.New("position is locked")
	// ErrNotComplete rejects advancing past an unsolved lab level.
	ErrNotComplete = errors.New("level not solved yet")
	// ErrStaleSnapshot reports a snapshot saved for another day or level.
	ErrStaleSnapshot = errors.New("snapshot is stale")
	// ErrCorruptSnapshot reports a snapshot whose history does not add up.
	ErrCorruptSnapshot = errors.New("snapshot is inconsistent")
	// ErrNotOffered reports a move kind or replace digit the puzzle does
	// not offer.
	ErrNotOffered = errors.New("not offered by this puzzle")
)

// State is where a session stands.
type State int

const (
	InProgress State = iota
	Complete
	Exhausted
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Complete:
		return "complete"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Session is the live state of one puzzle.
type Session struct {
	Config            models.GameConfig
	Current           string
	History           []models.HistoryEntry
	AttemptsRemaining int
	Complete          bool
}

// NewSession starts cfg from its base number.
func NewSession(cfg models.GameConfig) *Session {
	s := &Session{}
	s.Reset(cfg)
	return s
}

// Reset discards all play and starts cfg from its base number.
func (s *Session) Reset(cfg models.GameConfig) {
	s.Config = cfg
	s.Current = cfg.BaseNumber
	s.History = nil
	s.AttemptsRemaining = cfg.MaxAttempts
	s.Complete = s.Current == cfg.TargetNumber
}

// PerformMutation applies m and spends one attempt. A rejected mutation
// leaves the session untouched.
func (s *Session) PerformMutation(m models.Mutation) error {
	if s.Complete {
		return ErrComplete
	}
	if s.AttemptsRemaining <= 0 {
		return ErrNoAttempts
	}
	for _, p := range touches(m) {
		if slices.Contains(s.Config.LockedPositions, p) {
			return fmt.Errorf("%w: %d", ErrLockedPosition, p)
		}
	}

	after, err := Apply(s.Current, m)
	if err != nil {
		return err
	}

	s.History = append(s.History, models.HistoryEntry{
		Mutation: m,
		Before:   s.Current,
		After:    after,
	})
	s.Current = after
	s.AttemptsRemaining--
	s.Complete = s.Current == s.Config.TargetNumber
	return nil
}

// Offered checks m against the config's available kinds and, for a
// replace, its mutation pool. PerformMutation does not call it; clients
// that present only the offered moves use it to vet typed or suggested ones.
func (s *Session) Offered(m models.Mutation) error {
	if !s.Config.Allows(m.Type) {
		return fmt.Errorf("%w: %s", ErrNotOffered, m.Type)
	}
	if m.Type == models.KindReplace && !s.Config.InPool(m.Value) {
		return fmt.Errorf("%w: replace digit %s", ErrNotOffered, m.Value)
	}
	return nil
}

// Undo takes back the last move and refunds its attempt. It does nothing
// once the puzzle is solved or when there is nothing to undo.
func (s *Session) Undo() bool {
	if len(s.History) == 0 || s.Complete {
		return false
	}
	last := s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	s.Current = last.Before
	s.AttemptsRemaining++
	return true
}

// Progress is the fraction of positions already matching the target.
func (s *Session) Progress() float64 {
	if len(s.Config.TargetNumber) == 0 {
		return 0
	}
	return float64(models.Matches(s.Current, s.Config.TargetNumber)) / float64(len(s.Config.TargetNumber))
}

// MovesUsed is the number of accepted moves still on the history.
func (s *Session) MovesUsed() int {
	return len(s.History)
}

// State reports whether the session is solved, out of attempts, or live.
func (s *Session) State() State {
	switch {
	case s.Complete:
		return Complete
	case s.AttemptsRemaining <= 0:
		return Exhausted
	default:
		return InProgress
	}
}

// VerifyHistory replays the history from the base number and checks it
// ends at Current.
func (s *Session) VerifyHistory() error {
	number := s.Config.BaseNumber
	for i, h := range s.History {
		if h.Before != number {
			return fmt.Errorf("%w: entry %d starts at %s, expected %s", ErrCorruptSnapshot, i, h.Before, number)
		}
		after, err := Apply(h.Before, h.Mutation)
		if err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrCorruptSnapshot, i, err)
		}
		if after != h.After {
			return fmt.Errorf("%w: entry %d yields %s, recorded %s", ErrCorruptSnapshot, i, after, h.After)
		}
		number = after
	}
	if number != s.Current {
		return fmt.Errorf("%w: history ends at %s, current is %s", ErrCorruptSnapshot, number, s.Current)
	}
	return nil
}

// Snapshot captures the session for persistence.
func (s *Session) Snapshot(mode models.Mode, key string) models.Snapshot {
	return models.Snapshot{
		Mode:              mode,
		Key:               key,
		Config:            s.Config,
		History:           slices.Clone(s.History),
		Current:           s.Current,
		AttemptsRemaining: s.AttemptsRemaining,
	}
}

// Restore rebuilds a session from snap if it was saved under wantKey and
// is internally consistent.
func Restore(snap *models.Snapshot, wantKey string) (*Session, error) {
	if snap == nil || snap.Key != wantKey {
		return nil, ErrStaleSnapshot
	}
	if !models.IsNumber(snap.Current) || !models.IsNumber(snap.Config.BaseNumber) || !models.IsNumber(snap.Config.TargetNumber) {
		return nil, fmt.Errorf("%w: malformed numbers", ErrCorruptSnapshot)
	}
	if snap.AttemptsRemaining < 0 {
		return nil, fmt.Errorf("%w: negative attempts", ErrCorruptSnapshot)
	}

	s := &Session{
		Config:            snap.Config,
		Current:           snap.Current,
		History:           slices.Clone(snap.History),
		AttemptsRemaining: snap.AttemptsRemaining,
	}
	if err := s.VerifyHistory(); err != nil {
		return nil, err
	}
	s.Complete = s.Current == s.Config.TargetNumber
	return s, nil
}
