package engine

import (
	"time"

	"github.com/n4ze3m/num-shift/internal/generator"
	"github.com/n4ze3m/num-shift/internal/models"
	"github.com/n4ze3m/num-shift/internal/puzzle"
)

// Daily is a session on the shared puzzle of one UTC day. Once the day has
// been won, in this session or an earlier one, the run is locked.
type Daily struct {
	Session *Session
	Key     string
	Locked  bool

	day  time.Time
	opts []generator.Option
}

// NewDaily starts the puzzle for now's UTC day. alreadyWon locks the run
// when the day was solved in an earlier session.
func NewDaily(now time.Time, alreadyWon bool, opts ...generator.Option) *Daily {
	return &Daily{
		Session: NewSession(puzzle.Daily(now, opts...)),
		Key:     puzzle.DailyKey(now),
		Locked:  alreadyWon,
		day:     puzzle.DayStart(now),
		opts:    opts,
	}
}

// RestoreDaily resumes now's daily from snap. It fails with
// ErrStaleSnapshot when snap was saved on another day, in which case the
// caller starts over with NewDaily. A snapshot of a solved board comes
// back locked even if the win was never recorded.
func RestoreDaily(snap *models.Snapshot, now time.Time, alreadyWon bool, opts ...generator.Option) (*Daily, error) {
	if snap != nil && snap.Mode != models.ModeDaily {
		return nil, ErrStaleSnapshot
	}
	s, err := Restore(snap, puzzle.DailyKey(now))
	if err != nil {
		return nil, err
	}
	return &Daily{
		Session: s,
		Key:     snap.Key,
		Locked:  alreadyWon || s.Complete,
		day:     puzzle.DayStart(now),
		opts:    opts,
	}, nil
}

// PerformMutation applies m. solved is true when this move won the day;
// the caller should record the win so later sessions start locked.
func (d *Daily) PerformMutation(m models.Mutation) (solved bool, err error) {
	if d.Locked {
		return false, ErrDailyLocked
	}
	if err := d.Session.PerformMutation(m); err != nil {
		return false, err
	}
	if d.Session.Complete {
		d.Locked = true
		return true, nil
	}
	return false, nil
}

// Undo takes back the last move unless the day is already won.
func (d *Daily) Undo() bool {
	if d.Locked {
		return false
	}
	return d.Session.Undo()
}

// Reset starts the day's puzzle over. It is refused once the day is won.
func (d *Daily) Reset() error {
	if d.Locked || d.Session.Complete {
		return ErrDailyLocked
	}
	d.Session.Reset(puzzle.Daily(d.day, d.opts...))
	return nil
}

// Stale reports whether now has moved past this run's UTC day.
func (d *Daily) Stale(now time.Time) bool {
	return puzzle.DailyKey(now) != d.Key
}

// Snapshot captures the run for persistence.
func (d *Daily) Snapshot() models.Snapshot {
	return d.Session.Snapshot(models.ModeDaily, d.Key)
}
