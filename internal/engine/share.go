package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/n4ze3m/num-shift/internal/models"
)

// Summary is what a share message needs from a session.
type Summary struct {
	History      []models.HistoryEntry
	BaseNumber   string
	TargetNumber string
	MoveCount    int
}

// Summary describes the session for sharing.
func (s *Session) Summary() Summary {
	return Summary{
		History:      s.History,
		BaseNumber:   s.Config.BaseNumber,
		TargetNumber: s.Config.TargetNumber,
		MoveCount:    len(s.History),
	}
}

// Emoji is the share glyph for a mutation kind.
func Emoji(kind models.MutationKind) string {
	switch kind {
	case models.KindSwap:
		return "🔄"
	case models.KindFlip:
		return "🔁"
	case models.KindShift:
		return "↔️"
	case models.KindReplace:
		return "🔢"
	case models.KindBump:
		return "🔼"
	default:
		return "❓"
	}
}

// FormatShare renders the daily share message for date.
func FormatShare(sum Summary, date time.Time) string {
	var path strings.Builder
	for _, h := range sum.History {
		path.WriteString(Emoji(h.Mutation.Type))
	}
	return fmt.Sprintf("Daily Num Shift (%s)\n%s → %s\nSolved in %d moves\n%s",
		date.Format("Jan 2"), sum.BaseNumber, sum.TargetNumber, sum.MoveCount, path.String())
}
