package engine

import (
	"fmt"

	"github.com/n4ze3m/num-shift/internal/models"
)

// Apply returns number with m applied. It checks only what it needs to
// stay well defined (positions in range, single-digit values, known
// directions). A flip value is written verbatim; whether it is the
// flip-map partner of the digit it replaces is the caller's business.
func Apply(number string, m models.Mutation) (string, error) {
	digits := []byte(number)

	switch m.Type {
	case models.KindSwap:
		if len(m.Positions) != 2 {
			return "", fmt.Errorf("%w: swap needs two positions, got %d", ErrInvalidMutation, len(m.Positions))
		}
		i, j := m.Positions[0], m.Positions[1]
		if !inRange(i, digits) || !inRange(j, digits) {
			return "", fmt.Errorf("%w: swap positions %d,%d out of range", ErrInvalidMutation, i, j)
		}
		digits[i], digits[j] = digits[j], digits[i]

	case models.KindFlip, models.KindReplace:
		if !inRange(m.Position, digits) {
			return "", fmt.Errorf("%w: %s position %d out of range", ErrInvalidMutation, m.Type, m.Position)
		}
		if len(m.Value) != 1 || m.Value[0] < '0' || m.Value[0] > '9' {
			return "", fmt.Errorf("%w: %s value %q is not a digit", ErrInvalidMutation, m.Type, m.Value)
		}
		digits[m.Position] = m.Value[0]

	case models.KindShift:
		if !inRange(m.Position, digits) {
			return "", fmt.Errorf("%w: shift position %d out of range", ErrInvalidMutation, m.Position)
		}
		var to int
		switch m.Direction {
		case models.Left:
			to = max(0, m.Position-1)
		case models.Right:
			to = min(len(digits)-1, m.Position+1)
		default:
			return "", fmt.Errorf("%w: shift direction %q", ErrInvalidMutation, m.Direction)
		}
		// moving one step is an adjacent exchange; at an edge it is a no-op
		digits[m.Position], digits[to] = digits[to], digits[m.Position]

	case models.KindBump:
		if !inRange(m.Position, digits) {
			return "", fmt.Errorf("%w: bump position %d out of range", ErrInvalidMutation, m.Position)
		}
		d := int(digits[m.Position] - '0')
		switch m.Direction {
		case models.Increment:
			d = (d + 1) % 10
		case models.Decrement:
			d = (d + 9) % 10
		default:
			return "", fmt.Errorf("%w: bump direction %q", ErrInvalidMutation, m.Direction)
		}
		digits[m.Position] = byte('0' + d)

	default:
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidMutation, m.Type)
	}

	return string(digits), nil
}

func inRange(i int, digits []byte) bool {
	return i >= 0 && i < len(digits)
}

// touches lists the positions m writes to.
func touches(m models.Mutation) []int {
	switch m.Type {
	case models.KindSwap:
		return m.Positions
	case models.KindShift:
		switch m.Direction {
		case models.Left:
			return []int{m.Position, m.Position - 1}
		case models.Right:
			return []int{m.Position, m.Position + 1}
		}
	}
	return []int{m.Position}
}
