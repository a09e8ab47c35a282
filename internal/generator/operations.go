package generator

import (
	"fmt"
	"strconv"
)

// Op is a reverse operation applied while walking from target to base.
// It is deliberately separate from models.MutationKind: shift exists only
// here and bump exists only at play time.
type Op int

const (
	OpSwap Op = iota
	OpFlip
	OpShift
	OpReplace
)

func (o Op) String() string {
	switch o {
	case OpSwap:
		return "swap"
	case OpFlip:
		return "flip"
	case OpShift:
		return "shift"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// MarshalText encodes the op by name.
func (o Op) MarshalText() ([]byte, error) {
	if o < OpSwap || o > OpReplace {
		return nil, fmt.Errorf("unknown op %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes an op name.
func (o *Op) UnmarshalText(text []byte) error {
	switch string(text) {
	case "swap":
		*o = OpSwap
	case "flip":
		*o = OpFlip
	case "shift":
		*o = OpShift
	case "replace":
		*o = OpReplace
	default:
		return fmt.Errorf("unknown op %q", text)
	}
	return nil
}

// generation-time flip table; play time uses models.FlipMap.
var flipTable = map[byte]byte{'2': '5', '5': '2', '6': '9', '9': '6'}

// workingPool is the replace pool for one generation run. It grows as
// overwritten digits are appended and may hold repeats; used records
// digits already placed by a replace so they are not placed again.
type workingPool struct {
	digits []int
	used   map[int]bool
}

func newWorkingPool(digits []int) *workingPool {
	return &workingPool{
		digits: append([]int(nil), digits...),
		used:   make(map[int]bool),
	}
}

// candidates lists pool entries (repeats included, in pool order) that are
// unused and differ from old.
func (p *workingPool) candidates(old int) []int {
	var out []int
	for _, d := range p.digits {
		if !p.used[d] && d != old {
			out = append(out, d)
		}
	}
	return out
}

// distinct returns the pool's digits as strings, first occurrence wins.
func (p *workingPool) distinct() []string {
	seen := make(map[int]bool, len(p.digits))
	out := make([]string, 0, len(p.digits))
	for _, d := range p.digits {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, strconv.Itoa(d))
	}
	return out
}

func (g *Generator) swap(number string) string {
	digits := []byte(number)
	n := g.rng.NextInt(2, 4)

	for i := 0; i < n; i++ {
		a := g.rng.NextInt(0, len(digits)-1)
		b := g.rng.NextInt(0, len(digits)-1)
		for b == a {
			b = g.rng.NextInt(0, len(digits)-1)
		}
		digits[a], digits[b] = digits[b], digits[a]
		g.logger.Debug("swap", "step", i+1, "a", a, "b", b, "result", string(digits))
	}

	return string(digits)
}

func (g *Generator) flip(number string) string {
	digits := []byte(number)
	for i, d := range digits {
		if f, ok := flipTable[d]; ok {
			digits[i] = f
		}
	}
	g.logger.Debug("flip", "from", number, "to", string(digits))
	return string(digits)
}

func (g *Generator) shift(number string) string {
	current := number
	n := g.rng.NextInt(1, 3)

	for i := 0; i < n; i++ {
		direction := g.rng.NextInt(0, 1)
		k := g.rng.NextInt(1, 4)
		if direction == 0 {
			current = current[k:] + current[:k]
		} else {
			current = current[len(current)-k:] + current[:len(current)-k]
		}
		g.logger.Debug("shift", "step", i+1, "left", direction == 0, "by", k, "result", current)
	}

	return current
}

func (g *Generator) replace(number string, pool *workingPool) string {
	digits := []byte(number)
	n := g.rng.NextInt(1, 3)
	usedPositions := make(map[int]bool, n)

	for i := 0; i < n; i++ {
		pos := g.rng.NextInt(0, len(digits)-1)
		for usedPositions[pos] {
			pos = g.rng.NextInt(0, len(digits)-1)
		}
		usedPositions[pos] = true

		old := int(digits[pos] - '0')
		choices := pool.candidates(old)
		if len(choices) == 0 {
			g.logger.Debug("replace: pool exhausted", "step", i+1)
			break
		}

		d := choices[g.rng.NextInt(0, len(choices)-1)]
		digits[pos] = byte('0' + d)
		pool.used[d] = true
		pool.digits = append(pool.digits, old)
		g.logger.Debug("replace", "step", i+1, "pos", pos, "old", old, "new", d, "pool", pool.digits)
	}

	return string(digits)
}
