// Package generator builds puzzles: a target number, and a base number
// reached from it by a random walk of reverse operations.
//
// Every random decision goes through one random.Source owned by the
// Generator, in a fixed order, so a puzzle is a pure function of its seed.
// Changing the order or count of draws changes every puzzle ever issued.
package generator

import (
	"log/slog"
	"sort"

	"github.com/n4ze3m/num-shift/internal/models"
	"github.com/n4ze3m/num-shift/internal/random"
)

const (
	maxTargetAttempts  = 30
	similarAttempts    = 20
	minPoolSize        = 3
	maxPoolSize        = 5
	minOperations      = 6
	maxOperations      = 12
	maxCleanupAttempts = 10
)

// Puzzle is the generator's output.
type Puzzle struct {
	Target       string   `yaml:"target" json:"target"`
	Base         string   `yaml:"base" json:"base"`
	Operations   []Op     `yaml:"operations" json:"operations"`
	MutationPool []string `yaml:"mutation_pool" json:"mutationPool"`
	// Seed is the source state after generation. Continuing a stream from
	// it draws what the generator would have drawn next.
	Seed int64 `yaml:"seed" json:"seed"`
}

// Generator produces puzzles from a seed. It is not safe for concurrent use.
type Generator struct {
	rng    *random.Source
	seed   int64 // normalized starting seed
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger routes step-by-step generation traces (Debug level) to l.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New returns a Generator seeded with seed.
func New(seed int64, opts ...Option) *Generator {
	rng := random.New(seed)
	g := &Generator{
		rng:    rng,
		seed:   rng.State(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Reseed restarts the generator from seed.
func (g *Generator) Reseed(seed int64) {
	g.rng.Reseed(seed)
	g.seed = g.rng.State()
	g.logger.Debug("reseeded", "seed", g.seed)
}

// Seed returns the starting seed folded into the source's range. New(s)
// and New(s.Seed()) generate the same puzzles.
func (g *Generator) Seed() int64 {
	return g.seed
}

// GeneratePuzzle draws a target, a replace pool, and walks the target back
// to a base.
func (g *Generator) GeneratePuzzle() Puzzle {
	g.logger.Debug("generating puzzle", "seed", g.seed)

	target := g.GenerateTarget()
	pool := newWorkingPool(g.GenerateLimitedMutationPool())
	base, ops := g.transformToBase(target, pool)

	p := Puzzle{
		Target:       target,
		Base:         base,
		Operations:   ops,
		MutationPool: pool.distinct(),
		Seed:         g.rng.State(),
	}
	g.logger.Debug("puzzle generated",
		"target", p.Target,
		"base", p.Base,
		"pool", p.MutationPool,
		"operations", len(p.Operations),
	)
	return p
}

// GenerateTarget returns a number with no two equal adjacent digits. On
// roughly half of all puzzles it also steers away from look-alike pairs
// (6/9, 0/8, 1/7) sitting next to each other.
func (g *Generator) GenerateTarget() string {
	avoidSimilar := g.rng.NextInt(0, 1) == 1
	digits := make([]byte, 0, models.Length)
	last := -1

	for i := 0; i < models.Length; i++ {
		var digit, attempts int
		for {
			digit = g.rng.NextInt(0, 9)
			attempts++
			if !rejectDigit(last, digit, avoidSimilar, attempts) {
				break
			}
			if attempts >= maxTargetAttempts {
				// keep the last draw
				break
			}
		}
		digits = append(digits, byte('0'+digit))
		last = digit
	}

	g.logger.Debug("target generated", "target", string(digits), "avoidSimilar", avoidSimilar)
	return string(digits)
}

func rejectDigit(last, digit int, avoidSimilar bool, attempts int) bool {
	if digit == last {
		return true
	}
	if !avoidSimilar || attempts >= similarAttempts {
		return false
	}
	switch [2]int{last, digit} {
	case [2]int{6, 9}, [2]int{9, 6}, [2]int{0, 8}, [2]int{8, 0}, [2]int{1, 7}, [2]int{7, 1}:
		return true
	}
	return false
}

// GenerateLimitedMutationPool picks 3 to 5 distinct digits, ascending.
func (g *Generator) GenerateLimitedMutationPool() []int {
	size := g.rng.NextInt(minPoolSize, maxPoolSize)
	selected := make(map[int]bool, size)
	for len(selected) < size {
		selected[g.rng.NextInt(0, 9)] = true
	}

	pool := make([]int, 0, size)
	for d := range selected {
		pool = append(pool, d)
	}
	sort.Ints(pool)
	g.logger.Debug("mutation pool generated", "pool", pool)
	return pool
}

// TransformToBase applies 6 to 12 random reverse operations to target
// and cleans up the result. pool seeds the replace operations; the
// returned pool is the working pool after generation, deduplicated.
func (g *Generator) TransformToBase(target string, pool []int) (base string, ops []Op, finalPool []string) {
	wp := newWorkingPool(pool)
	base, ops = g.transformToBase(target, wp)
	return base, ops, wp.distinct()
}

func (g *Generator) transformToBase(target string, pool *workingPool) (string, []Op) {
	n := g.rng.NextInt(minOperations, maxOperations)
	ops := make([]Op, 0, n)
	current := target

	for i := 0; i < n; i++ {
		op := Op(g.rng.NextInt(0, 3))
		before := current
		switch op {
		case OpSwap:
			current = g.swap(current)
		case OpFlip:
			current = g.flip(current)
		case OpShift:
			current = g.shift(current)
		case OpReplace:
			current = g.replace(current, pool)
		}
		ops = append(ops, op)
		g.logger.Debug("operation applied", "step", i+1, "of", n, "op", op, "before", before, "after", current)
	}

	return g.FinalCleanup(target, current), ops
}
