// Package random provides the deterministic number source behind puzzle
// generation.
//
// Source is a Lehmer (Park–Miller) multiplicative congruential generator.
// Two sources built from the same seed produce the same sequence on every
// platform, which is what lets a puzzle be identified by its seed alone.
package random

const (
	// Modulus is 2^31-1.
	Modulus int64 = 2147483647
	// Multiplier is the minimal-standard multiplier.
	Multiplier int64 = 16807
)

// Source is a seeded Lehmer generator. It is not safe for concurrent use.
type Source struct {
	state int64
}

// New returns a Source seeded with seed.
func New(seed int64) *Source {
	s := &Source{}
	s.Reseed(seed)
	return s
}

// Reseed resets the generator. Seeds outside [1, Modulus-1] are folded
// into range: seed mod Modulus, and non-positive results are shifted up
// by Modulus-1.
func (s *Source) Reseed(seed int64) {
	s.state = seed % Modulus
	if s.state <= 0 {
		s.state += Modulus - 1
	}
}

// State returns the current internal state.
func (s *Source) State() int64 {
	return s.state
}

// Next advances the generator and returns a float in (0, 1).
func (s *Source) Next() float64 {
	s.state = (s.state * Multiplier) % Modulus
	return float64(s.state-1) / float64(Modulus-1)
}

// NextInt returns an integer in [min, max], inclusive on both ends.
func (s *Source) NextInt(min, max int) int {
	return int(s.Next()*float64(max-min+1)) + min
}
