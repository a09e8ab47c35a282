package models

import "strings"

// Length is the number of digits in every base, target and current number.
const Length = 6

// MutationKind names a play-time edit.
type MutationKind string

const (
	KindSwap    MutationKind = "swap"
	KindFlip    MutationKind = "flip"
	KindShift   MutationKind = "shift"
	KindReplace MutationKind = "replace"
	KindBump    MutationKind = "bump"
)

// Direction qualifies Shift (left/right) and Bump (increment/decrement).
type Direction string

const (
	Left      Direction = "left"
	Right     Direction = "right"
	Increment Direction = "increment"
	Decrement Direction = "decrement"
)

// Mode distinguishes the shared daily puzzle from the endless lab.
type Mode string

const (
	ModeDaily Mode = "daily"
	ModeLab   Mode = "lab"
)

// FlipMap is the play-time flip correspondence.
func FlipMap() map[string]string {
	return map[string]string{"2": "5", "5": "2", "6": "9", "9": "6"}
}

// Mutation is a single player edit. Type selects which of the other
// fields are meaningful:
//
//	swap    Positions
//	flip    Position, Value
//	shift   Position, Direction (left|right)
//	replace Position, Value
//	bump    Position, Direction (increment|decrement)
type Mutation struct {
	Type      MutationKind `yaml:"type" json:"type"`
	Positions []int        `yaml:"positions,omitempty" json:"positions,omitempty"`
	Position  int          `yaml:"position" json:"position"`
	Value     string       `yaml:"value,omitempty" json:"value,omitempty"`
	Direction Direction    `yaml:"direction,omitempty" json:"direction,omitempty"`
}

func Swap(i, j int) Mutation {
	return Mutation{Type: KindSwap, Positions: []int{i, j}}
}

func Flip(pos int, value string) Mutation {
	return Mutation{Type: KindFlip, Position: pos, Value: value}
}

func Shift(pos int, dir Direction) Mutation {
	return Mutation{Type: KindShift, Position: pos, Direction: dir}
}

func Replace(pos int, value string) Mutation {
	return Mutation{Type: KindReplace, Position: pos, Value: value}
}

func Bump(pos int, dir Direction) Mutation {
	return Mutation{Type: KindBump, Position: pos, Direction: dir}
}

// HistoryEntry records one accepted mutation and the numbers around it.
type HistoryEntry struct {
	Mutation Mutation `yaml:"mutation" json:"mutation"`
	Before   string   `yaml:"before" json:"before"`
	After    string   `yaml:"after" json:"after"`
}

// SpecialPattern is a bonus shape a number can form. Name selects the
// check; see puzzle.PatternBonus.
type SpecialPattern struct {
	Name        string `yaml:"name" json:"name"`
	Bonus       int    `yaml:"bonus" json:"bonus"`
	Description string `yaml:"description" json:"description"`
}

// GameConfig is everything the play loop needs for one puzzle.
type GameConfig struct {
	BaseNumber         string            `yaml:"base_number" json:"baseNumber"`
	TargetNumber       string            `yaml:"target_number" json:"targetNumber"`
	MutationPool       []string          `yaml:"mutation_pool" json:"mutationPool"`
	FlipMap            map[string]string `yaml:"flip_map" json:"flipMap"`
	MaxAttempts        int               `yaml:"max_attempts" json:"maxAttempts"`
	AvailableMutations []MutationKind    `yaml:"available_mutations" json:"availableMutations"`
	LockedPositions    []int             `yaml:"locked_positions" json:"lockedPositions"`
	SpecialPatterns    []SpecialPattern  `yaml:"special_patterns,omitempty" json:"specialPatterns,omitempty"`
	Seed               int64             `yaml:"seed" json:"seed"`
}

// Allows reports whether kind is offered to the player.
func (c GameConfig) Allows(kind MutationKind) bool {
	for _, k := range c.AvailableMutations {
		if k == kind {
			return true
		}
	}
	return false
}

// InPool reports whether digit may be used by a replace.
func (c GameConfig) InPool(digit string) bool {
	for _, d := range c.MutationPool {
		if d == digit {
			return true
		}
	}
	return false
}

// LabProgress is the lab-only part of a snapshot.
type LabProgress struct {
	Level      int `yaml:"level"`
	TotalScore int `yaml:"total_score"`
	LevelScore int `yaml:"level_score"`
}

// Snapshot is the persisted shape of a session. Key is the UTC day
// (daily) or level (lab) the session belongs to.
type Snapshot struct {
	Mode              Mode           `yaml:"mode"`
	Key               string         `yaml:"key"`
	Config            GameConfig     `yaml:"config"`
	History           []HistoryEntry `yaml:"history"`
	Current           string         `yaml:"current"`
	AttemptsRemaining int            `yaml:"attempts_remaining"`
	Lab               *LabProgress   `yaml:"lab,omitempty"`
}

// IsNumber reports whether s is exactly Length ASCII digits.
func IsNumber(s string) bool {
	if len(s) != Length {
		return false
	}
	return strings.Trim(s, "0123456789") == ""
}

// Matches counts positions where a and b hold the same digit.
func Matches(a, b string) int {
	n := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			n++
		}
	}
	return n
}
