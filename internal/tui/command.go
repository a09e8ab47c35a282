package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/n4ze3m/num-shift/internal/models"
)

type commandKind int

const (
	cmdMove commandKind = iota
	cmdUndo
	cmdReset
	cmdNext
	cmdHint
	cmdShare
	cmdDaily
	cmdLab
	cmdHelp
	cmdQuit
)

// command is one parsed input line.
type command struct {
	kind commandKind
	move models.Mutation
}

var errEmptyCommand = errors.New("empty command")

var slashCommands = map[string]commandKind{
	"/undo":  cmdUndo,
	"/reset": cmdReset,
	"/next":  cmdNext,
	"/hint":  cmdHint,
	"/share": cmdShare,
	"/daily": cmdDaily,
	"/lab":   cmdLab,
	"/help":  cmdHelp,
	"/quit":  cmdQuit,
}

// parseCommand reads a slash command or a move. Moves use 0-based
// positions:
//
//	swap 1 3
//	flip 2        (value filled in from the flip map)
//	flip 2 5
//	shift 4 left|right
//	replace 0 7
//	bump 3 up|down|+|-
func parseCommand(line string) (command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{}, errEmptyCommand
	}
	if strings.HasPrefix(fields[0], "/") {
		kind, ok := slashCommands[fields[0]]
		if !ok {
			return command{}, fmt.Errorf("unknown command %s", fields[0])
		}
		return command{kind: kind}, nil
	}

	args := fields[1:]
	switch models.MutationKind(fields[0]) {
	case models.KindSwap:
		if len(args) != 2 {
			return command{}, fmt.Errorf("usage: swap <i> <j>")
		}
		i, err := position(args[0])
		if err != nil {
			return command{}, err
		}
		j, err := position(args[1])
		if err != nil {
			return command{}, err
		}
		return move(models.Swap(i, j)), nil

	case models.KindFlip:
		if len(args) != 1 && len(args) != 2 {
			return command{}, fmt.Errorf("usage: flip <i> [digit]")
		}
		p, err := position(args[0])
		if err != nil {
			return command{}, err
		}
		value := ""
		if len(args) == 2 {
			if value, err = digit(args[1]); err != nil {
				return command{}, err
			}
		}
		return move(models.Flip(p, value)), nil

	case models.KindReplace:
		if len(args) != 2 {
			return command{}, fmt.Errorf("usage: replace <i> <digit>")
		}
		p, err := position(args[0])
		if err != nil {
			return command{}, err
		}
		value, err := digit(args[1])
		if err != nil {
			return command{}, err
		}
		return move(models.Replace(p, value)), nil

	case models.KindShift:
		if len(args) != 2 {
			return command{}, fmt.Errorf("usage: shift <i> left|right")
		}
		p, err := position(args[0])
		if err != nil {
			return command{}, err
		}
		switch args[1] {
		case "left", "l", "<":
			return move(models.Shift(p, models.Left)), nil
		case "right", "r", ">":
			return move(models.Shift(p, models.Right)), nil
		}
		return command{}, fmt.Errorf("shift direction must be left or right")

	case models.KindBump:
		if len(args) != 2 {
			return command{}, fmt.Errorf("usage: bump <i> up|down")
		}
		p, err := position(args[0])
		if err != nil {
			return command{}, err
		}
		switch args[1] {
		case "up", "+", "increment", "inc":
			return move(models.Bump(p, models.Increment)), nil
		case "down", "-", "decrement", "dec":
			return move(models.Bump(p, models.Decrement)), nil
		}
		return command{}, fmt.Errorf("bump direction must be up or down")
	}
	return command{}, fmt.Errorf("unknown move %q, try /help", fields[0])
}

func move(m models.Mutation) command {
	return command{kind: cmdMove, move: m}
}

func position(s string) (int, error) {
	p, err := strconv.Atoi(s)
	if err != nil || p < 0 || p >= models.Length {
		return 0, fmt.Errorf("position %q must be 0-%d", s, models.Length-1)
	}
	return p, nil
}

func digit(s string) (string, error) {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return "", fmt.Errorf("%q is not a digit", s)
	}
	return s, nil
}

const helpText = `Moves (positions 0-5):
  swap i j         exchange two digits
  flip i           2<->5, 6<->9
  replace i d      overwrite with a pool digit
  bump i up|down   +1 / -1 with wraparound
Commands: /undo /reset /next /hint /share /daily /lab /help /quit`
