// Package playlist decides traversal order: sequential, single-repeat, or shuffle.
package playlist

import (
	"fmt"
	"strings"
)

// Mode is a playlist traversal mode.
type Mode int

const (
	Sequential Mode = iota
	SingleRepeat
	Shuffle
)

var modeNames = map[Mode]string{
	Sequential:   "sequential",
	SingleRepeat: "single",
	Shuffle:      "shuffle",
}

var modeAliases = map[string]Mode{
	"sequential": Sequential,
	"all":        Sequential,
	"repeat-all": Sequential,
	"single":     SingleRepeat,
	"one":        SingleRepeat,
	"repeat-one": SingleRepeat,
	"shuffle":    Shuffle,
	"random":     Shuffle,
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Next returns the mode after m in the cycle Sequential → SingleRepeat → Shuffle → Sequential.
func (m Mode) Next() Mode {
	switch m {
	case Sequential:
		return SingleRepeat
	case SingleRepeat:
		return Shuffle
	default:
		return Sequential
	}
}

// Loops reports whether the element's native loop flag should be set.
func (m Mode) Loops() bool {
	return m == SingleRepeat
}

// ParseMode accepts a mode name or one of its aliases, case-insensitively.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return Sequential, fmt.Errorf("unknown playlist mode %q", s)
}

// ModeNames lists canonical mode names in cycle order.
func ModeNames() []string {
	return []string{Sequential.String(), SingleRepeat.String(), Shuffle.String()}
}
