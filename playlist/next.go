package playlist

import (
	"math/rand/v2"

	"github.com/samber/mo"
)

// Trigger is the reason a new index is needed.
type Trigger int

const (
	Prev Trigger = iota
	Next
	Ended
)

func (t Trigger) String() string {
	switch t {
	case Prev:
		return "prev"
	case Next:
		return "next"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Rand is the randomness NextIndex draws from in Shuffle.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// NextIndex returns the index to play after current, or none for an empty list.
// Shuffle may return current again. A nil rng uses the global source.
func NextIndex(mode Mode, current, length int, trigger Trigger, rng Rand) mo.Option[int] {
	if length <= 0 {
		return mo.None[int]()
	}

	if rng == nil {
		rng = globalRand{}
	}

	switch {
	case mode == Shuffle:
		return mo.Some(rng.IntN(length))
	case mode == SingleRepeat && trigger == Ended:
		return mo.Some(Wrap(current, length))
	case trigger == Prev:
		return mo.Some(Wrap(current-1, length))
	default:
		return mo.Some(Wrap(current+1, length))
	}
}

// Wrap maps i onto [0, n) with floor modulo. n must be positive.
func Wrap(i, n int) int {
	return ((i % n) + n) % n
}
