// Package playback reconciles element clock events with drag-seek gestures.
// Transitions are computed by a pure reducer; Reconciler serializes them.
package playback

import "math"

// Phase is the seek state machine position.
type Phase int

const (
	Idle Phase = iota
	Live
	Dragging
	Committing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Live:
		return "live"
	case Dragging:
		return "dragging"
	case Committing:
		return "committing"
	default:
		return "unknown"
	}
}

// Drag is the in-progress seek gesture.
type Drag struct {
	Active         bool
	PreviewPercent float64
	WasPlaying     bool
}

// State is one session as the controller sees it.
type State struct {
	Phase       Phase
	Ready       bool
	Playing     bool
	CurrentTime float64
	// Duration is NaN until the element reports a finite one.
	Duration    float64
	BufferedEnd float64
	Volume      float64
	Muted       bool
	Drag        Drag
}

// Initial returns an idle state at the given volume.
func Initial(volume float64) State {
	return State{
		Phase:    Idle,
		Duration: math.NaN(),
		Volume:   clamp(volume, 0, 1),
	}
}

// HasDuration reports whether Duration is finite and positive.
func (s State) HasDuration() bool {
	return finite(s.Duration) && s.Duration > 0
}

// DisplayPercent is the seek bar position: 0 until the source is ready, the
// drag preview while dragging or committing, the clock otherwise.
func (s State) DisplayPercent() float64 {
	if !s.Ready {
		return 0
	}

	switch s.Phase {
	case Dragging, Committing:
		return s.Drag.PreviewPercent
	}

	if !s.HasDuration() {
		return 0
	}
	return clamp(s.CurrentTime/s.Duration*100, 0, 100)
}

// DisplayTime is the position label matching DisplayPercent.
// It is NaN while dragging over an unknown duration.
func (s State) DisplayTime() float64 {
	switch s.Phase {
	case Dragging, Committing:
		if !s.HasDuration() {
			return math.NaN()
		}
		return s.Drag.PreviewPercent / 100 * s.Duration
	}
	return s.CurrentTime
}

// BufferedPercent is bufferedEnd over duration, independent of drag state.
func (s State) BufferedPercent() float64 {
	if !s.HasDuration() {
		return 0
	}
	return clamp(s.BufferedEnd/s.Duration*100, 0, 100)
}

// reset clears per-source fields, keeping volume and mute.
func (s State) reset(phase Phase) State {
	return State{
		Phase:    phase,
		Duration: math.NaN(),
		Volume:   s.Volume,
		Muted:    s.Muted,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
