package control

import (
	"fmt"
	"strings"
)

// Presentation selects which controls the surface shows.
type Presentation int

const (
	// Full shows every control with an inline volume slider.
	Full Presentation = iota
	// Compact overlays a video frame: no prev, next or mode, volume in a popover.
	Compact
)

func (p Presentation) String() string {
	if p == Compact {
		return "compact"
	}
	return "full"
}

// ParsePresentation accepts "full" or "compact".
func ParsePresentation(s string) (Presentation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return Full, nil
	case "compact":
		return Compact, nil
	default:
		return Full, fmt.Errorf("unknown presentation %q", s)
	}
}

// Control is one widget of the strip.
type Control int

const (
	PlayPause Control = iota
	PrevButton
	NextButton
	ModeButton
	CurrentTime
	SeekBar
	TotalTime
	InlineVolume
	VolumePopover
)

// Controls lists the widgets of p in display order.
func (p Presentation) Controls() []Control {
	if p == Compact {
		return []Control{PlayPause, CurrentTime, SeekBar, TotalTime, VolumePopover}
	}
	return []Control{PlayPause, PrevButton, NextButton, ModeButton, CurrentTime, SeekBar, TotalTime, InlineVolume}
}
