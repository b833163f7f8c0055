package playback

import "math"

// Reduce computes the next state and the element commands it requires.
// It is pure: the same input always yields the same output.
func Reduce(s State, e Event) (State, []Effect) {
	switch e := e.(type) {
	case Attached:
		return s.reset(Live), nil

	case Detached:
		return s.reset(Idle), nil

	case VolumeChanged:
		s.Volume = clamp(e.Level, 0, 1)
		s.Muted = e.Muted
		return s, nil

	case SetLevel:
		// Silence reads as muted; any audible level unmutes.
		s.Volume = clamp(e.Level, 0, 1)
		s.Muted = s.Volume == 0
		return s, []Effect{SetVolume{Level: s.Volume}, SetMuted{Muted: s.Muted}}

	case Nudge:
		return Reduce(s, SetLevel{Level: s.Volume + e.Delta})

	case ToggleMute:
		s.Muted = !s.Muted
		return s, []Effect{SetMuted{Muted: s.Muted}}
	}

	if s.Phase == Idle {
		return s, nil
	}

	switch e := e.(type) {
	case MetadataLoaded:
		if finite(e.Duration) && e.Duration >= 0 {
			s.Duration = e.Duration
			s.Ready = true
			s.CurrentTime = s.clampTime(s.CurrentTime)
		}
		return s, nil

	case CanPlay:
		s.Ready = true
		return s, nil

	case TimeUpdate:
		if s.Phase == Dragging || s.Phase == Committing {
			return s, nil
		}
		s.CurrentTime = s.clampTime(e.Time)
		return s, nil

	case Progress:
		s.BufferedEnd = math.Max(0, e.BufferedEnd)
		if !finite(s.BufferedEnd) {
			s.BufferedEnd = 0
		}
		return s, nil

	case Played:
		s.Playing = true
		return s, nil

	case Paused, Ended:
		s.Playing = false
		return s, nil

	case TogglePlay:
		if s.Phase != Live {
			return s, nil
		}
		if s.Playing {
			return s, []Effect{Pause{}}
		}
		return s, []Effect{Play{}}

	case Step:
		if !s.Ready {
			return s, nil
		}
		target := s.clampTime(s.CurrentTime + e.Delta)
		s.CurrentTime = target
		return s, []Effect{Seek{Time: target}}

	case DragStart:
		return s.dragStart(e.Percent)

	case DragMove:
		if s.Phase != Dragging || !s.Ready {
			return s, nil
		}
		s.Drag.PreviewPercent = clamp(e.Percent, 0, 100)
		return s, nil

	case DragCommit:
		return s.commit()

	case Committed:
		if s.Phase != Committing {
			return s, nil
		}
		s.Phase = Live
		s.Drag = Drag{}
		return s, nil
	}

	return s, nil
}

func (s State) dragStart(percent float64) (State, []Effect) {
	switch s.Phase {
	case Dragging:
		s.Drag.PreviewPercent = clamp(percent, 0, 100)
		return s, nil
	case Committing:
		return s, nil
	}

	s.Phase = Dragging
	s.Drag = Drag{
		Active:         true,
		PreviewPercent: clamp(percent, 0, 100),
		WasPlaying:     s.Playing,
	}

	if s.Playing {
		return s, []Effect{Pause{}}
	}
	return s, nil
}

// commit moves Dragging to Committing with a seek, or straight back to Live
// when no valid target exists. Playback resumes in both cases if it was
// running before the drag.
func (s State) commit() (State, []Effect) {
	if s.Phase != Dragging {
		return s, nil
	}

	var effects []Effect
	resume := s.Drag.WasPlaying

	if !s.Ready || !s.HasDuration() {
		s.Phase = Live
		s.Drag = Drag{}
		if resume {
			effects = append(effects, Play{})
		}
		return s, effects
	}

	target := s.clampTime(s.Drag.PreviewPercent / 100 * s.Duration)
	effects = append(effects, Seek{Time: target})
	if resume {
		effects = append(effects, Play{})
	}

	s.Phase = Committing
	s.Drag.Active = false
	s.CurrentTime = target
	return s, effects
}

// clampTime bounds t to [0, duration], or to [0, ∞) while duration is unknown.
func (s State) clampTime(t float64) float64 {
	if !finite(t) || t < 0 {
		return 0
	}
	if s.HasDuration() && t > s.Duration {
		return s.Duration
	}
	return t
}
