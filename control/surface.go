// Package control composes the binder, the clock reconciler, the playlist
// mode and the volume panel into one control surface.
package control

import (
	"strings"
	"sync"

	"github.com/tunedeck/tunedeck/binder"
	"github.com/tunedeck/tunedeck/log"
	"github.com/tunedeck/tunedeck/placement"
	"github.com/tunedeck/tunedeck/playback"
	"github.com/tunedeck/tunedeck/player"
	"github.com/tunedeck/tunedeck/playlist"
)

// Options configures a Surface.
type Options struct {
	Autoplay    bool
	ForceEngine bool
	// Engine is nil when no adaptive engine is available.
	Engine binder.EngineFactory

	Volume     float64
	SeekStep   float64
	VolumeStep float64

	Mode playlist.Mode
	// Controlled leaves the mode to the owner: changes are reported through
	// OnModeChange and only applied when the owner calls SetMode.
	Controlled bool

	Presentation Presentation
	Panel        placement.Options

	OnModeChange func(playlist.Mode)
	OnPrev       func(playlist.Mode)
	OnNext       func(playlist.Mode)
	// OnEnded receives natural track ends. When nil, ends outside
	// single-repeat are reported through OnNext.
	OnEnded func(playlist.Mode)
	// OnState receives every state change, outside any lock.
	OnState func(playback.State)
}

// DefaultOptions returns the keyboard steps and geometry of the reference strip.
func DefaultOptions() Options {
	return Options{
		Autoplay:   true,
		Volume:     1,
		SeekStep:   5,
		VolumeStep: 0.05,
		Panel:      placement.DefaultOptions(),
	}
}

// Surface is one playback session with its controls. Switching presentation
// never recreates the session.
type Surface struct {
	element player.Element
	binder  *binder.Binder
	clock   *playback.Reconciler
	panel   *placement.Panel
	opts    Options

	mu           sync.Mutex
	mode         playlist.Mode
	presentation Presentation
}

// New wires a surface to element.
func New(element player.Element, opts Options) *Surface {
	s := &Surface{
		element:      element,
		clock:        playback.New(element, opts.Volume),
		panel:        placement.NewPanel(opts.Panel),
		opts:         opts,
		mode:         opts.Mode,
		presentation: opts.Presentation,
	}

	if opts.OnState != nil {
		s.clock.OnChange(opts.OnState)
	}

	s.binder = binder.New(element, binder.Options{
		Autoplay:    opts.Autoplay,
		ForceEngine: opts.ForceEngine,
		Engine:      opts.Engine,
		OnAttach: func(string) {
			s.clock.Dispatch(playback.Attached{})
		},
		OnEvent: s.handleElement,
	})

	return s
}

// Load attaches url, replacing the current source.
func (s *Surface) Load(url string) {
	s.binder.Attach(url)
}

// Source returns the attached URL.
func (s *Surface) Source() string {
	return s.binder.URL()
}

// Path returns how the current source is played.
func (s *Surface) Path() binder.Path {
	return s.binder.Path()
}

// Close detaches the session and closes the volume panel.
func (s *Surface) Close() {
	s.binder.Detach()
	s.clock.Dispatch(playback.Detached{})
	s.panel.Close()
}

// State returns the reconciled session state.
func (s *Surface) State() playback.State {
	return s.clock.State()
}

func (s *Surface) handleElement(e player.Event) {
	s.clock.HandleElement(e)

	switch e.Kind {
	case player.CanPlay:
		// mpv keeps loop-file across files, but a fresh process starts without it.
		s.applyLoop(s.Mode())
	case player.Ended:
		s.ended()
	}
}

func (s *Surface) ended() {
	mode := s.Mode()

	if s.opts.OnEnded != nil {
		s.opts.OnEnded(mode)
		return
	}
	if mode != playlist.SingleRepeat && s.opts.OnNext != nil {
		s.opts.OnNext(mode)
	}
}

// Mode returns the effective traversal mode.
func (s *Surface) Mode() playlist.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode applies m. Owners of a controlled surface call it after OnModeChange.
func (s *Surface) SetMode(m playlist.Mode) {
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()

	s.applyLoop(m)
}

// CycleMode advances to the next mode and reports it. A controlled surface
// only reports.
func (s *Surface) CycleMode() playlist.Mode {
	next := s.Mode().Next()

	if !s.opts.Controlled {
		s.SetMode(next)
	}
	if s.opts.OnModeChange != nil {
		s.opts.OnModeChange(next)
	}
	return next
}

func (s *Surface) applyLoop(m playlist.Mode) {
	if err := s.element.SetLoop(m.Loops()); err != nil {
		log.Debugf("control: set loop: %v", err)
	}
}

// Prev requests the previous track from the owner.
func (s *Surface) Prev() {
	if s.opts.OnPrev != nil {
		s.opts.OnPrev(s.Mode())
	}
}

// Next requests the next track from the owner.
func (s *Surface) Next() {
	if s.opts.OnNext != nil {
		s.opts.OnNext(s.Mode())
	}
}

func (s *Surface) TogglePlay() {
	s.clock.Dispatch(playback.TogglePlay{})
}

// StepSeek moves the position by delta seconds, bypassing any drag.
func (s *Surface) StepSeek(delta float64) {
	s.clock.Dispatch(playback.Step{Delta: delta})
}

// SetVolume sets the level in [0, 1]. Zero mutes.
func (s *Surface) SetVolume(level float64) {
	s.clock.Dispatch(playback.SetLevel{Level: level})
}

// AdjustVolume changes the level by delta, clamped to [0, 1].
func (s *Surface) AdjustVolume(delta float64) {
	s.clock.Dispatch(playback.Nudge{Delta: delta})
}

func (s *Surface) ToggleMute() {
	s.clock.Dispatch(playback.ToggleMute{})
}

// BeginSeek starts a drag at percent.
func (s *Surface) BeginSeek(percent float64) {
	s.clock.Dispatch(playback.DragStart{Percent: percent})
}

// MoveSeek updates the drag preview.
func (s *Surface) MoveSeek(percent float64) {
	s.clock.Dispatch(playback.DragMove{Percent: percent})
}

// CommitSeek ends the drag, seeking to the preview.
func (s *Surface) CommitSeek() {
	s.clock.Dispatch(playback.DragCommit{})
}

// HandleKey applies the keyboard contract and reports whether key was used.
// Keys use bubbletea names: " ", "left", "right", "up", "down", "m".
func (s *Surface) HandleKey(key string) bool {
	switch strings.ToLower(key) {
	case " ", "space":
		s.TogglePlay()
	case "left":
		s.StepSeek(-s.opts.SeekStep)
	case "right":
		s.StepSeek(s.opts.SeekStep)
	case "up":
		s.AdjustVolume(s.opts.VolumeStep)
	case "down":
		s.AdjustVolume(-s.opts.VolumeStep)
	case "m":
		s.ToggleMute()
	default:
		return false
	}
	return true
}

// Presentation returns the current presentation.
func (s *Surface) Presentation() Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presentation
}

// SetPresentation switches presentation without touching the session.
// Leaving compact closes the volume popover.
func (s *Surface) SetPresentation(p Presentation) {
	s.mu.Lock()
	s.presentation = p
	s.mu.Unlock()

	if p != Compact {
		s.panel.Close()
	}
}

// TogglePresentation flips between full and compact.
func (s *Surface) TogglePresentation() Presentation {
	next := Compact
	if s.Presentation() == Compact {
		next = Full
	}
	s.SetPresentation(next)
	return next
}

// Panel returns the compact volume popover. It is driven from the UI goroutine.
func (s *Surface) Panel() *placement.Panel {
	return s.panel
}
