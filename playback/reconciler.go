package playback

import (
	"sync"

	"github.com/tunedeck/tunedeck/log"
	"github.com/tunedeck/tunedeck/player"
)

// Reconciler owns the session state and applies reducer effects to the element.
// Every transition runs under one mutex, so element events arriving on the
// listener goroutine and user input from the UI goroutine never interleave.
// The element must not deliver events synchronously from its command methods.
type Reconciler struct {
	element player.Element

	mu       sync.Mutex
	state    State
	onChange func(State)
}

// New returns an idle reconciler driving element.
func New(element player.Element, volume float64) *Reconciler {
	return &Reconciler{
		element: element,
		state:   Initial(volume),
	}
}

// OnChange registers fn to receive every new state. It runs outside the lock.
func (r *Reconciler) OnChange(fn func(State)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// State returns the current state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Dispatch reduces e and applies the resulting effects.
func (r *Reconciler) Dispatch(e Event) {
	r.mu.Lock()

	next, effects := Reduce(r.state, e)
	r.state = next
	r.apply(effects)

	if r.state.Phase == Committing {
		r.state, _ = Reduce(r.state, Committed{})
	}

	snapshot, fn := r.state, r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}

// HandleElement translates an element event and dispatches it.
func (r *Reconciler) HandleElement(e player.Event) {
	if ev, ok := FromElement(e); ok {
		r.Dispatch(ev)
	}
}

// FromElement maps an element notification onto a reducer event.
func FromElement(e player.Event) (Event, bool) {
	switch e.Kind {
	case player.LoadedMetadata:
		return MetadataLoaded{Duration: e.Value}, true
	case player.TimeUpdate:
		return TimeUpdate{Time: e.Value}, true
	case player.Progress:
		return Progress{BufferedEnd: e.Value}, true
	case player.Play:
		return Played{}, true
	case player.Pause:
		return Paused{}, true
	case player.CanPlay:
		return CanPlay{}, true
	case player.VolumeChange:
		return VolumeChanged{Level: e.Value, Muted: e.Muted}, true
	case player.Ended:
		return Ended{}, true
	default:
		return nil, false
	}
}

// apply runs effects in order. Element failures are logged, never propagated.
func (r *Reconciler) apply(effects []Effect) {
	for _, effect := range effects {
		var err error

		switch effect := effect.(type) {
		case Pause:
			err = r.element.Pause()
		case Play:
			err = r.element.Play()
		case Seek:
			err = r.element.Seek(effect.Time)
		case SetVolume:
			err = r.element.SetVolume(effect.Level)
		case SetMuted:
			err = r.element.SetMuted(effect.Muted)
		}

		if err != nil {
			log.Debugf("playback: %T rejected: %v", effect, err)
		}
	}
}
