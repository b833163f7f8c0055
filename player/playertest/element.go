// Package playertest provides a scripted player.Element for tests.
package playertest

import (
	"errors"
	"sync"

	"github.com/tunedeck/tunedeck/player"
)

// ErrRejected is returned by Play when RejectPlay is set.
var ErrRejected = errors.New("play rejected")

// Call records one command received by the element.
type Call struct {
	Name  string
	Value float64
	Arg   string
}

// Element records commands and lets tests emit events.
type Element struct {
	// Native lists MIME types CanPlayType accepts.
	Native map[string]bool
	// RejectPlay makes Play fail like a blocked autoplay.
	RejectPlay bool

	mu      sync.Mutex
	calls   []Call
	subs    map[int]func(player.Event)
	nextSub int
	Source  string
	Loop    bool
	Closed  bool
}

// New returns an element that claims native support for the given types.
func New(native ...string) *Element {
	e := &Element{
		Native: make(map[string]bool),
		subs:   make(map[int]func(player.Event)),
	}
	for _, mime := range native {
		e.Native[mime] = true
	}
	return e
}

func (e *Element) record(c Call) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, c)
}

func (e *Element) CanPlayType(mime string) bool {
	return e.Native[mime]
}

func (e *Element) SetSource(url string) error {
	e.mu.Lock()
	e.Source = url
	e.mu.Unlock()
	e.record(Call{Name: "source", Arg: url})
	return nil
}

func (e *Element) Load() error {
	e.record(Call{Name: "load"})
	return nil
}

func (e *Element) Play() error {
	if e.RejectPlay {
		e.record(Call{Name: "play-rejected"})
		return ErrRejected
	}
	e.record(Call{Name: "play"})
	return nil
}

func (e *Element) Pause() error {
	e.record(Call{Name: "pause"})
	return nil
}

func (e *Element) Seek(seconds float64) error {
	e.record(Call{Name: "seek", Value: seconds})
	return nil
}

func (e *Element) SetVolume(level float64) error {
	e.record(Call{Name: "volume", Value: level})
	return nil
}

func (e *Element) SetMuted(muted bool) error {
	c := Call{Name: "mute"}
	if muted {
		c.Value = 1
	}
	e.record(c)
	return nil
}

func (e *Element) SetLoop(loop bool) error {
	e.mu.Lock()
	e.Loop = loop
	e.mu.Unlock()
	return nil
}

func (e *Element) Subscribe(fn func(player.Event)) func() {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

func (e *Element) Close() error {
	e.mu.Lock()
	e.Closed = true
	e.mu.Unlock()
	return nil
}

// Emit delivers event to every current subscriber.
func (e *Element) Emit(event player.Event) {
	e.mu.Lock()
	fns := make([]func(player.Event), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

// Subscribers returns the number of live subscriptions.
func (e *Element) Subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

// Calls returns a copy of the recorded commands.
func (e *Element) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// Names returns the recorded command names in order.
func (e *Element) Names() []string {
	calls := e.Calls()
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Name
	}
	return names
}

// Reset forgets recorded commands.
func (e *Element) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

var _ player.Element = (*Element)(nil)
