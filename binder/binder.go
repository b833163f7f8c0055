// Package binder attaches stream URLs to a playback element, choosing between
// native playback, the adaptive engine, and a plain source assignment.
package binder

import (
	"sync"
	"sync/atomic"

	"github.com/tunedeck/tunedeck/constant"
	"github.com/tunedeck/tunedeck/hls"
	"github.com/tunedeck/tunedeck/log"
	"github.com/tunedeck/tunedeck/player"
)

// Engine is an adaptive-bitrate engine instance.
type Engine interface {
	LoadSource(url string)
	AttachMedia(media player.Element)
	Destroy()
}

// EngineFactory creates an engine that calls onReady once its manifest is parsed.
type EngineFactory func(onReady func()) Engine

// Path is the strategy used for the current source.
type Path int

const (
	None Path = iota
	Native
	Adaptive
	Fallback
)

func (p Path) String() string {
	switch p {
	case Native:
		return "native"
	case Adaptive:
		return "adaptive"
	case Fallback:
		return "fallback"
	default:
		return "none"
	}
}

// Options configures a Binder.
type Options struct {
	// Autoplay requests playback once the source can start.
	Autoplay bool
	// ForceEngine skips the native capability check.
	ForceEngine bool
	// Engine is nil when no adaptive engine is available.
	Engine EngineFactory
	// OnAttach runs before the new source begins loading.
	OnAttach func(url string)
	// OnEvent receives element events of the current session only.
	OnEvent func(player.Event)
}

// HLSEngine adapts hls.Engine to EngineFactory. It returns nil when the engine is unsupported.
func HLSEngine(cfg hls.Config) EngineFactory {
	if !hls.Supported() {
		return nil
	}

	return func(onReady func()) Engine {
		c := cfg
		c.EnableWorker = true
		parsed := cfg.OnManifestParsed
		c.OnManifestParsed = func(v hls.Variant) {
			if parsed != nil {
				parsed(v)
			}
			onReady()
		}
		return hls.New(c)
	}
}

// Binder owns the session attached to one element.
type Binder struct {
	element player.Element
	opts    Options

	// gen changes under mu and is read lock-free by event callbacks.
	gen atomic.Uint64

	mu          sync.Mutex
	url         string
	path        Path
	engine      Engine
	unsubscribe func()
}

// New binds to element.
func New(element player.Element, opts Options) *Binder {
	return &Binder{
		element: element,
		opts:    opts,
	}
}

// handoff is the element as seen by an engine. The first source it assigns
// opens the session's event gate.
type handoff struct {
	player.Element
	open func()
}

func (h handoff) SetSource(url string) error {
	h.open()
	return h.Element.SetSource(url)
}

// Attach tears down the current session and starts a new one for url.
func (b *Binder) Attach(url string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	replacing := b.path != None
	b.detach()

	gen := b.gen.Add(1)
	b.url = url

	if b.opts.OnAttach != nil {
		b.opts.OnAttach(url)
	}

	// gated holds back element events while the old file may still be playing.
	gated := &atomic.Bool{}
	b.unsubscribe = b.element.Subscribe(func(e player.Event) {
		if !b.current(gen) || gated.Load() {
			return
		}
		if b.opts.OnEvent != nil {
			b.opts.OnEvent(e)
		}
	})

	switch {
	case !b.opts.ForceEngine && b.element.CanPlayType(constant.HLSMimeType):
		b.path = Native
		b.assign(url)
		b.autoplay(gen)

	case b.opts.Engine != nil:
		b.path = Adaptive
		gated.Store(true)
		if replacing {
			// The old file keeps playing until the engine assigns the new one.
			if err := b.element.Pause(); err != nil {
				log.Debugf("binder: pause previous source: %v", err)
			}
		}

		open := func() { gated.Store(false) }
		b.engine = b.opts.Engine(func() {
			open()
			b.autoplay(gen)
		})
		b.engine.LoadSource(url)
		b.engine.AttachMedia(handoff{Element: b.element, open: open})

	default:
		b.path = Fallback
		log.Warnf("binder: no HLS support, assigning %s directly", url)
		b.assign(url)
		b.autoplay(gen)
	}

	log.Debugf("binder: attached %s via %s", url, b.path)
}

// Detach releases the engine and element listeners. Calling it twice is a no-op.
func (b *Binder) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.detach()
}

func (b *Binder) detach() {
	if b.path == None {
		return
	}

	b.gen.Add(1)

	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}

	if b.engine != nil {
		b.engine.Destroy()
		b.engine = nil
	}

	b.url = ""
	b.path = None
}

// URL returns the attached source, or "" when detached.
func (b *Binder) URL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.url
}

// Path returns the strategy of the current session.
func (b *Binder) Path() Path {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.path
}

// current reports whether gen is still the live session.
func (b *Binder) current(gen uint64) bool {
	return b.gen.Load() == gen
}

func (b *Binder) assign(url string) {
	if err := b.element.SetSource(url); err != nil {
		log.Warnf("binder: set source: %v", err)
		return
	}
	if err := b.element.Load(); err != nil {
		log.Warnf("binder: load: %v", err)
	}
}

func (b *Binder) autoplay(gen uint64) {
	if !b.opts.Autoplay || !b.current(gen) {
		return
	}

	// Rejected autoplay leaves the session paused.
	if err := b.element.Play(); err != nil {
		log.Debugf("binder: autoplay rejected: %v", err)
	}
}
