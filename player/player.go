// Package player defines the playback element the controller drives.
// The primary implementation targets 'mpv' via its JSON-IPC interface.
package player

// Element encapsulates a single audio/video playback surface.
type Element interface {
	// CanPlayType reports whether the element decodes the given MIME type
	// without help from an adaptive engine.
	CanPlayType(mime string) bool

	// SetSource replaces the pending source. It takes effect on Load.
	SetSource(url string) error

	// Load starts loading the pending source.
	Load() error

	// Play resumes playback. A rejected request returns an error and leaves the element paused.
	Play() error

	// Pause suspends playback.
	Pause() error

	// Seek transitions the playback position to an absolute timestamp in seconds.
	Seek(seconds float64) error

	// SetVolume sets the output level in [0, 1].
	SetVolume(level float64) error

	// SetMuted toggles audio output without touching the level.
	SetMuted(muted bool) error

	// SetLoop sets the native single-file loop flag.
	SetLoop(loop bool) error

	// Subscribe registers fn for element events and returns a function
	// that removes it. Calling the returned function twice is a no-op.
	Subscribe(fn func(Event)) (unsubscribe func())

	// Close terminates the element and releases all associated resources.
	Close() error
}
