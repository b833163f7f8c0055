package placement

import (
	"sync"
	"time"
)

// FrameInterval is the length of one display frame.
const FrameInterval = 16 * time.Millisecond

// Frame coalesces bursts of invalidations into one flush per frame.
// The caller schedules the flush itself (e.g. with tea.Tick) when Request
// returns true, and calls Flush when the frame fires.
type Frame struct {
	mu      sync.Mutex
	pending bool
}

// Request marks work as pending and reports whether a flush must be scheduled.
// It returns false while a flush is already scheduled.
func (f *Frame) Request() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending {
		return false
	}
	f.pending = true
	return true
}

// Flush reports whether work was pending and clears it.
func (f *Frame) Flush() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	pending := f.pending
	f.pending = false
	return pending
}

// Cancel drops pending work. A flush that fires afterwards does nothing.
func (f *Frame) Cancel() {
	f.Flush()
}
