// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the playlist load and the listeners for playback events.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(
		b.startLoading(),
		b.loadTracks(),
		b.waitForState(),
		b.waitForRequest(),
	)
}
