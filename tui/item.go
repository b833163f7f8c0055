// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tunedeck/tunedeck/catalog"
	"github.com/tunedeck/tunedeck/icon"
	"github.com/tunedeck/tunedeck/style"
)

// listItem implements the list.Item interface for one catalog track.
type listItem struct {
	track   catalog.Track
	playing bool
}

func (t *listItem) getMark() string {
	return lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Track))
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() string {
	title := strings.TrimSpace(t.track.Title)
	if title == "" {
		title = t.track.ID
	}

	if t.playing {
		title = fmt.Sprintf("%s %s", title, t.getMark())
	}
	return title
}

// Description retrieves the secondary metadata for the list item.
func (t *listItem) Description() string {
	var parts []string

	if t.track.Artist != "" {
		parts = append(parts, t.track.Artist)
	}
	if t.track.Format != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.FaintColor).Render(strings.ToLower(t.track.Format)))
	}
	if t.track.HasHLS {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.Green).Render("hls"))
	}

	return strings.Join(parts, " • ")
}

// FilterValue returns the string used for real-time list filtering and searching.
func (t *listItem) FilterValue() string {
	return t.track.String()
}
