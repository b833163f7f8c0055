// Package catalog talks to the media library server: it lists tracks,
// triggers library scans and keeps an offline copy of the last listing.
package catalog

import (
	"fmt"
	"strings"

	"github.com/tunedeck/tunedeck/constant"
)

// Kinds lists the libraries the server exposes.
var Kinds = []string{constant.KindMusic, constant.KindVideo}

// Track is one library entry as served by GET /api/{kind}/playlist.
type Track struct {
	ID           string `json:"id" jsonschema:"required,description=Stable identifier"`
	Artist       string `json:"artist" jsonschema:"description=Performer or uploader"`
	Title        string `json:"title" jsonschema:"description=Display title"`
	OriginalFile string `json:"originalFile,omitempty" jsonschema:"description=Path of the source file"`
	HLSURL       string `json:"hlsUrl,omitempty" jsonschema:"description=Path of the HLS playlist"`
	HasHLS       bool   `json:"hasHLS" jsonschema:"description=Whether an HLS rendition exists"`
	Format       string `json:"format,omitempty" jsonschema:"description=Source container or codec"`
}

// Key implements playlist.Keyed.
func (t Track) Key() string {
	return t.ID
}

// String renders "Artist - Title", or the title alone.
func (t Track) String() string {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = t.ID
	}
	if artist := strings.TrimSpace(t.Artist); artist != "" {
		return fmt.Sprintf("%s - %s", artist, title)
	}
	return title
}

// StreamPath returns the HLS playlist when one exists and the original file otherwise.
func (t Track) StreamPath() string {
	if t.HasHLS && t.HLSURL != "" {
		return t.HLSURL
	}
	return t.OriginalFile
}

// ValidKind reports whether kind names a known library.
func ValidKind(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
