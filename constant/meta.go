// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Tunedeck is the canonical application identifier used for filesystem paths and CLI branding.
	Tunedeck = "tunedeck"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is the HTTP User-Agent string sent to the media library server.
	UserAgent = Tunedeck + "/" + Version
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
