// Package config holds the settings registry and the viper setup.
package config

import "github.com/tunedeck/tunedeck/key"

// Default maps every known key to its field.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables, in registration order.
var EnvExposed []string

var fields = []Field{
	{key.ServerURL, "http://127.0.0.1:8000", "Base URL of the media library server"},
	{key.ServerTimeout, 30, "HTTP timeout in seconds for catalog requests"},

	{key.CatalogCache, true, "Keep the last fetched playlist on disk\nUsed when the server is unreachable"},
	{key.CatalogKind, "music", "Catalog to open on start.\nAvailable options are: music, video"},

	{key.PlayerAutoplay, true, "Start playback as soon as a track is attached"},
	{key.PlayerMode, "sequential", "Initial playlist mode.\nAvailable options are: sequential, single, shuffle"},
	{key.PlayerSeekStep, 5, "Seconds skipped by the left/right arrow keys"},
	{key.PlayerVolumeStep, 0.05, "Volume change applied by the up/down arrow keys (0-1)"},
	{key.PlayerVolume, 1.0, "Initial output volume (0-1)"},
	{key.PlayerNativeHLS, true, "Let mpv open HLS manifests directly.\nWhen disabled the built-in adaptive engine picks the variant"},
	{key.PlayerMaxBandwidth, 0, "Upper bound in bits/s for adaptive variant selection. 0 means no cap"},

	{key.TUIPresentation, "full", "Control strip presentation.\nAvailable options are: full, compact"},
	{key.TUIMouse, true, "Enable mouse drag-seek and volume panel clicks"},
	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, nerd, plain"},

	{key.LogsWrite, false, "Write logs"},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace"},
	{key.LogsJson, false, "Use json format for logs"},

	{key.CliColored, true, "Enable colored CLI output"},
	{key.CliVersionCheck, true, "Check for a newer release after help and version output"},
}

func init() {
	for _, f := range fields {
		if _, ok := Default[f.Key]; ok {
			panic("config: duplicate key " + f.Key)
		}
		Default[f.Key] = f
		EnvExposed = append(EnvExposed, f.Key)
	}
}
