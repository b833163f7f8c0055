// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Media Library Server - these keys locate the external catalog and scan endpoints.
const (
	ServerURL     = "server.url"
	ServerTimeout = "server.timeout"
)

// Catalog - these keys govern playlist retrieval and its offline copy.
const (
	CatalogCache = "catalog.cache"
	CatalogKind  = "catalog.kind"
)

// Media Playback - these keys configure the playback controller and the mpv element.
const (
	PlayerAutoplay     = "player.autoplay"
	PlayerMode         = "player.mode"
	PlayerSeekStep     = "player.seek_step"
	PlayerVolumeStep   = "player.volume_step"
	PlayerVolume       = "player.volume"
	PlayerNativeHLS    = "player.native_hls"
	PlayerMaxBandwidth = "player.max_bandwidth"
)

// Terminal User Interface (TUI) - these keys define the control surface presentation.
const (
	TUIPresentation = "tui.presentation"
	TUIMouse        = "tui.mouse"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
