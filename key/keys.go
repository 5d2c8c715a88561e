// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 14

// Playback Engine - these keys govern the dual-slot playback engine and its external player backend.
const (
	Player            = "player.default"
	PlayerSettleMs    = "player.settle_ms"
	PlayerSequenceEnd = "player.sequence_end"
	PlayerFullscreen  = "player.fullscreen"
	PlayerAutoAdvance = "player.auto_advance"
)

// Show Manifests - these keys configure how show manifests are located and opened.
const (
	ShowDefault = "show.default"
)

// History Tracking - these keys configure the persistence of show playback progress.
const (
	HistorySaveOnPlay = "history.save_on_play"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the operator console's styling and behavior.
const (
	TUIShowClipPaths = "tui.show_clip_paths"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
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
