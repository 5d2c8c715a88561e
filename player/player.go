// Package player defines the abstraction layer for the video render surfaces
// driven by the playback engine's buffer slots.
// The architecture supports multiple backends, with the primary implementation targeting 'mpv' via its JSON-IPC interface.
package player

// Backend encapsulates one independent render surface. The playback engine
// owns exactly two Backend instances, one per buffer slot, and is the only
// component allowed to command them during a show.
type Backend interface {
	// Load prepares the surface with the given media locator, paused and
	// hidden. The surface holds the decoded media until Unload.
	Load(locator string) error

	// Play reveals the surface and starts rendering the loaded media.
	Play() error

	// Stop halts rendering and hides the surface without releasing the
	// loaded media.
	Stop() error

	// Unload releases the rendering resource and all associated system
	// resources. The surface must not be reloaded before Unload returns.
	Unload() error

	// IsRunning validates the liveness of the underlying playback process or handler.
	IsRunning() bool
}
