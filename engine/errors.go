// Package engine implements the dual-buffer playback engine: two
// independently loadable render slots kept in lockstep so one is always
// visibly playing while the other silently preloads the next clip.
package engine

import (
	"fmt"

	"github.com/reelcue-cli/reelcue/sequence"
)

// InvalidStateError reports a programming-contract violation: an operation
// was commanded on a slot or on the engine while in a state that does not
// permit it. It is never retried and mutates nothing.
type InvalidStateError struct {
	Subject string
	Op      string
	State   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", e.Subject, e.Op, e.State)
}

// LoadError reports a failed attempt to bind a clip to a slot. The slot is
// left Empty; the failure is transient and retried once in the background.
type LoadError struct {
	Clip   *sequence.ClipRef
	Reason error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Clip.Locator, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Reason
}

// EngineInitError reports a failed initialization. Initialization is
// all-or-nothing: no slot is left partially loaded when it surfaces.
type EngineInitError struct {
	Reason error
}

func (e *EngineInitError) Error() string {
	return fmt.Sprintf("engine initialization failed: %v", e.Reason)
}

func (e *EngineInitError) Unwrap() error {
	return e.Reason
}

// PlaybackStallError reports a standby slot that was not ready to play when
// an advance needed it. Non-fatal: the engine retries play once before
// escalating.
type PlaybackStallError struct {
	Index  int
	Reason error
}

func (e *PlaybackStallError) Error() string {
	return fmt.Sprintf("playback stalled advancing to step %d: %v", e.Index+1, e.Reason)
}

func (e *PlaybackStallError) Unwrap() error {
	return e.Reason
}

// FatalPlaybackError reports a second consecutive playback failure. The
// seamless guarantee cannot be honored past this point; the engine is
// Terminated and recovery is left to the caller.
type FatalPlaybackError struct {
	Index  int
	Reason error
}

func (e *FatalPlaybackError) Error() string {
	return fmt.Sprintf("playback failed at step %d: %v", e.Index+1, e.Reason)
}

func (e *FatalPlaybackError) Unwrap() error {
	return e.Reason
}
