package engine

import "github.com/reelcue-cli/reelcue/sequence"

// Event is a lifecycle signal surfaced to the presentation layer. The engine
// defines only the signal and its payload, never the UI response.
type Event interface {
	event()
}

// Advanced reports a completed swap: the clip at Index is now the visible
// surface.
type Advanced struct {
	Index int
	Clip  *sequence.ClipRef
}

// SequenceCompleted reports that the show advanced past its last step under
// the Terminate policy.
type SequenceCompleted struct{}

// Stalled reports a non-fatal playback stall; the engine has already retried
// once or is about to.
type Stalled struct {
	Err *PlaybackStallError
}

// Failed reports an unrecoverable playback failure; the engine is Terminated.
type Failed struct {
	Err *FatalPlaybackError
}

func (Advanced) event()          {}
func (SequenceCompleted) event() {}
func (Stalled) event()           {}
func (Failed) event()            {}
