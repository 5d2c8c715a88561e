package engine

import (
	"sync"

	"github.com/reelcue-cli/reelcue/log"
	"github.com/reelcue-cli/reelcue/player"
	"github.com/reelcue-cli/reelcue/sequence"
	"github.com/samber/mo"
)

// Label identifies one of the two buffer slots.
type Label uint8

const (
	SlotA Label = iota
	SlotB
)

// String returns "A" or "B".
func (l Label) String() string {
	if l == SlotA {
		return "A"
	}
	return "B"
}

// SlotState is the lifecycle state of a single buffer slot.
// Legal transitions: Empty → Loading → Ready → Playing → Stopped → Unloading → Empty.
type SlotState uint8

const (
	Empty SlotState = iota
	Loading
	Ready
	Playing
	Stopped
	Unloading
)

// String returns a human-readable representation of the slot state.
func (s SlotState) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Loading:
		return "Loading"
	case Ready:
		return "Ready"
	case Playing:
		return "Playing"
	case Stopped:
		return "Stopped"
	case Unloading:
		return "Unloading"
	default:
		return "Unknown"
	}
}

// Slot is one renderable video surface with an independent load/play
// lifecycle. It enforces its own state contract but knows nothing about its
// sibling; the engine is the sole owner of both slots and the only component
// that may command them during playback.
type Slot struct {
	label   Label
	backend player.Backend

	mu    sync.Mutex
	state SlotState
	clip  mo.Option[*sequence.ClipRef]
	fault error // last failure that left the slot unusable, cleared on the next successful load
}

func newSlot(label Label, backend player.Backend) *Slot {
	return &Slot{
		label:   label,
		backend: backend,
		clip:    mo.None[*sequence.ClipRef](),
	}
}

// Label returns the slot identifier.
func (s *Slot) Label() Label {
	return s.label
}

// State returns the current lifecycle state.
func (s *Slot) State() SlotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Clip returns the clip currently bound to the slot, if any.
func (s *Slot) Clip() mo.Option[*sequence.ClipRef] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clip
}

// Fault returns the most recent failure that left the slot unusable, or nil.
func (s *Slot) Fault() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault
}

// retainFault records a failure observed outside the slot's own operations,
// typically a reclaim that could not recycle it. The state is left untouched.
func (s *Slot) retainFault(err error) {
	s.mu.Lock()
	s.fault = err
	s.mu.Unlock()
}

// Load binds a clip to the slot. Valid only from Empty; any other state is
// a contract violation and fails fast rather than silently queueing. On
// failure the slot remains Empty and the LoadError is retained for the
// engine's stall detection.
func (s *Slot) Load(clip *sequence.ClipRef) error {
	s.mu.Lock()
	if s.state != Empty {
		state := s.state
		s.mu.Unlock()
		return &InvalidStateError{Subject: "slot " + s.label.String(), Op: "load", State: state.String()}
	}
	s.state = Loading
	s.mu.Unlock()

	// The backend call happens outside the slot lock: loading takes real
	// time, and concurrent callers must observe Loading and fail fast.
	if err := s.backend.Load(clip.Locator); err != nil {
		lerr := &LoadError{Clip: clip, Reason: err}
		s.mu.Lock()
		s.state = Empty
		s.clip = mo.None[*sequence.ClipRef]()
		s.fault = lerr
		s.mu.Unlock()
		return lerr
	}

	s.mu.Lock()
	s.state = Ready
	s.clip = mo.Some(clip)
	s.fault = nil
	s.mu.Unlock()

	log.Debugf("slot %s ready with %q", s.label, clip.Locator)
	return nil
}

// Play starts visible rendering. Valid from Ready; an idempotent no-op when
// already Playing.
func (s *Slot) Play() error {
	s.mu.Lock()
	if s.state == Playing {
		s.mu.Unlock()
		return nil
	}
	if s.state != Ready {
		state := s.state
		s.mu.Unlock()
		return &InvalidStateError{Subject: "slot " + s.label.String(), Op: "play", State: state.String()}
	}
	s.mu.Unlock()

	if err := s.backend.Play(); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = Playing
	s.mu.Unlock()
	return nil
}

// Stop halts rendering without releasing resources. Valid from Playing or Ready.
func (s *Slot) Stop() error {
	s.mu.Lock()
	if s.state != Playing && s.state != Ready {
		state := s.state
		s.mu.Unlock()
		return &InvalidStateError{Subject: "slot " + s.label.String(), Op: "stop", State: state.String()}
	}
	s.mu.Unlock()

	if err := s.backend.Stop(); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = Stopped
	s.mu.Unlock()
	return nil
}

// Unload releases the rendering resource. Valid from Stopped or Ready; the
// slot must reach Empty before it can be loaded again, otherwise two
// decoders could end up bound to one surface.
func (s *Slot) Unload() error {
	s.mu.Lock()
	if s.state != Stopped && s.state != Ready {
		state := s.state
		s.mu.Unlock()
		return &InvalidStateError{Subject: "slot " + s.label.String(), Op: "unload", State: state.String()}
	}
	s.state = Unloading
	s.mu.Unlock()

	err := s.backend.Unload()

	s.mu.Lock()
	s.state = Empty
	s.clip = mo.None[*sequence.ClipRef]()
	s.mu.Unlock()

	return err
}
