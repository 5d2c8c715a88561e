package engine

import (
	"sync"
	"time"

	"github.com/reelcue-cli/reelcue/log"
	"github.com/reelcue-cli/reelcue/player"
	"github.com/reelcue-cli/reelcue/sequence"
)

// State is the lifecycle state of the engine itself.
type State uint8

const (
	Uninitialized State = iota
	Priming
	PlayingShow
	Transitioning
	Terminated
)

// String returns a human-readable representation of the engine state.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Priming:
		return "Priming"
	case PlayingShow:
		return "Playing"
	case Transitioning:
		return "Transitioning"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Policy selects the behavior when advancing past the last step.
type Policy uint8

const (
	// Loop wraps back to the first step; the modular step arithmetic makes
	// this the natural case with no special handling.
	Loop Policy = iota
	// Terminate ends the show instead of wrapping.
	Terminate
)

// PolicyFromString maps a configuration value onto a Policy, defaulting to Loop.
func PolicyFromString(s string) Policy {
	if s == "terminate" {
		return Terminate
	}
	return Loop
}

// DefaultSettle is the minimum time the transition lock is held after an
// advance begins. A tunable, not a correctness constant: it only has to be
// long enough to absorb a rapid double-tap.
const DefaultSettle = 350 * time.Millisecond

// Option customizes a new Engine.
type Option func(*Engine)

// WithPolicy sets the end-of-sequence policy.
func WithPolicy(p Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithSettle sets the settle window duration.
func WithSettle(d time.Duration) Option {
	return func(e *Engine) { e.settle = d }
}

// Engine owns the two buffer slots and serializes every command issued to
// them. At all times after a successful Initialize, the active slot holds
// the clip at the current step and the standby slot holds the following
// clip, or is in the process of reaching that state in the background.
type Engine struct {
	mu      sync.Mutex
	state   State
	seq     *sequence.Sequence
	slots   map[Label]*Slot
	active  Label
	standby Label
	current int

	policy      Policy
	settle      time.Duration
	lockedUntil time.Time
	now         func() time.Time // swappable clock for deterministic tests

	events    chan Event
	closeOnce sync.Once
	reclaims  sync.WaitGroup
}

// New creates an engine over two render surfaces. The engine takes exclusive
// ownership of both backends for its lifetime.
func New(backendA, backendB player.Backend, opts ...Option) *Engine {
	e := &Engine{
		state: Uninitialized,
		slots: map[Label]*Slot{
			SlotA: newSlot(SlotA, backendA),
			SlotB: newSlot(SlotB, backendB),
		},
		active:  SlotA,
		standby: SlotB,
		policy:  Loop,
		settle:  DefaultSettle,
		now:     time.Now,
		events:  make(chan Event, 16),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Events returns the lifecycle signal channel. It is closed by Teardown.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// State returns the current engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentIndex returns the step whose clip the active slot holds.
func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Slot returns the slot bound to the given label.
func (e *Engine) Slot(label Label) *Slot {
	return e.slots[label]
}

// Snapshot captures the observable engine state for the presentation layer.
type Snapshot struct {
	State        State
	CurrentIndex int
	Active       Label
	Standby      Label
	ActiveState  SlotState
	StandbyState SlotState
	Locked       bool
}

// Snapshot returns a consistent view of the engine and both slots.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		State:        e.state,
		CurrentIndex: e.current,
		Active:       e.active,
		Standby:      e.standby,
		ActiveState:  e.slots[e.active].State(),
		StandbyState: e.slots[e.standby].State(),
		Locked:       e.now().Before(e.lockedUntil),
	}
}

// Initialize primes both slots for the given sequence and starts playback of
// the first clip. All-or-nothing: if either initial load fails, any slot
// that did succeed is unloaded before the EngineInitError surfaces.
func (e *Engine) Initialize(seq *sequence.Sequence) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Uninitialized {
		return &InvalidStateError{Subject: "engine", Op: "initialize", State: e.state.String()}
	}

	e.state = Priming

	a := e.slots[SlotA]
	b := e.slots[SlotB]

	if err := a.Load(seq.At(0)); err != nil {
		e.state = Uninitialized
		return &EngineInitError{Reason: err}
	}

	if err := a.Play(); err != nil {
		_ = a.Stop()
		_ = a.Unload()
		e.state = Uninitialized
		return &EngineInitError{Reason: err}
	}

	if err := b.Load(seq.At(seq.NextIndex(0))); err != nil {
		_ = a.Stop()
		_ = a.Unload()
		e.state = Uninitialized
		return &EngineInitError{Reason: err}
	}

	e.seq = seq
	e.active = SlotA
	e.standby = SlotB
	e.current = 0
	e.state = PlayingShow

	log.Infof("engine primed: %q, %d steps", seq.Name(), seq.Len())
	return nil
}

// Advance swaps the standby slot into view and reclaims the old active slot
// in the background. Calls made while the transition lock is held, or while
// the engine is not playing, are no-ops: this is the debounce that keeps a
// rapid double-tap from racing two transitions against the same slot pair.
func (e *Engine) Advance() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != PlayingShow {
		log.Debugf("advance ignored: engine is %s", e.state)
		return
	}
	if e.now().Before(e.lockedUntil) {
		log.Debugf("advance ignored: settle window active")
		return
	}

	// Acquire the transition lock for at least the settle window.
	e.lockedUntil = e.now().Add(e.settle)
	e.state = Transitioning

	if e.policy == Terminate && e.current == e.seq.Len()-1 {
		e.state = Terminated
		e.emit(SequenceCompleted{})
		e.releaseSlotsAsync()
		log.Infof("sequence completed after step %d", e.current+1)
		return
	}

	next := e.seq.NextIndex(e.current)
	preload := e.seq.NextIndex(next)
	sb := e.slots[e.standby]

	// The standby slot was preloaded during the previous cycle, so this is
	// the only latency-sensitive command of the whole transition.
	if err := e.playStandby(sb); err != nil {
		stall := &PlaybackStallError{Index: next, Reason: err}
		log.Warn(stall)
		e.emit(Stalled{Err: stall})

		if retryErr := e.playStandby(sb); retryErr != nil {
			fatal := &FatalPlaybackError{Index: next, Reason: retryErr}
			log.Error(fatal)
			e.state = Terminated
			e.emit(Failed{Err: fatal})
			e.releaseSlotsAsync()
			return
		}
	}

	old := e.slots[e.active]
	e.active, e.standby = e.standby, e.active
	e.current = next
	e.state = PlayingShow

	e.emit(Advanced{Index: next, Clip: e.seq.At(next)})
	log.Infof("advanced to step %d on slot %s", next+1, e.active)

	// Reclaim the slot that just left the screen: stop, release, preload
	// the step after next. Runs concurrently with the visible playback and
	// may take as long as it needs.
	clip := e.seq.At(preload)
	e.reclaims.Add(1)
	go func() {
		defer e.reclaims.Done()
		e.reclaim(old, clip)
	}()
}

// playStandby commands visible playback on the standby slot, refusing any
// slot that is not Ready. After a failed reclaim the standby may still be
// Playing the clip that just left the screen, and the idempotent Play would
// otherwise swap the wrong clip back into view.
func (e *Engine) playStandby(sb *Slot) error {
	if st := sb.State(); st != Ready {
		if fault := sb.Fault(); fault != nil {
			return fault
		}
		return &InvalidStateError{Subject: "slot " + sb.Label().String(), Op: "play", State: st.String()}
	}
	return sb.Play()
}

// reclaim recycles a slot that just finished being visible. A failed preload
// is retried once; any failure that leaves the slot unusable is retained on
// it and announced as a stall, so the next advance refuses the slot instead
// of finding it silently broken.
func (e *Engine) reclaim(s *Slot, clip *sequence.ClipRef) {
	if err := s.Stop(); err != nil {
		e.failReclaim(s, clip, err)
		return
	}
	if err := s.Unload(); err != nil {
		e.failReclaim(s, clip, err)
		return
	}

	if err := s.Load(clip); err != nil {
		log.Warnf("preload of step %d failed, retrying once: %v", clip.Index+1, err)
		if err := s.Load(clip); err != nil {
			log.Errorf("preload of step %d failed twice: %v", clip.Index+1, err)
		}
	}
}

// failReclaim marks a slot that could not be recycled after leaving the
// screen. The retained fault makes the next advance stall on it rather than
// reuse whatever it still holds.
func (e *Engine) failReclaim(s *Slot, clip *sequence.ClipRef, err error) {
	stall := &PlaybackStallError{Index: clip.Index, Reason: err}
	s.retainFault(err)
	log.Warn(stall)
	e.emit(Stalled{Err: stall})
}

// releaseSlotsAsync returns both slots to Empty without blocking the caller.
// Best-effort: slots already empty or mid-transition are left alone.
func (e *Engine) releaseSlotsAsync() {
	e.reclaims.Add(1)
	go func() {
		defer e.reclaims.Done()
		for _, s := range e.slots {
			releaseSlot(s)
		}
	}()
}

func releaseSlot(s *Slot) {
	switch s.State() {
	case Playing:
		_ = s.Stop()
		_ = s.Unload()
	case Ready, Stopped:
		_ = s.Unload()
	}
}

// Reset unloads both slots (best-effort) and returns the engine to
// Uninitialized so it can be initialized again. Valid from any state.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.state = Uninitialized
	e.seq = nil
	e.current = 0
	e.lockedUntil = time.Time{}
	e.active = SlotA
	e.standby = SlotB
	e.mu.Unlock()

	// Let in-flight background reclaims finish before touching the slots.
	e.reclaims.Wait()
	for _, s := range e.slots {
		releaseSlot(s)
	}
}

// Teardown releases everything and closes the event channel. The engine is
// not reusable afterward.
func (e *Engine) Teardown() {
	e.Reset()

	e.mu.Lock()
	e.state = Terminated
	e.mu.Unlock()

	e.closeOnce.Do(func() {
		close(e.events)
	})
}

// emit delivers a lifecycle signal without ever blocking the engine. A full
// channel means the presentation layer stopped draining; dropping is safer
// than stalling a transition.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		log.Warnf("event dropped: %T", ev)
	}
}
