package engine

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/reelcue-cli/reelcue/sequence"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func testSequence(steps int) *sequence.Sequence {
	clips := make([]*sequence.ClipRef, steps)
	for i := range clips {
		clips[i] = &sequence.ClipRef{Locator: fmt.Sprintf("clip-%d.mp4", i)}
	}
	return lo.Must(sequence.New("test show", clips))
}

// drain collects every event currently buffered on the engine channel.
func drain(e *Engine) []Event {
	var events []Event
	for {
		select {
		case ev, ok := <-e.events:
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

// settleAdvance advances and waits for the background reclaim to finish, so
// assertions observe the post-transition steady state.
func settleAdvance(e *Engine) {
	e.Advance()
	e.reclaims.Wait()
}

func TestInitialize(t *testing.T) {
	Convey("Given two idle surfaces", t, func() {
		a, b := &fakeBackend{}, &fakeBackend{}
		e := New(a, b, WithSettle(0))

		Convey("Initialize primes A playing and B on standby", func() {
			So(e.Initialize(testSequence(3)), ShouldBeNil)

			So(e.State(), ShouldEqual, PlayingShow)
			So(e.CurrentIndex(), ShouldEqual, 0)

			snap := e.Snapshot()
			So(snap.Active, ShouldEqual, SlotA)
			So(snap.Standby, ShouldEqual, SlotB)
			So(snap.ActiveState, ShouldEqual, Playing)
			So(snap.StandbyState, ShouldEqual, Ready)

			So(e.Slot(SlotA).Clip().MustGet().Index, ShouldEqual, 0)
			So(e.Slot(SlotB).Clip().MustGet().Index, ShouldEqual, 1)

			Convey("Initializing again is a precondition violation", func() {
				err := e.Initialize(testSequence(3))

				var invalid *InvalidStateError
				So(errors.As(err, &invalid), ShouldBeTrue)
			})
		})

		Convey("A failed standby load rolls everything back", func() {
			b.loadErrs = []error{errors.New("no decoder")}

			err := e.Initialize(testSequence(3))

			var initErr *EngineInitError
			So(errors.As(err, &initErr), ShouldBeTrue)
			So(e.State(), ShouldEqual, Uninitialized)
			So(e.Slot(SlotA).State(), ShouldEqual, Empty)
			So(e.Slot(SlotB).State(), ShouldEqual, Empty)
			So(a.unloads, ShouldEqual, 1)

			Convey("The engine is still initializable afterward", func() {
				So(e.Initialize(testSequence(3)), ShouldBeNil)
			})
		})

		Convey("A failed first load touches nothing else", func() {
			a.loadErrs = []error{errors.New("no decoder")}

			err := e.Initialize(testSequence(3))

			var initErr *EngineInitError
			So(errors.As(err, &initErr), ShouldBeTrue)
			So(b.loads, ShouldEqual, 0)
			So(e.State(), ShouldEqual, Uninitialized)
		})
	})
}

func TestAdvanceLoop(t *testing.T) {
	Convey("Given a primed 3-step show under the Loop policy", t, func() {
		a, b := &fakeBackend{}, &fakeBackend{}
		e := New(a, b, WithSettle(0))
		So(e.Initialize(testSequence(3)), ShouldBeNil)

		Convey("The first advance swaps B into view and recycles A", func() {
			settleAdvance(e)

			snap := e.Snapshot()
			So(snap.Active, ShouldEqual, SlotB)
			So(snap.CurrentIndex, ShouldEqual, 1)
			So(snap.ActiveState, ShouldEqual, Playing)

			// A was stopped, unloaded, and preloaded with step 3.
			So(snap.StandbyState, ShouldEqual, Ready)
			So(e.Slot(SlotA).Clip().MustGet().Index, ShouldEqual, 2)

			Convey("The second advance swaps back to A", func() {
				settleAdvance(e)

				snap := e.Snapshot()
				So(snap.Active, ShouldEqual, SlotA)
				So(snap.CurrentIndex, ShouldEqual, 2)
				So(e.Slot(SlotB).Clip().MustGet().Index, ShouldEqual, 0)

				Convey("The third advance wraps to the first step", func() {
					settleAdvance(e)

					snap := e.Snapshot()
					So(snap.Active, ShouldEqual, SlotB)
					So(snap.CurrentIndex, ShouldEqual, 0)
					So(e.Slot(SlotA).Clip().MustGet().Index, ShouldEqual, 1)
				})
			})
		})

		Convey("Active and standby are never the same slot", func() {
			for i := 0; i < 7; i++ {
				snap := e.Snapshot()
				So(snap.Active, ShouldNotEqual, snap.Standby)
				So(e.Slot(snap.Active).Clip().MustGet().Index, ShouldEqual, snap.CurrentIndex)
				settleAdvance(e)
			}
		})

		Convey("Every advance emits an Advanced event", func() {
			settleAdvance(e)

			events := drain(e)
			So(events, ShouldHaveLength, 1)
			advanced, ok := events[0].(Advanced)
			So(ok, ShouldBeTrue)
			So(advanced.Index, ShouldEqual, 1)
		})
	})

	Convey("A full cycle over an even-length show restores the initial pairing", t, func() {
		a, b := &fakeBackend{}, &fakeBackend{}
		e := New(a, b, WithSettle(0))
		seq := testSequence(4)
		So(e.Initialize(seq), ShouldBeNil)

		for i := 0; i < seq.Len(); i++ {
			settleAdvance(e)
		}

		snap := e.Snapshot()
		So(snap.CurrentIndex, ShouldEqual, 0)
		So(snap.Active, ShouldEqual, SlotA)
		So(snap.Standby, ShouldEqual, SlotB)
		So(snap.ActiveState, ShouldEqual, Playing)
		So(snap.StandbyState, ShouldEqual, Ready)
	})
}

func TestAdvanceDebounce(t *testing.T) {
	Convey("Given a primed show with a real settle window and a frozen clock", t, func() {
		a, b := &fakeBackend{}, &fakeBackend{}
		e := New(a, b, WithSettle(350*time.Millisecond))

		now := time.Now()
		e.now = func() time.Time { return now }

		So(e.Initialize(testSequence(3)), ShouldBeNil)

		Convey("A double-tap inside the settle window advances exactly once", func() {
			e.Advance()
			e.Advance() // rapid second tap
			e.reclaims.Wait()

			So(e.CurrentIndex(), ShouldEqual, 1)
			So(drain(e), ShouldHaveLength, 1)

			Convey("After the window elapses the next tap works again", func() {
				now = now.Add(400 * time.Millisecond)
				settleAdvance(e)

				So(e.CurrentIndex(), ShouldEqual, 2)
			})
		})

		Convey("Advance before Initialize is a no-op", func() {
			e2 := New(&fakeBackend{}, &fakeBackend{})
			e2.Advance()
			So(e2.State(), ShouldEqual, Uninitialized)
			So(drain(e2), ShouldBeEmpty)
		})
	})
}

func TestAdvanceStall(t *testing.T) {
	Convey("Given a show whose standby preload keeps failing", t, func() {
		a, b := &fakeBackend{}, &fakeBackend{}
		e := New(a, b, WithSettle(0))
		So(e.Initialize(testSequence(3)), ShouldBeNil)

		// The reclaim of slot A after the first advance fails on both the
		// initial preload and its automatic retry.
		a.loadErrs = []error{errors.New("disk gone"), errors.New("disk gone")}

		settleAdvance(e)
		So(e.Slot(SlotA).State(), ShouldEqual, Empty)
		So(e.Slot(SlotA).Fault(), ShouldNotBeNil)
		drain(e)

		Convey("The next advance stalls, retries play once, then goes fatal", func() {
			e.Advance()
			e.reclaims.Wait()

			So(e.State(), ShouldEqual, Terminated)

			events := drain(e)
			So(events, ShouldHaveLength, 2)

			stalled, ok := events[0].(Stalled)
			So(ok, ShouldBeTrue)
			So(stalled.Err.Index, ShouldEqual, 2)

			var lerr *LoadError
			So(errors.As(stalled.Err, &lerr), ShouldBeTrue)

			_, ok = events[1].(Failed)
			So(ok, ShouldBeTrue)

			Convey("Both slots end up released", func() {
				So(e.Slot(SlotA).State(), ShouldEqual, Empty)
				So(e.Slot(SlotB).State(), ShouldEqual, Empty)
			})
		})
	})

	Convey("Given a standby whose first play command glitches", t, func() {
		a, b := &fakeBackend{}, &fakeBackend{}
		e := New(a, b, WithSettle(0))
		So(e.Initialize(testSequence(3)), ShouldBeNil)

		b.playErrs = []error{errors.New("renderer hiccup")}

		Convey("The retry succeeds and the show goes on", func() {
			settleAdvance(e)

			So(e.State(), ShouldEqual, PlayingShow)
			So(e.CurrentIndex(), ShouldEqual, 1)

			events := drain(e)
			So(events, ShouldHaveLength, 2)
			_, ok := events[0].(Stalled)
			So(ok, ShouldBeTrue)
			advanced, ok := events[1].(Advanced)
			So(ok, ShouldBeTrue)
			So(advanced.Index, ShouldEqual, 1)
		})
	})
}

func TestAdvanceReclaimFailure(t *testing.T) {
	Convey("Given a show whose outgoing slot refuses to stop", t, func() {
		a, b := &fakeBackend{}, &fakeBackend{}
		e := New(a, b, WithSettle(0))
		So(e.Initialize(testSequence(3)), ShouldBeNil)

		a.stopErrs = []error{errors.New("ipc timeout")}

		settleAdvance(e)

		Convey("The failed reclaim leaves the slot faulted, still holding its old clip", func() {
			So(e.Slot(SlotA).State(), ShouldEqual, Playing)
			So(e.Slot(SlotA).Fault(), ShouldNotBeNil)
			So(e.Slot(SlotA).Clip().MustGet().Index, ShouldEqual, 0)

			// The visible surface is untouched by the failure.
			snap := e.Snapshot()
			So(snap.Active, ShouldEqual, SlotB)
			So(e.Slot(snap.Active).Clip().MustGet().Index, ShouldEqual, snap.CurrentIndex)

			events := drain(e)
			So(events, ShouldHaveLength, 2)
			_, ok := events[0].(Advanced)
			So(ok, ShouldBeTrue)
			stalled, ok := events[1].(Stalled)
			So(ok, ShouldBeTrue)
			So(stalled.Err.Index, ShouldEqual, 2)

			Convey("The next advance refuses the stale slot instead of replaying its old clip", func() {
				e.Advance()
				e.reclaims.Wait()

				So(e.State(), ShouldEqual, Terminated)
				So(e.CurrentIndex(), ShouldEqual, 1)

				events := drain(e)
				So(events, ShouldHaveLength, 2)
				stalled, ok := events[0].(Stalled)
				So(ok, ShouldBeTrue)
				So(stalled.Err.Index, ShouldEqual, 2)
				_, ok = events[1].(Failed)
				So(ok, ShouldBeTrue)

				So(e.Slot(SlotA).State(), ShouldEqual, Empty)
				So(e.Slot(SlotB).State(), ShouldEqual, Empty)
			})
		})
	})

	Convey("Given a show whose outgoing slot refuses to unload", t, func() {
		a, b := &fakeBackend{}, &fakeBackend{}
		e := New(a, b, WithSettle(0))
		So(e.Initialize(testSequence(3)), ShouldBeNil)

		a.unloadErrs = []error{errors.New("process wedged")}

		settleAdvance(e)

		Convey("No preload is attempted and the fault is retained", func() {
			So(e.Slot(SlotA).Fault(), ShouldNotBeNil)
			So(e.Slot(SlotA).Clip().IsAbsent(), ShouldBeTrue)
			So(a.loads, ShouldEqual, 1) // the initial prime only

			Convey("The next advance stalls and goes fatal", func() {
				drain(e)
				e.Advance()
				e.reclaims.Wait()

				So(e.State(), ShouldEqual, Terminated)
				So(e.CurrentIndex(), ShouldEqual, 1)
			})
		})
	})
}

func TestTerminatePolicy(t *testing.T) {
	Convey("Given a 2-step show under the Terminate policy", t, func() {
		a, b := &fakeBackend{}, &fakeBackend{}
		e := New(a, b, WithSettle(0), WithPolicy(Terminate))
		So(e.Initialize(testSequence(2)), ShouldBeNil)

		settleAdvance(e)
		So(e.CurrentIndex(), ShouldEqual, 1)
		drain(e)

		Convey("Advancing past the last step completes the show", func() {
			settleAdvance(e)

			So(e.State(), ShouldEqual, Terminated)

			events := drain(e)
			So(events, ShouldHaveLength, 1)
			_, ok := events[0].(SequenceCompleted)
			So(ok, ShouldBeTrue)

			So(e.Slot(SlotA).State(), ShouldEqual, Empty)
			So(e.Slot(SlotB).State(), ShouldEqual, Empty)

			Convey("Further advances are no-ops", func() {
				e.Advance()
				So(drain(e), ShouldBeEmpty)
			})
		})
	})
}

func TestResetAndTeardown(t *testing.T) {
	Convey("Given a playing engine", t, func() {
		a, b := &fakeBackend{}, &fakeBackend{}
		e := New(a, b, WithSettle(0))
		So(e.Initialize(testSequence(3)), ShouldBeNil)
		settleAdvance(e)
		drain(e)

		Convey("Reset returns to Uninitialized with both slots empty", func() {
			e.Reset()

			So(e.State(), ShouldEqual, Uninitialized)
			So(e.Slot(SlotA).State(), ShouldEqual, Empty)
			So(e.Slot(SlotB).State(), ShouldEqual, Empty)

			Convey("And the engine is reusable", func() {
				So(e.Initialize(testSequence(2)), ShouldBeNil)
				So(e.State(), ShouldEqual, PlayingShow)
			})
		})

		Convey("Teardown closes the event channel and is final", func() {
			e.Teardown()

			So(e.State(), ShouldEqual, Terminated)
			_, open := <-e.Events()
			So(open, ShouldBeFalse)

			err := e.Initialize(testSequence(2))
			var invalid *InvalidStateError
			So(errors.As(err, &invalid), ShouldBeTrue)
		})
	})
}

func TestPolicyFromString(t *testing.T) {
	Convey("PolicyFromString", t, func() {
		So(PolicyFromString("terminate"), ShouldEqual, Terminate)
		So(PolicyFromString("loop"), ShouldEqual, Loop)
		So(PolicyFromString(""), ShouldEqual, Loop)
	})
}
