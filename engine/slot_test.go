package engine

import (
	"errors"
	"sync"
	"testing"

	"github.com/reelcue-cli/reelcue/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeBackend is a scriptable in-memory render surface. Errors queued in the
// per-command slices are popped one per call.
type fakeBackend struct {
	mu         sync.Mutex
	loaded     string
	visible    bool
	loadErrs   []error
	playErrs   []error
	stopErrs   []error
	unloadErrs []error
	loads      int
	plays      int
	stops      int
	unloads    int
}

func (f *fakeBackend) Load(locator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if len(f.loadErrs) > 0 {
		err := f.loadErrs[0]
		f.loadErrs = f.loadErrs[1:]
		if err != nil {
			return err
		}
	}
	f.loaded = locator
	return nil
}

func (f *fakeBackend) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays++
	if len(f.playErrs) > 0 {
		err := f.playErrs[0]
		f.playErrs = f.playErrs[1:]
		if err != nil {
			return err
		}
	}
	f.visible = true
	return nil
}

func (f *fakeBackend) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	if len(f.stopErrs) > 0 {
		err := f.stopErrs[0]
		f.stopErrs = f.stopErrs[1:]
		if err != nil {
			return err
		}
	}
	f.visible = false
	return nil
}

func (f *fakeBackend) Unload() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unloads++
	if len(f.unloadErrs) > 0 {
		err := f.unloadErrs[0]
		f.unloadErrs = f.unloadErrs[1:]
		if err != nil {
			return err
		}
	}
	f.loaded = ""
	return nil
}

func (f *fakeBackend) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded != ""
}

func (f *fakeBackend) playCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

func clip(index int, locator string) *sequence.ClipRef {
	return &sequence.ClipRef{Index: index, Locator: locator}
}

func TestSlotContract(t *testing.T) {
	Convey("Given an empty slot", t, func() {
		backend := &fakeBackend{}
		s := newSlot(SlotA, backend)

		Convey("Load binds the clip and reaches Ready", func() {
			So(s.Load(clip(0, "intro.mp4")), ShouldBeNil)
			So(s.State(), ShouldEqual, Ready)
			So(s.Clip().MustGet().Locator, ShouldEqual, "intro.mp4")

			Convey("Loading again is a contract violation, not a queue", func() {
				err := s.Load(clip(1, "next.mp4"))

				var invalid *InvalidStateError
				So(errors.As(err, &invalid), ShouldBeTrue)
				So(backend.loads, ShouldEqual, 1)
			})

			Convey("Play transitions to Playing", func() {
				So(s.Play(), ShouldBeNil)
				So(s.State(), ShouldEqual, Playing)

				Convey("Play again is an idempotent no-op", func() {
					So(s.Play(), ShouldBeNil)
					So(backend.playCount(), ShouldEqual, 1)
				})

				Convey("Unload from Playing fails fast", func() {
					err := s.Unload()

					var invalid *InvalidStateError
					So(errors.As(err, &invalid), ShouldBeTrue)
					So(s.State(), ShouldEqual, Playing)
				})

				Convey("Stop then Unload returns the slot to Empty", func() {
					So(s.Stop(), ShouldBeNil)
					So(s.State(), ShouldEqual, Stopped)
					So(s.Unload(), ShouldBeNil)
					So(s.State(), ShouldEqual, Empty)
					So(s.Clip().IsAbsent(), ShouldBeTrue)
				})
			})
		})

		Convey("Play from Empty fails fast", func() {
			err := s.Play()

			var invalid *InvalidStateError
			So(errors.As(err, &invalid), ShouldBeTrue)
		})

		Convey("Stop from Empty fails fast", func() {
			err := s.Stop()

			var invalid *InvalidStateError
			So(errors.As(err, &invalid), ShouldBeTrue)
		})

		Convey("A failed load leaves the slot Empty with the error retained", func() {
			backend.loadErrs = []error{errors.New("decoder exploded")}

			err := s.Load(clip(0, "intro.mp4"))

			var lerr *LoadError
			So(errors.As(err, &lerr), ShouldBeTrue)
			So(s.State(), ShouldEqual, Empty)
			So(s.Fault(), ShouldNotBeNil)

			Convey("A subsequent successful load clears it", func() {
				So(s.Load(clip(0, "intro.mp4")), ShouldBeNil)
				So(s.Fault(), ShouldBeNil)
			})
		})
	})
}
