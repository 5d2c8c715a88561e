package tui

import (
	"sync"
	"testing"

	"github.com/reelcue-cli/reelcue/engine"
	"github.com/reelcue-cli/reelcue/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

// idleBackend is a render surface that accepts every command and renders nothing.
type idleBackend struct{}

func (idleBackend) Load(string) error { return nil }
func (idleBackend) Play() error       { return nil }
func (idleBackend) Stop() error       { return nil }
func (idleBackend) Unload() error     { return nil }
func (idleBackend) IsRunning() bool   { return false }

func TestAutoAdvanceAfterTeardown(t *testing.T) {
	Convey("Given a console with a running engine", t, func() {
		viper.Set(key.PlayerAutoAdvance, true)
		Reset(func() {
			viper.Set(key.PlayerAutoAdvance, false)
		})

		b := &statefulBubble{}
		b.setEngine(engine.New(idleBackend{}, idleBackend{}))

		Convey("End-of-clip callbacks racing teardown never reach a dead engine", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					b.autoAdvance()
				}()
			}
			b.teardown()
			wg.Wait()

			So(b.engine(), ShouldBeNil)

			Convey("A late callback after teardown is a harmless no-op", func() {
				b.autoAdvance()
				So(b.engine(), ShouldBeNil)
			})

			Convey("Tearing down twice is safe", func() {
				b.teardown()
				So(b.engine(), ShouldBeNil)
			})
		})
	})
}
