// Package tui provides the operator console terminal user interface.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelcue-cli/reelcue/color"
	"github.com/reelcue-cli/reelcue/engine"
	"github.com/reelcue-cli/reelcue/filesystem"
	"github.com/reelcue-cli/reelcue/history"
	"github.com/reelcue-cli/reelcue/key"
	"github.com/reelcue-cli/reelcue/log"
	"github.com/reelcue-cli/reelcue/player"
	"github.com/reelcue-cli/reelcue/sequence"
	"github.com/reelcue-cli/reelcue/style"
	"github.com/spf13/viper"
)

// showStartedMsg signals that the engine is primed and playback has begun.
type showStartedMsg struct{}

// engineClosedMsg signals that the engine event channel was closed by teardown.
type engineClosedMsg struct{}

// loadShows populates the picker with manifests from the working directory,
// decorated with history records where a previous run exists.
func (b *statefulBubble) loadShows() tea.Cmd {
	files, err := filesystem.API().ReadDir(".")
	if err != nil {
		return func() tea.Msg { return err }
	}

	saved, err := history.Get()
	if err != nil {
		log.Warn(err)
		saved = make(map[string]*history.SavedShow)
	}

	var items []list.Item
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		if record, ok := saved[f.Name()]; ok {
			items = append(items, &listItem{internal: record})
			continue
		}
		items = append(items, &listItem{internal: f.Name()})
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.Compare(items[i].FilterValue(), items[j].FilterValue()) < 0
	})

	return b.showsC.SetItems(items)
}

// startShow loads the manifest, spawns both player surfaces, and primes the
// engine. Runs off the UI loop since spawning players takes real time.
func (b *statefulBubble) startShow(path string) tea.Cmd {
	return func() tea.Msg {
		if backend := viper.GetString(key.Player); backend != "mpv" {
			b.errorChannel <- fmt.Errorf("unsupported player backend %q, only mpv is available", backend)
			return nil
		}

		manifest, err := sequence.LoadManifest(path)
		if err != nil {
			b.errorChannel <- err
			return nil
		}

		seq, err := manifest.Sequence()
		if err != nil {
			b.errorChannel <- err
			return nil
		}

		b.progressStatus = fmt.Sprintf("Priming %s", style.Fg(color.Purple)(seq.Name()))
		log.Infof("starting show %q from %s", seq.Name(), path)

		backendA := player.NewMPV("slot-a", b.autoAdvance)
		backendB := player.NewMPV("slot-b", b.autoAdvance)

		eng := engine.New(backendA, backendB,
			engine.WithPolicy(engine.PolicyFromString(viper.GetString(key.PlayerSequenceEnd))),
			engine.WithSettle(time.Duration(viper.GetInt(key.PlayerSettleMs))*time.Millisecond),
		)

		if err := eng.Initialize(seq); err != nil {
			b.errorChannel <- err
			return nil
		}

		b.manifest = manifest
		b.seq = seq
		b.setEngine(eng)
		b.saveProgress(0)

		b.showStartedChannel <- struct{}{}
		return nil
	}
}

func (b *statefulBubble) waitForShowStarted() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.showStartedChannel:
			return showStartedMsg{}
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// waitForEngineEvent delivers the next engine lifecycle signal to the UI loop.
// Reissued after every delivery until the channel closes.
func (b *statefulBubble) waitForEngineEvent() tea.Cmd {
	eng := b.engine()
	if eng == nil {
		return func() tea.Msg { return engineClosedMsg{} }
	}

	events := eng.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return engineClosedMsg{}
		}
		return ev
	}
}

// autoAdvance is the end-of-clip callback wired into both player surfaces.
// It fires on the player's event goroutine, never the UI loop, so the engine
// pointer goes through the guarded accessor.
func (b *statefulBubble) autoAdvance() {
	if !viper.GetBool(key.PlayerAutoAdvance) {
		return
	}
	if eng := b.engine(); eng != nil {
		eng.Advance()
	}
}

// saveProgress persists the current step to history when enabled.
func (b *statefulBubble) saveProgress(step int) {
	if !viper.GetBool(key.HistorySaveOnPlay) {
		return
	}
	if err := history.Save(b.manifest, b.seq, step); err != nil {
		log.Warn(err)
	}
}

// teardown releases the engine and both player processes. Safe to call twice
// and safe to race with the players' end-of-clip callbacks.
func (b *statefulBubble) teardown() {
	b.engMu.Lock()
	eng := b.eng
	b.eng = nil
	b.engMu.Unlock()

	if eng == nil {
		return
	}
	eng.Teardown()
}
