// Package tui provides the operator console terminal user interface.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelcue-cli/reelcue/engine"
	"github.com/reelcue-cli/reelcue/internal/ui"
	"github.com/reelcue-cli/reelcue/log"
)

// Update processes incoming messages and drives the console state machine.
func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil

	case tea.KeyMsg:
		if key.Matches(msg, b.keymap.forceQuit) {
			b.teardown()
			return b, tea.Quit
		}
		return b.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd

	case showStartedMsg:
		b.setState(playingState)
		return b, tea.Batch(b.waitForEngineEvent(), b.spinnerC.Tick)

	case engine.Advanced:
		b.saveProgress(msg.Index)
		return b, tea.Batch(
			b.waitForEngineEvent(),
			b.notifier.Update(fmt.Sprintf("Cued step %d", msg.Index+1)),
		)

	case engine.Stalled:
		log.Warn(msg.Err)
		return b, tea.Batch(
			b.waitForEngineEvent(),
			b.notifier.Update("Playback stalled, retrying"),
		)

	case engine.SequenceCompleted:
		b.newState(completedState)
		return b, b.waitForEngineEvent()

	case engine.Failed:
		b.raiseError(msg.Err)
		return b, b.waitForEngineEvent()

	case engineClosedMsg:
		return b, nil

	case ui.ClearNotificationMsg:
		return b, b.notifier.Update(msg)

	case error:
		log.Error(msg)
		b.raiseError(msg)
		return b, nil
	}

	return b, b.forwardToComponents(msg)
}

// handleKey dispatches a key press according to the active console state.
func (b *statefulBubble) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch b.state {
	case showsState:
		switch {
		case key.Matches(msg, b.keymap.confirm):
			item, ok := b.showsC.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}
			return b, b.launch(item.path())
		case key.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
		return b, b.forwardToComponents(msg)

	case playingState:
		switch {
		case key.Matches(msg, b.keymap.advance):
			// The engine debounces internally; a tap inside the settle
			// window is silently absorbed.
			if eng := b.engine(); eng != nil {
				eng.Advance()
			}
			return b, nil
		case key.Matches(msg, b.keymap.quit):
			b.teardown()
			return b, tea.Quit
		}

	case completedState:
		switch {
		case key.Matches(msg, b.keymap.replay):
			path := b.manifest.Path()
			b.teardown()
			return b, b.launch(path)
		case key.Matches(msg, b.keymap.back):
			b.teardown()
			b.setState(showsState)
			return b, b.loadShows()
		case key.Matches(msg, b.keymap.quit):
			b.teardown()
			return b, tea.Quit
		}

	case errorState:
		if key.Matches(msg, b.keymap.quit) || key.Matches(msg, b.keymap.back) {
			b.teardown()
			return b, tea.Quit
		}
	}

	return b, nil
}

// forwardToComponents relays messages to the child models of the active state.
func (b *statefulBubble) forwardToComponents(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	if b.state == showsState {
		var cmd tea.Cmd
		b.showsC, cmd = b.showsC.Update(msg)
		cmds = append(cmds, cmd)
	}

	return tea.Batch(cmds...)
}
