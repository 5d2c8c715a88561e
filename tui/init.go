// Package tui provides the operator console terminal user interface.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelcue-cli/reelcue/history"
	"github.com/reelcue-cli/reelcue/key"
	"github.com/reelcue-cli/reelcue/log"
	"github.com/spf13/viper"
)

// Init initializes the operator console, either launching a show directly or
// presenting the manifest picker.
func (b *statefulBubble) Init() tea.Cmd {
	if b.options.Continue {
		last, err := history.Last()
		if err != nil {
			b.raiseError(err)
			return nil
		}
		if last != nil {
			return b.launch(last.Path)
		}
		log.Warn("no show in history to continue, falling back to the picker")
	}

	if b.options.ManifestPath != "" {
		return b.launch(b.options.ManifestPath)
	}

	if def := viper.GetString(key.ShowDefault); def != "" {
		return b.launch(def)
	}

	b.setState(showsState)
	return b.loadShows()
}

// launch enters the loading state and primes the engine for the given manifest.
func (b *statefulBubble) launch(path string) tea.Cmd {
	b.setState(loadingState)
	return tea.Batch(b.spinnerC.Tick, b.startShow(path), b.waitForShowStarted())
}
