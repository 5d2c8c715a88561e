// Package tui provides the operator console terminal user interface.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Options encapsulates the runtime configuration for the operator console.
type Options struct {
	// ManifestPath starts the named show directly, skipping the picker.
	ManifestPath string
	// Continue reopens the most recently played show from history.
	Continue bool
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	bubble := newBubble(options)

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()

	// The player processes must never outlive the console.
	bubble.teardown()

	return err
}
