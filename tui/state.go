// Package tui provides the operator console terminal user interface.
package tui

type state int

const (
	loadingState state = iota
	errorState
	showsState
	playingState
	completedState
)
