// Package tui provides the operator console terminal user interface.
package tui

import (
	"sync"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/reelcue-cli/reelcue/engine"
	"github.com/reelcue-cli/reelcue/internal/ui"
	"github.com/reelcue-cli/reelcue/sequence"
	"github.com/reelcue-cli/reelcue/style"
	"github.com/reelcue-cli/reelcue/util"
)

// statefulBubble encapsulates the console state, including component models
// and the playback engine driving the two player surfaces.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	// components
	spinnerC spinner.Model
	showsC   list.Model
	helpC    help.Model

	manifest *sequence.Manifest
	seq      *sequence.Sequence

	// engMu guards eng: the player surfaces call back from their own event
	// goroutines while the UI loop starts and tears shows down.
	engMu sync.Mutex
	eng   *engine.Engine

	showStartedChannel chan struct{}
	errorChannel       chan error

	progressStatus string
	lastError      error

	width, height int
	notifier      *ui.Model

	options *Options
}

// engine returns the playback engine, or nil when no show is running.
func (b *statefulBubble) engine() *engine.Engine {
	b.engMu.Lock()
	defer b.engMu.Unlock()
	return b.eng
}

func (b *statefulBubble) setEngine(e *engine.Engine) {
	b.engMu.Lock()
	b.eng = e
	b.engMu.Unlock()
}

// raiseError dispatches a terminal error and transitions the console to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// setState performs a synchronous transition of both the console workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState facilitates an idempotent transition to a target state, recording
// the previous state in the navigation history when appropriate.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	// Transient states are not worth returning to
	if b.state != loadingState {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	b.showsC.SetSize(width-xx, height-yy)
	b.showsC.Help.Width = width - xx

	b.width = width - x
	b.height = height - y
	b.helpC.Width = width - xx
}

// newBubble performs a complete initialization of the console's primary UI model.
func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,

		showStartedChannel: make(chan struct{}),
		errorChannel:       make(chan error),

		notifier: &ui.Model{},
		options:  options,
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(1)
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.showsC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.showsC.KeyMap = keymap.forList()
	bubble.showsC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.showsC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return keymap.FullHelp()[0]
	}
	bubble.showsC.Title = "Shows"
	bubble.showsC.Styles.Title = lipgloss.NewStyle().Foreground(style.Text).Background(style.AccentColor).Padding(0, 1)
	bubble.showsC.Styles.NoItems = paddingStyle
	bubble.showsC.SetStatusBarItemName("show", "shows")
	bubble.showsC.SetShowPagination(false)
	bubble.showsC.SetShowStatusBar(false)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
