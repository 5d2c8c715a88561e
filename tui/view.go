// Package tui provides the operator console terminal user interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/reelcue-cli/reelcue/engine"
	"github.com/reelcue-cli/reelcue/icon"
	"github.com/reelcue-cli/reelcue/key"
	"github.com/reelcue-cli/reelcue/style"
	"github.com/reelcue-cli/reelcue/util"
	"github.com/spf13/viper"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case showsState:
		output = b.viewShows()
	case playingState:
		output = b.viewPlaying()
	case completedState:
		output = b.viewCompleted()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		},
	)
}

func (b *statefulBubble) viewShows() string {
	return listExtraPaddingStyle.Render(b.showsC.View())
}

func (b *statefulBubble) viewPlaying() string {
	snap := b.engine().Snapshot()
	clip := b.seq.At(snap.CurrentIndex)

	statusIcon := icon.Get(icon.Play)
	status := "live"
	if snap.Locked {
		statusIcon = icon.Get(icon.Progress)
		status = "settling"
	}

	lines := []string{
		style.Tag(style.Text, style.AccentColor)(icon.Get(icon.Show) + " " + b.seq.Name()),
		"",
		style.Truncate(b.width)(fmt.Sprintf(
			"%s Step %d of %d: %s %s",
			statusIcon,
			snap.CurrentIndex+1,
			b.seq.Len(),
			style.Bold(clip.String()),
			style.Faint("("+status+")"),
		)),
	}

	if viper.GetBool(key.TUIShowClipPaths) {
		lines = append(lines, style.Truncate(b.width)(style.Faint(clip.Locator)))
	}

	lines = append(lines, "")
	for _, label := range []engine.Label{engine.SlotA, engine.SlotB} {
		slotIcon := icon.Get(icon.Standby)
		slotState := snap.StandbyState
		if label == snap.Active {
			slotIcon = icon.Get(icon.Play)
			slotState = snap.ActiveState
		}
		lines = append(lines, fmt.Sprintf("%s slot %s %s", slotIcon, label, style.Faint(slotState.String())))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewCompleted() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Show Complete"),
			"",
			fmt.Sprintf("%s %s finished after %s", icon.Get(icon.Success), style.Bold(b.seq.Name()), util.Quantify(b.seq.Len(), "step", "steps")),
		},
	)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorBody := errorStyle.Render(b.lastError.Error())
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		append([]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
		},
			errorMsg,
		),
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
