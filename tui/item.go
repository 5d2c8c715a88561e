// Package tui provides the operator console terminal user interface.
package tui

import (
	"fmt"

	"github.com/reelcue-cli/reelcue/history"
	"github.com/reelcue-cli/reelcue/util"
)

// listItem implements the list.Item interface, wrapping either a bare
// manifest path or a recorded show run for terminal display.
type listItem struct {
	internal interface{}
}

// path returns the manifest location regardless of the wrapped type.
func (t *listItem) path() string {
	switch e := t.internal.(type) {
	case *history.SavedShow:
		return e.Path
	case string:
		return e
	default:
		return ""
	}
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() string {
	switch e := t.internal.(type) {
	case *history.SavedShow:
		return e.Name
	case string:
		return util.FileStem(e)
	default:
		return ""
	}
}

// Description retrieves the secondary metadata for the list item.
func (t *listItem) Description() string {
	switch e := t.internal.(type) {
	case *history.SavedShow:
		return fmt.Sprintf("last played at step %d of %d", e.Step+1, e.StepsTotal)
	case string:
		return e
	default:
		return ""
	}
}

// FilterValue returns the string used for real-time list filtering and searching.
func (t *listItem) FilterValue() string {
	return t.Title()
}
