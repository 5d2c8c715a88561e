package history

import (
	"fmt"

	"github.com/reelcue-cli/reelcue/sequence"
)

// SavedShow represents a single show run preserved in the operator's history.
type SavedShow struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Step       int    `json:"step"`
	StepsTotal int    `json:"steps_total"`
	UpdatedAt  int64  `json:"updated_at"`
}

func (s *SavedShow) encode() string {
	return s.Path
}

func (s *SavedShow) String() string {
	return fmt.Sprintf("%s : %d / %d", s.Name, s.Step+1, s.StepsTotal)
}

func newSavedShow(manifest *sequence.Manifest, seq *sequence.Sequence) *SavedShow {
	return &SavedShow{
		Path:       manifest.Path(),
		Name:       seq.Name(),
		StepsTotal: seq.Len(),
	}
}
