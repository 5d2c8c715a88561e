// Package sequence defines the domain models for director-configured clip sequences and their show manifests.
package sequence

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// IncompleteSequenceError reports a sequence that cannot be played because
// one or more steps are missing a clip locator. It is a precondition
// violation, never a runtime playback error.
type IncompleteSequenceError struct {
	// One-based step numbers without a resolvable locator.
	Missing []int
}

func (e *IncompleteSequenceError) Error() string {
	steps := lo.Map(e.Missing, func(n int, _ int) string {
		return fmt.Sprint(n)
	})
	return fmt.Sprintf("incomplete sequence: no clip assigned to step(s) %s", strings.Join(steps, ", "))
}

// Sequence is an ordered, immutable list of clip references, one per show
// step. A Sequence is always fully resolvable: construction fails with
// IncompleteSequenceError otherwise, so the playback engine never has to
// re-validate mid-show.
type Sequence struct {
	name  string
	clips []*ClipRef
}

// New builds a validated Sequence from ordered clip references.
// Every clip must carry a non-empty locator and the slice must not be empty.
func New(name string, clips []*ClipRef) (*Sequence, error) {
	if len(clips) == 0 {
		return nil, &IncompleteSequenceError{Missing: []int{1}}
	}

	var missing []int
	for i, clip := range clips {
		if clip == nil || strings.TrimSpace(clip.Locator) == "" {
			missing = append(missing, i+1)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteSequenceError{Missing: missing}
	}

	// Defensive copy with normalized indexes; callers keep no aliases.
	owned := make([]*ClipRef, len(clips))
	for i, clip := range clips {
		c := *clip
		c.Index = i
		owned[i] = &c
	}

	return &Sequence{name: name, clips: owned}, nil
}

// Name returns the show display name.
func (s *Sequence) Name() string {
	return s.name
}

// Len returns the number of steps.
func (s *Sequence) Len() int {
	return len(s.clips)
}

// At returns the clip reference bound to the given step index.
func (s *Sequence) At(index int) *ClipRef {
	return s.clips[index]
}

// NextIndex returns the step that follows index, wrapping past the last step.
func (s *Sequence) NextIndex(index int) int {
	return (index + 1) % len(s.clips)
}
