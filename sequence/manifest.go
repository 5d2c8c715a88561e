// Package sequence defines the domain models for director-configured clip sequences and their show manifests.
package sequence

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reelcue-cli/reelcue/filesystem"
	"github.com/reelcue-cli/reelcue/util"
	"golang.org/x/exp/slices"
)

// ManifestStep is a single entry of a show manifest: a one-based step
// number bound to a clip locator.
type ManifestStep struct {
	Step  int    `json:"step" jsonschema:"required,minimum=1,description=One-based position of this clip within the show"`
	Clip  string `json:"clip" jsonschema:"required,description=Path of the video clip to play at this step"`
	Title string `json:"title,omitempty" jsonschema:"description=Optional display title shown on the operator console"`
}

// Manifest is the on-disk representation of a director-configured show:
// a named, ordered mapping of steps to clips. It is produced by external
// tooling and consumed read-only here.
type Manifest struct {
	Name  string         `json:"name" jsonschema:"description=Display name of the show"`
	Steps []ManifestStep `json:"steps" jsonschema:"required,description=Ordered clip assignments; one entry per step"`

	path string
}

// LoadManifest reads and decodes a show manifest from the filesystem.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read show manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse show manifest %s: %w", filepath.Base(path), err)
	}

	m.path = path
	if m.Name == "" {
		m.Name = util.FileStem(path)
	}

	return &m, nil
}

// Path returns the filesystem location the manifest was loaded from, if any.
func (m *Manifest) Path() string {
	return m.path
}

// Sequence validates the manifest and assembles the immutable step sequence.
// Steps must form a contiguous one-based run with no duplicates, and every
// step must name a clip; violations surface as IncompleteSequenceError.
func (m *Manifest) Sequence() (*Sequence, error) {
	if len(m.Steps) == 0 {
		return nil, &IncompleteSequenceError{Missing: []int{1}}
	}

	steps := slices.Clone(m.Steps)
	slices.SortFunc(steps, func(a, b ManifestStep) int {
		return a.Step - b.Step
	})

	// Map one-based step numbers onto a dense clip slice. Duplicates and
	// gaps both leave holes that the validation below reports.
	clips := make([]*ClipRef, steps[len(steps)-1].Step)
	var missing []int
	for i, step := range steps {
		if step.Step < 1 || (i > 0 && step.Step == steps[i-1].Step) {
			missing = append(missing, step.Step)
			continue
		}
		clips[step.Step-1] = &ClipRef{
			Index:   step.Step - 1,
			Locator: m.resolveClip(step.Clip),
			Title:   step.Title,
		}
	}
	for i, clip := range clips {
		if clip == nil {
			missing = append(missing, i+1)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, &IncompleteSequenceError{Missing: slices.Compact(missing)}
	}

	return New(m.Name, clips)
}

// resolveClip anchors relative clip paths next to the manifest file so a
// show directory can be moved as a unit.
func (m *Manifest) resolveClip(clip string) string {
	clip = strings.TrimSpace(clip)
	if clip == "" || m.path == "" || filepath.IsAbs(clip) || strings.Contains(clip, "://") {
		return clip
	}
	return filepath.Join(filepath.Dir(m.path), clip)
}
