// Package sequence defines the domain models for director-configured clip sequences and their show manifests.
package sequence

import "fmt"

// ClipRef is a single step's clip reference within a show: an ordering
// index paired with an opaque locator the playback backend resolves to media.
type ClipRef struct {
	// Zero-based position within the sequence.
	Index int `json:"index"`
	// Opaque media locator (typically a file path) handed to the slot's load.
	Locator string `json:"locator"`
	// Optional display title for the operator console.
	Title string `json:"title,omitempty"`
}

// String returns the title when present, otherwise a positional label.
func (c *ClipRef) String() string {
	if c.Title != "" {
		return c.Title
	}
	return fmt.Sprintf("Step %d", c.Index+1)
}
