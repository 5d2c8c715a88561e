// Package history provides the implementation for tracking and persisting show playback progress.
package history

import (
	"time"

	"github.com/metafates/gache"
	"github.com/reelcue-cli/reelcue/filesystem"
	"github.com/reelcue-cli/reelcue/sequence"
	"github.com/reelcue-cli/reelcue/where"
)

// cacher provides an abstracted, disk-backed registry for show progress records.
var cacher = gache.New[map[string]*SavedShow](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of show progress records from the persistent store.
func Get() (map[string]*SavedShow, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedShow), nil
	}
	return cached, nil
}

// Save persists the current step of a show run to the history registry.
// Records are keyed by manifest path, so re-running a show updates its entry
// in place.
func Save(manifest *sequence.Manifest, seq *sequence.Sequence, step int) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record := newSavedShow(manifest, seq)
	record.Step = step
	record.UpdatedAt = time.Now().Unix()

	saved[record.encode()] = record

	return cacher.Set(saved)
}

// Last returns the most recently updated show record, or nil when the
// history is empty.
func Last() (*SavedShow, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	var last *SavedShow
	for _, record := range saved {
		if last == nil || record.UpdatedAt > last.UpdatedAt {
			last = record
		}
	}
	return last, nil
}

// Remove permanently deletes a specific show record from the history registry.
func Remove(show *SavedShow) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, show.encode())
	return cacher.Set(saved)
}
