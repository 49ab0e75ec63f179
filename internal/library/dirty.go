package library

import (
	"github.com/franz/musicdex/internal/fstree"
	"github.com/franz/musicdex/internal/store"
	"github.com/franz/musicdex/internal/util"
)

// DirtyTracker finds tracks whose stored metadata may be stale. A track is
// due for re-indexing when it carries an explicit dirty mark or when the file
// on disk changed after the row was last written.
type DirtyTracker struct {
	store *store.Store
}

// NewDirtyTracker creates a DirtyTracker
func NewDirtyTracker(s *store.Store) *DirtyTracker {
	return &DirtyTracker{store: s}
}

// MarkDirty flags a track for re-indexing on the next pass
func (d *DirtyTracker) MarkDirty(userID string, fileID int64) error {
	return d.store.SetTrackDirty(userID, fileID, true)
}

// FindDirty returns all tracks needing a re-index. Tracks whose file is no
// longer reachable are skipped here; the cleanup sweep removes them.
func (d *DirtyTracker) FindDirty(userID string, tree fstree.Tree) ([]*store.Track, error) {
	tracks, err := d.store.FindAllTracks(userID)
	if err != nil {
		return nil, err
	}

	var dirty []*store.Track
	for _, track := range tracks {
		if track.Dirty {
			dirty = append(dirty, track)
			continue
		}

		nodes, err := tree.GetByID(track.FileID)
		if err != nil {
			return nil, err
		}
		if len(nodes) == 0 {
			util.DebugLog("dirty check: file %d is gone, leaving it to cleanup", track.FileID)
			continue
		}
		if nodes[0].MTime > track.UpdatedAt {
			dirty = append(dirty, track)
		}
	}
	return dirty, nil
}
