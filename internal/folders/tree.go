// Package folders reconstructs the user-visible folder tree from indexed
// track rows and the live file tree. Track rows only record their direct
// parent folder, so ancestor folders and mount points have to be filled back
// in.
package folders

import (
	"errors"
	"fmt"

	"github.com/franz/musicdex/internal/fstree"
	"github.com/franz/musicdex/internal/store"
	"github.com/franz/musicdex/internal/util"
)

// Folder is one node of the reconstructed tree. ParentID is 0 only for the
// root. Path is slash-separated and empty for the root.
type Folder struct {
	ID       int64
	Name     string
	ParentID int64
	TrackIDs []int64
	Path     string
}

// Builder assembles folder trees
type Builder struct {
	store *store.Store
	tree  fstree.Tree
}

// NewBuilder creates a Builder
func NewBuilder(s *store.Store, tree fstree.Tree) *Builder {
	return &Builder{store: s, tree: tree}
}

// BuildTree returns every folder holding indexed tracks for the user plus
// all their ancestors up to rootID, with paths computed. Mounts and shares
// nested under the root get their parent chain patched so that every folder
// reaches the root.
func (b *Builder) BuildTree(userID string, rootID int64) ([]*Folder, error) {
	index, err := b.store.FolderTrackIndex(userID)
	if err != nil {
		return nil, err
	}

	folders := make(map[int64]*Folder)
	for folderID, trackIDs := range index {
		f, err := b.resolveFolder(folderID)
		if err != nil {
			return nil, err
		}
		if f == nil {
			util.DebugLog("folder %d holds tracks but is gone, skipping", folderID)
			continue
		}
		f.TrackIDs = trackIDs
		folders[folderID] = f
	}

	// the root appears even when it holds no tracks of its own
	if root, ok := folders[rootID]; ok {
		root.ParentID = 0
	} else {
		nodes, err := b.tree.GetByID(rootID)
		if err != nil {
			return nil, err
		}
		if len(nodes) == 0 {
			return nil, fmt.Errorf("music root folder %d does not exist", rootID)
		}
		folders[rootID] = &Folder{ID: rootID, Name: nodes[0].Name}
	}

	if err := b.patchMounts(userID, rootID, folders); err != nil {
		return nil, err
	}
	if err := b.fillGaps(rootID, folders); err != nil {
		return nil, err
	}
	b.computePaths(rootID, folders)

	result := make([]*Folder, 0, len(folders))
	for _, f := range folders {
		result = append(result, f)
	}
	return result, nil
}

func (b *Builder) resolveFolder(folderID int64) (*Folder, error) {
	nodes, err := b.tree.GetByID(folderID)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return &Folder{ID: folderID, Name: nodes[0].Name, ParentID: nodes[0].ParentID}, nil
}

// patchMounts fixes the parent chain of mounts and shares sitting directly
// under the root. Their stored parent chain belongs to the foreign storage
// and would never reach this user's root.
func (b *Builder) patchMounts(userID string, rootID int64, folders map[int64]*Folder) error {
	rootNodes, err := b.tree.GetByID(rootID)
	if err != nil {
		return err
	}
	if len(rootNodes) == 0 {
		return fmt.Errorf("music root folder %d does not exist", rootID)
	}
	rootStorage := rootNodes[0].Storage

	children, err := b.tree.ListChildren(rootID)
	if err != nil {
		return err
	}

	mountChildIDs := make(map[int64]bool)
	for _, child := range children {
		if child.Storage == rootStorage {
			continue
		}
		mountChildIDs[child.ID] = true

		if child.IsFolder {
			// forced under the root even when the mount holds no direct
			// tracks, so that descendants grafted in later attach to it
			// instead of pulling in the foreign parent chain
			if f, ok := folders[child.ID]; ok {
				f.ParentID = rootID
			} else {
				folders[child.ID] = &Folder{ID: child.ID, Name: child.Name, ParentID: rootID}
			}
			continue
		}

		// a single shared audio file: its track belongs with the root, not
		// with a foreign folder nobody can see
		if !fstree.IsAudio(child.MimeType) {
			continue
		}
		track, err := b.store.FindTrackByFile(userID, child.ID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		foreign := folders[track.FolderID]
		if foreign != nil {
			foreign.TrackIDs = removeID(foreign.TrackIDs, track.ID)
			if len(foreign.TrackIDs) == 0 && !mountChildIDs[foreign.ID] && foreign.ID != rootID {
				delete(folders, foreign.ID)
			}
		}
		folders[rootID].TrackIDs = append(folders[rootID].TrackIDs, track.ID)
	}
	return nil
}

// fillGaps adds every referenced but missing ancestor folder, iterating
// until the set is closed under the parent relation. Deep leaves pull in
// their whole chain up to the root this way.
func (b *Builder) fillGaps(rootID int64, folders map[int64]*Folder) error {
	for {
		var missing []int64
		for _, f := range folders {
			if f.ID == rootID {
				continue
			}
			if _, ok := folders[f.ParentID]; !ok {
				missing = append(missing, f.ParentID)
			}
		}
		if len(missing) == 0 {
			return nil
		}

		for _, id := range missing {
			if _, ok := folders[id]; ok {
				continue
			}
			f, err := b.resolveFolder(id)
			if err != nil {
				return err
			}
			if f == nil {
				return fmt.Errorf("ancestor folder %d is unresolvable", id)
			}
			if f.ID == rootID {
				f.ParentID = 0
			}
			folders[id] = f
		}
	}
}

// computePaths fills Path for every folder using an explicit memo table.
// The parent chain is walked with a stack instead of recursion so that
// arbitrarily deep trees cannot exhaust the call stack.
func (b *Builder) computePaths(rootID int64, folders map[int64]*Folder) {
	memo := make(map[int64]string, len(folders))
	memo[rootID] = ""

	for _, f := range folders {
		var chain []int64
		id := f.ID
		for {
			if _, ok := memo[id]; ok {
				break
			}
			chain = append(chain, id)
			id = folders[id].ParentID
		}
		for i := len(chain) - 1; i >= 0; i-- {
			cur := folders[chain[i]]
			memo[cur.ID] = memo[cur.ParentID] + "/" + cur.Name
		}
		f.Path = memo[f.ID]
	}
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
