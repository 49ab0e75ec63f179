package fstree

import (
	"fmt"
	"hash/fnv"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Local is a snapshot of a directory tree on the local filesystem. File ids
// are derived from filesystem identity (device and inode where available) so
// they stay stable across runs as long as the file itself is not replaced.
type Local struct {
	rootID   int64
	nodes    map[int64]*Node
	children map[int64][]int64
	paths    map[int64]string
}

// OpenLocal walks the tree under rootPath and builds a snapshot of it.
// A missing or unreadable root is fatal; unreadable entries below it are
// skipped.
func OpenLocal(rootPath string) (*Local, error) {
	rootPath = filepath.Clean(rootPath)
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", rootPath)
	}

	l := &Local{
		nodes:    make(map[int64]*Node),
		children: make(map[int64][]int64),
		paths:    make(map[int64]string),
	}

	l.rootID = nodeID(rootPath, info)
	l.addNode(&Node{
		ID:       l.rootID,
		Name:     filepath.Base(rootPath),
		Storage:  storageIdentity(rootPath, info),
		IsFolder: true,
		MTime:    info.ModTime().Unix(),
	}, rootPath)

	idByPath := map[string]int64{rootPath: l.rootID}

	walkErr := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if path == rootPath {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		parentID, ok := idByPath[filepath.Dir(path)]
		if !ok {
			return nil
		}

		id := nodeID(path, info)
		node := &Node{
			ID:       id,
			Name:     d.Name(),
			ParentID: parentID,
			Storage:  storageIdentity(path, info),
			IsFolder: d.IsDir(),
			Size:     info.Size(),
			MTime:    info.ModTime().Unix(),
		}
		if !d.IsDir() {
			node.MimeType = MimeFromName(d.Name())
		}

		l.addNode(node, path)
		l.children[parentID] = append(l.children[parentID], id)
		if d.IsDir() {
			idByPath[path] = id
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk root: %w", walkErr)
	}

	return l, nil
}

func (l *Local) addNode(n *Node, path string) {
	l.nodes[n.ID] = n
	l.paths[n.ID] = path
}

// Root returns the root folder node
func (l *Local) Root() (*Node, error) {
	return l.nodes[l.rootID], nil
}

// ListChildren returns the direct children of a folder
func (l *Local) ListChildren(folderID int64) ([]*Node, error) {
	if _, ok := l.nodes[folderID]; !ok {
		return nil, fmt.Errorf("unknown folder id %d", folderID)
	}
	ids := l.children[folderID]
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, l.nodes[id])
	}
	return nodes, nil
}

// GetByID resolves a node id; returns zero nodes when not present
func (l *Local) GetByID(id int64) ([]*Node, error) {
	if n, ok := l.nodes[id]; ok {
		return []*Node{n}, nil
	}
	return nil, nil
}

// Open opens the file behind a node id for reading
func (l *Local) Open(id int64) (io.ReadSeekCloser, error) {
	path, ok := l.paths[id]
	if !ok {
		return nil, fmt.Errorf("unknown file id %d", id)
	}
	return os.Open(path)
}

// pathID hashes a path into a 63-bit id; the portable fallback when
// device/inode identity is not available
func pathID(path string) int64 {
	h := fnv.New64a()
	h.Write([]byte(path))
	return int64(h.Sum64() &^ (1 << 63))
}
