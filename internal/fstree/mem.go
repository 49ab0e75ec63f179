package fstree

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// MemTree is an in-memory Tree used in tests. It supports the edge cases a
// real mounted filesystem exhibits: per-node storage identities and parent
// chains that cross storage boundaries.
type MemTree struct {
	mu       sync.Mutex
	nextID   int64
	rootID   int64
	nodes    map[int64]*Node
	children map[int64][]int64
	content  map[int64][]byte
}

// NewMemTree creates a tree with a single root folder on the given storage
func NewMemTree(storage string) *MemTree {
	t := &MemTree{
		nextID:   1,
		nodes:    make(map[int64]*Node),
		children: make(map[int64][]int64),
		content:  make(map[int64][]byte),
	}
	t.rootID = t.add(&Node{Name: "", Storage: storage, IsFolder: true})
	return t
}

func (t *MemTree) add(n *Node) int64 {
	n.ID = t.nextID
	t.nextID++
	t.nodes[n.ID] = n
	if n.ParentID != 0 {
		t.children[n.ParentID] = append(t.children[n.ParentID], n.ID)
	}
	return n.ID
}

// RootID returns the id of the root folder
func (t *MemTree) RootID() int64 {
	return t.rootID
}

// AddFolder adds a folder; empty storage inherits the parent's
func (t *MemTree) AddFolder(parentID int64, name string, storage string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if storage == "" {
		storage = t.nodes[parentID].Storage
	}
	return t.add(&Node{Name: name, ParentID: parentID, Storage: storage, IsFolder: true})
}

// AddFile adds a file with the given content; MIME type comes from the name
func (t *MemTree) AddFile(parentID int64, name string, content []byte) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.add(&Node{
		Name:     name,
		ParentID: parentID,
		MimeType: MimeFromName(name),
		Storage:  t.nodes[parentID].Storage,
		IsFolder: false,
		Size:     int64(len(content)),
	})
	t.content[id] = content
	return id
}

// SetStorage marks a node (and nothing below it) as living on a storage
func (t *MemTree) SetStorage(id int64, storage string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes[id].Storage = storage
}

// SetMTime sets the reported modification time of a node
func (t *MemTree) SetMTime(id int64, mtime int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes[id].MTime = mtime
}

// SetContent replaces the content of a file
func (t *MemTree) SetContent(id int64, content []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.content[id] = content
	t.nodes[id].Size = int64(len(content))
}

// Mount lists a node as a direct child of folderID while its recorded
// parent keeps pointing wherever the backing storage put it, the way a
// share or external mount appears inside a user's tree
func (t *MemTree) Mount(id, folderID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	kept := t.children[n.ParentID][:0]
	for _, cid := range t.children[n.ParentID] {
		if cid != id {
			kept = append(kept, cid)
		}
	}
	t.children[n.ParentID] = kept
	t.children[folderID] = append(t.children[folderID], id)
}

// Remove detaches a node from the tree, simulating a deletion
func (t *MemTree) Remove(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	kept := t.children[n.ParentID][:0]
	for _, cid := range t.children[n.ParentID] {
		if cid != id {
			kept = append(kept, cid)
		}
	}
	t.children[n.ParentID] = kept
	delete(t.nodes, id)
	delete(t.content, id)
}

// Root implements Tree
func (t *MemTree) Root() (*Node, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nodes[t.rootID], nil
}

// ListChildren implements Tree
func (t *MemTree) ListChildren(folderID int64) ([]*Node, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.nodes[folderID]; !ok {
		return nil, fmt.Errorf("unknown folder id %d", folderID)
	}
	nodes := make([]*Node, 0, len(t.children[folderID]))
	for _, id := range t.children[folderID] {
		nodes = append(nodes, t.nodes[id])
	}
	return nodes, nil
}

// GetByID implements Tree
func (t *MemTree) GetByID(id int64) ([]*Node, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n, ok := t.nodes[id]; ok {
		return []*Node{n}, nil
	}
	return nil, nil
}

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

// Open implements Tree
func (t *MemTree) Open(id int64) (io.ReadSeekCloser, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	content, ok := t.content[id]
	if !ok {
		return nil, fmt.Errorf("unknown file id %d", id)
	}
	return memFile{bytes.NewReader(content)}, nil
}
