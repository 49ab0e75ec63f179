package fstree

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestOpenLocalWalksTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Album", "01.mp3"), "audio")
	writeFile(t, filepath.Join(dir, "Album", "cover.jpg"), "img")
	writeFile(t, filepath.Join(dir, "loose.flac"), "audio2")

	tree, err := OpenLocal(dir)
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}

	root, err := tree.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if !root.IsFolder {
		t.Fatal("root must be a folder")
	}

	children, err := tree.ListChildren(root.ID)
	if err != nil {
		t.Fatalf("ListChildren: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("expected 2 root children, got %d", len(children))
	}

	byName := make(map[string]*Node)
	for _, c := range children {
		byName[c.Name] = c
	}

	album, ok := byName["Album"]
	if !ok || !album.IsFolder {
		t.Fatal("expected folder Album under root")
	}
	loose, ok := byName["loose.flac"]
	if !ok || loose.MimeType != "audio/flac" {
		t.Fatalf("expected loose.flac with flac MIME, got %+v", loose)
	}
	if loose.Storage != root.Storage {
		t.Error("files on the same device share a storage identity")
	}

	albumChildren, err := tree.ListChildren(album.ID)
	if err != nil {
		t.Fatalf("ListChildren(album): %v", err)
	}
	if len(albumChildren) != 2 {
		t.Fatalf("expected 2 album children, got %d", len(albumChildren))
	}
}

func TestOpenLocalStableIDsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mp3"), "audio")

	first, err := OpenLocal(dir)
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}
	second, err := OpenLocal(dir)
	if err != nil {
		t.Fatalf("OpenLocal again: %v", err)
	}

	firstRoot, _ := first.Root()
	secondRoot, _ := second.Root()
	firstChildren, _ := first.ListChildren(firstRoot.ID)
	secondChildren, _ := second.ListChildren(secondRoot.ID)

	if firstRoot.ID != secondRoot.ID {
		t.Error("root id must be stable across runs")
	}
	if firstChildren[0].ID != secondChildren[0].ID {
		t.Error("file ids must be stable across runs")
	}
}

func TestOpenLocalReadsContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mp3"), "the content")

	tree, err := OpenLocal(dir)
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}
	root, _ := tree.Root()
	children, _ := tree.ListChildren(root.ID)

	r, err := tree.Open(children[0].ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "the content" {
		t.Errorf("expected file content, got %q", data)
	}
}

func TestOpenLocalMissingRoot(t *testing.T) {
	if _, err := OpenLocal(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Error("expected an error for a missing root")
	}
}

func TestGetByIDUnknown(t *testing.T) {
	tree, err := OpenLocal(t.TempDir())
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}
	nodes, err := tree.GetByID(123456789)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(nodes) != 0 {
		t.Error("unknown id must yield zero nodes")
	}
}
