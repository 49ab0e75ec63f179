// Package fstree abstracts the externally-mutable file tree the indexer
// reconciles against. Implementations assign stable integer ids to files and
// folders and report a per-node storage identity so that callers can detect
// mount points and shares nested under a root.
package fstree

import (
	"io"
	"path/filepath"
	"strings"
)

// Node is one file or folder in the tree
type Node struct {
	ID       int64
	Name     string
	ParentID int64 // 0 for the root
	MimeType string
	Storage  string // storage identity; differs across mounts and shares
	IsFolder bool
	Size     int64
	MTime    int64 // unix seconds
}

// Tree lists and resolves nodes. GetByID may return zero nodes when the file
// is no longer reachable, and more than one only in multi-mount edge cases.
type Tree interface {
	Root() (*Node, error)
	ListChildren(folderID int64) ([]*Node, error)
	GetByID(id int64) ([]*Node, error)
	Open(id int64) (io.ReadSeekCloser, error)
}

var mimeByExt = map[string]string{
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "application/ogg", // generic container type
	".opus": "audio/opus",
	".wav":  "audio/wav",
	".aiff": "audio/aiff",
	".aif":  "audio/aiff",
	".wma":  "audio/x-ms-wma",
	".ape":  "audio/x-ape",
	".wv":   "audio/x-wavpack",
	".mpc":  "audio/x-musepack",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
}

// MimeFromName derives a MIME type from the file extension
func MimeFromName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mime, ok := mimeByExt[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsAudio reports whether the MIME type is audio-like, including the
// generic ogg container type
func IsAudio(mime string) bool {
	return strings.HasPrefix(mime, "audio/") || mime == "application/ogg"
}

// IsImage reports whether the MIME type is an image type
func IsImage(mime string) bool {
	return strings.HasPrefix(mime, "image/")
}
