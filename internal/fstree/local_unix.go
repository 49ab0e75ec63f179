//go:build linux || darwin

package fstree

import (
	"fmt"
	"hash/fnv"
	"io/fs"
	"syscall"
)

// nodeID derives a stable id from device and inode, so that a rename within
// the same filesystem keeps the id. Falls back to a path hash when the stat
// data is not available.
func nodeID(path string, info fs.FileInfo) int64 {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return pathID(path)
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%d", stat.Dev, stat.Ino)
	return int64(h.Sum64() &^ (1 << 63))
}

// storageIdentity identifies the filesystem a node lives on; nodes on a
// different device than the root are mount points or share targets
func storageIdentity(path string, info fs.FileInfo) string {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "local"
	}
	return fmt.Sprintf("local:%d", stat.Dev)
}
