//go:build !linux && !darwin

package fstree

import "io/fs"

// nodeID falls back to a path hash on platforms without Stat_t. A moved file
// then changes id and is handled as a delete plus add by the reconciler.
func nodeID(path string, _ fs.FileInfo) int64 {
	return pathID(path)
}

func storageIdentity(_ string, _ fs.FileInfo) string {
	return "local"
}
