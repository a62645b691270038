// Package walk implements lazy, pull-driven directory tree traversals:
// a filtered file search and a post-order empty-directory finder.
//
// Both traversals are exposed as one-shot iterators. No work happens past
// the last call to Next, so a consumer may stop early at no further cost;
// a listing failure surfaces through Err and terminates the sequence, with
// results yielded before the failure remaining valid.
package walk

import (
	"os"
	"path/filepath"
)

// osProvider defines the operating system methods needed for traversals.
type osProvider interface {
	Stat(name string) (os.FileInfo, error)
	ReadDir(name string) ([]os.DirEntry, error)
}

// Handler is the principal implementation of the traversal service.
type Handler struct {
	OSOps osProvider
}

// NewHandler returns a pointer to a new traversal [Handler].
func NewHandler(osOps osProvider) *Handler {
	return &Handler{
		OSOps: osOps,
	}
}

// childDirs lists the paths of the direct subdirectories of path.
func (h *Handler) childDirs(path string) ([]string, error) {
	entries, err := h.OSOps.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, joinEntry(path, entry))
		}
	}

	return dirs, nil
}

// joinEntry joins a directory path with one of its listed entries.
func joinEntry(dir string, entry os.DirEntry) string {
	return filepath.Join(dir, entry.Name())
}
