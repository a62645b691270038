package walk

import (
	"fmt"
	"os"
	"path/filepath"
)

// WildcardExtension is the sentinel filter value matching any file extension.
const WildcardExtension = ".*"

// DefaultExcludedDirs are the directory names pruned from file searches when
// a [Filter] does not name its own: version-control metadata and tooling
// caches.
//
//nolint:gochecknoglobals
var DefaultExcludedDirs = []string{".git", ".hg", ".svn", ".cache", "node_modules"}

// Filter narrows a file search. A nil Extensions slice matches everything
// (the same as [WildcardExtension]); a nil ExcludedDirs slice falls back to
// [DefaultExcludedDirs]. A directory whose name is excluded is pruned with
// its whole subtree, at any depth.
type Filter struct {
	Extensions   []string
	ExcludedDirs []string
}

// FileIterator is a lazy, one-shot cursor over the files beneath a root
// that pass a [Filter]. It is produced by [Handler.Files]; traversal is
// depth-first, with sibling order unspecified.
type FileIterator struct {
	osOps    osProvider
	filter   Filter
	excluded map[string]struct{}

	stack []*fileFrame
	path  string
	err   error
}

// fileFrame is a suspended position within one directory's entry listing.
type fileFrame struct {
	path    string
	entries []os.DirEntry
	next    int
	listed  bool
}

// Files returns a [FileIterator] over the files beneath root matching the
// given [Filter]. The root listing happens lazily on the first call to
// [FileIterator.Next]; listing failures (including a nonexistent root)
// surface through [FileIterator.Err].
func (h *Handler) Files(root string, filter Filter) *FileIterator {
	if filter.Extensions == nil {
		filter.Extensions = []string{WildcardExtension}
	}
	if filter.ExcludedDirs == nil {
		filter.ExcludedDirs = DefaultExcludedDirs
	}

	excluded := make(map[string]struct{}, len(filter.ExcludedDirs))
	for _, name := range filter.ExcludedDirs {
		excluded[name] = struct{}{}
	}

	return &FileIterator{
		osOps:    h.OSOps,
		filter:   filter,
		excluded: excluded,
		stack: []*fileFrame{
			{path: root},
		},
	}
}

// Next advances the cursor to the next matching file, reporting whether one
// was found. Once Next has returned false, the sequence is exhausted;
// [FileIterator.Err] distinguishes completion from failure.
func (it *FileIterator) Next() bool {
	if it.err != nil {
		return false
	}

	for len(it.stack) > 0 {
		top := it.stack[len(it.stack)-1]

		if !top.listed {
			entries, err := it.osOps.ReadDir(top.path)
			if err != nil {
				it.err = fmt.Errorf("(walk-files) failed to readdir: %w", err)
				it.stack = nil

				return false
			}
			top.entries = entries
			top.listed = true
		}

		if top.next >= len(top.entries) {
			it.stack = it.stack[:len(it.stack)-1]

			continue
		}

		entry := top.entries[top.next]
		top.next++

		path := joinEntry(top.path, entry)

		if entry.IsDir() {
			if _, skip := it.excluded[entry.Name()]; !skip {
				it.stack = append(it.stack, &fileFrame{path: path})
			}

			continue
		}

		if MatchesAnyExtension(path, it.filter.Extensions) {
			it.path = path

			return true
		}
	}

	return false
}

// Path returns the file the cursor produced on the last successful call to
// [FileIterator.Next].
func (it *FileIterator) Path() string {
	return it.path
}

// Err returns the error that terminated the sequence, if any.
func (it *FileIterator) Err() error {
	return it.err
}

// MatchesAnyExtension reports whether path carries one of the given
// extensions (with leading dot, e.g. ".txt"). [WildcardExtension] matches
// any path.
func MatchesAnyExtension(path string, extensions []string) bool {
	for _, extension := range extensions {
		if extension == WildcardExtension || filepath.Ext(path) == extension {
			return true
		}
	}

	return false
}
