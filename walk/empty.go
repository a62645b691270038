package walk

import (
	"fmt"
)

// EmptyDirIterator is a lazy, one-shot cursor over the empty directories
// beneath a root. It is produced by [Handler.EmptyDirs] and driven entirely
// by the consumer calling [EmptyDirIterator.Next].
//
// In recursive mode the traversal is strict post-order: the most deeply
// nested empty directories are yielded before their ancestors, and a
// directory's emptiness is evaluated with a fresh listing only after all of
// its subdirectories have been fully enumerated. A consumer that removes
// each yielded directory before the next call to Next therefore causes
// parents emptied by those removals to be detected on the same pass. A
// consumer that buffers results and deletes later will not see such parents.
//
// Sibling order is unspecified; it depends on the underlying directory
// listing order and must not be assumed stable.
type EmptyDirIterator struct {
	handler   *Handler
	recursive bool

	stack []*emptyDirFrame
	path  string
	err   error
}

// emptyDirFrame is a suspended position within one directory: the directory
// itself and the subdirectories not yet descended into.
type emptyDirFrame struct {
	path    string
	pending []string
	listed  bool
}

// EmptyDirs validates that root is an existing directory and returns an
// [EmptyDirIterator] over its empty directories. With recursive set, the
// whole tree is traversed post-order and root itself is yielded last if it
// is (by then) empty; without it, only root's direct children are inspected
// for emptiness and root itself is never yielded.
//
// Validation failures are reported before any traversal begins, wrapping
// [ErrNotADirectory]. Listing failures during traversal surface through
// [EmptyDirIterator.Err].
func (h *Handler) EmptyDirs(root string, recursive bool) (*EmptyDirIterator, error) {
	info, err := h.OSOps.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("(walk-empty) %q: %w: %w", root, ErrNotADirectory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("(walk-empty) %q: %w", root, ErrNotADirectory)
	}

	return &EmptyDirIterator{
		handler:   h,
		recursive: recursive,
		stack: []*emptyDirFrame{
			{path: root},
		},
	}, nil
}

// Next advances the cursor to the next empty directory, reporting whether
// one was found. Once Next has returned false, the sequence is exhausted;
// [EmptyDirIterator.Err] distinguishes completion from failure.
func (it *EmptyDirIterator) Next() bool {
	if it.err != nil {
		return false
	}

	for len(it.stack) > 0 {
		top := it.stack[len(it.stack)-1]

		if !top.listed {
			pending, err := it.handler.childDirs(top.path)
			if err != nil {
				return it.fail(fmt.Errorf("(walk-empty) failed to readdir: %w", err))
			}
			top.pending = pending
			top.listed = true
		}

		if !it.recursive {
			return it.nextShallow(top)
		}

		if len(top.pending) > 0 {
			child := top.pending[0]
			top.pending = top.pending[1:]
			it.stack = append(it.stack, &emptyDirFrame{path: child})

			continue
		}

		// All subdirectories enumerated: re-list, since earlier yields may
		// have been removed by the consumer in the meantime.
		it.stack = it.stack[:len(it.stack)-1]

		entries, err := it.handler.OSOps.ReadDir(top.path)
		if err != nil {
			return it.fail(fmt.Errorf("(walk-empty) failed to readdir: %w", err))
		}
		if len(entries) == 0 {
			it.path = top.path

			return true
		}
	}

	return false
}

// nextShallow inspects the root's remaining direct children for emptiness,
// without descent. Only ever operates on the root frame.
func (it *EmptyDirIterator) nextShallow(root *emptyDirFrame) bool {
	for len(root.pending) > 0 {
		child := root.pending[0]
		root.pending = root.pending[1:]

		entries, err := it.handler.OSOps.ReadDir(child)
		if err != nil {
			return it.fail(fmt.Errorf("(walk-empty) failed to readdir: %w", err))
		}
		if len(entries) == 0 {
			it.path = child

			return true
		}
	}

	it.stack = nil

	return false
}

// fail records a traversal error and terminates the sequence.
func (it *EmptyDirIterator) fail(err error) bool {
	it.err = err
	it.stack = nil

	return false
}

// Path returns the directory the cursor produced on the last successful
// call to [EmptyDirIterator.Next].
func (it *EmptyDirIterator) Path() string {
	return it.path
}

// Err returns the error that terminated the sequence, if any.
func (it *EmptyDirIterator) Err() error {
	return it.err
}
