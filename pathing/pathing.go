// Package pathing provides stateless single-purpose directory and path
// helpers: existence guarantees, best-effort removal, emptiness checks,
// child lookups and working-directory-relative normalization.
package pathing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// osProvider defines the operating system methods needed for path helpers.
type osProvider interface {
	ReadDir(name string) ([]os.DirEntry, error)
	MkdirAll(path string, perm os.FileMode) error
	Getwd() (string, error)
}

// unixProvider defines the Unix methods needed for directory removal.
type unixProvider interface {
	Rmdir(path string) error
}

// Handler is the principal implementation of the path helper service.
type Handler struct {
	OSOps   osProvider
	UnixOps unixProvider
}

// NewHandler returns a pointer to a new pathing [Handler].
func NewHandler(osOps osProvider, unixOps unixProvider) *Handler {
	return &Handler{
		OSOps:   osOps,
		UnixOps: unixOps,
	}
}

// EnsureDir guarantees that path is an existing directory, creating it and
// any missing parents if necessary. It is idempotent and returns the same
// path for chaining.
func (h *Handler) EnsureDir(path string) (string, error) {
	if err := h.OSOps.MkdirAll(path, os.FileMode(0o777)); err != nil {
		return "", fmt.Errorf("(path-ensure) failed to mkdir: %w", err)
	}

	return path, nil
}

// TryRemoveDir attempts to remove path as a directory, which only succeeds
// when it is empty. It reports success as a boolean and never returns an
// error: non-empty, missing, permission-denied and not-a-directory all
// normalize to false.
func (h *Handler) TryRemoveDir(path string) bool {
	return h.UnixOps.Rmdir(path) == nil
}

// CountEntries returns the number of files and directories directly under
// the directory at path.
func (h *Handler) CountEntries(path string) (int, error) {
	entries, err := h.OSOps.ReadDir(path)
	if err != nil {
		return 0, fmt.Errorf("(path-count) failed to readdir: %w", err)
	}

	return len(entries), nil
}

// IsEmptyDir reports whether path is a directory with no entries.
func (h *Handler) IsEmptyDir(path string) (bool, error) {
	entries, err := h.OSOps.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("(path-isempty) failed to readdir: %w", err)
	}

	return len(entries) == 0, nil
}

// ChildDirs returns the paths of all direct subdirectories of path.
func (h *Handler) ChildDirs(path string) ([]string, error) {
	entries, err := h.OSOps.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("(path-children) failed to readdir: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(path, entry.Name()))
		}
	}

	return dirs, nil
}

// ChildDir returns the directory named name directly under parent. An
// existing parent without such a child is not an error: the second return
// value reports whether the child was found.
func (h *Handler) ChildDir(parent string, name string) (string, bool, error) {
	entries, err := h.OSOps.ReadDir(parent)
	if err != nil {
		return "", false, fmt.Errorf("(path-child) failed to readdir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() && entry.Name() == name {
			return filepath.Join(parent, entry.Name()), true, nil
		}
	}

	return "", false, nil
}

// RelToWorkingDir returns path relative to the current working directory
// when path is the working directory itself or one of its descendants.
// In all other cases (including failure to establish the working directory)
// the path is returned unchanged; this helper is best-effort only.
func (h *Handler) RelToWorkingDir(path string) string {
	wd, err := h.OSOps.Getwd()
	if err != nil {
		return path
	}

	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}

	return rel
}
