// Package sweep drives the empty-directory finder to completion: it removes
// every yielded directory before pulling the next one, so that parents
// emptied by those removals are detected and removed on the same pass.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsweep/fsweep/walk"
	"golang.org/x/sys/unix"
)

// walkProvider defines the traversal methods needed for sweeping,
// implemented by [walk.Handler].
type walkProvider interface {
	EmptyDirs(root string, recursive bool) (*walk.EmptyDirIterator, error)
}

// pathingProvider defines the removal methods needed for sweeping,
// implemented by [pathing.Handler].
type pathingProvider interface {
	TryRemoveDir(path string) bool
}

// unixProvider defines the Statfs methods needed for free space reporting.
type unixProvider interface {
	Statfs(path string, buf *unix.Statfs_t) error
}

// Options control a single sweep run.
type Options struct {
	// Recursive descends into the whole tree beneath the root; without it
	// only the root's direct children are considered.
	Recursive bool

	// DryRun reports removable directories without removing them. Since
	// nothing is removed, parents that would only become empty through
	// earlier removals are not reported.
	DryRun bool
}

// Progress is a point-in-time snapshot of a running sweep, for consumption
// by a user interface. It is meant to be passed by value.
type Progress struct {
	FoundDirs   uint64
	RemovedDirs uint64
	SkippedDirs uint64
	CurrentPath string
	StartTime   time.Time
	FinishTime  time.Time
	HasFinished bool
}

// Report summarizes a finished sweep run.
type Report struct {
	Found   int
	Removed int
	Skipped int

	// FreeSpaceBefore and FreeSpaceAfter are the filesystem's available
	// bytes around the run, best-effort (zero when undeterminable).
	FreeSpaceBefore uint64
	FreeSpaceAfter  uint64

	DryRun bool
}

// Handler is the principal implementation of the sweeping service.
type Handler struct {
	WalkOps walkProvider
	PathOps pathingProvider
	UnixOps unixProvider

	mu       sync.RWMutex
	progress Progress
}

// NewHandler returns a pointer to a new sweeping [Handler].
func NewHandler(walkOps walkProvider, pathOps pathingProvider, unixOps unixProvider) *Handler {
	return &Handler{
		WalkOps: walkOps,
		PathOps: pathOps,
		UnixOps: unixOps,
	}
}

// Sweep finds and removes the empty directories beneath root, pulling one
// directory at a time and removing it before the next pull. It honors ctx
// between pulls; on cancellation or traversal failure the partial [Report]
// is returned alongside the error, with removals so far remaining valid.
func (h *Handler) Sweep(ctx context.Context, root string, opts Options) (*Report, error) {
	report := &Report{DryRun: opts.DryRun}

	if free, err := h.diskFree(root); err == nil {
		report.FreeSpaceBefore = free
	}

	h.start()
	defer h.finish()

	it, err := h.WalkOps.EmptyDirs(root, opts.Recursive)
	if err != nil {
		return report, fmt.Errorf("(sweep) %w", err)
	}

	for it.Next() {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("(sweep) canceled: %w", err)
		}

		path := it.Path()
		report.Found++

		switch {
		case opts.DryRun:
			slog.Info("Would remove empty directory.", "path", path)
			report.Skipped++
			h.observe(path, false)

		case h.PathOps.TryRemoveDir(path):
			slog.Debug("Removed empty directory.", "path", path)
			report.Removed++
			h.observe(path, true)

		default:
			slog.Warn("Failure removing empty directory (skipped).", "path", path)
			report.Skipped++
			h.observe(path, false)
		}
	}

	if err := it.Err(); err != nil {
		return report, fmt.Errorf("(sweep) %w", err)
	}

	if free, err := h.diskFree(root); err == nil {
		report.FreeSpaceAfter = free
	}

	return report, nil
}

// Progress returns a snapshot of the running sweep.
func (h *Handler) Progress() Progress {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.progress
}

// start resets the progress for a new run.
func (h *Handler) start() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.progress = Progress{StartTime: time.Now()}
}

// finish marks the progress as completed.
func (h *Handler) finish() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.progress.FinishTime = time.Now()
	h.progress.HasFinished = true
}

// observe records one yielded directory into the progress.
func (h *Handler) observe(path string, removed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.progress.FoundDirs++
	if removed {
		h.progress.RemovedDirs++
	} else {
		h.progress.SkippedDirs++
	}
	h.progress.CurrentPath = path
}

// diskFree returns the available bytes on the filesystem housing path.
func (h *Handler) diskFree(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := h.UnixOps.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("(sweep-diskfree) failed to statfs: %w", err)
	}

	return stat.Bavail * handleSize(stat.Bsize), nil
}

// handleSize converts a reported block size for multiplication, treating
// impossible negative values as zero.
func handleSize(size int64) uint64 {
	if size < 0 {
		return 0
	}

	return uint64(size)
}
