package sweep_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsweep/fsweep/internal/sweep"
	"github.com/fsweep/fsweep/pathing"
	"github.com/fsweep/fsweep/sysfs"
	"github.com/fsweep/fsweep/walk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler() *sweep.Handler {
	osProvider := &sysfs.OS{}
	unixProvider := &sysfs.Unix{}

	return sweep.NewHandler(
		walk.NewHandler(osProvider),
		pathing.NewHandler(osProvider, unixProvider),
		unixProvider,
	)
}

// buildTree creates root/{p/{x,y}, c/file} for the sweeping tests.
func buildTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "p", "x"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "p", "y"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "c"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c", "file"), []byte("x"), 0o644))

	return root
}

// TestSweep_RemovesDynamicParents tests that the sweep removes leaves and
// the parents those removals empty, in one pass.
func TestSweep_RemovesDynamicParents(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	root := buildTree(t)

	report, err := handler.Sweep(context.Background(), root, sweep.Options{Recursive: true})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Found, "x, y and the emptied p")
	assert.Equal(t, 3, report.Removed)
	assert.Equal(t, 0, report.Skipped)
	assert.False(t, report.DryRun)

	_, err = os.Stat(filepath.Join(root, "p"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = os.Stat(filepath.Join(root, "c", "file"))
	assert.NoError(t, err, "occupied subtrees must survive")

	progress := handler.Progress()
	assert.True(t, progress.HasFinished)
	assert.Equal(t, uint64(3), progress.FoundDirs)
	assert.Equal(t, uint64(3), progress.RemovedDirs)
}

// TestSweep_DryRun tests that a dry run removes nothing and, since nothing
// is removed, does not report parents that would only become empty.
func TestSweep_DryRun(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	root := buildTree(t)

	report, err := handler.Sweep(context.Background(), root, sweep.Options{Recursive: true, DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Found, "only the leaves x and y")
	assert.Equal(t, 0, report.Removed)
	assert.Equal(t, 2, report.Skipped)
	assert.True(t, report.DryRun)

	_, err = os.Stat(filepath.Join(root, "p", "x"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "p", "y"))
	assert.NoError(t, err)
}

// TestSweep_Shallow tests non-recursive sweeping of direct children only.
func TestSweep_Shallow(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	root := buildTree(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))

	report, err := handler.Sweep(context.Background(), root, sweep.Options{Recursive: false})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Found)
	assert.Equal(t, 1, report.Removed)

	_, err = os.Stat(filepath.Join(root, "p", "x"))
	assert.NoError(t, err, "nested directories are out of scope without recursion")
}

// TestSweep_InvalidRoot tests fail-fast validation passthrough.
func TestSweep_InvalidRoot(t *testing.T) {
	t.Parallel()

	handler := newHandler()

	_, err := handler.Sweep(context.Background(), filepath.Join(t.TempDir(), "missing"), sweep.Options{Recursive: true})
	assert.ErrorIs(t, err, walk.ErrNotADirectory)
}

// TestSweep_Canceled tests that cancellation between pulls aborts the run
// with a partial report.
func TestSweep_Canceled(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	root := buildTree(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := handler.Sweep(ctx, root, sweep.Options{Recursive: true})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.Removed)
}
