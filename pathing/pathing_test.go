package pathing_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsweep/fsweep/pathing"
	"github.com/fsweep/fsweep/sysfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler() *pathing.Handler {
	return pathing.NewHandler(&sysfs.OS{}, &sysfs.Unix{})
}

// TestEnsureDir tests idempotent creation with parents.
func TestEnsureDir(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	path := filepath.Join(t.TempDir(), "a", "b", "c")

	got, err := handler.EnsureDir(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Second call is a no-op.
	got, err = handler.EnsureDir(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

// TestTryRemoveDir tests boolean-only removal semantics.
func TestTryRemoveDir(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	root := t.TempDir()

	empty := filepath.Join(root, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))

	occupied := filepath.Join(root, "occupied")
	require.NoError(t, os.Mkdir(occupied, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(occupied, "file"), []byte("x"), 0o644))

	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.False(t, handler.TryRemoveDir(occupied), "non-empty directory must not be removed")
	assert.False(t, handler.TryRemoveDir(file), "regular files must not be removed")
	assert.False(t, handler.TryRemoveDir(filepath.Join(root, "missing")))

	assert.True(t, handler.TryRemoveDir(empty))
	_, err := os.Stat(empty)
	assert.Error(t, err)

	_, err = os.Stat(file)
	assert.NoError(t, err, "the file must survive the removal attempt")
}

// TestCountEntries tests immediate entry counting.
func TestCountEntries(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	root := t.TempDir()

	count, err := handler.CountEntries(root)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "file"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dir", "nested"), []byte("x"), 0o644))

	count, err = handler.CountEntries(root)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "only immediate entries count")

	_, err = handler.CountEntries(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

// TestIsEmptyDir tests emptiness checking.
func TestIsEmptyDir(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	root := t.TempDir()

	empty, err := handler.IsEmptyDir(root)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(root, "file"), []byte("x"), 0o644))

	empty, err = handler.IsEmptyDir(root)
	require.NoError(t, err)
	assert.False(t, empty)

	_, err = handler.IsEmptyDir(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

// TestChildDirs tests direct subdirectory listing.
func TestChildDirs(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "inner"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "file"), []byte("x"), 0o644))

	dirs, err := handler.ChildDirs(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "a"),
		filepath.Join(root, "b"),
	}, dirs)
}

// TestChildDir tests named child lookup, where absence is not an error.
func TestChildDir(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	root := t.TempDir()

	require.NoError(t, os.Mkdir(filepath.Join(root, "wanted"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "decoy"), []byte("x"), 0o644))

	path, found, err := handler.ChildDir(root, "wanted")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, filepath.Join(root, "wanted"), path)

	path, found, err = handler.ChildDir(root, "absent")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, path)

	// A same-named file is not a child directory.
	_, found, err = handler.ChildDir(root, "decoy")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = handler.ChildDir(filepath.Join(root, "missing"), "x")
	assert.Error(t, err)
}

// TestRelToWorkingDir tests best-effort working-directory normalization.
func TestRelToWorkingDir(t *testing.T) {
	handler := newHandler()

	tmp := t.TempDir()
	t.Chdir(tmp)

	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t,
		filepath.Join("sub", "file"),
		handler.RelToWorkingDir(filepath.Join(wd, "sub", "file")),
	)

	assert.Equal(t, ".", handler.RelToWorkingDir(wd))

	// Paths outside the working directory pass through unchanged.
	assert.Equal(t, "/somewhere/else", handler.RelToWorkingDir("/somewhere/else"))
	assert.Equal(t, filepath.Dir(wd), handler.RelToWorkingDir(filepath.Dir(wd)))

	// Already-relative paths pass through unchanged.
	assert.Equal(t, "some/relative", handler.RelToWorkingDir("some/relative"))
}
