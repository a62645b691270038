package verify_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsweep/fsweep/hashing"
	"github.com/fsweep/fsweep/sysfs"
	"github.com/fsweep/fsweep/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler() *verify.Handler {
	osProvider := &sysfs.OS{}

	return verify.NewHandler(osProvider, hashing.NewHandler(osProvider, &sysfs.Unix{}))
}

// writeFile creates a file with the given content inside a fresh directory.
func writeFile(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	return path
}

// TestFilesEqual_Identical tests that byte-identical files compare equal.
func TestFilesEqual_Identical(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	content := make([]byte, 3*hashing.DefaultChunkSize)
	for i := range content {
		content[i] = byte(i % 253)
	}

	pathA := writeFile(t, content)
	pathB := writeFile(t, content)

	equal, err := handler.FilesEqual(context.Background(), pathA, pathB)
	require.NoError(t, err)
	assert.True(t, equal)
}

// TestFilesEqual_DifferentSizes tests the size short-circuit.
func TestFilesEqual_DifferentSizes(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	pathA := writeFile(t, []byte("short"))
	pathB := writeFile(t, []byte("a bit longer"))

	equal, err := handler.FilesEqual(context.Background(), pathA, pathB)
	require.NoError(t, err)
	assert.False(t, equal)
}

// TestFilesEqual_SameSizeDifferentContent tests that equally sized files
// with differing bytes compare unequal, including bytes differing only in
// the middle (past the weak pre-filter's window).
func TestFilesEqual_SameSizeDifferentContent(t *testing.T) {
	t.Parallel()

	handler := newHandler()

	contentA := make([]byte, 3*hashing.DefaultChunkSize)
	contentB := make([]byte, 3*hashing.DefaultChunkSize)
	copy(contentB, contentA)
	contentB[len(contentB)/2] = 0xFF

	pathA := writeFile(t, contentA)
	pathB := writeFile(t, contentB)

	equal, err := handler.FilesEqual(context.Background(), pathA, pathB)
	require.NoError(t, err)
	assert.False(t, equal)
}

// TestFilesEqual_EmptyFiles tests that two zero-byte files compare equal
// without any reads.
func TestFilesEqual_EmptyFiles(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	pathA := writeFile(t, nil)
	pathB := writeFile(t, nil)

	equal, err := handler.FilesEqual(context.Background(), pathA, pathB)
	require.NoError(t, err)
	assert.True(t, equal)
}

// TestFilesEqual_Canceled tests that an already-canceled context aborts the
// strong comparison.
func TestFilesEqual_Canceled(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	content := make([]byte, 3*hashing.DefaultChunkSize)

	pathA := writeFile(t, content)
	pathB := writeFile(t, content)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := handler.FilesEqual(ctx, pathA, pathB)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestFilesEqual_MissingFile tests stat failure propagation.
func TestFilesEqual_MissingFile(t *testing.T) {
	t.Parallel()

	handler := newHandler()
	pathA := writeFile(t, []byte("x"))

	_, err := handler.FilesEqual(context.Background(), pathA, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
