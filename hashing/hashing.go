// Package hashing computes file content digests: full-content strong sums
// (buffered or memory-mapped) used to confirm content identity, and a
// partial weak sum used as a cheap pre-filter before strong hashing.
//
// All digests are 128-bit MD5 sums, encoded as 32 lowercase hex characters.
package hashing

import (
	"crypto/md5" //nolint:gosec
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"

	"golang.org/x/sys/unix"
)

const (
	// EmptySum is the well-known digest of zero-length input. It is returned
	// verbatim for zero-byte files, since a zero-length region cannot be
	// memory-mapped and recomputing a constant on every call is wasteful.
	EmptySum = "d41d8cd98f00b204e9800998ecf8427e"

	// DefaultChunkSize is the read granularity for [Handler.SumFile] and the
	// default partial window for [Handler.WeakSum].
	DefaultChunkSize = 4 * 1024
)

//nolint:gochecknoglobals
var hexSumPattern = regexp.MustCompile(`^[a-fA-F0-9]{32}$`)

// osProvider defines the operating system methods needed for hashing files.
type osProvider interface {
	Stat(name string) (os.FileInfo, error)
	Open(name string) (*os.File, error)
}

// unixProvider defines the memory-mapping methods needed for mapped hashing.
type unixProvider interface {
	Mmap(fd int, offset int64, length int, prot int, flags int) ([]byte, error)
	Munmap(b []byte) error
}

// Handler is the principal implementation of the hashing service.
type Handler struct {
	OSOps   osProvider
	UnixOps unixProvider
}

// NewHandler returns a pointer to a new hashing [Handler].
func NewHandler(osOps osProvider, unixOps unixProvider) *Handler {
	return &Handler{
		OSOps:   osOps,
		UnixOps: unixOps,
	}
}

// SumFile computes the strong digest of a file's full content, reading it in
// chunkSize portions. Zero-byte files always digest to [EmptySum].
func (h *Handler) SumFile(path string, chunkSize int) (string, error) {
	if chunkSize <= 0 {
		return "", ErrInvalidChunkSize
	}

	info, err := h.OSOps.Stat(path)
	if err != nil {
		return "", fmt.Errorf("(hash-sum) failed to stat: %w", err)
	}
	if info.Size() == 0 {
		return EmptySum, nil
	}

	slog.Debug("Computing strong hash (buffered).", "path", path)

	f, err := h.OSOps.Open(path)
	if err != nil {
		return "", fmt.Errorf("(hash-sum) failed to open: %w", err)
	}
	defer f.Close()

	hasher := md5.New() //nolint:gosec
	if _, err := io.CopyBuffer(hasher, f, make([]byte, chunkSize)); err != nil {
		return "", fmt.Errorf("(hash-sum) failed to read: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// SumFileMapped computes the strong digest of a file's full content through
// a read-only memory mapping. It produces the exact same digest as
// [Handler.SumFile]; the mapping is an optimization for large files on fast
// storage. Zero-byte files always digest to [EmptySum], as empty regions
// cannot be mapped.
func (h *Handler) SumFileMapped(path string) (string, error) {
	info, err := h.OSOps.Stat(path)
	if err != nil {
		return "", fmt.Errorf("(hash-mmap) failed to stat: %w", err)
	}
	if info.Size() == 0 {
		return EmptySum, nil
	}

	slog.Debug("Computing strong hash (mapped).", "path", path)

	f, err := h.OSOps.Open(path)
	if err != nil {
		return "", fmt.Errorf("(hash-mmap) failed to open: %w", err)
	}
	defer f.Close()

	data, err := h.UnixOps.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return "", fmt.Errorf("(hash-mmap) failed to map: %w", err)
	}
	defer h.UnixOps.Munmap(data) //nolint:errcheck

	sum := md5.Sum(data) //nolint:gosec

	return hex.EncodeToString(sum[:]), nil
}

// WeakSum computes a fast partial digest of a file: for fileSize larger than
// chunkSize, the digested bytes are exactly file[0:chunkSize] followed by
// file[fileSize-chunkSize:fileSize]; otherwise the whole file is digested.
// It trades collision resistance for speed when pre-filtering large files.
func (h *Handler) WeakSum(path string, fileSize int64, chunkSize int) (string, error) {
	if chunkSize <= 0 {
		return "", ErrInvalidChunkSize
	}
	if fileSize < 0 {
		return "", ErrInvalidFileSize
	}

	f, err := h.OSOps.Open(path)
	if err != nil {
		return "", fmt.Errorf("(hash-weak) failed to open: %w", err)
	}
	defer f.Close()

	hasher := md5.New() //nolint:gosec

	if fileSize <= int64(chunkSize) {
		if _, err := io.Copy(hasher, f); err != nil {
			return "", fmt.Errorf("(hash-weak) failed to read: %w", err)
		}

		return hex.EncodeToString(hasher.Sum(nil)), nil
	}

	buf := make([]byte, chunkSize)

	if _, err := io.ReadFull(f, buf); err != nil {
		return "", fmt.Errorf("(hash-weak) failed to read head: %w", err)
	}
	hasher.Write(buf)

	if _, err := f.Seek(-int64(chunkSize), io.SeekEnd); err != nil {
		return "", fmt.Errorf("(hash-weak) failed to seek tail: %w", err)
	}
	if _, err := io.ReadFull(f, buf); err != nil {
		return "", fmt.Errorf("(hash-weak) failed to read tail: %w", err)
	}
	hasher.Write(buf)

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// IsHexSum reports whether s has the shape of a digest produced by this
// package: exactly 32 hex characters of either case.
func IsHexSum(s string) bool {
	return hexSumPattern.MatchString(s)
}
