// Package verify decides whether two files carry identical content. It is
// the confirmation step a deduplication pipeline runs after the cheap
// filters: sizes first, then a weak partial digest, then a full streamed
// BLAKE3 comparison of both files.
package verify

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/fsweep/fsweep/hashing"
	"github.com/zeebo/blake3"
)

// osProvider defines the operating system methods needed for comparing files.
type osProvider interface {
	Stat(name string) (os.FileInfo, error)
	Open(name string) (*os.File, error)
}

// weakSummer defines the partial digest method used as a pre-filter,
// implemented by [hashing.Handler].
type weakSummer interface {
	WeakSum(path string, fileSize int64, chunkSize int) (string, error)
}

// Handler is the principal implementation of the verification service.
type Handler struct {
	OSOps   osProvider
	HashOps weakSummer
}

// NewHandler returns a pointer to a new verification [Handler].
func NewHandler(osOps osProvider, hashOps weakSummer) *Handler {
	return &Handler{
		OSOps:   osOps,
		HashOps: hashOps,
	}
}

///nolint:containedctx
type contextReader struct {
	ctx    context.Context
	reader io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	select {
	case <-cr.ctx.Done():
		return 0, context.Canceled
	default:
		return cr.reader.Read(p)
	}
}

// FilesEqual reports whether the files at pathA and pathB have identical
// content. Mismatched sizes and mismatched weak digests short-circuit
// without reading the full files; otherwise both are streamed through a
// strong hash. The comparison honors ctx cancellation between reads.
func (v *Handler) FilesEqual(ctx context.Context, pathA string, pathB string) (bool, error) {
	infoA, err := v.OSOps.Stat(pathA)
	if err != nil {
		return false, fmt.Errorf("(verify) failed to stat: %w", err)
	}

	infoB, err := v.OSOps.Stat(pathB)
	if err != nil {
		return false, fmt.Errorf("(verify) failed to stat: %w", err)
	}

	if infoA.Size() != infoB.Size() {
		return false, nil
	}
	if infoA.Size() == 0 {
		return true, nil
	}

	weakA, err := v.HashOps.WeakSum(pathA, infoA.Size(), hashing.DefaultChunkSize)
	if err != nil {
		return false, fmt.Errorf("(verify) failed to weak-hash: %w", err)
	}

	weakB, err := v.HashOps.WeakSum(pathB, infoB.Size(), hashing.DefaultChunkSize)
	if err != nil {
		return false, fmt.Errorf("(verify) failed to weak-hash: %w", err)
	}

	if weakA != weakB {
		return false, nil
	}

	sumA, err := v.strongSum(ctx, pathA)
	if err != nil {
		return false, err
	}

	sumB, err := v.strongSum(ctx, pathB)
	if err != nil {
		return false, err
	}

	return sumA == sumB, nil
}

// strongSum streams the file at path through a full-content BLAKE3 digest.
func (v *Handler) strongSum(ctx context.Context, path string) (string, error) {
	f, err := v.OSOps.Open(path)
	if err != nil {
		return "", fmt.Errorf("(verify) failed to open: %w", err)
	}
	defer f.Close()

	hasher := blake3.New()

	ctxReader := &contextReader{
		ctx:    ctx,
		reader: f,
	}

	if _, err := io.Copy(hasher, ctxReader); err != nil {
		return "", fmt.Errorf("(verify) failed to read: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
