package hashing

import "errors"

var (
	// ErrInvalidChunkSize is an error that occurs when a given chunk size is
	// zero or negative and impossible to read with.
	ErrInvalidChunkSize = errors.New("invalid chunk size <= 0")

	// ErrInvalidFileSize is an error that occurs when a given filesize is
	// smaller than 0 and impossible to handle in the respective function.
	ErrInvalidFileSize = errors.New("invalid file size < 0")
)
