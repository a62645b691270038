package walk

import "errors"

var (
	// ErrNotADirectory is an error that occurs when a traversal root does
	// not exist or is not a directory. It is always reported before any
	// traversal work begins.
	ErrNotADirectory = errors.New("root is not a directory")
)
