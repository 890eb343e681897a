package hierarchy

import "errors"

var (
	// ErrRootNotFound is returned when the source root does not exist.
	ErrRootNotFound = errors.New("hierarchy: source root does not exist")

	// ErrRootNotDirectory is returned when the source root exists but is
	// not a directory.
	ErrRootNotDirectory = errors.New("hierarchy: source root is not a directory")
)
