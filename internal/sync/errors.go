package sync

import "errors"

// Mapping contract errors.
// The creation phase records every page it creates, so a lookup miss in a
// later phase means the hierarchy and the mapping disagree. That is a bug
// in the caller, not a remote failure, and the run stops immediately.
var (
	// ErrParentNotMapped is returned when a page's parent filename has no
	// mapping entry.
	ErrParentNotMapped = errors.New("parent page was never created")

	// ErrPageNotMapped is returned when a page's own filename has no
	// mapping entry.
	ErrPageNotMapped = errors.New("page was never created")

	// ErrInvalidKind is returned when a descriptor carries a kind outside
	// the root/node/leaf set.
	ErrInvalidKind = errors.New("descriptor has an invalid kind")
)
