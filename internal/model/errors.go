package model

import "errors"

var (
	// ErrMappingSealed is returned when a write is attempted on a mapping
	// that has already been sealed for the link-resolution and move phases.
	ErrMappingSealed = errors.New("model: mapping is sealed")

	// ErrDuplicateMapping is returned when a filename is assigned a remote
	// reference twice. Each filename receives its handle exactly once
	// during the creation phase.
	ErrDuplicateMapping = errors.New("model: filename already mapped")
)
