package model

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// PageRef identifies a created remote page.
type PageRef struct {
	// Handle is the remote page identifier returned at creation time.
	Handle string `json:"handle"`

	// URL is the browseable URL for the page. It is recorded at creation
	// so link resolution never needs the remote client.
	URL string `json:"url"`
}

// Mapping is the filename to remote reference table produced by the creation
// phase and consumed read-only by the link-resolution and move phases.
//
// Design decision: The mapping is write-once per key and explicitly sealed
// between the creation phase and the later phases. The original design
// threaded one mutable map through all phases; sealing makes the
// "fully populated before resolution begins" property a checked invariant
// rather than a convention.
//
// Keys are normalized to NFC so documents whose names arrive in decomposed
// form (common for wiki page names with diacritics) still resolve.
type Mapping struct {
	refs   map[string]PageRef
	sealed bool
}

// NewMapping returns an empty, unsealed mapping.
func NewMapping() *Mapping {
	return &Mapping{refs: make(map[string]PageRef)}
}

// Put records the remote reference for a filename. It fails if the mapping
// is sealed or the filename was already assigned.
func (m *Mapping) Put(filename string, ref PageRef) error {
	if m.sealed {
		return fmt.Errorf("put %q: %w", filename, ErrMappingSealed)
	}
	key := norm.NFC.String(filename)
	if _, ok := m.refs[key]; ok {
		return fmt.Errorf("put %q: %w", filename, ErrDuplicateMapping)
	}
	m.refs[key] = ref
	return nil
}

// Seal freezes the mapping. Further Put calls fail; lookups are unaffected.
// Sealing twice is a no-op.
func (m *Mapping) Seal() {
	m.sealed = true
}

// Sealed reports whether Seal has been called.
func (m *Mapping) Sealed() bool {
	return m.sealed
}

// Resolve returns the remote reference recorded for a filename.
func (m *Mapping) Resolve(filename string) (PageRef, bool) {
	ref, ok := m.refs[norm.NFC.String(filename)]
	return ref, ok
}

// Len returns the number of mapped filenames.
func (m *Mapping) Len() int {
	return len(m.refs)
}

// Filenames returns the mapped filenames in unspecified order. Intended for
// reports and tests, not for phase logic.
func (m *Mapping) Filenames() []string {
	names := make([]string, 0, len(m.refs))
	for name := range m.refs {
		names = append(names, name)
	}
	return names
}
