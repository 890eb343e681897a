package model

import "path/filepath"

// IndexFilename is the per-directory document that represents the directory
// itself as a page. It may be absent on disk; the hierarchy still emits a
// descriptor for it and the missing content is exported as an empty body.
const IndexFilename = "index.md"

// MarkdownExt is the file extension that marks a document as part of the
// exported hierarchy.
const MarkdownExt = ".md"

// Kind classifies a page descriptor within the hierarchy.
//
// The set is closed: every phase of the sync handles exactly these three
// values and treats anything else as a programming error. The zero value is
// deliberately invalid so an uninitialized descriptor cannot masquerade as a
// leaf.
type Kind int

const (
	// KindRoot is the single top-level index page of a run. Its descriptor
	// always points at <dir>/index.md and has no parent filename.
	KindRoot Kind = iota + 1

	// KindNode is a subdirectory's index page, real or synthetic.
	KindNode

	// KindLeaf is a non-index Markdown document. Leaves have no children
	// of their own in this model.
	KindLeaf
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindNode:
		return "node"
	case KindLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the three defined kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindRoot, KindNode, KindLeaf:
		return true
	default:
		return false
	}
}

// Page describes one local document (or synthetic directory index) destined
// to become a remote page. Descriptors carry only local identity; remote
// handles live in the Mapping so the hierarchy stays a pure description of
// the filesystem.
type Page struct {
	// Kind is the descriptor classification. Exactly one KindRoot exists
	// per hierarchy.
	Kind Kind `json:"kind"`

	// ParentFilename is the local path of the owning index document.
	// Empty for the root descriptor. For every other descriptor it names
	// another descriptor's Filename that appears earlier in walk order.
	ParentFilename string `json:"parent_filename,omitempty"`

	// Filename is the local path this descriptor represents. For root and
	// node descriptors this is always <dir>/index.md even when that file
	// does not exist on disk.
	Filename string `json:"filename"`
}

// NewPage returns a descriptor of the given kind.
func NewPage(kind Kind, parentFilename, filename string) *Page {
	return &Page{
		Kind:           kind,
		ParentFilename: parentFilename,
		Filename:       filename,
	}
}

// IsIndex reports whether the descriptor represents a directory index
// document rather than a leaf.
func (p *Page) IsIndex() bool {
	return filepath.Base(p.Filename) == IndexFilename
}

// Title derives the remote page title from the local path: index documents
// take the containing directory's base name, leaves take the file's base
// name including its extension.
func (p *Page) Title() string {
	if p.IsIndex() {
		return filepath.Base(filepath.Dir(p.Filename))
	}
	return filepath.Base(p.Filename)
}

// Dir returns the directory containing the descriptor's document. Link
// references starting with "./" are resolved against this directory.
func (p *Page) Dir() string {
	return filepath.Dir(p.Filename)
}
