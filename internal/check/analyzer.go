package check

import (
	"context"

	"github.com/nao1215/notiontree/internal/model"
)

// Analyzer category constants.
const (
	// CategoryLinks is used by analyzers that validate link references.
	CategoryLinks = "links"
	// CategoryMetadata is used by analyzers that inspect referenced file metadata.
	CategoryMetadata = "metadata"
	// CategoryStructure is used by analyzers that validate the tree shape.
	CategoryStructure = "structure"
)

// Analyzer defines the interface for individual document analyzers.
// Each analyzer focuses on a specific class of pre-publish problems.
//
// Design decision: We use an interface rather than concrete types because:
//  1. Allows for easy extension with new analyzers
//  2. Enables testing with mock analyzers
//  3. Keeps the concurrent runner independent of what each check inspects
type Analyzer interface {
	// Name returns the analyzer's name for logging and reporting.
	Name() string

	// Category returns the analyzer's category (e.g., "links", "metadata").
	Category() string

	// Analyze inspects one document and returns the findings discovered.
	Analyze(ctx context.Context, tree *Tree, doc *Document) ([]model.Finding, error)
}

// Tree is the shared read-only context every analyzer receives alongside a
// document: where the hierarchy lives on disk, which wiki roots absolute
// references may match, and which local paths belong to the hierarchy.
//
// Design decision: We aggregate this in a single struct rather than passing
// multiple parameters because:
//  1. Not all analyzers need all fields
//  2. Adding new context doesn't change analyzer signatures
//  3. Easier to construct in tests
type Tree struct {
	// BaseDir is the hierarchy root directory.
	BaseDir string

	// WikiRoots are the wiki root URLs absolute references may match.
	WikiRoots []string

	// Known reports whether a local path belongs to the hierarchy. Keys are
	// the descriptor filenames produced by the hierarchy walk.
	Known map[string]bool
}

// Document is one hierarchy document prepared for analysis.
type Document struct {
	// Page is the hierarchy descriptor for this document.
	Page *model.Page

	// Content is the raw Markdown. Empty when the file is missing on disk.
	Content string

	// Missing reports that the descriptor has no backing file. Index
	// descriptors for directories without an index.md are the normal case.
	Missing bool
}
