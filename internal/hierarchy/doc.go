// Package hierarchy builds the ordered page descriptor list for a local
// directory tree.
//
// The builder walks the tree top-down and emits one root descriptor for the
// tree's index document, one node descriptor per subdirectory, and one leaf
// descriptor per non-index Markdown file. Every directory gets a node even
// when no index.md exists on disk; the missing content is handled later by
// the export phases as an empty body.
//
// Emission order is load-bearing: a directory's index comes before its
// leaves, and leaves come before any descendant directory's descriptors.
// The creation phase relies on parents appearing before children, and the
// move phase iterates the same sequence in reverse.
package hierarchy
