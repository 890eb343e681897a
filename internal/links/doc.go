// Package links rewrites Markdown link references against the remote page
// mapping.
//
// Only Markdown inline link syntax [text](ref) is matched; parentheses in
// prose are never touched. Two reference dialects resolve to local documents:
// relative paths starting with "./" (resolved against the referencing
// document's directory) and absolute wiki URLs under a configured wiki root
// (URL-decoded, prefix-stripped, and reinterpreted as a path under the source
// tree). Every reference that does not resolve is passed through verbatim; a
// dangling link is not an error.
//
// Resolution runs once per document, after the whole mapping exists, so a
// link from page A to page B rewrites correctly even when B was created
// after A.
package links
