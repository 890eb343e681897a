// Package report provides run summary generation and output functionality.
//
// This package contains writers for different output formats:
//   - MarkdownWriter: GitHub Flavored Markdown for sharing run summaries
//   - JSONWriter: Structured JSON output for tool integration
//   - SimpleWriter: Human-readable findings output for terminal display
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
package report
