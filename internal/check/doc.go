// Package check provides pre-publish validation for a Markdown hierarchy.
//
// # Purpose
//
// This package scans the local tree an export run would publish and reports
// problems before any remote page is created: links that will break, pages
// that will be empty, and image metadata that should not leave the machine.
//
// # Design Philosophy
//
// The check package follows a modular analyzer pattern where each class of
// problem is implemented as a separate Analyzer. This design was chosen
// because:
//  1. Each check has unique logic and data requirements
//  2. Enables selective scanning based on configuration
//  3. Makes it easy to add new checks without modifying existing code
//  4. Simplifies testing of individual analysis components
//
// Documents are scanned concurrently under a bounded worker limit. The scan
// itself performs no remote operation of any kind.
//
// # Analyzer Categories
//
// Analyzers are grouped into categories based on what they validate:
//
// ## Links
//   - Relative links resolving outside the hierarchy
//   - Wiki links without a backing document
//   - Image references whose file is missing
//   - Absolute links that pass through unresolved
//
// ## Metadata
//   - GPS coordinates in image EXIF
//   - Device serial numbers in image EXIF
//   - Owner and artist information in image EXIF
//
// ## Structure
//   - Directories whose page will be created with an empty body
//
// # Usage
//
//	checker := check.NewChecker(check.WithWikiRoots(roots))
//	result, err := checker.Run(ctx, dir)
//
// # Severity Levels
//
// Findings are assigned severity levels based on publish risk:
//   - Critical: private data leaks if published (GPS coordinates)
//   - High: broken or identifying content (dangling links, serial numbers)
//   - Medium: degraded output worth reviewing (missing image files)
//   - Info: report-only observations (pass-through links, empty pages)
package check
