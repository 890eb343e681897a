// Package model defines the core data structures used throughout notiontree.
//
// This package contains the following main types:
//   - Page: A descriptor for one local document or synthetic directory index
//   - Mapping: The filename to remote page reference table built during creation
//   - SyncReport: The main run result structure threaded through pipeline steps
//   - Finding: A pre-publish validation result produced by the check command
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (hierarchy, sync, report, check) need to use
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
