// Package sync drives the three remote phases of an export run.
//
// # Architecture
//
// The package is designed around the Driver type, which owns the phase
// semantics and talks to the remote service only through the Workspace
// interface:
//
//  1. CreateHierarchy creates one empty page per descriptor, flat under the
//     hierarchy's root page, and returns the sealed filename mapping.
//     Remote page handles exist only after creation, so links cannot be
//     resolved earlier.
//  2. UpdateLinks rewrites each document's references against the full
//     mapping and imports the content.
//  3. MovePages re-parents the flat pages into the source tree shape.
//
// Design decision: The driver is not idempotent and performs no remote
// reads of existing state. Running it twice creates a second copy of the
// tree. Mirror-style reconciliation would require listing remote children
// and diffing, which the underlying import API cannot support cleanly
// because every import replaces the whole page body anyway.
package sync
