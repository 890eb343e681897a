// Package journal provides SQLite-based storage for export run history.
//
// This package implements the Journal, which stores one row per export run:
//   - Run identity (source dir, root parent URL, timestamps)
//   - Result counters (pages created, imported, moved, links resolved)
//   - Outcome (status, error text) and a workspace token fingerprint
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of a flat
// history file because:
// 1. No external dependencies - the journal is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Queries over run history (recent runs, ordering) stay trivial
// 4. WAL mode keeps reads cheap while a run appends its row
//
// The sync itself never reads the journal. It exists for the history
// command and for humans auditing what past runs did. A journal write
// failure therefore never fails an otherwise-successful export.
package journal
