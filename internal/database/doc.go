// Package database provides SQLite-based storage for unbisgraph.
//
// This package implements the HistoryDB, which stores one row per crawl
// run: the run statistics plus the full graph document. Older snapshots
// of the thesaurus can be listed, reloaded, or compared without
// re-crawling.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
