// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - BlobStore: upload- and document-namespace blob persistence
//   - HandoffStore: single-slot viewer hand-off persistence
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// The upload and document namespaces live in separate tables introduced by
// separate migrations, so a store created at an older version gains the
// document namespace on next open without rewriting existing rows.
//
// # Data Location
//
// By default, the database is stored at ~/.pinpoint/data/blobs.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
