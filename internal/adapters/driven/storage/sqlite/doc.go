// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - BookStore: Book content persistence
//   - PageStore: Parsed page persistence
//   - ExerciseStore: Exercise and question persistence
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Relationships between books, pages and exercises are keyed by book name and
// maintained by the stores, not by foreign keys.
//
// # Data Location
//
// By default, the database is stored at ~/.studydeck/data/studydeck.db
//
// # Thread Safety
//
// All operations are thread-safe. Each call runs in its own statement or
// transaction; no transaction spans calls.
package sqlite
