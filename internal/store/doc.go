// Package store provides persistent storage for minilist using SQLite.
//
// # Architecture
//
// Persistence is a flat key-value snapshot table: each durable blob (the
// item list, the session) lives under one fixed key and is overwritten in
// full on every write. There are no partial updates and no migrations; the
// in-memory state owned by the controllers is authoritative and the store
// is its write-through mirror.
//
// # Data Models
//
//   - model.Item: the to-do list snapshot under the "items" key
//   - model.Session: the auth session blob under the "session" key
//     (cloud variant only)
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode:
//
//	PRAGMA journal_mode=WAL;
//
// # Error Handling
//
// Loads are deliberately forgiving: a missing or malformed snapshot yields
// an empty list (or nil session) with a logged warning, so a corrupt
// snapshot can never prevent startup. Writes return errors normally.
//
// # Testing
//
// Use NewSQLiteStore with a t.TempDir() path for tests; the schema is
// created automatically on open.
package store
