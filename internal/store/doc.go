// Package store provides the byte-level key-value backends that persist
// pallet storage.
//
// A Backend maps opaque keys to opaque values and supports ordered prefix
// scans. Key layout, hashing and value encoding belong to the storage
// package; the backends here only move bytes.
//
// Two implementations are provided:
//   - SQLite (mattn/go-sqlite3): a single kv table, WAL mode, one connection.
//     Use ":memory:" for isolated tests.
//   - Pebble (cockroachdb/pebble): an LSM store, optionally on an in-memory
//     filesystem.
//
// # Database Configuration (SQLite)
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Both backends are safe for concurrent use. Neither offers transactions:
// callers observe state only through Get and Scan.
package store
