package store

import (
	"path/filepath"
	"testing"
)

// createTestSQLite creates a new file-backed SQLite backend for testing.
func createTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestPebble creates a new in-memory Pebble backend for testing.
func createTestPebble(t *testing.T) *Pebble {
	t.Helper()
	p, err := OpenPebble("test", PebbleOptions{InMemory: true})
	if err != nil {
		t.Fatalf("OpenPebble() failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

// backends returns one of each backend, keyed by name.
func backends(t *testing.T) map[string]Backend {
	t.Helper()
	return map[string]Backend{
		"sqlite": createTestSQLite(t),
		"pebble": createTestPebble(t),
	}
}
