package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/roach88/changeset/internal/store"
)

// SQLite opens a private in-memory SQLite backend closed at test cleanup.
func SQLite(t testing.TB) *store.SQLite {
	t.Helper()
	s, err := store.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// Pebble opens a Pebble backend on an in-memory filesystem, closed at test
// cleanup.
func Pebble(t testing.TB) *store.Pebble {
	t.Helper()
	p, err := store.OpenPebble(t.Name(), store.PebbleOptions{InMemory: true})
	if err != nil {
		t.Fatalf("OpenPebble() failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

// Backends returns one fresh backend of each kind, keyed by name, for
// table-driven tests that must hold on every backend.
func Backends(t testing.TB) map[string]store.Backend {
	t.Helper()
	return map[string]store.Backend{
		"sqlite": SQLite(t),
		"pebble": Pebble(t),
	}
}

// Logger returns a zap logger writing to the test log.
func Logger(t testing.TB) *zap.Logger {
	return zaptest.NewLogger(t)
}
