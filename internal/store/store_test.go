package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite() iteration %d failed: %v", i, err)
		}
		s.Close()
	}
}

func TestOpenSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("first OpenSQLite() failed: %v", err)
	}
	if err := s1.Put(ctx, []byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	s1.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("second OpenSQLite() failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(ctx, []byte("k"))
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get() = %q, want %q", got, "v")
	}
}

func TestOpenSQLite_Pragmas(t *testing.T) {
	s := createTestSQLite(t)

	tests := []struct {
		name     string
		expected string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
		{"user_version", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.verifyPragma(tt.name, tt.expected); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestOpenSQLite_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	if _, err := s.db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	s.Close()

	if _, err := OpenSQLite(path); err == nil {
		t.Error("expected error opening database with newer schema")
	}
}

func TestOpenSQLite_InMemory(t *testing.T) {
	ctx := t.Context()
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	if err := s.Put(ctx, []byte{1}, []byte{2}); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	got, err := s.Get(ctx, []byte{1})
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("Get() = %v, want [2]", got)
	}
}

func TestClose_Nil(t *testing.T) {
	var s SQLite
	if err := s.Close(); err != nil {
		t.Errorf("Close() on zero SQLite = %v", err)
	}
	var p Pebble
	if err := p.Close(); err != nil {
		t.Errorf("Close() on zero Pebble = %v", err)
	}
}
