package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/changeset/internal/genesis"
	"github.com/roach88/changeset/internal/store"
)

// Backend kinds accepted by --backend.
const (
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
)

// DatabaseOptions holds the flags shared by commands that open a database.
type DatabaseOptions struct {
	Database string
	Backend  string
}

// openBackend opens the database named by opts. The database is created if
// it does not exist.
func openBackend(opts DatabaseOptions) (store.Backend, error) {
	var (
		b   store.Backend
		err error
	)
	switch opts.Backend {
	case BackendSQLite, "":
		b, err = store.OpenSQLite(opts.Database)
	case BackendPebble:
		b, err = store.OpenPebble(opts.Database, store.PebbleOptions{Sync: true})
	default:
		return nil, commandError(ErrCodeBadArgument, fmt.Errorf("unknown backend %q: must be %s or %s", opts.Backend, BackendSQLite, BackendPebble))
	}
	if err != nil {
		return nil, commandError(ErrCodeBackend, err)
	}
	return b, nil
}

// loadFixture parses a YAML or CUE fixture, chosen by file extension.
func loadFixture(path string) (*genesis.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, commandError(ErrCodeNotFound, fmt.Errorf("fixture not found: %s", path))
	}

	var (
		cfg *genesis.Config
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cfg, err = genesis.LoadYAML(path)
	case ".cue":
		cfg, err = genesis.LoadCUE(path)
	default:
		return nil, commandError(ErrCodeFixture, fmt.Errorf("unsupported fixture type %q", ext))
	}
	if err != nil {
		return nil, commandError(ErrCodeFixture, err)
	}
	return cfg, nil
}
