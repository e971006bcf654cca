package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

// PebbleOptions configures OpenPebble.
type PebbleOptions struct {
	// InMemory keeps all data on an in-memory filesystem; the directory is
	// only used as a name.
	InMemory bool

	// Sync forces every write to be synced to disk.
	Sync bool
}

// Pebble is a Backend on a Pebble LSM database.
type Pebble struct {
	db    *pebble.DB
	write *pebble.WriteOptions
}

var _ Backend = (*Pebble)(nil)

// OpenPebble opens (creating if needed) a Pebble database in dir.
func OpenPebble(dir string, opts PebbleOptions) (*Pebble, error) {
	po := &pebble.Options{}
	if opts.InMemory {
		po.FS = vfs.NewMem()
	}

	db, err := pebble.Open(dir, po)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble: %w", err)
	}

	write := pebble.NoSync
	if opts.Sync {
		write = pebble.Sync
	}
	return &Pebble{db: db, write: write}, nil
}

// Close closes the database.
func (p *Pebble) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Get implements Backend.
func (p *Pebble) Get(ctx context.Context, key []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	defer closer.Close()
	return bytes.Clone(value), nil
}

// Put implements Backend.
func (p *Pebble) Put(ctx context.Context, key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.db.Set(key, value, p.write); err != nil {
		return fmt.Errorf("put: %w", err)
	}
	return nil
}

// Delete implements Backend.
func (p *Pebble) Delete(ctx context.Context, key []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.db.Delete(key, p.write); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Scan implements Backend. The scan reads from a point-in-time snapshot, so
// fn may write to the backend without affecting the iteration.
func (p *Pebble) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) error) error {
	snap := p.db.NewSnapshot()
	defer snap.Close()

	it, err := snap.NewIter(prefixBounds(prefix))
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	defer it.Close()

	for valid := it.First(); valid; valid = it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		value, err := it.ValueAndErr()
		if err != nil {
			return fmt.Errorf("scan value: %w", err)
		}
		if err := fn(it.Key(), value); err != nil {
			return err
		}
	}
	if err := it.Error(); err != nil {
		return fmt.Errorf("iterate: %w", err)
	}
	return nil
}

// DeletePrefix implements Backend.
func (p *Pebble) DeletePrefix(ctx context.Context, prefix []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := p.db.NewBatch()
	defer b.Close()

	err := p.Scan(ctx, prefix, func(key, _ []byte) error {
		return b.Delete(key, nil)
	})
	if err != nil {
		return fmt.Errorf("delete prefix: %w", err)
	}
	if err := b.Commit(p.write); err != nil {
		return fmt.Errorf("delete prefix: %w", err)
	}
	return nil
}

func prefixBounds(prefix []byte) *pebble.IterOptions {
	if len(prefix) == 0 {
		return &pebble.IterOptions{}
	}
	return &pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: PrefixEnd(prefix),
	}
}
