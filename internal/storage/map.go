package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/changeset/internal/diff"
	"github.com/roach88/changeset/internal/store"
)

// Map is a single-keyed map. Its snapshot holds every stored entry.
type Map[K comparable, V, C any] struct {
	backend store.Backend
	name    Name
	prefix  []byte
	hasher  Hasher
	differ  diff.Differ[map[K]V, map[K]diff.MapValueDiff[V, C]]
}

var (
	_ Storage[map[string]int, map[string]diff.MapValueDiff[int, int]] = (*Map[string, int, int])(nil)
	_ Seeder                                                          = (*Map[string, int, int])(nil)
)

// NewMap creates a Map whose values are diffed with inner.
func NewMap[K comparable, V, C any](b store.Backend, name Name, hasher Hasher, inner diff.Differ[V, C]) *Map[K, V, C] {
	return &Map[K, V, C]{backend: b, name: name, prefix: name.Prefix(), hasher: hasher, differ: diff.Map[K](inner)}
}

// NewScalarMap creates a Map whose values are diffed by equality.
func NewScalarMap[K, V comparable](b store.Backend, name Name, hasher Hasher) *Map[K, V, V] {
	return NewMap[K](b, name, hasher, diff.Scalar[V]())
}

// Name implements Tracked.
func (s *Map[K, V, C]) Name() Name {
	return s.name
}

func (s *Map[K, V, C]) key(k K) ([]byte, error) {
	enc, err := encode(k)
	if err != nil {
		return nil, err
	}
	return s.hasher.AppendSegment(append([]byte(nil), s.prefix...), enc), nil
}

// Get returns the value under k and whether it exists.
func (s *Map[K, V, C]) Get(ctx context.Context, k K) (V, bool, error) {
	var zero V
	key, err := s.key(k)
	if err != nil {
		return zero, false, wrapErr(s.name, "encode key", err)
	}
	raw, err := s.backend.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, wrapErr(s.name, "get", err)
	}
	v, err := decode[V](raw)
	if err != nil {
		return zero, false, wrapErr(s.name, "decode", err)
	}
	return v, true, nil
}

// Contains reports whether k has a value.
func (s *Map[K, V, C]) Contains(ctx context.Context, k K) (bool, error) {
	_, ok, err := s.Get(ctx, k)
	return ok, err
}

// Insert stores v under k.
func (s *Map[K, V, C]) Insert(ctx context.Context, k K, v V) error {
	key, err := s.key(k)
	if err != nil {
		return wrapErr(s.name, "encode key", err)
	}
	raw, err := encode(v)
	if err != nil {
		return wrapErr(s.name, "encode", err)
	}
	return wrapErr(s.name, "insert", s.backend.Put(ctx, key, raw))
}

// Remove deletes k.
func (s *Map[K, V, C]) Remove(ctx context.Context, k K) error {
	key, err := s.key(k)
	if err != nil {
		return wrapErr(s.name, "encode key", err)
	}
	return wrapErr(s.name, "remove", s.backend.Delete(ctx, key))
}

// Clear removes every entry.
func (s *Map[K, V, C]) Clear(ctx context.Context) error {
	return wrapErr(s.name, "clear", s.backend.DeletePrefix(ctx, s.prefix))
}

// Iterate calls fn for every entry in key-segment order.
func (s *Map[K, V, C]) Iterate(ctx context.Context, fn func(K, V) error) error {
	var fnErr error
	err := s.backend.Scan(ctx, s.prefix, func(key, raw []byte) error {
		k, err := s.decodeKey(key)
		if err != nil {
			return err
		}
		v, err := decode[V](raw)
		if err != nil {
			return fmt.Errorf("decode value: %w", err)
		}
		if err := fn(k, v); err != nil {
			fnErr = err
			return err
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	return wrapErr(s.name, "iterate", err)
}

func (s *Map[K, V, C]) decodeKey(key []byte) (K, error) {
	var k K
	enc, rest, err := s.hasher.Split(key[len(s.prefix):])
	if err != nil {
		return k, err
	}
	if len(rest) != 0 {
		return k, fmt.Errorf("%w: %d trailing bytes", ErrMalformedKey, len(rest))
	}
	k, err = decode[K](enc)
	if err != nil {
		return k, fmt.Errorf("decode key: %w", err)
	}
	return k, nil
}

// Snapshot implements Storage.
func (s *Map[K, V, C]) Snapshot(ctx context.Context) (map[K]V, error) {
	out := make(map[K]V)
	err := s.Iterate(ctx, func(k K, v V) error {
		out[k] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Diff implements Storage.
func (s *Map[K, V, C]) Diff(old, updated map[K]V) diff.Diff[map[K]diff.MapValueDiff[V, C]] {
	return s.differ(old, updated)
}

// Capture implements Tracked.
func (s *Map[K, V, C]) Capture(ctx context.Context) (Capture, error) {
	return captureOf[map[K]V, map[K]diff.MapValueDiff[V, C]](ctx, s)
}

// Seed implements Seeder. The map is cleared before the entries are written.
func (s *Map[K, V, C]) Seed(ctx context.Context, raw []byte) error {
	entries, err := decode[map[K]V](raw)
	if err != nil {
		return wrapErr(s.name, "seed", err)
	}
	if err := s.Clear(ctx); err != nil {
		return err
	}
	for k, v := range entries {
		if err := s.Insert(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}
