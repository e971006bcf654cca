package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/changeset/internal/diff"
	"github.com/roach88/changeset/internal/store"
)

// DoubleMap is a map keyed by (K1, K2), snapshotted as nested maps.
//
// A snapshot never holds an empty inner map: an outer key appears only while
// it has at least one entry. When the last entry under an outer key is
// removed, the diff reports that outer key as Missing.
type DoubleMap[K1, K2 comparable, V, C any] struct {
	backend store.Backend
	name    Name
	prefix  []byte
	hasher1 Hasher
	hasher2 Hasher
	differ  diff.Differ[map[K1]map[K2]V, map[K1]diff.MapValueDiff[map[K2]V, map[K2]diff.MapValueDiff[V, C]]]
}

var (
	_ Storage[map[int]map[int]int, map[int]diff.MapValueDiff[map[int]int, map[int]diff.MapValueDiff[int, int]]] = (*DoubleMap[int, int, int, int])(nil)
	_ Seeder = (*DoubleMap[int, int, int, int])(nil)
)

// NewDoubleMap creates a DoubleMap whose values are diffed with inner.
func NewDoubleMap[K1, K2 comparable, V, C any](b store.Backend, name Name, hasher1, hasher2 Hasher, inner diff.Differ[V, C]) *DoubleMap[K1, K2, V, C] {
	return &DoubleMap[K1, K2, V, C]{
		backend: b,
		name:    name,
		prefix:  name.Prefix(),
		hasher1: hasher1,
		hasher2: hasher2,
		differ:  diff.Map[K1](diff.Map[K2](inner)),
	}
}

// NewScalarDoubleMap creates a DoubleMap whose values are diffed by equality.
func NewScalarDoubleMap[K1, K2, V comparable](b store.Backend, name Name, hasher1, hasher2 Hasher) *DoubleMap[K1, K2, V, V] {
	return NewDoubleMap[K1, K2](b, name, hasher1, hasher2, diff.Scalar[V]())
}

// Name implements Tracked.
func (s *DoubleMap[K1, K2, V, C]) Name() Name {
	return s.name
}

func (s *DoubleMap[K1, K2, V, C]) outerKey(k1 K1) ([]byte, error) {
	enc, err := encode(k1)
	if err != nil {
		return nil, err
	}
	return s.hasher1.AppendSegment(append([]byte(nil), s.prefix...), enc), nil
}

func (s *DoubleMap[K1, K2, V, C]) key(k1 K1, k2 K2) ([]byte, error) {
	outer, err := s.outerKey(k1)
	if err != nil {
		return nil, err
	}
	enc, err := encode(k2)
	if err != nil {
		return nil, err
	}
	return s.hasher2.AppendSegment(outer, enc), nil
}

// Get returns the value under (k1, k2) and whether it exists.
func (s *DoubleMap[K1, K2, V, C]) Get(ctx context.Context, k1 K1, k2 K2) (V, bool, error) {
	var zero V
	key, err := s.key(k1, k2)
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

// Insert stores v under (k1, k2).
func (s *DoubleMap[K1, K2, V, C]) Insert(ctx context.Context, k1 K1, k2 K2, v V) error {
	key, err := s.key(k1, k2)
	if err != nil {
		return wrapErr(s.name, "encode key", err)
	}
	raw, err := encode(v)
	if err != nil {
		return wrapErr(s.name, "encode", err)
	}
	return wrapErr(s.name, "insert", s.backend.Put(ctx, key, raw))
}

// Remove deletes (k1, k2).
func (s *DoubleMap[K1, K2, V, C]) Remove(ctx context.Context, k1 K1, k2 K2) error {
	key, err := s.key(k1, k2)
	if err != nil {
		return wrapErr(s.name, "encode key", err)
	}
	return wrapErr(s.name, "remove", s.backend.Delete(ctx, key))
}

// RemovePrefix deletes every entry under k1.
func (s *DoubleMap[K1, K2, V, C]) RemovePrefix(ctx context.Context, k1 K1) error {
	outer, err := s.outerKey(k1)
	if err != nil {
		return wrapErr(s.name, "encode key", err)
	}
	return wrapErr(s.name, "remove prefix", s.backend.DeletePrefix(ctx, outer))
}

// Clear removes every entry.
func (s *DoubleMap[K1, K2, V, C]) Clear(ctx context.Context) error {
	return wrapErr(s.name, "clear", s.backend.DeletePrefix(ctx, s.prefix))
}

// Iterate calls fn for every (k1, k2, v) triple.
func (s *DoubleMap[K1, K2, V, C]) Iterate(ctx context.Context, fn func(K1, K2, V) error) error {
	var fnErr error
	err := s.backend.Scan(ctx, s.prefix, func(key, raw []byte) error {
		k1, k2, err := s.decodeKey(key)
		if err != nil {
			return err
		}
		v, err := decode[V](raw)
		if err != nil {
			return fmt.Errorf("decode value: %w", err)
		}
		if err := fn(k1, k2, v); err != nil {
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

// IteratePrefix calls fn for every entry under k1.
func (s *DoubleMap[K1, K2, V, C]) IteratePrefix(ctx context.Context, k1 K1, fn func(K2, V) error) error {
	outer, err := s.outerKey(k1)
	if err != nil {
		return wrapErr(s.name, "encode key", err)
	}
	var fnErr error
	err = s.backend.Scan(ctx, outer, func(key, raw []byte) error {
		_, k2, err := s.decodeKey(key)
		if err != nil {
			return err
		}
		v, err := decode[V](raw)
		if err != nil {
			return fmt.Errorf("decode value: %w", err)
		}
		if err := fn(k2, v); err != nil {
			fnErr = err
			return err
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	return wrapErr(s.name, "iterate prefix", err)
}

func (s *DoubleMap[K1, K2, V, C]) decodeKey(key []byte) (K1, K2, error) {
	var (
		k1 K1
		k2 K2
	)
	enc1, rest, err := s.hasher1.Split(key[len(s.prefix):])
	if err != nil {
		return k1, k2, err
	}
	enc2, rest, err := s.hasher2.Split(rest)
	if err != nil {
		return k1, k2, err
	}
	if len(rest) != 0 {
		return k1, k2, fmt.Errorf("%w: %d trailing bytes", ErrMalformedKey, len(rest))
	}
	if k1, err = decode[K1](enc1); err != nil {
		return k1, k2, fmt.Errorf("decode first key: %w", err)
	}
	if k2, err = decode[K2](enc2); err != nil {
		return k1, k2, fmt.Errorf("decode second key: %w", err)
	}
	return k1, k2, nil
}

// Snapshot implements Storage.
func (s *DoubleMap[K1, K2, V, C]) Snapshot(ctx context.Context) (map[K1]map[K2]V, error) {
	out := make(map[K1]map[K2]V)
	err := s.Iterate(ctx, func(k1 K1, k2 K2, v V) error {
		inner, ok := out[k1]
		if !ok {
			inner = make(map[K2]V)
			out[k1] = inner
		}
		inner[k2] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Diff implements Storage.
func (s *DoubleMap[K1, K2, V, C]) Diff(old, updated map[K1]map[K2]V) diff.Diff[map[K1]diff.MapValueDiff[map[K2]V, map[K2]diff.MapValueDiff[V, C]]] {
	return s.differ(old, updated)
}

// Capture implements Tracked.
func (s *DoubleMap[K1, K2, V, C]) Capture(ctx context.Context) (Capture, error) {
	return captureOf[map[K1]map[K2]V, map[K1]diff.MapValueDiff[map[K2]V, map[K2]diff.MapValueDiff[V, C]]](ctx, s)
}

// Seed implements Seeder. The map is cleared before the entries are written.
func (s *DoubleMap[K1, K2, V, C]) Seed(ctx context.Context, raw []byte) error {
	entries, err := decode[map[K1]map[K2]V](raw)
	if err != nil {
		return wrapErr(s.name, "seed", err)
	}
	if err := s.Clear(ctx); err != nil {
		return err
	}
	for k1, inner := range entries {
		for k2, v := range inner {
			if err := s.Insert(ctx, k1, k2, v); err != nil {
				return err
			}
		}
	}
	return nil
}
