package storage

import (
	"bytes"
	"context"
	"errors"

	"github.com/roach88/changeset/internal/diff"
	"github.com/roach88/changeset/internal/store"
)

// Value is a single optional value. Its snapshot is nil when nothing is
// stored.
type Value[V, C any] struct {
	backend store.Backend
	name    Name
	key     []byte
	differ  diff.Differ[*V, diff.OptionDiff[V, C]]
}

var (
	_ Storage[*uint32, diff.OptionDiff[uint32, uint32]] = (*Value[uint32, uint32])(nil)
	_ Seeder                                            = (*Value[uint32, uint32])(nil)
)

// NewValue creates a Value whose present values are diffed with inner.
func NewValue[V, C any](b store.Backend, name Name, inner diff.Differ[V, C]) *Value[V, C] {
	return &Value[V, C]{backend: b, name: name, key: name.Prefix(), differ: diff.Option(inner)}
}

// NewScalarValue creates a Value diffed by equality.
func NewScalarValue[V comparable](b store.Backend, name Name) *Value[V, V] {
	return NewValue(b, name, diff.Scalar[V]())
}

// Name implements Tracked.
func (s *Value[V, C]) Name() Name {
	return s.name
}

// Get returns the stored value, or nil.
func (s *Value[V, C]) Get(ctx context.Context) (*V, error) {
	raw, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(s.name, "get", err)
	}
	v, err := decode[V](raw)
	if err != nil {
		return nil, wrapErr(s.name, "decode", err)
	}
	return &v, nil
}

// Put stores v.
func (s *Value[V, C]) Put(ctx context.Context, v V) error {
	raw, err := encode(v)
	if err != nil {
		return wrapErr(s.name, "encode", err)
	}
	return wrapErr(s.name, "put", s.backend.Put(ctx, s.key, raw))
}

// Kill removes the value.
func (s *Value[V, C]) Kill(ctx context.Context) error {
	return wrapErr(s.name, "kill", s.backend.Delete(ctx, s.key))
}

// Take returns the stored value and removes it.
func (s *Value[V, C]) Take(ctx context.Context) (*V, error) {
	v, err := s.Get(ctx)
	if err != nil || v == nil {
		return v, err
	}
	return v, s.Kill(ctx)
}

// Mutate replaces the value with f's result. f receives nil when nothing is
// stored and may return nil to remove the value. Nothing is written if f
// fails.
func (s *Value[V, C]) Mutate(ctx context.Context, f func(*V) (*V, error)) error {
	cur, err := s.Get(ctx)
	if err != nil {
		return err
	}
	next, err := f(cur)
	if err != nil {
		return err
	}
	if next == nil {
		return s.Kill(ctx)
	}
	return s.Put(ctx, *next)
}

// Snapshot implements Storage.
func (s *Value[V, C]) Snapshot(ctx context.Context) (*V, error) {
	return s.Get(ctx)
}

// Diff implements Storage.
func (s *Value[V, C]) Diff(old, updated *V) diff.Diff[diff.OptionDiff[V, C]] {
	return s.differ(old, updated)
}

// Capture implements Tracked.
func (s *Value[V, C]) Capture(ctx context.Context) (Capture, error) {
	return captureOf[*V, diff.OptionDiff[V, C]](ctx, s)
}

// Seed implements Seeder. A JSON null removes the value.
func (s *Value[V, C]) Seed(ctx context.Context, raw []byte) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return s.Kill(ctx)
	}
	v, err := decode[V](raw)
	if err != nil {
		return wrapErr(s.name, "seed", err)
	}
	return s.Put(ctx, v)
}

// ValueQuery is a single value that reads as a default when nothing is
// stored. Its snapshot is always a V.
type ValueQuery[V, C any] struct {
	backend store.Backend
	name    Name
	key     []byte
	differ  diff.Differ[V, C]
	onEmpty func() V
}

var (
	_ Storage[uint32, uint32] = (*ValueQuery[uint32, uint32])(nil)
	_ Seeder                  = (*ValueQuery[uint32, uint32])(nil)
)

// NewValueQuery creates a ValueQuery that reads as onEmpty() when empty.
// A nil onEmpty yields the zero V.
func NewValueQuery[V, C any](b store.Backend, name Name, inner diff.Differ[V, C], onEmpty func() V) *ValueQuery[V, C] {
	if onEmpty == nil {
		onEmpty = func() V {
			var zero V
			return zero
		}
	}
	return &ValueQuery[V, C]{backend: b, name: name, key: name.Prefix(), differ: inner, onEmpty: onEmpty}
}

// NewScalarValueQuery creates a ValueQuery diffed by equality.
func NewScalarValueQuery[V comparable](b store.Backend, name Name, onEmpty func() V) *ValueQuery[V, V] {
	return NewValueQuery(b, name, diff.Scalar[V](), onEmpty)
}

// Name implements Tracked.
func (s *ValueQuery[V, C]) Name() Name {
	return s.name
}

// Exists reports whether a value is stored.
func (s *ValueQuery[V, C]) Exists(ctx context.Context) (bool, error) {
	_, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, wrapErr(s.name, "exists", err)
	}
	return true, nil
}

// Get returns the stored value or the default.
func (s *ValueQuery[V, C]) Get(ctx context.Context) (V, error) {
	raw, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		return s.onEmpty(), nil
	}
	if err != nil {
		var zero V
		return zero, wrapErr(s.name, "get", err)
	}
	v, err := decode[V](raw)
	if err != nil {
		return v, wrapErr(s.name, "decode", err)
	}
	return v, nil
}

// Put stores v.
func (s *ValueQuery[V, C]) Put(ctx context.Context, v V) error {
	raw, err := encode(v)
	if err != nil {
		return wrapErr(s.name, "encode", err)
	}
	return wrapErr(s.name, "put", s.backend.Put(ctx, s.key, raw))
}

// Kill removes the stored value; later reads return the default.
func (s *ValueQuery[V, C]) Kill(ctx context.Context) error {
	return wrapErr(s.name, "kill", s.backend.Delete(ctx, s.key))
}

// Mutate replaces the value with f's result. Nothing is written if f fails.
func (s *ValueQuery[V, C]) Mutate(ctx context.Context, f func(V) (V, error)) error {
	cur, err := s.Get(ctx)
	if err != nil {
		return err
	}
	next, err := f(cur)
	if err != nil {
		return err
	}
	return s.Put(ctx, next)
}

// Snapshot implements Storage.
func (s *ValueQuery[V, C]) Snapshot(ctx context.Context) (V, error) {
	return s.Get(ctx)
}

// Diff implements Storage.
func (s *ValueQuery[V, C]) Diff(old, updated V) diff.Diff[C] {
	return s.differ(old, updated)
}

// Capture implements Tracked.
func (s *ValueQuery[V, C]) Capture(ctx context.Context) (Capture, error) {
	return captureOf[V, C](ctx, s)
}

// Seed implements Seeder.
func (s *ValueQuery[V, C]) Seed(ctx context.Context, raw []byte) error {
	v, err := decode[V](raw)
	if err != nil {
		return wrapErr(s.name, "seed", err)
	}
	return s.Put(ctx, v)
}
