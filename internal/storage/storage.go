package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/changeset/internal/diff"
)

// ErrCaptureMismatch is returned when two captures of different storages
// are diffed against each other.
var ErrCaptureMismatch = errors.New("captures belong to different storages")

// Tracked is the type-erased view of a storage used by the harness.
type Tracked interface {
	// Name identifies the storage.
	Name() Name

	// Capture records the current value.
	Capture(ctx context.Context) (Capture, error)
}

// Capture is a recorded value of a Tracked storage.
type Capture interface {
	// Storage is the storage the capture was taken from.
	Storage() Name

	// Value is the captured snapshot.
	Value() any

	// Changes diffs this capture against a later capture of the same
	// storage. The changeset keeps its concrete type behind any.
	Changes(later Capture) (diff.Diff[any], error)
}

// Storage is a storage whose snapshots are V and whose diffs describe
// changes as C.
type Storage[V, C any] interface {
	Tracked

	// Snapshot reads the current value.
	Snapshot(ctx context.Context) (V, error)

	// Diff compares two snapshots.
	Diff(old, updated V) diff.Diff[C]
}

// Seeder is a storage that can be written from a JSON document of its
// snapshot type.
type Seeder interface {
	Name() Name

	// Seed decodes raw and writes it over the current contents.
	Seed(ctx context.Context, raw []byte) error
}

// DiffAgainst diffs expected, taken as the old value, against the storage's
// current value.
func DiffAgainst[V, C any](ctx context.Context, s Storage[V, C], expected V) (diff.Diff[C], error) {
	current, err := s.Snapshot(ctx)
	if err != nil {
		return diff.Diff[C]{}, err
	}
	return s.Diff(expected, current), nil
}

// snapshot is the Capture of a Storage[V, C].
type snapshot[V, C any] struct {
	name   Name
	value  V
	differ func(old, updated V) diff.Diff[C]
}

func captureOf[V, C any](ctx context.Context, s Storage[V, C]) (Capture, error) {
	v, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &snapshot[V, C]{name: s.Name(), value: v, differ: s.Diff}, nil
}

func (s *snapshot[V, C]) Storage() Name {
	return s.name
}

func (s *snapshot[V, C]) Value() any {
	return s.value
}

func (s *snapshot[V, C]) Changes(later Capture) (diff.Diff[any], error) {
	l, ok := later.(*snapshot[V, C])
	if !ok || l.name != s.name {
		return diff.Diff[any]{}, fmt.Errorf("%w: %s and %s", ErrCaptureMismatch, s.name, later.Storage())
	}
	return s.differ(s.value, l.value).Erase(), nil
}
