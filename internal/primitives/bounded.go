package primitives

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// ErrBoundExceeded is returned when a BoundedMap would grow past its bound.
var ErrBoundExceeded = errors.New("bounded map: bound exceeded")

// BoundedMap is a map that holds at most Bound entries.
//
// The zero value has bound 0 and accepts no entries.
type BoundedMap[K comparable, V any] struct {
	bound   int
	entries map[K]V
}

// NewBoundedMap creates an empty map holding at most bound entries.
func NewBoundedMap[K comparable, V any](bound int) BoundedMap[K, V] {
	return BoundedMap[K, V]{bound: bound, entries: make(map[K]V)}
}

// BoundedMapFrom creates a bounded map from entries, failing if there are
// more than bound of them. The entries are copied.
func BoundedMapFrom[K comparable, V any](bound int, entries map[K]V) (BoundedMap[K, V], error) {
	if len(entries) > bound {
		return BoundedMap[K, V]{}, fmt.Errorf("%w: %d entries, bound %d", ErrBoundExceeded, len(entries), bound)
	}
	m := NewBoundedMap[K, V](bound)
	for k, v := range entries {
		m.entries[k] = v
	}
	return m, nil
}

// Bound returns the maximum number of entries.
func (m BoundedMap[K, V]) Bound() int {
	return m.bound
}

// Len returns the number of entries.
func (m BoundedMap[K, V]) Len() int {
	return len(m.entries)
}

// Get returns the value under k.
func (m BoundedMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.entries[k]
	return v, ok
}

// TryInsert sets k to v. Replacing an existing key always succeeds; adding a
// new key fails with ErrBoundExceeded when the map is full.
func (m *BoundedMap[K, V]) TryInsert(k K, v V) error {
	if m.entries == nil {
		m.entries = make(map[K]V)
	}
	if _, ok := m.entries[k]; !ok && len(m.entries) >= m.bound {
		return fmt.Errorf("%w: bound %d", ErrBoundExceeded, m.bound)
	}
	m.entries[k] = v
	return nil
}

// Remove deletes k and reports whether it was present.
func (m *BoundedMap[K, V]) Remove(k K) bool {
	_, ok := m.entries[k]
	delete(m.entries, k)
	return ok
}

// Unbounded returns a copy of the entries as a plain map.
func (m BoundedMap[K, V]) Unbounded() map[K]V {
	out := make(map[K]V, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// Equal compares bound and entries structurally.
func (m BoundedMap[K, V]) Equal(o BoundedMap[K, V]) bool {
	return m.bound == o.bound && cmp.Equal(m.Unbounded(), o.Unbounded(), cmpopts.EquateEmpty())
}

func (m BoundedMap[K, V]) String() string {
	return fmt.Sprintf("Bounded<%d>%v", m.bound, m.Unbounded())
}

type boundedMapJSON[K comparable, V any] struct {
	Bound   int     `json:"bound"`
	Entries map[K]V `json:"entries"`
}

// MarshalJSON implements json.Marshaler.
func (m BoundedMap[K, V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(boundedMapJSON[K, V]{Bound: m.bound, Entries: m.Unbounded()})
}

// UnmarshalJSON implements json.Unmarshaler, rejecting documents that
// exceed their own bound.
func (m *BoundedMap[K, V]) UnmarshalJSON(data []byte) error {
	var raw boundedMapJSON[K, V]
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := BoundedMapFrom(raw.Bound, raw.Entries)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}
