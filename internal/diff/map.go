package diff

import (
	"fmt"

	"github.com/roach88/changeset/internal/primitives"
)

// MapValueDiffKind enumerates the per-key outcome of a map diff.
type MapValueDiffKind uint8

const (
	// KeyNotChanged: present in both maps with equal values. Never kept in a
	// map changeset.
	KeyNotChanged MapValueDiffKind = iota
	// KeyMissing: present before, absent after.
	KeyMissing
	// KeyAdded: absent before, present after.
	KeyAdded
	// KeyChanged: present in both maps with different values.
	KeyChanged
)

func (k MapValueDiffKind) String() string {
	switch k {
	case KeyNotChanged:
		return "NotChanged"
	case KeyMissing:
		return "Missing"
	case KeyAdded:
		return "Added"
	case KeyChanged:
		return "Changed"
	default:
		return fmt.Sprintf("MapValueDiffKind(%d)", uint8(k))
	}
}

// MapValueDiff is the outcome for a single key of a map diff.
type MapValueDiff[V, C any] struct {
	Kind MapValueDiffKind
	// Value is the undiffed new value, set for KeyAdded.
	Value V
	// Change is the inner changeset, set for KeyChanged.
	Change C
}

// Missing describes a key that disappeared.
func Missing[V, C any]() MapValueDiff[V, C] {
	return MapValueDiff[V, C]{Kind: KeyMissing}
}

// Added describes a key that appeared with value v.
func Added[V, C any](v V) MapValueDiff[V, C] {
	return MapValueDiff[V, C]{Kind: KeyAdded, Value: v}
}

// Changed describes a key whose value changed by c.
func Changed[V, C any](c C) MapValueDiff[V, C] {
	return MapValueDiff[V, C]{Kind: KeyChanged, Change: c}
}

func (m MapValueDiff[V, C]) String() string {
	switch m.Kind {
	case KeyAdded:
		return fmt.Sprintf("Added(%v)", m.Value)
	case KeyChanged:
		return fmt.Sprintf("Changed(%v)", m.Change)
	default:
		return m.Kind.String()
	}
}

// Map diffs two maps key by key. Keys only in old are Missing, keys only in
// updated are Added with their value, and keys in both are diffed with inner
// and kept only when Changed. The result is NotChanged when no key changed.
func Map[K comparable, V, C any](inner Differ[V, C]) Differ[map[K]V, map[K]MapValueDiff[V, C]] {
	return func(old, updated map[K]V) Diff[map[K]MapValueDiff[V, C]] {
		changes := make(map[K]MapValueDiff[V, C])
		for k, v := range old {
			nv, ok := updated[k]
			if !ok {
				changes[k] = Missing[V, C]()
				continue
			}
			if d := inner(v, nv); d.Changed {
				changes[k] = Changed[V](d.To)
			}
		}
		for k, v := range updated {
			if _, ok := old[k]; !ok {
				changes[k] = Added[V, C](v)
			}
		}
		if len(changes) == 0 {
			return NotChanged[map[K]MapValueDiff[V, C]]()
		}
		return ChangedTo(changes)
	}
}

// Bounded diffs bounded maps through their unbounded entries. The bound
// itself is not part of the changeset.
func Bounded[K comparable, V, C any](inner Differ[V, C]) Differ[primitives.BoundedMap[K, V], map[K]MapValueDiff[V, C]] {
	unbounded := Map[K](inner)
	return func(old, updated primitives.BoundedMap[K, V]) Diff[map[K]MapValueDiff[V, C]] {
		return unbounded(old.Unbounded(), updated.Unbounded())
	}
}
