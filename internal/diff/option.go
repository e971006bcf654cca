package diff

import "fmt"

// OptionDiffKind enumerates how an optional value changed.
type OptionDiffKind uint8

const (
	// ValueChanged: present before and after, with different values.
	ValueChanged OptionDiffKind = iota + 1
	// WasNoneNowSome: absent before, present after.
	WasNoneNowSome
	// WasSomeNowNone: present before, absent after.
	WasSomeNowNone
)

func (k OptionDiffKind) String() string {
	switch k {
	case ValueChanged:
		return "ValueChanged"
	case WasNoneNowSome:
		return "WasNoneNowSome"
	case WasSomeNowNone:
		return "WasSomeNowNone"
	default:
		return fmt.Sprintf("OptionDiffKind(%d)", uint8(k))
	}
}

// OptionDiff is the changeset of an optional value. It only ever appears
// inside a changed Diff: "both absent" and "both present and equal" are
// NotChanged.
type OptionDiff[V, C any] struct {
	Kind OptionDiffKind
	// Value is the undiffed new value, set for WasNoneNowSome.
	Value V
	// Change is the inner changeset, set for ValueChanged.
	Change C
}

// OptionValueChanged describes a present value that changed by c.
func OptionValueChanged[V, C any](c C) OptionDiff[V, C] {
	return OptionDiff[V, C]{Kind: ValueChanged, Change: c}
}

// OptionWasNoneNowSome describes a value that appeared as v.
func OptionWasNoneNowSome[V, C any](v V) OptionDiff[V, C] {
	return OptionDiff[V, C]{Kind: WasNoneNowSome, Value: v}
}

// OptionWasSomeNowNone describes a value that disappeared.
func OptionWasSomeNowNone[V, C any]() OptionDiff[V, C] {
	return OptionDiff[V, C]{Kind: WasSomeNowNone}
}

// NowSome is OptionWasNoneNowSome for scalar values, whose changeset type is
// the value type.
func NowSome[V any](v V) OptionDiff[V, V] {
	return OptionWasNoneNowSome[V, V](v)
}

// NowNone is OptionWasSomeNowNone for scalar values.
func NowNone[V any]() OptionDiff[V, V] {
	return OptionWasSomeNowNone[V, V]()
}

// SomeChanged is OptionValueChanged for scalar values.
func SomeChanged[V any](v V) OptionDiff[V, V] {
	return OptionValueChanged[V, V](v)
}

func (o OptionDiff[V, C]) String() string {
	switch o.Kind {
	case ValueChanged:
		return fmt.Sprintf("ValueChanged(%v)", o.Change)
	case WasNoneNowSome:
		return fmt.Sprintf("WasNoneNowSome(%v)", o.Value)
	default:
		return o.Kind.String()
	}
}

// Option diffs optional values represented as pointers. A nil pointer is
// absent; present values are diffed with inner.
func Option[V, C any](inner Differ[V, C]) Differ[*V, OptionDiff[V, C]] {
	return func(old, updated *V) Diff[OptionDiff[V, C]] {
		switch {
		case old == nil && updated == nil:
			return NotChanged[OptionDiff[V, C]]()
		case old == nil:
			return ChangedTo(OptionWasNoneNowSome[V, C](*updated))
		case updated == nil:
			return ChangedTo(OptionWasSomeNowNone[V, C]())
		}
		d := inner(*old, *updated)
		if !d.Changed {
			return NotChanged[OptionDiff[V, C]]()
		}
		return ChangedTo(OptionValueChanged[V](d.To))
	}
}
