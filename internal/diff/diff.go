package diff

import "fmt"

// Diff is the outcome of comparing an old value with an updated one.
//
// The zero value is NotChanged. When Changed is true, To holds the changeset
// describing the updated value.
type Diff[C any] struct {
	Changed bool
	To      C
}

// NotChanged returns the diff of two equal values.
func NotChanged[C any]() Diff[C] {
	return Diff[C]{}
}

// ChangedTo returns a diff whose changeset is c.
func ChangedTo[C any](c C) Diff[C] {
	return Diff[C]{Changed: true, To: c}
}

// Equal compares two diffs with Equivalent.
func (d Diff[C]) Equal(o Diff[C]) bool {
	if d.Changed != o.Changed {
		return false
	}
	return !d.Changed || Equivalent(d.To, o.To)
}

// Erase boxes the changeset so diffs of differently typed values can be
// handled uniformly.
func (d Diff[C]) Erase() Diff[any] {
	if !d.Changed {
		return NotChanged[any]()
	}
	return ChangedTo[any](d.To)
}

func (d Diff[C]) String() string {
	if !d.Changed {
		return "NotChanged"
	}
	return fmt.Sprintf("ChangedTo(%v)", d.To)
}

// Differ diffs an old value against an updated one.
type Differ[V, C any] func(old, updated V) Diff[C]

// Scalar diffs by equality: NotChanged when old == updated, otherwise
// ChangedTo(updated).
func Scalar[V comparable]() Differ[V, V] {
	return func(old, updated V) Diff[V] {
		if old == updated {
			return NotChanged[V]()
		}
		return ChangedTo(updated)
	}
}

// Equal is Scalar for values that are not comparable with ==, such as slices
// and structs holding them. Equality is Equivalent, so a nil slice and an
// empty one are the same value.
func Equal[V any]() Differ[V, V] {
	return func(old, updated V) Diff[V] {
		if Equivalent(old, updated) {
			return NotChanged[V]()
		}
		return ChangedTo(updated)
	}
}

// Unit diffs the empty value, which can never change.
func Unit() Differ[struct{}, struct{}] {
	return func(struct{}, struct{}) Diff[struct{}] {
		return NotChanged[struct{}]()
	}
}

// PairChange is the changeset of a pair: each element's own diff.
type PairChange[CA, CB any] struct {
	First  Diff[CA]
	Second Diff[CB]
}

func (p PairChange[CA, CB]) String() string {
	return fmt.Sprintf("(%v, %v)", p.First, p.Second)
}

// Pair is an ordered pair of heterogeneous values.
type Pair[A, B any] struct {
	First  A
	Second B
}

// PairOf diffs a pair elementwise. The result is NotChanged only when both
// elements are unchanged.
func PairOf[A, CA, B, CB any](first Differ[A, CA], second Differ[B, CB]) Differ[Pair[A, B], PairChange[CA, CB]] {
	return func(old, updated Pair[A, B]) Diff[PairChange[CA, CB]] {
		change := PairChange[CA, CB]{
			First:  first(old.First, updated.First),
			Second: second(old.Second, updated.Second),
		}
		if !change.First.Changed && !change.Second.Changed {
			return NotChanged[PairChange[CA, CB]]()
		}
		return ChangedTo(change)
	}
}
