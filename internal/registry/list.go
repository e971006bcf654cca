package registry

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	// ErrNotFound is returned by Extract when no entry has the wanted key.
	ErrNotFound = errors.New("registry: entry not found")

	// ErrAmbiguous is returned by Extract when more than one entry has the
	// wanted key.
	ErrAmbiguous = errors.New("registry: entry is ambiguous")
)

// DuplicateError is returned by Unique. Key is the repeated key and First
// and Second are the positions of its first two occurrences.
type DuplicateError struct {
	Key    any
	First  int
	Second int
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("registry: duplicate key %v at positions %d and %d", e.Key, e.First, e.Second)
}

// LengthMismatchError is returned by Zip when the lists differ in length.
type LengthMismatchError struct {
	Left  int
	Right int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("registry: cannot zip lists of length %d and %d", e.Left, e.Right)
}

// List is an immutable ordered list. The zero value is an empty list.
type List[T any] struct {
	items []T
}

// Of builds a list holding items in order. items is copied.
func Of[T any](items ...T) List[T] {
	return List[T]{items: slices.Clone(items)}
}

// Len returns the number of entries.
func (l List[T]) Len() int {
	return len(l.items)
}

// At returns the entry at position i. It panics if i is out of range.
func (l List[T]) At(i int) T {
	return l.items[i]
}

// Append returns a list with v added at the end.
func (l List[T]) Append(v T) List[T] {
	items := make([]T, 0, len(l.items)+1)
	items = append(items, l.items...)
	return List[T]{items: append(items, v)}
}

// Prepend returns a list with v added at the front.
func (l List[T]) Prepend(v T) List[T] {
	items := make([]T, 0, len(l.items)+1)
	items = append(items, v)
	return List[T]{items: append(items, l.items...)}
}

// Slice returns a copy of the entries.
func (l List[T]) Slice() []T {
	return slices.Clone(l.items)
}

// All yields every entry with its position.
func (l List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values yields every entry in order.
func (l List[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range l.items {
			if !yield(v) {
				return
			}
		}
	}
}

// Unique checks that no two entries share a key.
func Unique[T any, K comparable](l List[T], key func(T) K) error {
	seen := make(map[K]int, len(l.items))
	for i, v := range l.items {
		k := key(v)
		if first, ok := seen[k]; ok {
			return &DuplicateError{Key: k, First: first, Second: i}
		}
		seen[k] = i
	}
	return nil
}

// Extract removes the single entry whose key is want. The remainder keeps
// the relative order of the other entries.
func Extract[T any, K comparable](l List[T], key func(T) K, want K) (T, List[T], error) {
	var zero T
	at := -1
	for i, v := range l.items {
		if key(v) != want {
			continue
		}
		if at >= 0 {
			return zero, l, fmt.Errorf("%w: %v", ErrAmbiguous, want)
		}
		at = i
	}
	if at < 0 {
		return zero, l, fmt.Errorf("%w: %v", ErrNotFound, want)
	}
	rest := make([]T, 0, len(l.items)-1)
	rest = append(rest, l.items[:at]...)
	rest = append(rest, l.items[at+1:]...)
	return l.items[at], List[T]{items: rest}, nil
}

// Map projects every entry through f.
func Map[T, U any](l List[T], f func(T) U) List[U] {
	out := make([]U, len(l.items))
	for i, v := range l.items {
		out[i] = f(v)
	}
	return List[U]{items: out}
}

// TryMap projects every entry through f and stops at the first error.
func TryMap[T, U any](l List[T], f func(T) (U, error)) (List[U], error) {
	out := make([]U, len(l.items))
	for i, v := range l.items {
		u, err := f(v)
		if err != nil {
			return List[U]{}, err
		}
		out[i] = u
	}
	return List[U]{items: out}, nil
}

// Pair is one element of a zipped list.
type Pair[A, B any] struct {
	Left  A
	Right B
}

// Zip pairs the entries of a and b by position.
func Zip[A, B any](a List[A], b List[B]) (List[Pair[A, B]], error) {
	if len(a.items) != len(b.items) {
		return List[Pair[A, B]]{}, &LengthMismatchError{Left: len(a.items), Right: len(b.items)}
	}
	out := make([]Pair[A, B], len(a.items))
	for i := range a.items {
		out[i] = Pair[A, B]{Left: a.items[i], Right: b.items[i]}
	}
	return List[Pair[A, B]]{items: out}, nil
}

// Concat returns the entries of a followed by those of b.
func Concat[T any](a, b List[T]) List[T] {
	items := make([]T, 0, len(a.items)+len(b.items))
	items = append(items, a.items...)
	return List[T]{items: append(items, b.items...)}
}
