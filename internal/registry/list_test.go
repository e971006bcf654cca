package registry

import (
	"errors"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name  string
	value int
}

func byName(e entry) string { return e.name }

func entries(names ...string) List[entry] {
	var l List[entry]
	for i, n := range names {
		l = l.Append(entry{name: n, value: i})
	}
	return l
}

func names(l List[entry]) []string {
	return Map(l, byName).Slice()
}

func TestList_Basics(t *testing.T) {
	var empty List[int]
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.Slice())

	l := Of(1, 2, 3)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 2, l.At(1))
	assert.Equal(t, []int{0, 1, 2, 3}, l.Prepend(0).Slice())
	assert.Equal(t, []int{1, 2, 3, 4}, l.Append(4).Slice())
	assert.Equal(t, []int{1, 2, 3}, l.Slice(), "operations leave the receiver untouched")
}

func TestList_OfCopiesInput(t *testing.T) {
	src := []int{1, 2}
	l := Of(src...)
	src[0] = 99
	assert.Equal(t, 1, l.At(0))

	out := l.Slice()
	out[1] = 99
	assert.Equal(t, 2, l.At(1))
}

func TestList_AppendDoesNotAlias(t *testing.T) {
	base := Of(1, 2)
	a := base.Append(3)
	b := base.Append(4)
	assert.Equal(t, []int{1, 2, 3}, a.Slice())
	assert.Equal(t, []int{1, 2, 4}, b.Slice())
}

func TestList_Linearize(t *testing.T) {
	l := Of("a", "b", "c")
	assert.Equal(t, []string{"a", "b", "c"}, slices.Collect(l.Values()))

	var positions []int
	for i, v := range l.All() {
		if v == "c" {
			break
		}
		positions = append(positions, i)
	}
	assert.Equal(t, []int{0, 1}, positions)
}

func TestUnique(t *testing.T) {
	require.NoError(t, Unique(entries("a", "b", "c"), byName))
	require.NoError(t, Unique(List[entry]{}, byName))

	err := Unique(entries("a", "b", "a", "b"), byName)
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Key)
	assert.Equal(t, 0, dup.First)
	assert.Equal(t, 2, dup.Second)
}

func TestExtract(t *testing.T) {
	l := entries("a", "b", "c", "d")

	got, rest, err := Extract(l, byName, "c")
	require.NoError(t, err)
	assert.Equal(t, entry{name: "c", value: 2}, got)
	assert.Equal(t, []string{"a", "b", "d"}, names(rest))
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(l))
}

func TestExtract_RemainderKeepsOrder(t *testing.T) {
	all := []string{"a", "b", "c", "d", "e", "f"}
	for i := range all {
		for j := range all {
			if i == j {
				continue
			}
			t.Run(all[i]+all[j], func(t *testing.T) {
				_, rest, err := Extract(entries(all...), byName, all[i])
				require.NoError(t, err)
				_, rest, err = Extract(rest, byName, all[j])
				require.NoError(t, err)

				want := slices.DeleteFunc(slices.Clone(all), func(s string) bool {
					return s == all[i] || s == all[j]
				})
				assert.Equal(t, want, names(rest))
			})
		}
	}
}

func TestExtract_Errors(t *testing.T) {
	_, rest, err := Extract(entries("a", "b"), byName, "z")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, rest.Len())

	_, _, err = Extract(entries("a", "b", "a"), byName, "a")
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, _, err = Extract(List[entry]{}, byName, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMapAndTryMap(t *testing.T) {
	l := Of(1, 2, 3)
	assert.Equal(t, []string{"1", "2", "3"}, Map(l, strconv.Itoa).Slice())

	doubled, err := TryMap(l, func(v int) (int, error) { return v * 2, nil })
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6}, doubled.Slice())

	boom := errors.New("boom")
	var calls int
	_, err = TryMap(l, func(v int) (int, error) {
		calls++
		if v == 2 {
			return 0, boom
		}
		return v, nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls, "TryMap stops at the first error")
}

func TestZip(t *testing.T) {
	z, err := Zip(Of("a", "b"), Of(1, 2))
	require.NoError(t, err)
	assert.Equal(t, []Pair[string, int]{{"a", 1}, {"b", 2}}, z.Slice())

	_, err = Zip(Of("a"), Of(1, 2))
	var mismatch *LengthMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, mismatch.Left)
	assert.Equal(t, 2, mismatch.Right)
}

func TestConcat(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, Concat(Of(1), Of(2, 3)).Slice())
	assert.Equal(t, []int{1}, Concat(Of(1), List[int]{}).Slice())
}
