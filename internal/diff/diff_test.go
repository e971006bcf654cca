package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/changeset/internal/primitives"
)

func TestScalar_EqualValuesNotChanged(t *testing.T) {
	assert.Equal(t, NotChanged[uint32](), Scalar[uint32]()(7, 7))
	assert.Equal(t, NotChanged[int8](), Scalar[int8]()(-3, -3))
	assert.Equal(t, NotChanged[primitives.Perbill](), Scalar[primitives.Perbill]()(
		primitives.PerbillFromPercent(5), primitives.PerbillFromPercent(5)))
}

func TestScalar_DifferentValuesChangedToNew(t *testing.T) {
	assert.Equal(t, ChangedTo[uint64](10), Scalar[uint64]()(15, 10))

	a, b := primitives.PublicKey{1}, primitives.PublicKey{2}
	assert.Equal(t, ChangedTo(b), Scalar[primitives.PublicKey]()(a, b))

	f := primitives.FixedU128FromInt(3)
	assert.Equal(t, ChangedTo(f), Scalar[primitives.FixedU128]()(primitives.FixedU128FromInt(2), f))
}

func TestDiff_ZeroValueIsNotChanged(t *testing.T) {
	var d Diff[string]
	assert.False(t, d.Changed)
	assert.Equal(t, NotChanged[string](), d)
	assert.Equal(t, "NotChanged", d.String())
	assert.Equal(t, "ChangedTo(x)", ChangedTo("x").String())
}

func TestEqual_Slices(t *testing.T) {
	d := Equal[[]string]()
	assert.False(t, d([]string{"a", "b"}, []string{"a", "b"}).Changed)

	got := d([]string{"a"}, []string{"a", "b"})
	require.True(t, got.Changed)
	assert.Equal(t, []string{"a", "b"}, got.To)
}

func TestEqual_NilAndEmptyAreTheSame(t *testing.T) {
	type event struct {
		Kind string
		Tags []string
	}
	d := Equal[[]event]()
	assert.False(t, d(nil, []event{}).Changed)
	assert.False(t, d([]event{}, nil).Changed)
	assert.False(t, d([]event{{Kind: "a"}}, []event{{Kind: "a", Tags: []string{}}}).Changed)
	assert.True(t, d(nil, []event{{Kind: "a"}}).Changed)
}

func TestEquivalent_UnexportedFields(t *testing.T) {
	type opaque struct {
		n    int
		tags []string
	}
	assert.NotPanics(t, func() {
		assert.True(t, Equivalent(opaque{n: 1}, opaque{n: 1, tags: []string{}}))
		assert.False(t, Equivalent(opaque{n: 1}, opaque{n: 2}))
	})

	want := ChangedTo(opaque{n: 1})
	assert.True(t, want.Equal(ChangedTo(opaque{n: 1})))
	assert.False(t, Equivalent(opaque{n: 1}, 1), "different dynamic types")
}

func TestNoChange(t *testing.T) {
	tests := []struct {
		name string
		c    any
		want bool
	}{
		{"nil", nil, true},
		{"empty map changeset", map[uint32]MapValueDiff[uint32, uint32]{}, true},
		{"nil map changeset", map[uint32]MapValueDiff[uint32, uint32](nil), true},
		{"unit", struct{}{}, true},
		{"map changeset with entry", map[uint32]MapValueDiff[uint32, uint32]{1: Missing[uint32, uint32]()}, false},
		{"empty plain map", map[uint32]uint32{}, false},
		{"empty slice value", []string{}, false},
		{"scalar zero", uint32(0), false},
		{"option", NowNone[uint32](), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NoChange(tt.c))
		})
	}
}

func TestUnit_NeverChanges(t *testing.T) {
	assert.Equal(t, NotChanged[struct{}](), Unit()(struct{}{}, struct{}{}))
}

func TestOption(t *testing.T) {
	d := Option(Scalar[uint32]())
	some := func(v uint32) *uint32 { return &v }

	tests := []struct {
		name     string
		old, new *uint32
		want     Diff[OptionDiff[uint32, uint32]]
	}{
		{"none none", nil, nil, NotChanged[OptionDiff[uint32, uint32]]()},
		{"none some", nil, some(42), ChangedTo(NowSome[uint32](42))},
		{"some none", some(42), nil, ChangedTo(NowNone[uint32]())},
		{"some same", some(42), some(42), NotChanged[OptionDiff[uint32, uint32]]()},
		{"some other", some(41), some(42), ChangedTo(SomeChanged[uint32](42))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d(tt.old, tt.new))
		})
	}
}

func TestOption_NestedMapCarriesInnerChangeset(t *testing.T) {
	d := Option(Map[string](Scalar[int]()))
	old := map[string]int{"a": 1}
	updated := map[string]int{"a": 2}

	got := d(&old, &updated)
	want := ChangedTo(OptionValueChanged[map[string]int](map[string]MapValueDiff[int, int]{
		"a": Changed[int](2),
	}))
	assert.Equal(t, want, got)
}

func TestMap_NotChanged(t *testing.T) {
	m := map[uint32]uint32{1: 10, 2: 20, 3: 30}
	updated := map[uint32]uint32{1: 10, 2: 20, 3: 30}
	assert.Equal(t, NotChanged[map[uint32]MapValueDiff[uint32, uint32]](), Map[uint32](Scalar[uint32]())(m, updated))
}

func TestMap_Added(t *testing.T) {
	m := map[uint32]uint32{1: 10, 2: 20, 3: 30}
	updated := map[uint32]uint32{1: 10, 2: 20, 3: 30, 4: 40}

	got := Map[uint32](Scalar[uint32]())(m, updated)
	assert.Equal(t, ChangedTo(map[uint32]MapValueDiff[uint32, uint32]{4: Added[uint32, uint32](40)}), got)
}

func TestMap_MissingChangedAdded(t *testing.T) {
	old := map[string]int{"keep": 1, "gone": 2, "edit": 3}
	updated := map[string]int{"keep": 1, "edit": 4, "new": 5}

	got := Map[string](Scalar[int]())(old, updated)
	require.True(t, got.Changed)
	assert.Equal(t, map[string]MapValueDiff[int, int]{
		"gone": Missing[int, int](),
		"edit": Changed[int](4),
		"new":  Added[int, int](5),
	}, got.To)
	assert.NotContains(t, got.To, "keep")
}

func TestMap_BothEmptyOrNil(t *testing.T) {
	d := Map[int](Scalar[int]())
	assert.False(t, d(nil, nil).Changed)
	assert.False(t, d(map[int]int{}, nil).Changed)
}

func TestMap_Nested(t *testing.T) {
	d := Map[uint64](Map[uint64](Scalar[uint64]()))
	old := map[uint64]map[uint64]uint64{1: {2: 10, 3: 30}, 5: {6: 60}}
	updated := map[uint64]map[uint64]uint64{1: {2: 11, 3: 30}, 7: {8: 80}}

	got := d(old, updated)
	require.True(t, got.Changed)
	assert.Equal(t, map[uint64]MapValueDiff[map[uint64]uint64, map[uint64]MapValueDiff[uint64, uint64]]{
		1: Changed[map[uint64]uint64](map[uint64]MapValueDiff[uint64, uint64]{2: Changed[uint64](uint64(11))}),
		5: Missing[map[uint64]uint64, map[uint64]MapValueDiff[uint64, uint64]](),
		7: Added[map[uint64]uint64, map[uint64]MapValueDiff[uint64, uint64]](map[uint64]uint64{8: 80}),
	}, got.To)
}

func TestMap_String(t *testing.T) {
	got := Map[int](Scalar[int]())(map[int]int{1: 1, 2: 2}, map[int]int{2: 3, 4: 40})
	assert.Equal(t, "ChangedTo(map[1:Missing 2:Changed(3) 4:Added(40)])", got.String())
}

func TestBounded_DiffsThroughEntries(t *testing.T) {
	old, err := primitives.BoundedMapFrom(4, map[string]uint8{"a": 1})
	require.NoError(t, err)
	updated, err := primitives.BoundedMapFrom(4, map[string]uint8{"a": 1, "b": 2})
	require.NoError(t, err)

	d := Bounded[string](Scalar[uint8]())
	assert.Equal(t, ChangedTo(map[string]MapValueDiff[uint8, uint8]{"b": Added[uint8, uint8](2)}), d(old, updated))
	assert.False(t, d(old, old).Changed)
}

func TestPairOf_Elementwise(t *testing.T) {
	d := PairOf(Scalar[uint8](), Scalar[string]())

	assert.False(t, d(Pair[uint8, string]{1, "a"}, Pair[uint8, string]{1, "a"}).Changed)

	got := d(Pair[uint8, string]{1, "a"}, Pair[uint8, string]{1, "b"})
	require.True(t, got.Changed)
	assert.False(t, got.To.First.Changed)
	assert.Equal(t, ChangedTo("b"), got.To.Second)
	assert.Equal(t, "ChangedTo((NotChanged, ChangedTo(b)))", got.String())
}

func TestDiff_EqualAndErase(t *testing.T) {
	a := ChangedTo(map[int]MapValueDiff[int, int]{1: Added[int, int](1)})
	b := ChangedTo(map[int]MapValueDiff[int, int]{1: Added[int, int](1)})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(NotChanged[map[int]MapValueDiff[int, int]]()))

	erased := a.Erase()
	require.True(t, erased.Changed)
	assert.Equal(t, a.To, erased.To)
	assert.Equal(t, NotChanged[any](), NotChanged[int]().Erase())
}

func TestOptionDiff_String(t *testing.T) {
	assert.Equal(t, "WasNoneNowSome(42)", NowSome[uint32](42).String())
	assert.Equal(t, "WasSomeNowNone", NowNone[uint32]().String())
	assert.Equal(t, "ValueChanged(7)", SomeChanged(7).String())
}
