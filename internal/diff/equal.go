package diff

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// equivalence treats nil and empty slices and maps as equal, as storage
// decodes an absent collection as nil and a stored empty one as empty. It
// also reaches unexported fields so any value or changeset type compares
// without panicking.
var equivalence = cmp.Options{
	cmpopts.EquateEmpty(),
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// Equivalent reports whether x and y are structurally equal. Types with an
// Equal method are compared with it.
func Equivalent(x, y any) bool {
	return cmp.Equal(x, y, equivalence)
}

// mapEntry is implemented by MapValueDiff only.
type mapEntry interface {
	mapEntry()
}

func (MapValueDiff[V, C]) mapEntry() {}

var mapEntryType = reflect.TypeFor[mapEntry]()

// NoChange reports whether c records no change at all: a map changeset
// without entries or the unit changeset. Changesets that carry a new value
// are never empty, even when that value is.
func NoChange(c any) bool {
	if c == nil {
		return true
	}
	t := reflect.TypeOf(c)
	switch {
	case t.Kind() == reflect.Map && t.Elem().Implements(mapEntryType):
		return reflect.ValueOf(c).Len() == 0
	case t.Kind() == reflect.Struct && t.NumField() == 0:
		return true
	}
	return false
}
