// Package diff computes "changed or not changed" outcomes between two
// observations of a value.
//
// A Diff carries the changeset describing the new state when something
// changed. For scalars the changeset is the new value itself; for optional
// values it is an OptionDiff and for maps a map of per-key MapValueDiff
// entries, recursively.
//
// Diffs are built by Differ functions, composed from a small closed set of
// shapes:
//
//	diff.Scalar[uint32]()                         // equality
//	diff.Option(diff.Scalar[uint32]())            // *uint32
//	diff.Map[uint64](diff.Scalar[uint64]())       // map[uint64]uint64
//	diff.Map[uint64](diff.Map[uint64](inner))     // double-keyed maps
//
// Only the endpoints are observed: a key added and removed between the two
// observations is indistinguishable from one that never existed.
package diff
