// Package primitives provides the scalar domain types stored by pallets and
// diffed by value: fixed-point ratios, public keys, and size-bounded maps.
//
// Every type here is comparable (except BoundedMap) so it can be diffed with
// diff.Scalar. BoundedMap diffs through its unbounded entries via diff.Bounded.
package primitives
