// Package storage adapts pallet storage kept in a store.Backend to the
// uniform capability the harness checks: a name, a snapshot of the current
// value, and a diff between two snapshots.
//
// Three shapes are supported:
//
//   - Value / ValueQuery: a single value. Value snapshots as *V (nil when
//     absent); ValueQuery substitutes a default when empty.
//   - Map: a single-keyed map, snapshotted as map[K]V by scanning the whole
//     key space.
//   - DoubleMap: a double-keyed map, snapshotted as map[K1]map[K2]V.
//
// # Key layout
//
// Every storage owns the 16-byte prefix xxhash64(pallet) ‖ xxhash64(name),
// hashed after NFC normalization.
// Map keys follow as hasher segments (see Hasher); both hashers keep the
// encoded key so scans can decode it. Keys and values are JSON.
//
// Snapshots are read-only. Decode failures are returned as *Error and are
// meant to abort the caller, not to be reported as assertion failures.
package storage
