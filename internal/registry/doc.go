// Package registry provides List, an immutable ordered list of independently
// typed entries, and the operations the harness needs over it: uniqueness
// checks, extraction by key, projections and linearization.
//
// Entries are usually type-erased storages (storage.Tracked). Keys are
// compared with ==, so any comparable identity such as storage.Name works.
// Every operation returns a new List and leaves its inputs untouched.
package registry
