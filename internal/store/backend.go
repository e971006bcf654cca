package store

import (
	"bytes"
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("store: key not found")

// Backend is an ordered byte key-value store.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key []byte) error

	// Scan calls fn for every key starting with prefix, in ascending key
	// order. The slices passed to fn are only valid during the call.
	// A non-nil error from fn stops the scan and is returned.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) error) error

	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix []byte) error

	// Close releases the backend.
	Close() error
}

// PrefixEnd returns the smallest key greater than every key starting with
// prefix, or nil if no such key exists (prefix is empty or all 0xff).
func PrefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
