package testutil

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// DeterministicRunIDs generates a reproducible sequence of run IDs.
//
// IDs are name-based (SHA-1) UUIDs of "<seed>-<n>" for n = 1, 2, ..., so the
// same seed always yields the same sequence across test runs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicRunIDs struct {
	mu   sync.Mutex
	seed string
	seq  int64
}

// NewDeterministicRunIDs creates a generator. If seed is empty it defaults
// to "test-run".
func NewDeterministicRunIDs(seed string) *DeterministicRunIDs {
	if seed == "" {
		seed = "test-run"
	}
	return &DeterministicRunIDs{seed: seed}
}

// Next returns the next run ID.
func (g *DeterministicRunIDs) Next() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s-%d", g.seed, g.seq)))
}

// Reset restarts the sequence.
func (g *DeterministicRunIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
