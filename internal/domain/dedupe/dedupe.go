// Package dedupe tracks raw record ids already ingested within one run.
//
// Paged source APIs can return the same record twice; adapters consult a
// Deduper so a repeated id contributes evidence only once. A Deduper lives
// for a single engine run and is never shared across runs.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen record ids.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	// The empty id is never considered seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Size returns the number of distinct ids recorded.
	Size() int64
}

// inMemoryDeduper implements Deduper with a mutex-guarded set. Adapters may
// run on separate goroutines, so the set is safe for concurrent use.
type inMemoryDeduper struct {
	mu           sync.Mutex
	seen         map[string]struct{}
	capacityHint int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{}, d.capacityHint)
	return d
}

// SeenAndRecord implements Deduper.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	if id == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

// Size implements Deduper.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
