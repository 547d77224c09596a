package repository

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

// snapshot is the immutable, indexed view published by Seal.
type snapshot struct {
	items         []model.Interaction // model.Compare order
	byCounterpart map[model.Identity][]int
	bySource      map[model.Source][]int
	counterparts  []model.Identity
}

// MemoryStore implements Store. Insertion order never affects reads: Seal
// sorts by model.Compare before indexing.
type MemoryStore struct {
	mu       sync.Mutex
	pending  []model.Interaction
	sealed   bool
	capacity int

	snap atomic.Pointer[snapshot]
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.pending = make([]model.Interaction, 0, s.capacity)
	return s
}

// Insert implements Store.
func (s *MemoryStore) Insert(_ context.Context, in model.Interaction) error {
	if in.Counterpart == "" {
		return errors.Wrap(ErrInvalidInteraction, "empty counterpart")
	}
	if !in.Source.Valid() {
		return errors.Wrapf(ErrInvalidInteraction, "unknown source %q", in.Source)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return ErrSealed
	}
	s.pending = append(s.pending, in)
	return nil
}

// Seal implements Store. Sealing twice is a no-op.
func (s *MemoryStore) Seal(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return
	}
	s.sealed = true

	items := s.pending
	s.pending = nil
	slices.SortStableFunc(items, model.Compare)

	snap := &snapshot{
		items:         items,
		byCounterpart: make(map[model.Identity][]int),
		bySource:      make(map[model.Source][]int, len(model.Sources())),
	}
	for i, in := range items {
		if _, ok := snap.byCounterpart[in.Counterpart]; !ok {
			snap.counterparts = append(snap.counterparts, in.Counterpart)
		}
		snap.byCounterpart[in.Counterpart] = append(snap.byCounterpart[in.Counterpart], i)
		snap.bySource[in.Source] = append(snap.bySource[in.Source], i)
	}
	slices.Sort(snap.counterparts)
	s.snap.Store(snap)
}

func (s *MemoryStore) view() (*snapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrNotSealed
	}
	return snap, nil
}

// All implements Store.
func (s *MemoryStore) All(context.Context) ([]model.Interaction, error) {
	snap, err := s.view()
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.items), nil
}

// ByCounterpart implements Store.
func (s *MemoryStore) ByCounterpart(_ context.Context, id model.Identity) ([]model.Interaction, error) {
	snap, err := s.view()
	if err != nil {
		return nil, err
	}
	return snap.pick(snap.byCounterpart[id]), nil
}

// BySource implements Store.
func (s *MemoryStore) BySource(_ context.Context, src model.Source) ([]model.Interaction, error) {
	snap, err := s.view()
	if err != nil {
		return nil, err
	}
	return snap.pick(snap.bySource[src]), nil
}

// Counterparts implements Store.
func (s *MemoryStore) Counterparts(context.Context) ([]model.Identity, error) {
	snap, err := s.view()
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.counterparts), nil
}

// CountBySource implements Store. Before Seal counts are taken from the
// insertion buffer.
func (s *MemoryStore) CountBySource(context.Context) map[model.Source]int {
	out := make(map[model.Source]int, len(model.Sources()))
	for _, src := range model.Sources() {
		out[src] = 0
	}
	if snap := s.snap.Load(); snap != nil {
		for src, idx := range snap.bySource {
			out[src] = len(idx)
		}
		return out
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range s.pending {
		out[in.Source]++
	}
	return out
}

// Count implements Store.
func (s *MemoryStore) Count(context.Context) int {
	if snap := s.snap.Load(); snap != nil {
		return len(snap.items)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (snap *snapshot) pick(idx []int) []model.Interaction {
	out := make([]model.Interaction, len(idx))
	for i, j := range idx {
		out[i] = snap.items[j]
	}
	return out
}
