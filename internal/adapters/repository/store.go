// Package repository holds the per-run interaction store.
package repository

import (
	"context"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

// Store is the in-memory interaction index of one engine run. It is written
// by a single writer during ingestion and read-only after Seal.
type Store interface {
	// Insert appends an interaction. Returns ErrSealed after Seal.
	Insert(ctx context.Context, in model.Interaction) error

	// Seal freezes the store and publishes the sorted, indexed snapshot.
	// Reads before Seal return ErrNotSealed.
	Seal(ctx context.Context)

	// All returns every interaction in model.Compare order.
	All(ctx context.Context) ([]model.Interaction, error)

	// ByCounterpart returns the interactions with id in model.Compare order.
	ByCounterpart(ctx context.Context, id model.Identity) ([]model.Interaction, error)

	// BySource returns the interactions of src in model.Compare order.
	BySource(ctx context.Context, src model.Source) ([]model.Interaction, error)

	// Counterparts returns every distinct counterpart in ascending order.
	Counterparts(ctx context.Context) ([]model.Identity, error)

	// CountBySource returns the number of interactions per source; every
	// known source is present.
	CountBySource(ctx context.Context) map[model.Source]int

	// Count returns the number of stored interactions.
	Count(ctx context.Context) int
}
