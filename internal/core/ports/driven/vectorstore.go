package driven

import (
	"context"

	"github.com/custodia-labs/studyrag/internal/core/domain"
)

// VectorStore persists (embedding, text, metadata) triples per user and
// answers exact top-K nearest-neighbour queries by brute-force cosine
// scan. Exactness over an approximate index is a deliberate trade-off at
// single-user corpus scale.
//
// Entries are append-only: existing triples are never mutated or
// reordered, and sequence numbers are never reused. Stores must survive
// process restart (the memory backend is test-only).
type VectorStore interface {
	// Append adds new triples to the user's store, assigning each a
	// monotonically increasing sequence number. The input Seq fields are
	// ignored.
	Append(ctx context.Context, userID string, entries []domain.StoreEntry) error

	// Query returns up to k stored triples ranked by descending cosine
	// similarity to the query embedding. Exact ties keep insertion
	// order. Fewer than k entries returns all of them; an empty store
	// returns an empty result, not an error.
	Query(ctx context.Context, userID string, embedding []float32, k int) ([]domain.RetrievedChunk, error)

	// DeleteBySource removes every triple whose metadata references the
	// given source file name, returning how many were removed. Callers
	// serialize this against Append and Clear on the same user.
	DeleteBySource(ctx context.Context, userID, source string) (int, error)

	// Count returns the number of triples in the user's store.
	Count(ctx context.Context, userID string) (int, error)

	// Clear removes all triples for the user.
	Clear(ctx context.Context, userID string) error

	// Close releases resources.
	Close() error
}
