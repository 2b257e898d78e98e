// Package memory provides an in-memory vector store, used in tests and
// as the reference for the persistent backends.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/studyrag/internal/adapters/driven/vectorstore"
	"github.com/custodia-labs/studyrag/internal/core/domain"
	"github.com/custodia-labs/studyrag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store keeps per-user entry slices in memory. Each user's slice is
// independent; nothing is shared across users.
type Store struct {
	mu    sync.RWMutex
	users map[string]*userStore
}

type userStore struct {
	nextSeq int64
	entries []domain.StoreEntry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{users: make(map[string]*userStore)}
}

// Append adds new triples, assigning monotonically increasing sequence
// numbers. Existing entries are never touched.
func (s *Store) Append(_ context.Context, userID string, entries []domain.StoreEntry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[userID]
	if u == nil {
		u = &userStore{nextSeq: 1}
		s.users[userID] = u
	}

	for _, e := range entries {
		e.Seq = u.nextSeq
		u.nextSeq++
		u.entries = append(u.entries, e)
	}
	return nil
}

// Query returns the top k entries by cosine similarity.
func (s *Store) Query(_ context.Context, userID string, embedding []float32, k int) ([]domain.RetrievedChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.users[userID]
	if u == nil {
		return []domain.RetrievedChunk{}, nil
	}
	return vectorstore.Rank(u.entries, embedding, k), nil
}

// DeleteBySource removes every entry whose metadata references source.
func (s *Store) DeleteBySource(_ context.Context, userID, source string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[userID]
	if u == nil {
		return 0, nil
	}

	kept := u.entries[:0]
	removed := 0
	for _, e := range u.entries {
		if e.Metadata.Source == source {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	u.entries = kept
	return removed, nil
}

// Count returns the number of entries in the user's store.
func (s *Store) Count(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.users[userID]
	if u == nil {
		return 0, nil
	}
	return len(u.entries), nil
}

// Clear removes all entries for the user. The sequence counter is kept
// so identifiers are never reused within a process.
func (s *Store) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.users[userID]; u != nil {
		u.entries = nil
	}
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}
