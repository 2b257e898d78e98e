// Package file provides a filesystem-backed vector store: one JSON file
// per user holding the serialized triples and the sequence counter.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/studyrag/internal/adapters/driven/vectorstore"
	"github.com/custodia-labs/studyrag/internal/core/domain"
	"github.com/custodia-labs/studyrag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// storeFileName is the per-user serialized store file.
const storeFileName = "store.json"

// Store persists each user's triples under
// <baseDir>/<user>/vectordb/store.json. Writes go to a temp file first
// and are moved into place with an atomic rename, so a crash never
// leaves a half-written store behind.
type Store struct {
	baseDir string

	mu    sync.RWMutex
	cache map[string]*userData
}

// userData is the on-disk document for one user.
type userData struct {
	mu      sync.RWMutex
	NextSeq int64               `json:"next_seq"`
	Entries []domain.StoreEntry `json:"entries"`
}

// NewStore creates a file-backed store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{
		baseDir: baseDir,
		cache:   make(map[string]*userData),
	}
}

// Path returns the store file location for a user.
func (s *Store) Path(userID string) string {
	return filepath.Join(s.baseDir, userID, "vectordb", storeFileName)
}

// user returns the cached data for userID, loading it from disk once.
func (s *Store) user(userID string) (*userData, error) {
	s.mu.RLock()
	d, ok := s.cache[userID]
	s.mu.RUnlock()
	if ok {
		return d, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.cache[userID]; ok {
		return d, nil
	}

	d = &userData{NextSeq: 1}
	raw, err := os.ReadFile(s.Path(userID))
	switch {
	case os.IsNotExist(err):
		// first use, empty store
	case err != nil:
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreIO, s.Path(userID), err)
	default:
		if err := json.Unmarshal(raw, d); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrStoreIO, s.Path(userID), err)
		}
	}
	if d.NextSeq < 1 {
		d.NextSeq = 1
	}

	s.cache[userID] = d
	return d, nil
}

// persist writes the user's data to disk atomically.
// Callers hold the user's write lock.
func (s *Store) persist(userID string, d *userData) error {
	path := s.Path(userID)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("%w: create store dir: %v", domain.ErrStoreIO, err)
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("%w: encode store: %v", domain.ErrStoreIO, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStoreIO, tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", domain.ErrStoreIO, tmp, err)
	}
	return nil
}

// Append adds new triples, assigning monotonically increasing sequence
// numbers, and persists the store before returning.
func (s *Store) Append(_ context.Context, userID string, entries []domain.StoreEntry) error {
	if len(entries) == 0 {
		return nil
	}

	d, err := s.user(userID)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	appended := make([]domain.StoreEntry, 0, len(entries))
	for _, e := range entries {
		e.Seq = d.NextSeq
		d.NextSeq++
		appended = append(appended, e)
	}
	d.Entries = append(d.Entries, appended...)

	if err := s.persist(userID, d); err != nil {
		// roll the in-memory state back so cache and disk agree
		d.Entries = d.Entries[:len(d.Entries)-len(appended)]
		d.NextSeq -= int64(len(appended))
		return err
	}
	return nil
}

// Query returns the top k entries by cosine similarity.
func (s *Store) Query(_ context.Context, userID string, embedding []float32, k int) ([]domain.RetrievedChunk, error) {
	d, err := s.user(userID)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return vectorstore.Rank(d.Entries, embedding, k), nil
}

// DeleteBySource removes every entry whose metadata references source
// and persists the store before returning.
func (s *Store) DeleteBySource(_ context.Context, userID, source string) (int, error) {
	d, err := s.user(userID)
	if err != nil {
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	kept := make([]domain.StoreEntry, 0, len(d.Entries))
	removed := 0
	for _, e := range d.Entries {
		if e.Metadata.Source == source {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return 0, nil
	}

	old := d.Entries
	d.Entries = kept
	if err := s.persist(userID, d); err != nil {
		d.Entries = old
		return 0, err
	}
	return removed, nil
}

// Count returns the number of entries in the user's store.
func (s *Store) Count(_ context.Context, userID string) (int, error) {
	d, err := s.user(userID)
	if err != nil {
		return 0, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.Entries), nil
}

// Clear removes all entries for the user. The sequence counter survives
// so identifiers are never reused.
func (s *Store) Clear(_ context.Context, userID string) error {
	d, err := s.user(userID)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	old := d.Entries
	d.Entries = nil
	if err := s.persist(userID, d); err != nil {
		d.Entries = old
		return err
	}
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}
