// Package memory provides an in-memory processed-file ledger for tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/studyrag/internal/core/ports/driven"
)

// Ensure Ledger implements the interface.
var _ driven.LedgerStore = (*Ledger)(nil)

// Ledger keeps per-user path→mtime maps in memory.
type Ledger struct {
	mu    sync.RWMutex
	users map[string]map[string]time.Time
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{users: make(map[string]map[string]time.Time)}
}

// All returns a copy of the user's ledger.
func (l *Ledger) All(_ context.Context, userID string) (map[string]time.Time, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]time.Time, len(l.users[userID]))
	for k, v := range l.users[userID] {
		out[k] = v
	}
	return out, nil
}

// Set records or updates one entry.
func (l *Ledger) Set(_ context.Context, userID, path string, modTime time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.users[userID] == nil {
		l.users[userID] = make(map[string]time.Time)
	}
	l.users[userID][path] = modTime
	return nil
}

// Delete drops one entry.
func (l *Ledger) Delete(_ context.Context, userID, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.users[userID], path)
	return nil
}

// Clear drops all entries for the user.
func (l *Ledger) Clear(_ context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.users, userID)
	return nil
}
