// Package file provides a JSON-file-backed processed-file ledger:
// per user, one file mapping absolute source paths to the modification
// time seen when the file was fully ingested.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/studyrag/internal/core/domain"
	"github.com/custodia-labs/studyrag/internal/core/ports/driven"
)

// Ensure Ledger implements the interface.
var _ driven.LedgerStore = (*Ledger)(nil)

// ledgerFileName is the per-user ledger file.
const ledgerFileName = "processed_files.json"

// Ledger stores each user's ledger at <baseDir>/<user>/processed_files.json,
// written atomically via rename.
type Ledger struct {
	baseDir string
	mu      sync.Mutex
}

// NewLedger creates a file-backed ledger rooted at baseDir.
func NewLedger(baseDir string) *Ledger {
	return &Ledger{baseDir: baseDir}
}

// Path returns the ledger file location for a user.
func (l *Ledger) Path(userID string) string {
	return filepath.Join(l.baseDir, userID, ledgerFileName)
}

// All returns the user's complete ledger. A missing file is an empty
// ledger, not an error.
func (l *Ledger) All(_ context.Context, userID string) (map[string]time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(userID)
}

// Set records or updates one entry.
func (l *Ledger) Set(_ context.Context, userID, path string, modTime time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ledger, err := l.load(userID)
	if err != nil {
		return err
	}
	ledger[path] = modTime
	return l.save(userID, ledger)
}

// Delete drops one entry. Deleting a missing entry is not an error.
func (l *Ledger) Delete(_ context.Context, userID, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ledger, err := l.load(userID)
	if err != nil {
		return err
	}
	if _, ok := ledger[path]; !ok {
		return nil
	}
	delete(ledger, path)
	return l.save(userID, ledger)
}

// Clear drops all entries for the user.
func (l *Ledger) Clear(_ context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.save(userID, map[string]time.Time{})
}

func (l *Ledger) load(userID string) (map[string]time.Time, error) {
	raw, err := os.ReadFile(l.Path(userID))
	if os.IsNotExist(err) {
		return map[string]time.Time{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read ledger: %v", domain.ErrStoreIO, err)
	}

	ledger := make(map[string]time.Time)
	if err := json.Unmarshal(raw, &ledger); err != nil {
		return nil, fmt.Errorf("%w: decode ledger: %v", domain.ErrStoreIO, err)
	}
	return ledger, nil
}

func (l *Ledger) save(userID string, ledger map[string]time.Time) error {
	path := l.Path(userID)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("%w: create ledger dir: %v", domain.ErrStoreIO, err)
	}

	raw, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode ledger: %v", domain.ErrStoreIO, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("%w: write ledger: %v", domain.ErrStoreIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: rename ledger: %v", domain.ErrStoreIO, err)
	}
	return nil
}
