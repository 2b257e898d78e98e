package driven

import (
	"context"
	"time"
)

// LedgerStore persists the processed-file ledger: per user, a mapping
// from absolute file path to the last-modified time seen when the file
// was fully ingested. Reconcile uses it to decide whether a file is new,
// updated, or removed.
type LedgerStore interface {
	// All returns the user's complete ledger.
	All(ctx context.Context, userID string) (map[string]time.Time, error)

	// Set records or updates one entry.
	Set(ctx context.Context, userID, path string, modTime time.Time) error

	// Delete drops one entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, userID, path string) error

	// Clear drops all entries for the user.
	Clear(ctx context.Context, userID string) error
}
