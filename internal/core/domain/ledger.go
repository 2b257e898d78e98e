package domain

import "time"

// FileState is one processed-file ledger entry: a source file that has
// been fully ingested, keyed by its absolute path.
//
// Invariant: every ledger entry corresponds to a file whose chunks were
// all appended to the vector store at the recorded ModTime. A file whose
// ingestion partially failed is deliberately absent so the next reconcile
// retries it.
type FileState struct {
	// Path is the absolute path of the source file.
	Path string

	// ModTime is the file's last-modified time when it was ingested.
	ModTime time.Time
}

// FileClass is the reconcile classification of one file.
type FileClass int

const (
	// FileUnchanged means the ledger entry matches the file on disk.
	FileUnchanged FileClass = iota

	// FileNew means the file has no ledger entry or a newer mtime.
	FileNew

	// FileRemoved means the ledger entry's file no longer exists.
	FileRemoved
)

// Classify compares a file's current mtime against the ledger.
// A zero modTime means the file is gone from disk.
func Classify(ledger map[string]time.Time, path string, modTime time.Time) FileClass {
	if modTime.IsZero() {
		return FileRemoved
	}
	seen, ok := ledger[path]
	if !ok || modTime.After(seen) {
		return FileNew
	}
	return FileUnchanged
}
