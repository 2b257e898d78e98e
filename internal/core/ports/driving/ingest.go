package driving

import (
	"context"
	"time"
)

// Ingestor drives documents through extraction, chunking, embedding and
// storage, and keeps the processed-file ledger in sync with the user's
// upload folder.
type Ingestor interface {
	// IngestDocument stores the uploaded bytes in the user's folder and
	// runs the full pipeline. Partial success is reported, never hidden:
	// chunks whose embedding failed are listed in the report and the file
	// stays unprocessed in the ledger so the next reconcile retries it.
	IngestDocument(ctx context.Context, userID string, data []byte, fileName, fileType string) (*IngestReport, error)

	// RemoveDocument deletes the file and every chunk it contributed.
	RemoveDocument(ctx context.Context, userID, fileName string) (*RemoveReport, error)

	// Reconcile brings the vector store in line with the upload folder:
	// new and updated files are (re-)ingested, removed files are
	// cascade-deleted. Per-file failures are counted and skipped; the
	// next reconcile retries them.
	Reconcile(ctx context.Context, userID string) (*ReconcileReport, error)

	// ListFiles returns the user's uploaded files.
	ListFiles(ctx context.Context, userID string) ([]FileInfo, error)

	// ClearUserData wipes the user's store, ledger and upload folder.
	ClearUserData(ctx context.Context, userID string) error
}

// IngestReport summarises one document ingestion.
type IngestReport struct {
	// FileName is the ingested file's base name.
	FileName string

	// ChunksAdded is how many chunks were embedded and stored.
	ChunksAdded int

	// FailedChunks holds the indices of chunks whose embedding failed.
	// Non-empty means partial success.
	FailedChunks []int
}

// RemoveReport summarises a document removal.
type RemoveReport struct {
	// ChunksRemoved is how many stored triples referenced the document.
	ChunksRemoved int
}

// ReconcileReport summarises one reconcile pass.
type ReconcileReport struct {
	// Ingested counts files newly processed or refreshed.
	Ingested int

	// Removed counts files whose chunks were cascade-deleted.
	Removed int

	// Failed counts files skipped this pass due to extraction or
	// embedding errors. They remain unprocessed and retry next pass.
	Failed int
}

// FileInfo describes one uploaded file.
type FileInfo struct {
	// Name is the file's base name.
	Name string

	// Size is the file size in bytes.
	Size int64

	// ModTime is the file's last-modified time.
	ModTime time.Time

	// Processed reports whether the ledger marks the file fully ingested.
	Processed bool
}
