package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFileType indicates a file type no extractor handles.
	// This is a caller error and is never retried.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrExtractionFailed indicates a file could not be parsed.
	// The file is not recorded in the ledger, so a corrected re-upload
	// is picked up naturally on the next reconcile.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmbeddingFailed indicates the provider returned an error for one
	// chunk. Other chunks in the same document are unaffected.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrEmbeddingUnavailable indicates the embedding provider cannot be
	// reached at all. Query callers must surface this rather than treat
	// it as "no relevant content".
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrStoreIO indicates the vector store or ledger could not persist
	// or read data. The operation fails; no false success is reported.
	ErrStoreIO = errors.New("store I/O failure")
)
