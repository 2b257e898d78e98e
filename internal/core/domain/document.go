package domain

import "time"

// Document represents one uploaded source file (PDF or DOCX) owned by a
// single user. It is the unit the ledger tracks and the unit deletion
// cascades from.
type Document struct {
	// ID is the unique identifier assigned when the file is ingested.
	// A re-ingested file gets a fresh ID; its old chunks are replaced.
	ID string

	// UserID identifies the owning user. Stores are partitioned by user
	// and nothing crosses that boundary.
	UserID string

	// FileName is the base name of the uploaded file.
	FileName string

	// Path is the absolute location of the stored upload on disk.
	Path string

	// ModTime is the file's last-modified timestamp, used by reconcile
	// to detect re-uploads and edits.
	ModTime time.Time
}

// ChunkMetadata travels with every stored chunk and ties it back to the
// file it came from.
type ChunkMetadata struct {
	// Source is the base name of the originating file.
	Source string `json:"source"`

	// DocumentID links to the Document the chunk was cut from.
	DocumentID string `json:"document_id"`

	// UserID identifies the owning user.
	UserID string `json:"user_id"`

	// IngestedAt is when the chunk was embedded and stored.
	IngestedAt time.Time `json:"ingested_at"`
}

// StoreEntry is one (text, embedding, metadata) triple held by a vector
// store. Entries are immutable once appended.
type StoreEntry struct {
	// Seq is assigned by the store on append: monotonically increasing
	// per user, never reused. It fixes insertion order for tie-breaking.
	Seq int64 `json:"seq"`

	// Text is the chunk content.
	Text string `json:"text"`

	// Embedding is the chunk's vector representation. Providers return
	// unit-length vectors; stores do not rely on that.
	Embedding []float32 `json:"embedding"`

	// Metadata describes the chunk's origin.
	Metadata ChunkMetadata `json:"metadata"`
}
