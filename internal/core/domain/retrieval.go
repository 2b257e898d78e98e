package domain

// RetrievedChunk is a single similarity search hit.
type RetrievedChunk struct {
	// Text is the stored chunk content.
	Text string `json:"text"`

	// Score is the cosine similarity to the query embedding, in [-1, 1].
	Score float64 `json:"score"`

	// Distance is 1 - Score, kept for callers that rank by distance.
	Distance float64 `json:"distance"`

	// Metadata describes the chunk's origin.
	Metadata ChunkMetadata `json:"metadata"`
}
