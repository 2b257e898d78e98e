package driving

import (
	"context"

	"github.com/custodia-labs/studyrag/internal/core/domain"
)

// Retriever answers top-K relevance queries over a user's stored chunks.
// It does not generate answers; callers forward the ranked chunks and the
// original question to an external text-generation service.
type Retriever interface {
	// RelevantChunks embeds the question and returns the k most similar
	// stored chunks, ranked by descending cosine similarity. A provider
	// outage surfaces as domain.ErrEmbeddingUnavailable rather than an
	// empty-but-successful result.
	RelevantChunks(ctx context.Context, userID, question string, k int) ([]domain.RetrievedChunk, error)
}
