package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/studyrag/internal/core/domain"
	"github.com/custodia-labs/studyrag/internal/core/ports/driven"
	"github.com/custodia-labs/studyrag/internal/core/ports/driving"
	"github.com/custodia-labs/studyrag/internal/logger"
)

var _ driving.Retriever = (*QueryService)(nil)

// DefaultTopK is the number of chunks returned when the caller does
// not ask for a specific count.
const DefaultTopK = 5

// QueryService answers similarity queries against a user's store.
type QueryService struct {
	embedder     driven.EmbeddingService
	store        driven.VectorStore
	locks        *UserLocks
	embedTimeout time.Duration
}

// QueryOption configures the query service.
type QueryOption func(*QueryService)

// WithQueryEmbedTimeout sets the question embedding timeout.
func WithQueryEmbedTimeout(d time.Duration) QueryOption {
	return func(s *QueryService) {
		if d > 0 {
			s.embedTimeout = d
		}
	}
}

// NewQueryService creates a new retriever.
func NewQueryService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	locks *UserLocks,
	opts ...QueryOption,
) *QueryService {
	s := &QueryService{
		embedder:     embedder,
		store:        store,
		locks:        locks,
		embedTimeout: DefaultEmbedTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RelevantChunks embeds the question and returns the top-k closest
// chunks from the user's store, most similar first.
func (s *QueryService) RelevantChunks(
	ctx context.Context, userID, question string, k int,
) ([]domain.RetrievedChunk, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return []domain.RetrievedChunk{}, nil
	}
	if k <= 0 {
		k = DefaultTopK
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	vec, err := s.embedder.Embed(embedCtx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	lock := s.locks.Get(userID)
	lock.RLock()
	defer lock.RUnlock()

	chunks, err := s.store.Query(ctx, userID, vec, k)
	if err != nil {
		return nil, err
	}

	logger.Debug("Query for user %s returned %d chunks", userID, len(chunks))
	return chunks, nil
}
