package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations wrap an external feature-extraction model (Ollama,
// OpenAI, compatible APIs) and return unit-length vectors so cosine
// similarity is comparable across the whole store. Mixing models within
// one store invalidates comparisons; ModelName lets callers detect that.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the provider is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
