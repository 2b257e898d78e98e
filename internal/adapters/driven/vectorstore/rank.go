// Package vectorstore holds the exact similarity ranking shared by the
// vector store backends.
package vectorstore

import (
	"math"
	"sort"

	"github.com/custodia-labs/studyrag/internal/core/domain"
)

// Rank scores every entry against the query embedding and returns the
// top k by descending cosine similarity. Entries must be given in
// insertion (sequence) order; exact ties keep that order, which makes
// results reproducible. k larger than the entry count returns everything.
//
// This is a brute-force O(N*d) scan. At single-user corpus scale that
// beats the operational cost of an approximate index and stays exact.
func Rank(entries []domain.StoreEntry, query []float32, k int) []domain.RetrievedChunk {
	if len(entries) == 0 || k <= 0 {
		return []domain.RetrievedChunk{}
	}

	scored := make([]domain.RetrievedChunk, 0, len(entries))
	for _, e := range entries {
		score := Cosine(e.Embedding, query)
		scored = append(scored, domain.RetrievedChunk{
			Text:     e.Text,
			Score:    score,
			Distance: 1 - score,
			Metadata: e.Metadata,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// Cosine computes dot(a,b) / (|a|*|b|). Providers hand the stores
// unit-length vectors, but the precondition is not relied on here: the
// norms are computed every time so an un-normalised vector cannot skew
// the ranking. Mismatched lengths or zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
