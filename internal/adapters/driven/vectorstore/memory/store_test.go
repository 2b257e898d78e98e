package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studyrag/internal/core/domain"
)

func entries(texts ...string) []domain.StoreEntry {
	out := make([]domain.StoreEntry, len(texts))
	for i, text := range texts {
		out[i] = domain.StoreEntry{
			Text:      text,
			Embedding: []float32{1, 0},
			Metadata:  domain.ChunkMetadata{Source: "doc.pdf"},
		}
	}
	return out
}

func TestStore_AppendAssignsSequences(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice", entries("a", "b")))
	require.NoError(t, store.Append(ctx, "alice", entries("c")))

	got, err := store.Query(ctx, "alice", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Equal scores, so insertion order survives
	assert.Equal(t, "a", got[0].Text)
	assert.Equal(t, "b", got[1].Text)
	assert.Equal(t, "c", got[2].Text)
}

func TestStore_QueryEmptyUser(t *testing.T) {
	store := NewStore()

	got, err := store.Query(context.Background(), "nobody", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_DeleteBySource(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	keep := entries("keep")
	keep[0].Metadata.Source = "other.pdf"
	require.NoError(t, store.Append(ctx, "alice", entries("a", "b")))
	require.NoError(t, store.Append(ctx, "alice", keep))

	removed, err := store.DeleteBySource(ctx, "alice", "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	count, err := store.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.Query(ctx, "alice", []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].Text)
}

func TestStore_DeleteBySource_NoMatch(t *testing.T) {
	store := NewStore()

	removed, err := store.DeleteBySource(context.Background(), "alice", "ghost.pdf")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestStore_UserIsolation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice", entries("alice data")))

	got, err := store.Query(ctx, "bob", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Deleting bob's sources never touches alice
	_, err = store.DeleteBySource(ctx, "bob", "doc.pdf")
	require.NoError(t, err)

	count, err := store.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_ClearKeepsSequenceCounter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice", entries("a", "b")))
	require.NoError(t, store.Clear(ctx, "alice"))

	count, err := store.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, count)

	// Sequence numbers are never reused after a clear
	require.NoError(t, store.Append(ctx, "alice", entries("c")))
	u := store.users["alice"]
	require.Len(t, u.entries, 1)
	assert.Equal(t, int64(3), u.entries[0].Seq)
}
