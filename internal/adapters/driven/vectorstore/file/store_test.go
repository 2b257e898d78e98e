package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studyrag/internal/core/domain"
)

func testEntries(source string, texts ...string) []domain.StoreEntry {
	out := make([]domain.StoreEntry, len(texts))
	for i, text := range texts {
		out[i] = domain.StoreEntry{
			Text:      text,
			Embedding: []float32{1, 0},
			Metadata:  domain.ChunkMetadata{Source: source},
		}
	}
	return out
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	baseDir := t.TempDir()
	ctx := context.Background()

	store := NewStore(baseDir)
	require.NoError(t, store.Append(ctx, "alice", testEntries("doc.pdf", "a", "b")))
	require.NoError(t, store.Close())

	// A fresh instance reads the same state back from disk
	reopened := NewStore(baseDir)
	got, err := reopened.Query(ctx, "alice", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Text)
	assert.Equal(t, "b", got[1].Text)
	assert.Equal(t, "doc.pdf", got[0].Metadata.Source)
}

func TestStore_SequenceSurvivesReopen(t *testing.T) {
	baseDir := t.TempDir()
	ctx := context.Background()

	store := NewStore(baseDir)
	require.NoError(t, store.Append(ctx, "alice", testEntries("doc.pdf", "a", "b")))
	_, err := store.DeleteBySource(ctx, "alice", "doc.pdf")
	require.NoError(t, err)

	reopened := NewStore(baseDir)
	require.NoError(t, reopened.Append(ctx, "alice", testEntries("doc.pdf", "c")))

	d, err := reopened.user("alice")
	require.NoError(t, err)
	require.Len(t, d.Entries, 1)
	// Deleted entries never free their sequence numbers
	assert.Equal(t, int64(3), d.Entries[0].Seq)
}

func TestStore_NoTempFileLeftBehind(t *testing.T) {
	baseDir := t.TempDir()
	ctx := context.Background()

	store := NewStore(baseDir)
	require.NoError(t, store.Append(ctx, "alice", testEntries("doc.pdf", "a")))

	dir := filepath.Dir(store.Path("alice"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "store.json", entries[0].Name())
}

func TestStore_CorruptFile(t *testing.T) {
	baseDir := t.TempDir()
	ctx := context.Background()

	path := filepath.Join(baseDir, "alice", "vectordb", "store.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewStore(baseDir)
	_, err := store.Query(ctx, "alice", []float32{1, 0}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreIO)
}

func TestStore_EmptyUser(t *testing.T) {
	store := NewStore(t.TempDir())

	got, err := store.Query(context.Background(), "nobody", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	count, err := store.Count(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_UsersGetSeparateFiles(t *testing.T) {
	baseDir := t.TempDir()
	ctx := context.Background()

	store := NewStore(baseDir)
	require.NoError(t, store.Append(ctx, "alice", testEntries("a.pdf", "alice data")))
	require.NoError(t, store.Append(ctx, "bob", testEntries("b.pdf", "bob data")))

	assert.FileExists(t, store.Path("alice"))
	assert.FileExists(t, store.Path("bob"))

	got, err := store.Query(ctx, "bob", []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bob data", got[0].Text)
}

func TestStore_ClearPersists(t *testing.T) {
	baseDir := t.TempDir()
	ctx := context.Background()

	store := NewStore(baseDir)
	require.NoError(t, store.Append(ctx, "alice", testEntries("doc.pdf", "a", "b")))
	require.NoError(t, store.Clear(ctx, "alice"))

	reopened := NewStore(baseDir)
	count, err := reopened.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, count)
}
