package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studyrag/internal/core/domain"
	"github.com/custodia-labs/studyrag/internal/core/ports/driving"
)

// --- Mock services ---

type mockIngestor struct {
	ingestReport    *driving.IngestReport
	ingestErr       error
	removeReport    *driving.RemoveReport
	reconcileReport *driving.ReconcileReport
	files           []driving.FileInfo
	cleared         bool
	lastUserID      string
	lastFileName    string
	lastFileType    string
}

func (m *mockIngestor) IngestDocument(_ context.Context, userID string, _ []byte, fileName, fileType string) (*driving.IngestReport, error) {
	m.lastUserID, m.lastFileName, m.lastFileType = userID, fileName, fileType
	return m.ingestReport, m.ingestErr
}

func (m *mockIngestor) RemoveDocument(_ context.Context, userID, fileName string) (*driving.RemoveReport, error) {
	m.lastUserID, m.lastFileName = userID, fileName
	return m.removeReport, nil
}

func (m *mockIngestor) Reconcile(_ context.Context, userID string) (*driving.ReconcileReport, error) {
	m.lastUserID = userID
	return m.reconcileReport, nil
}

func (m *mockIngestor) ListFiles(_ context.Context, userID string) ([]driving.FileInfo, error) {
	m.lastUserID = userID
	return m.files, nil
}

func (m *mockIngestor) ClearUserData(_ context.Context, userID string) error {
	m.lastUserID = userID
	m.cleared = true
	return nil
}

type mockRetriever struct {
	chunks []domain.RetrievedChunk
	err    error
	lastK  int
}

func (m *mockRetriever) RelevantChunks(_ context.Context, _, _ string, k int) ([]domain.RetrievedChunk, error) {
	m.lastK = k
	return m.chunks, m.err
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		flagUser = "default"
		ingestor = nil
		retriever = nil
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// --- Command wiring ---

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "ingest")
	assert.Contains(t, names, "query")
	assert.Contains(t, names, "remove")
	assert.Contains(t, names, "sync")
	assert.Contains(t, names, "files")
	assert.Contains(t, names, "clear")
	assert.Contains(t, names, "watch")
	assert.Contains(t, names, "version")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "studyrag version")
}

// --- query ---

func TestQueryCmd_NoService(t *testing.T) {
	retriever = nil
	_, err := execute(t, "query", "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestQueryCmd_PrintsResults(t *testing.T) {
	mock := &mockRetriever{chunks: []domain.RetrievedChunk{
		{Text: "The mitochondria is the powerhouse of the cell.", Score: 0.91,
			Metadata: domain.ChunkMetadata{Source: "biology.pdf"}},
	}}
	retriever = mock

	out, err := execute(t, "query", "mitochondria", "--top-k", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "biology.pdf")
	assert.Contains(t, out, "powerhouse")
	assert.Equal(t, 3, mock.lastK)
}

func TestQueryCmd_NoResults(t *testing.T) {
	retriever = &mockRetriever{}

	out, err := execute(t, "query", "anything")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestQueryCmd_JSON(t *testing.T) {
	retriever = &mockRetriever{chunks: []domain.RetrievedChunk{
		{Text: "chunk text", Score: 0.5, Distance: 0.5,
			Metadata: domain.ChunkMetadata{Source: "doc.pdf"}},
	}}

	out, err := execute(t, "query", "anything", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "doc.pdf"`)
	assert.Contains(t, out, `"score": 0.5`)
}

// --- remove ---

func TestRemoveCmd(t *testing.T) {
	mock := &mockIngestor{removeReport: &driving.RemoveReport{ChunksRemoved: 4}}
	ingestor = mock

	out, err := execute(t, "remove", "doc.pdf", "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "4 chunks deleted")
	assert.Equal(t, "alice", mock.lastUserID)
	assert.Equal(t, "doc.pdf", mock.lastFileName)
}

// --- sync ---

func TestSyncCmd(t *testing.T) {
	ingestor = &mockIngestor{reconcileReport: &driving.ReconcileReport{Ingested: 2, Removed: 1}}

	out, err := execute(t, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "2 ingested, 1 removed, 0 failed")
}

// --- files ---

func TestFilesCmd_Empty(t *testing.T) {
	ingestor = &mockIngestor{}

	out, err := execute(t, "files")
	require.NoError(t, err)
	assert.Contains(t, out, "No files uploaded.")
}

func TestFilesCmd_ListsFiles(t *testing.T) {
	ingestor = &mockIngestor{files: []driving.FileInfo{
		{Name: "biology.pdf", Size: 1024, ModTime: time.Now(), Processed: true},
		{Name: "history.docx", Size: 2048, ModTime: time.Now(), Processed: false},
	}}

	out, err := execute(t, "files")
	require.NoError(t, err)
	assert.Contains(t, out, "biology.pdf")
	assert.Contains(t, out, "processed")
	assert.Contains(t, out, "history.docx")
	assert.Contains(t, out, "pending")
}

// --- clear ---

func TestClearCmd_RequiresConfirmation(t *testing.T) {
	mock := &mockIngestor{}
	ingestor = mock

	out, err := execute(t, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "--yes")
	assert.False(t, mock.cleared)
}

func TestClearCmd_Confirmed(t *testing.T) {
	mock := &mockIngestor{}
	ingestor = mock

	out, err := execute(t, "clear", "--yes", "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")
	assert.True(t, mock.cleared)
	assert.Equal(t, "alice", mock.lastUserID)
}

// --- ingest ---

func TestIngestCmd_RequiresArgs(t *testing.T) {
	ingestor = &mockIngestor{}

	_, err := execute(t, "ingest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestIngestCmd_Success(t *testing.T) {
	mock := &mockIngestor{ingestReport: &driving.IngestReport{FileName: "notes.pdf", ChunksAdded: 3}}
	ingestor = mock

	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0600))

	out, err := execute(t, "ingest", path, "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Ingested notes.pdf: 3 chunks")
	assert.Equal(t, "alice", mock.lastUserID)
	assert.Equal(t, "notes.pdf", mock.lastFileName)
	assert.Equal(t, "application/pdf", mock.lastFileType)
}

func TestIngestCmd_UnsupportedFile(t *testing.T) {
	ingestor = &mockIngestor{}

	_, err := execute(t, "ingest", "notes.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files failed")
}
