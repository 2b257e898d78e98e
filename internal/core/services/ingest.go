package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/studyrag/internal/core/domain"
	"github.com/custodia-labs/studyrag/internal/core/ports/driven"
	"github.com/custodia-labs/studyrag/internal/core/ports/driving"
	"github.com/custodia-labs/studyrag/internal/extractor"
	"github.com/custodia-labs/studyrag/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// DefaultEmbedTimeout bounds each per-chunk embedding call.
const DefaultEmbedTimeout = 30 * time.Second

// IngestService coordinates the ingestion pipeline: store the upload,
// extract text, chunk it, embed each chunk, append the triples, and
// record the file in the processed-file ledger. It also runs the
// reconcile pass that keeps the store in line with the upload folder.
type IngestService struct {
	baseDir      string
	registry     *extractor.Registry
	chunker      driven.Chunker
	embedder     driven.EmbeddingService
	store        driven.VectorStore
	ledger       driven.LedgerStore
	locks        *UserLocks
	embedTimeout time.Duration
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithEmbedTimeout sets the per-chunk embedding timeout.
func WithEmbedTimeout(d time.Duration) IngestOption {
	return func(s *IngestService) {
		if d > 0 {
			s.embedTimeout = d
		}
	}
}

// NewIngestService creates a new ingestion coordinator. baseDir is the
// root under which each user's upload folder lives.
func NewIngestService(
	baseDir string,
	registry *extractor.Registry,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	ledger driven.LedgerStore,
	locks *UserLocks,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		baseDir:      baseDir,
		registry:     registry,
		chunker:      chunker,
		embedder:     embedder,
		store:        store,
		ledger:       ledger,
		locks:        locks,
		embedTimeout: DefaultEmbedTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FilesDir returns the user's upload folder.
func (s *IngestService) FilesDir(userID string) string {
	return filepath.Join(s.baseDir, userID, "files")
}

// IngestDocument stores the uploaded bytes and runs the full pipeline.
func (s *IngestService) IngestDocument(
	ctx context.Context, userID string, data []byte, fileName, fileType string,
) (*driving.IngestReport, error) {
	ext, err := s.registry.ForType(fileType)
	if err != nil {
		return nil, err
	}

	fileName = filepath.Base(fileName)
	if fileName == "." || fileName == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: empty file name", domain.ErrInvalidInput)
	}

	lock := s.locks.Get(userID)
	lock.Lock()
	defer lock.Unlock()

	dir := s.FilesDir(userID)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("%w: create upload dir: %v", domain.ErrStoreIO, err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("%w: store upload: %v", domain.ErrStoreIO, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat upload: %v", domain.ErrStoreIO, err)
	}

	return s.processLocked(ctx, userID, path, fileName, ext, data, info.ModTime())
}

// processLocked runs extract → chunk → embed → append for one file and
// updates the ledger on full success. Callers hold the user write lock.
func (s *IngestService) processLocked(
	ctx context.Context,
	userID, path, fileName string,
	ext driven.Extractor,
	data []byte,
	modTime time.Time,
) (*driving.IngestReport, error) {
	text, err := ext.Extract(ctx, data)
	if err != nil {
		return nil, err
	}

	texts := s.chunker.Split(text)
	logger.Debug("Extracted %d bytes from %s, %d chunks", len(text), fileName, len(texts))

	docID := uuid.New().String()
	now := time.Now()

	entries := make([]domain.StoreEntry, 0, len(texts))
	var failed []int
	for i, chunkText := range texts {
		embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
		vec, err := s.embedder.Embed(embedCtx, chunkText)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// One chunk's failure never aborts the rest of the batch
			logger.Error("Embedding chunk %d of %s failed: %v", i, fileName, err)
			failed = append(failed, i)
			continue
		}
		entries = append(entries, domain.StoreEntry{
			Text:      chunkText,
			Embedding: vec,
			Metadata: domain.ChunkMetadata{
				Source:     fileName,
				DocumentID: docID,
				UserID:     userID,
				IngestedAt: now,
			},
		})
	}

	// When every embedding failed the old chunks are worth more than an
	// empty replacement: leave the store untouched and retry next pass.
	if len(entries) == 0 && len(texts) > 0 {
		return &driving.IngestReport{
			FileName:     fileName,
			FailedChunks: failed,
		}, fmt.Errorf("%w: all %d chunks failed for %s", domain.ErrEmbeddingFailed, len(texts), fileName)
	}

	// Replace, never patch: a changed document's chunks are rebuilt whole
	if _, err := s.store.DeleteBySource(ctx, userID, fileName); err != nil {
		return nil, err
	}
	if err := s.store.Append(ctx, userID, entries); err != nil {
		return nil, err
	}

	// The ledger is updated only after a fully successful append, so a
	// crash or partial failure leaves the file marked for retry.
	if len(failed) == 0 {
		if err := s.ledger.Set(ctx, userID, path, modTime); err != nil {
			return nil, err
		}
	} else {
		logger.Warn("%s ingested partially: %d/%d chunks stored", fileName, len(entries), len(texts))
	}

	return &driving.IngestReport{
		FileName:     fileName,
		ChunksAdded:  len(entries),
		FailedChunks: failed,
	}, nil
}

// RemoveDocument deletes the file and every chunk it contributed.
func (s *IngestService) RemoveDocument(ctx context.Context, userID, fileName string) (*driving.RemoveReport, error) {
	fileName = filepath.Base(fileName)

	lock := s.locks.Get(userID)
	lock.Lock()
	defer lock.Unlock()

	path := filepath.Join(s.FilesDir(userID), fileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: remove upload: %v", domain.ErrStoreIO, err)
	}

	removed, err := s.store.DeleteBySource(ctx, userID, fileName)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Delete(ctx, userID, path); err != nil {
		return nil, err
	}

	logger.Info("Removed %s for user %s: %d chunks", fileName, userID, removed)
	return &driving.RemoveReport{ChunksRemoved: removed}, nil
}

// Reconcile brings the vector store in line with the upload folder.
func (s *IngestService) Reconcile(ctx context.Context, userID string) (*driving.ReconcileReport, error) {
	lock := s.locks.Get(userID)
	lock.Lock()
	defer lock.Unlock()

	onDisk, err := s.listUploads(userID)
	if err != nil {
		return nil, err
	}

	ledger, err := s.ledger.All(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &driving.ReconcileReport{}

	// Ledger entries whose file is gone cascade-delete their chunks
	for path := range ledger {
		if _, ok := onDisk[path]; ok {
			continue
		}
		if _, err := s.store.DeleteBySource(ctx, userID, filepath.Base(path)); err != nil {
			return nil, err
		}
		if err := s.ledger.Delete(ctx, userID, path); err != nil {
			return nil, err
		}
		logger.Info("Reconcile: removed %s", path)
		report.Removed++
	}

	// Walk files in a fixed order so runs are reproducible
	paths := make([]string, 0, len(onDisk))
	for path := range onDisk {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if domain.Classify(ledger, path, onDisk[path]) != domain.FileNew {
			continue
		}

		if err := s.reingest(ctx, userID, path, onDisk[path]); err != nil {
			// Transient failures self-heal: the file stays unprocessed
			// in the ledger and the next reconcile retries it.
			logger.Error("Reconcile: %s skipped: %v", path, err)
			report.Failed++
			continue
		}
		report.Ingested++
	}

	return report, nil
}

// reingest runs the pipeline for one on-disk file during reconcile.
func (s *IngestService) reingest(ctx context.Context, userID, path string, modTime time.Time) error {
	mime, ok := extractor.MIMEForPath(path)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, filepath.Ext(path))
	}
	ext, err := s.registry.ForType(mime)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", domain.ErrStoreIO, path, err)
	}

	report, err := s.processLocked(ctx, userID, path, filepath.Base(path), ext, data, modTime)
	if err != nil {
		return err
	}
	if len(report.FailedChunks) > 0 {
		return fmt.Errorf("%w: %d chunks failed", domain.ErrEmbeddingFailed, len(report.FailedChunks))
	}
	return nil
}

// listUploads maps the user's eligible upload paths to their mtimes.
func (s *IngestService) listUploads(userID string) (map[string]time.Time, error) {
	dir := s.FilesDir(userID)
	files := make(map[string]time.Time)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return files, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list uploads: %v", domain.ErrStoreIO, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := extractor.MIMEForPath(entry.Name()); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %v", domain.ErrStoreIO, entry.Name(), err)
		}
		files[filepath.Join(dir, entry.Name())] = info.ModTime()
	}
	return files, nil
}

// ListFiles returns the user's uploaded files and their ledger status.
func (s *IngestService) ListFiles(ctx context.Context, userID string) ([]driving.FileInfo, error) {
	lock := s.locks.Get(userID)
	lock.RLock()
	defer lock.RUnlock()

	ledger, err := s.ledger.All(ctx, userID)
	if err != nil {
		return nil, err
	}

	dir := s.FilesDir(userID)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list uploads: %v", domain.ErrStoreIO, err)
	}

	var files []driving.FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := extractor.MIMEForPath(entry.Name()); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %v", domain.ErrStoreIO, entry.Name(), err)
		}

		path := filepath.Join(dir, entry.Name())
		files = append(files, driving.FileInfo{
			Name:      entry.Name(),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			Processed: domain.Classify(ledger, path, info.ModTime()) == domain.FileUnchanged,
		})
	}
	return files, nil
}

// ClearUserData wipes the user's store, ledger and upload folder.
func (s *IngestService) ClearUserData(ctx context.Context, userID string) error {
	lock := s.locks.Get(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.Clear(ctx, userID); err != nil {
		return err
	}
	if err := s.ledger.Clear(ctx, userID); err != nil {
		return err
	}
	if err := os.RemoveAll(s.FilesDir(userID)); err != nil {
		return fmt.Errorf("%w: remove upload dir: %v", domain.ErrStoreIO, err)
	}

	logger.Info("Cleared all data for user %s", userID)
	return nil
}
