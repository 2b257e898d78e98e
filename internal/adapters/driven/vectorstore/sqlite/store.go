// Package sqlite provides SQLite-backed persistence for chunk triples
// and the processed-file ledger in a single database file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/studyrag/internal/adapters/driven/vectorstore"
	"github.com/custodia-labs/studyrag/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/custodia-labs/studyrag/internal/core/domain"
	"github.com/custodia-labs/studyrag/internal/core/ports/driven"
)

// Store is a unified SQLite-backed storage that provides the vector
// store and ledger interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.studyrag/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".studyrag", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "studyrag.db")

	// WAL keeps concurrent readers from blocking the single writer
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// VectorStore returns a VectorStore interface backed by this store.
func (s *Store) VectorStore() driven.VectorStore {
	return &chunkStore{store: s}
}

// LedgerStore returns a LedgerStore interface backed by this store.
func (s *Store) LedgerStore() driven.LedgerStore {
	return &ledgerStore{store: s}
}

func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Vector Store ====================

// chunkStore implements driven.VectorStore.
type chunkStore struct {
	store *Store
}

var _ driven.VectorStore = (*chunkStore)(nil)

// Append inserts new triples inside one transaction. AUTOINCREMENT
// guarantees monotonically increasing, never-reused sequence numbers.
func (c *chunkStore) Append(ctx context.Context, userID string, entries []domain.StoreEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrStoreIO, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (user_id, document_id, source, content, embedding, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: prepare statement: %v", domain.ErrStoreIO, err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, userID, e.Metadata.DocumentID, e.Metadata.Source,
			e.Text, float32SliceToBytes(e.Embedding), e.Metadata.IngestedAt); err != nil {
			return fmt.Errorf("%w: insert chunk: %v", domain.ErrStoreIO, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrStoreIO, err)
	}
	return nil
}

// Query loads the user's entries in sequence order and ranks them.
func (c *chunkStore) Query(ctx context.Context, userID string, embedding []float32, k int) ([]domain.RetrievedChunk, error) {
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT seq, document_id, source, content, embedding, ingested_at
		FROM chunks WHERE user_id = ?
		ORDER BY seq
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: query chunks: %v", domain.ErrStoreIO, err)
	}
	defer rows.Close()

	var entries []domain.StoreEntry
	for rows.Next() {
		var e domain.StoreEntry
		var blob []byte
		if err := rows.Scan(&e.Seq, &e.Metadata.DocumentID, &e.Metadata.Source,
			&e.Text, &blob, &e.Metadata.IngestedAt); err != nil {
			return nil, fmt.Errorf("%w: scan chunk: %v", domain.ErrStoreIO, err)
		}
		e.Embedding = bytesToFloat32Slice(blob)
		e.Metadata.UserID = userID
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate chunks: %v", domain.ErrStoreIO, err)
	}

	return vectorstore.Rank(entries, embedding, k), nil
}

// DeleteBySource removes every triple referencing the source file.
func (c *chunkStore) DeleteBySource(ctx context.Context, userID, source string) (int, error) {
	res, err := c.store.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE user_id = ? AND source = ?", userID, source)
	if err != nil {
		return 0, fmt.Errorf("%w: delete chunks: %v", domain.ErrStoreIO, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected: %v", domain.ErrStoreIO, err)
	}
	return int(n), nil
}

// Count returns the number of triples in the user's store.
func (c *chunkStore) Count(ctx context.Context, userID string) (int, error) {
	var n int
	row := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE user_id = ?", userID)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count chunks: %v", domain.ErrStoreIO, err)
	}
	return n, nil
}

// Clear removes all triples for the user.
func (c *chunkStore) Clear(ctx context.Context, userID string) error {
	if _, err := c.store.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("%w: clear chunks: %v", domain.ErrStoreIO, err)
	}
	return nil
}

// Close is a no-op; the owning Store closes the database.
func (c *chunkStore) Close() error {
	return nil
}

// ==================== Ledger Store ====================

// ledgerStore implements driven.LedgerStore.
type ledgerStore struct {
	store *Store
}

var _ driven.LedgerStore = (*ledgerStore)(nil)

// All returns the user's complete ledger.
func (l *ledgerStore) All(ctx context.Context, userID string) (map[string]time.Time, error) {
	rows, err := l.store.db.QueryContext(ctx,
		"SELECT path, mod_time FROM ledger WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("%w: query ledger: %v", domain.ErrStoreIO, err)
	}
	defer rows.Close()

	ledger := make(map[string]time.Time)
	for rows.Next() {
		var path string
		var modTime time.Time
		if err := rows.Scan(&path, &modTime); err != nil {
			return nil, fmt.Errorf("%w: scan ledger entry: %v", domain.ErrStoreIO, err)
		}
		ledger[path] = modTime
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate ledger: %v", domain.ErrStoreIO, err)
	}
	return ledger, nil
}

// Set records or updates one entry.
func (l *ledgerStore) Set(ctx context.Context, userID, path string, modTime time.Time) error {
	_, err := l.store.db.ExecContext(ctx, `
		INSERT INTO ledger (user_id, path, mod_time)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, path) DO UPDATE SET mod_time = excluded.mod_time
	`, userID, path, modTime)
	if err != nil {
		return fmt.Errorf("%w: save ledger entry: %v", domain.ErrStoreIO, err)
	}
	return nil
}

// Delete drops one entry.
func (l *ledgerStore) Delete(ctx context.Context, userID, path string) error {
	if _, err := l.store.db.ExecContext(ctx,
		"DELETE FROM ledger WHERE user_id = ? AND path = ?", userID, path); err != nil {
		return fmt.Errorf("%w: delete ledger entry: %v", domain.ErrStoreIO, err)
	}
	return nil
}

// Clear drops all entries for the user.
func (l *ledgerStore) Clear(ctx context.Context, userID string) error {
	if _, err := l.store.db.ExecContext(ctx,
		"DELETE FROM ledger WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("%w: clear ledger: %v", domain.ErrStoreIO, err)
	}
	return nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return []byte{}
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
