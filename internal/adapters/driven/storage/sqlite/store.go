package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pinpoint-labs/pinpoint-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the blob
// and hand-off store interfaces through wrapper types.
type Store struct {
	db            *sql.DB
	path          string
	maxCacheBytes int64
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.pinpoint/data/blobs.db.
// maxCacheBytes bounds the document-namespace cache; zero or negative
// disables eviction.
func NewStore(dataDir string, maxCacheBytes int64) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pinpoint", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "blobs.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:            db,
		path:          dbPath,
		maxCacheBytes: maxCacheBytes,
	}

	// Run migrations
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

// BlobStore returns a BlobStore interface backed by this store.
func (s *Store) BlobStore() driven.BlobStore {
	return &blobStore{store: s}
}

// HandoffStore returns a HandoffStore interface backed by this store.
func (s *Store) HandoffStore() driven.HandoffStore {
	return &handoffStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Blob Store ====================

// blobStore implements driven.BlobStore.
type blobStore struct {
	store *Store
}

var _ driven.BlobStore = (*blobStore)(nil)

// Put writes a new upload-namespace record under a generated id.
func (s *blobStore) Put(ctx context.Context, name, mimeType string, lastModified time.Time, payload []byte) (*domain.BlobInfo, error) {
	record := domain.BlobRecord{
		ID:           uuid.NewString(),
		Name:         name,
		MimeType:     mimeType,
		SizeBytes:    int64(len(payload)),
		LastModified: lastModified,
		CreatedAt:    time.Now().UTC(),
	}

	var lastModifiedVal any
	if !lastModified.IsZero() {
		lastModifiedVal = lastModified
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO upload_blobs (id, name, mime_type, size_bytes, last_modified, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Name, record.MimeType, record.SizeBytes,
		lastModifiedVal, payload, record.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("%w: inserting upload blob: %v", domain.ErrStorageWrite, err)
	}

	info := record.Info()
	return &info, nil
}

// Get retrieves an upload-namespace record. Returns (nil, nil) when absent.
func (s *blobStore) Get(ctx context.Context, id string) (*domain.BlobRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, mime_type, size_bytes, last_modified, payload, created_at
		FROM upload_blobs WHERE id = ?
	`, id)

	var record domain.BlobRecord
	var lastModified sql.NullTime
	if err := row.Scan(&record.ID, &record.Name, &record.MimeType, &record.SizeBytes,
		&lastModified, &record.Payload, &record.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning upload blob: %w", err)
	}

	if lastModified.Valid {
		record.LastModified = lastModified.Time
	}

	return &record, nil
}

// Delete removes an upload-namespace record. Deleting a missing id is a no-op.
func (s *blobStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM upload_blobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting upload blob: %w", err)
	}
	return nil
}

// GetDocumentBlob retrieves a document-namespace record and marks it
// recently used. Returns (nil, nil) when absent.
func (s *blobStore) GetDocumentBlob(ctx context.Context, documentID string) (*domain.BlobRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT document_id, name, mime_type, size_bytes, payload, created_at
		FROM document_blobs WHERE document_id = ?
	`, documentID)

	var record domain.BlobRecord
	if err := row.Scan(&record.ID, &record.Name, &record.MimeType, &record.SizeBytes,
		&record.Payload, &record.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning document blob: %w", err)
	}

	if _, err := s.store.db.ExecContext(ctx,
		"UPDATE document_blobs SET last_access = ? WHERE document_id = ?",
		time.Now().UTC(), documentID); err != nil {
		return nil, fmt.Errorf("updating document blob access time: %w", err)
	}

	return &record, nil
}

// CacheDocumentBlob writes or overwrites a document-namespace record, then
// evicts least-recently-used records that push the cache past its byte budget.
func (s *blobStore) CacheDocumentBlob(ctx context.Context, documentID, name, mimeType string, payload []byte) error {
	now := time.Now().UTC()
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO document_blobs (document_id, name, mime_type, size_bytes, payload, created_at, last_access)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			name = excluded.name,
			mime_type = excluded.mime_type,
			size_bytes = excluded.size_bytes,
			payload = excluded.payload,
			last_access = excluded.last_access
	`, documentID, name, mimeType, int64(len(payload)), payload, now, now)

	if err != nil {
		return fmt.Errorf("%w: caching document blob: %v", domain.ErrStorageWrite, err)
	}

	return s.evict(ctx, documentID)
}

// evict removes the least-recently-used document blobs until the cache fits
// its byte budget. The record identified by keep is never evicted.
func (s *blobStore) evict(ctx context.Context, keep string) error {
	if s.store.maxCacheBytes <= 0 {
		return nil
	}

	var total int64
	row := s.store.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(size_bytes), 0) FROM document_blobs")
	if err := row.Scan(&total); err != nil {
		return fmt.Errorf("summing document cache: %w", err)
	}
	if total <= s.store.maxCacheBytes {
		return nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT document_id, size_bytes
		FROM document_blobs WHERE document_id != ?
		ORDER BY last_access ASC, created_at ASC
	`, keep)
	if err != nil {
		return fmt.Errorf("querying eviction candidates: %w", err)
	}
	defer rows.Close()

	var victims []string
	for rows.Next() {
		var id string
		var size int64
		if err := rows.Scan(&id, &size); err != nil {
			return fmt.Errorf("scanning eviction candidate: %w", err)
		}
		victims = append(victims, id)
		total -= size
		if total <= s.store.maxCacheBytes {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating eviction candidates: %w", err)
	}

	for _, id := range victims {
		if _, err := s.store.db.ExecContext(ctx,
			"DELETE FROM document_blobs WHERE document_id = ?", id); err != nil {
			return fmt.Errorf("evicting document blob: %w", err)
		}
	}
	return nil
}

// DeleteDocumentBlob removes a document-namespace record. Idempotent.
func (s *blobStore) DeleteDocumentBlob(ctx context.Context, documentID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM document_blobs WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("deleting document blob: %w", err)
	}
	return nil
}

// List returns payload-free metadata for all records in a namespace,
// newest first.
func (s *blobStore) List(ctx context.Context, ns domain.Namespace) ([]domain.BlobInfo, error) {
	switch ns {
	case domain.NamespaceUpload:
		return s.listUploads(ctx)
	case domain.NamespaceDocument:
		return s.listDocuments(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown namespace %q", domain.ErrInvalidInput, ns)
	}
}

func (s *blobStore) listUploads(ctx context.Context) ([]domain.BlobInfo, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, mime_type, size_bytes, last_modified, created_at
		FROM upload_blobs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying upload blobs: %w", err)
	}
	defer rows.Close()

	var infos []domain.BlobInfo //nolint:prealloc // size unknown from query
	for rows.Next() {
		var info domain.BlobInfo
		var lastModified sql.NullTime
		if err := rows.Scan(&info.ID, &info.Name, &info.MimeType, &info.SizeBytes,
			&lastModified, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning upload blob: %w", err)
		}
		if lastModified.Valid {
			info.LastModified = lastModified.Time
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating upload blobs: %w", err)
	}

	return infos, nil
}

func (s *blobStore) listDocuments(ctx context.Context) ([]domain.BlobInfo, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT document_id, name, mime_type, size_bytes, created_at
		FROM document_blobs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying document blobs: %w", err)
	}
	defer rows.Close()

	var infos []domain.BlobInfo //nolint:prealloc // size unknown from query
	for rows.Next() {
		var info domain.BlobInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.MimeType, &info.SizeBytes,
			&info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document blob: %w", err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document blobs: %w", err)
	}

	return infos, nil
}

// Close closes the underlying store handle.
func (s *blobStore) Close() error {
	return s.store.Close()
}

// ==================== Handoff Store ====================

// handoffStore implements driven.HandoffStore.
type handoffStore struct {
	store *Store
}

var _ driven.HandoffStore = (*handoffStore)(nil)

// SaveHandoff atomically replaces the current hand-off.
func (s *handoffStore) SaveHandoff(ctx context.Context, h domain.Handoff) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO handoff (slot, blob_path, document_id, created_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			blob_path = excluded.blob_path,
			document_id = excluded.document_id,
			created_at = excluded.created_at
	`, h.BlobPath, h.DocumentID, h.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving hand-off: %w", err)
	}
	return nil
}

// LoadHandoff returns the current hand-off, or (nil, nil) when none exists.
func (s *handoffStore) LoadHandoff(ctx context.Context) (*domain.Handoff, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT blob_path, document_id, created_at
		FROM handoff WHERE slot = 1
	`)

	var h domain.Handoff
	if err := row.Scan(&h.BlobPath, &h.DocumentID, &h.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning hand-off: %w", err)
	}

	return &h, nil
}
