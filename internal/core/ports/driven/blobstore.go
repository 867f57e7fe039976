package driven

import (
	"context"
	"time"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
)

// BlobStore persists binary file records in two independent namespaces.
// Backed by SQLite with versioned migrations; opening a store at a newer
// schema version creates missing namespaces without touching existing rows.
//
// Absence is an expected, common case (eviction, stale ids) and is reported
// as a nil record with a nil error, never as a failure.
type BlobStore interface {
	// Put writes a new record into the upload namespace under a generated
	// id and returns its metadata. Write rejection (quota, disabled
	// storage) wraps domain.ErrStorageWrite; callers surface it rather
	// than retrying silently.
	Put(ctx context.Context, name, mimeType string, lastModified time.Time, payload []byte) (*domain.BlobInfo, error)

	// Get reads from the upload namespace. Returns (nil, nil) when absent.
	Get(ctx context.Context, id string) (*domain.BlobRecord, error)

	// Delete removes an upload-namespace record. Deleting a non-existent
	// id is a no-op.
	Delete(ctx context.Context, id string) error

	// GetDocumentBlob reads from the document namespace. Returns
	// (nil, nil) when absent.
	GetDocumentBlob(ctx context.Context, documentID string) (*domain.BlobRecord, error)

	// CacheDocumentBlob writes or overwrites a document-namespace record,
	// used after a successful remote fetch so later requests for the same
	// document are served locally.
	CacheDocumentBlob(ctx context.Context, documentID, name, mimeType string, payload []byte) error

	// DeleteDocumentBlob removes a document-namespace record. Idempotent.
	DeleteDocumentBlob(ctx context.Context, documentID string) error

	// List returns payload-free metadata for every record in the given
	// namespace, newest first.
	List(ctx context.Context, ns domain.Namespace) ([]domain.BlobInfo, error)

	// Close releases the underlying store handle.
	Close() error
}

// HandoffStore persists the viewer hand-off. A single slot: each write
// supersedes the previous hand-off, and blob path + document id are always
// written together.
type HandoffStore interface {
	// SaveHandoff atomically replaces the current hand-off.
	SaveHandoff(ctx context.Context, h domain.Handoff) error

	// LoadHandoff returns the current hand-off, or (nil, nil) when none
	// has been written this session.
	LoadHandoff(ctx context.Context) (*domain.Handoff, error)
}
