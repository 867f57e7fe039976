// Package memory provides in-memory implementations of the storage ports
// for testing.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore is an in-memory implementation of driven.BlobStore.
type BlobStore struct {
	mu        sync.RWMutex
	uploads   map[string]domain.BlobRecord
	documents map[string]domain.BlobRecord

	// FailWrites makes every write return domain.ErrStorageWrite,
	// simulating quota exhaustion.
	FailWrites bool
}

// NewBlobStore creates a new in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{
		uploads:   make(map[string]domain.BlobRecord),
		documents: make(map[string]domain.BlobRecord),
	}
}

// Put writes a new upload-namespace record under a generated id.
func (s *BlobStore) Put(_ context.Context, name, mimeType string, lastModified time.Time, payload []byte) (*domain.BlobInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return nil, fmt.Errorf("put %s: %w", name, domain.ErrStorageWrite)
	}

	record := domain.BlobRecord{
		ID:           uuid.NewString(),
		Name:         name,
		MimeType:     mimeType,
		SizeBytes:    int64(len(payload)),
		LastModified: lastModified,
		Payload:      append([]byte(nil), payload...),
		CreatedAt:    time.Now().UTC(),
	}
	s.uploads[record.ID] = record

	info := record.Info()
	return &info, nil
}

// Get reads from the upload namespace. Returns (nil, nil) when absent.
func (s *BlobStore) Get(_ context.Context, id string) (*domain.BlobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.uploads[id]
	if !ok {
		return nil, nil
	}
	return cloneRecord(record), nil
}

// Delete removes an upload-namespace record. Idempotent.
func (s *BlobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploads, id)
	return nil
}

// GetDocumentBlob reads from the document namespace.
func (s *BlobStore) GetDocumentBlob(_ context.Context, documentID string) (*domain.BlobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.documents[documentID]
	if !ok {
		return nil, nil
	}
	return cloneRecord(record), nil
}

// CacheDocumentBlob writes or overwrites a document-namespace record.
func (s *BlobStore) CacheDocumentBlob(_ context.Context, documentID, name, mimeType string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return fmt.Errorf("cache %s: %w", documentID, domain.ErrStorageWrite)
	}

	s.documents[documentID] = domain.BlobRecord{
		ID:        documentID,
		Name:      name,
		MimeType:  mimeType,
		SizeBytes: int64(len(payload)),
		Payload:   append([]byte(nil), payload...),
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// DeleteDocumentBlob removes a document-namespace record. Idempotent.
func (s *BlobStore) DeleteDocumentBlob(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, documentID)
	return nil
}

// List returns metadata for all records in the namespace.
func (s *BlobStore) List(_ context.Context, ns domain.Namespace) ([]domain.BlobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	source := s.uploads
	if ns == domain.NamespaceDocument {
		source = s.documents
	}

	infos := make([]domain.BlobInfo, 0, len(source))
	for _, record := range source {
		infos = append(infos, record.Info())
	}
	return infos, nil
}

// Close is a no-op for the in-memory store.
func (s *BlobStore) Close() error {
	return nil
}

func cloneRecord(record domain.BlobRecord) *domain.BlobRecord {
	clone := record
	clone.Payload = append([]byte(nil), record.Payload...)
	return &clone
}
