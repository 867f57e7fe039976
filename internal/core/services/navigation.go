// Package services contains the core application services.
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pinpoint-labs/pinpoint-cli/internal/citations"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driving"
	"github.com/pinpoint-labs/pinpoint-cli/internal/logger"
)

// Ensure NavigationService implements the interface.
var _ driving.NavigationService = (*NavigationService)(nil)

// NavigationService resolves "view citation C of document D" into a spool
// file and a hand-off a new viewing context can consume.
//
// Spool files stand in for object URLs: bytes are materialised into a
// per-session directory exactly once per document, so repeated navigations
// to the same document return the same path instead of leaking a new file
// each time. Concurrent resolutions of the same not-yet-cached document are
// collapsed into a single remote fetch.
type NavigationService struct {
	blobStore    driven.BlobStore
	handoffStore driven.HandoffStore
	resolver     driven.DocumentResolver
	fetcher      driven.BlobFetcher
	opener       driven.ContextOpener

	flight   singleflight.Group
	spoolDir string

	mu    sync.Mutex
	spool map[string]string // documentID -> spool file path
}

// NewNavigationService creates a navigation service with a fresh session
// spool directory.
func NewNavigationService(
	blobStore driven.BlobStore,
	handoffStore driven.HandoffStore,
	resolver driven.DocumentResolver,
	fetcher driven.BlobFetcher,
	opener driven.ContextOpener,
) (*NavigationService, error) {
	spoolDir, err := os.MkdirTemp("", "pinpoint-spool-")
	if err != nil {
		return nil, fmt.Errorf("creating spool directory: %w", err)
	}

	return &NavigationService{
		blobStore:    blobStore,
		handoffStore: handoffStore,
		resolver:     resolver,
		fetcher:      fetcher,
		opener:       opener,
		spoolDir:     spoolDir,
		spool:        make(map[string]string),
	}, nil
}

// OpenDocumentAtCitation resolves a blob for documentID, writes the
// hand-off, and opens a viewer at the citation's target page/highlight.
func (s *NavigationService) OpenDocumentAtCitation(ctx context.Context, documentID string, citation any) (domain.ViewerTarget, error) {
	target, err := s.PrepareDocumentAtCitation(ctx, documentID, citation)
	if err != nil {
		return domain.ViewerTarget{}, err
	}

	logger.Debug("opening viewer at %s", target.URL())
	if err := s.opener.Open(target.URL()); err != nil {
		return domain.ViewerTarget{}, fmt.Errorf("opening viewing context: %w", err)
	}
	return target, nil
}

// PrepareDocumentAtCitation resolves a blob for documentID and writes the
// hand-off, returning the viewer target without opening a context.
func (s *NavigationService) PrepareDocumentAtCitation(ctx context.Context, documentID string, citation any) (domain.ViewerTarget, error) {
	if documentID == "" {
		return domain.ViewerTarget{}, domain.ErrMissingDocument
	}

	parsed := citations.Parse(citation)

	blobPath, err := s.ResolveBlobPath(ctx, documentID)
	if err != nil {
		return domain.ViewerTarget{}, err
	}

	handoff := domain.Handoff{
		BlobPath:   blobPath,
		DocumentID: documentID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.handoffStore.SaveHandoff(ctx, handoff); err != nil {
		return domain.ViewerTarget{}, fmt.Errorf("saving hand-off: %w", err)
	}

	return domain.ViewerTarget{
		DocumentID: documentID,
		Page:       parsed.PageNumber,
		Highlight:  parsed.QuotedText,
	}, nil
}

// ResolveBlobPath produces a spool file for documentID. Precedence: already
// spooled this session, document-namespace cache, upload-namespace cache,
// then remote resolution + fetch (which also populates the document cache).
func (s *NavigationService) ResolveBlobPath(ctx context.Context, documentID string) (string, error) {
	if documentID == "" {
		return "", domain.ErrMissingDocument
	}

	// Collapse concurrent resolutions of the same document: at most one
	// remote fetch per documentID is ever in flight.
	path, err, _ := s.flight.Do(documentID, func() (any, error) {
		return s.resolveLocked(ctx, documentID)
	})
	if err != nil {
		return "", err
	}
	return path.(string), nil
}

func (s *NavigationService) resolveLocked(ctx context.Context, documentID string) (string, error) {
	// Spool files can disappear underneath us (tmp cleaners); verify
	// before reusing, and fall through to re-materialise when gone.
	if existing, ok := s.spooledPath(documentID); ok {
		if _, err := os.Stat(existing); err == nil {
			return existing, nil
		}
		s.forgetSpooled(documentID)
	}

	if record, err := s.blobStore.GetDocumentBlob(ctx, documentID); err == nil && record != nil {
		return s.materialise(documentID, record.Name, record.Payload)
	}

	// The "document" may be a locally-held upload that was never
	// persisted to the backend.
	if record, err := s.blobStore.Get(ctx, documentID); err == nil && record != nil {
		return s.materialise(documentID, record.Name, record.Payload)
	}

	return s.fetchRemote(ctx, documentID)
}

func (s *NavigationService) fetchRemote(ctx context.Context, documentID string) (string, error) {
	fileURL, err := s.resolver.ResolveFileURL(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("resolving document %s: %w: %v", documentID, domain.ErrDocumentUnavailable, err)
	}

	blob, err := s.fetcher.Fetch(ctx, fileURL)
	if err != nil {
		return "", fmt.Errorf("fetching document %s: %w: %v", documentID, domain.ErrDocumentUnavailable, err)
	}
	logger.Info("fetched document %s (%d bytes)", documentID, len(blob.Payload))

	// Cache for later requests. A failed cache write is logged and
	// surfaced nowhere else: the freshly fetched bytes are still usable.
	if err := s.blobStore.CacheDocumentBlob(ctx, documentID, blob.Name, blob.MimeType, blob.Payload); err != nil {
		logger.Warn("caching document %s: %v", documentID, err)
	}

	return s.materialise(documentID, blob.Name, blob.Payload)
}

// materialise writes payload into the session spool exactly once per
// documentID and remembers the path for reuse.
func (s *NavigationService) materialise(documentID, name string, payload []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.spool[documentID]; ok {
		if _, err := os.Stat(existing); err == nil {
			return existing, nil
		}
	}

	path := filepath.Join(s.spoolDir, spoolFileName(documentID, name))
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return "", fmt.Errorf("spooling document %s: %w", documentID, err)
	}
	s.spool[documentID] = path
	return path, nil
}

func (s *NavigationService) spooledPath(documentID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path, ok := s.spool[documentID]
	return path, ok
}

func (s *NavigationService) forgetSpooled(documentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.spool, documentID)
}

// Handoff returns the current hand-off, or nil when none exists.
func (s *NavigationService) Handoff(ctx context.Context) (*domain.Handoff, error) {
	return s.handoffStore.LoadHandoff(ctx)
}

// CleanupSpool removes the whole session spool directory.
func (s *NavigationService) CleanupSpool() error {
	s.mu.Lock()
	s.spool = make(map[string]string)
	s.mu.Unlock()
	return os.RemoveAll(s.spoolDir)
}

// spoolFileName builds a filesystem-safe name keeping the original
// extension so the renderer can sniff the format.
func spoolFileName(documentID, name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".pdf"
	}
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, documentID)
	return safe + ext
}
