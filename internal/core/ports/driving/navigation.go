package driving

import (
	"context"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
)

// NavigationService is the single entry point for "view citation C of
// document D": it resolves the document's bytes (cache, upload fallback, or
// remote fetch), writes the viewer hand-off, and opens a new viewing context.
type NavigationService interface {
	// OpenDocumentAtCitation resolves a blob for documentID, persists the
	// hand-off, and opens a viewer at the citation's target. Returns the
	// target so callers can display or re-use it.
	//
	// Errors: domain.ErrMissingDocument when documentID is empty,
	// domain.ErrDocumentUnavailable when no blob could be obtained.
	OpenDocumentAtCitation(ctx context.Context, documentID string, citation any) (domain.ViewerTarget, error)

	// PrepareDocumentAtCitation performs everything OpenDocumentAtCitation
	// does short of opening a context: resolve the blob, persist the
	// hand-off, and return the target. Callers that print the target or
	// run the viewer in-process use this.
	PrepareDocumentAtCitation(ctx context.Context, documentID string, citation any) (domain.ViewerTarget, error)

	// ResolveBlobPath produces a spool file holding the document's bytes,
	// using the same precedence as OpenDocumentAtCitation but without
	// opening a context. The viewer uses this as its fallback load path
	// when the hand-off does not match its target.
	ResolveBlobPath(ctx context.Context, documentID string) (string, error)

	// Handoff returns the current hand-off, or nil when none exists.
	Handoff(ctx context.Context) (*domain.Handoff, error)

	// CleanupSpool removes every spool file this session created.
	CleanupSpool() error
}
