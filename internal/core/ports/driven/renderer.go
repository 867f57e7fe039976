package driven

import "context"

// DocumentRenderer is the page-rasterisation collaborator. It owns parsing
// the binary; this subsystem only orchestrates around it.
type DocumentRenderer interface {
	// Open parses the document at path. Parse failures wrap
	// domain.ErrRenderFailed so the viewer can distinguish "file is
	// corrupt" from "file is missing".
	Open(ctx context.Context, path string) (RenderedDocument, error)
}

// RenderedDocument exposes an open document's pages. Page numbers are
// 1-indexed throughout.
type RenderedDocument interface {
	// PageCount returns the number of pages. Known immediately after Open.
	PageCount() int

	// PageText extracts the text layer of one page. This is the per-page
	// render completion signal: a page is not considered rendered until
	// its PageText call has returned.
	PageText(ctx context.Context, page int) (string, error)

	// Close releases the underlying file handle.
	Close() error
}
