// Package messages defines Bubbletea message types for the viewer TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
)

// DocumentLoaded carries the outcome of resolving and opening the document.
type DocumentLoaded struct {
	// Path is the spool file the document was opened from.
	Path string

	// OwnsSpool is true when the viewer resolved the path itself rather
	// than reusing the hand-off, and so owns the spool file's cleanup.
	OwnsSpool bool

	// Doc is the open document. Nil when Err is set.
	Doc driven.RenderedDocument

	// PageCount is the document's page count.
	PageCount int

	Err error
}

// PageRendered carries one page's extracted text. A page counts as rendered
// only once this message has been processed.
type PageRendered struct {
	Page int
	Text string
	Err  error
}

// ErrorOccurred carries a non-fatal error for display.
type ErrorOccurred struct {
	Err error
}
