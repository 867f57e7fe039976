package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Handoff is the minimal state passed from the initiating context to a newly
// opened viewer so it can locate the correct binary. Written immediately
// before the viewer starts, read once on viewer load, and superseded by the
// next navigation. BlobPath and DocumentID are always written together.
type Handoff struct {
	// BlobPath is the spool file holding the document bytes.
	BlobPath string

	// DocumentID is the document the blob belongs to. The viewer validates
	// it against the target URL before trusting BlobPath.
	DocumentID string

	// CreatedAt is when the hand-off was written.
	CreatedAt time.Time
}

// Viewer route contract. A target URL carries the document id plus the
// optional navigation hints extracted from the citation.
const (
	ViewerScheme = "pinpoint"
	ViewerHost   = "viewer"

	paramDocID     = "docId"
	paramPage      = "page"
	paramHighlight = "highlight"
)

// ViewerTarget is the parsed form of a viewer URL.
type ViewerTarget struct {
	// DocumentID is required.
	DocumentID string

	// Page is the 1-indexed page to jump to; zero means none.
	Page int

	// Highlight is the text to search and highlight; empty means none.
	Highlight string
}

// URL serialises the target as pinpoint://viewer?docId=…&page=…&highlight=….
// Optional parameters are omitted when absent; the highlight value is
// URL-encoded by the query encoder.
func (t ViewerTarget) URL() string {
	q := url.Values{}
	q.Set(paramDocID, t.DocumentID)
	if t.Page > 0 {
		q.Set(paramPage, strconv.Itoa(t.Page))
	}
	if t.Highlight != "" {
		q.Set(paramHighlight, t.Highlight)
	}
	u := url.URL{Scheme: ViewerScheme, Host: ViewerHost, RawQuery: q.Encode()}
	return u.String()
}

// ParseViewerTarget parses a viewer URL produced by ViewerTarget.URL.
// A missing or empty docId, or a page that is not a positive integer,
// yields ErrInvalidInput.
func ParseViewerTarget(raw string) (ViewerTarget, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ViewerTarget{}, fmt.Errorf("parsing viewer target: %w", ErrInvalidInput)
	}
	if u.Scheme != ViewerScheme || u.Host != ViewerHost {
		return ViewerTarget{}, fmt.Errorf("not a viewer target %q: %w", raw, ErrInvalidInput)
	}

	q := u.Query()
	target := ViewerTarget{
		DocumentID: q.Get(paramDocID),
		Highlight:  q.Get(paramHighlight),
	}
	if target.DocumentID == "" {
		return ViewerTarget{}, fmt.Errorf("viewer target missing docId: %w", ErrInvalidInput)
	}
	if pageStr := q.Get(paramPage); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return ViewerTarget{}, fmt.Errorf("viewer target page %q: %w", pageStr, ErrInvalidInput)
		}
		target.Page = page
	}
	return target, nil
}
