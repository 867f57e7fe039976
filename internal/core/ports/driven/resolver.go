package driven

import "context"

// DocumentResolver asks the backend document service where a document's
// binary can be fetched from. The returned URL is short-lived; this subsystem
// fetches it once and caches the bytes locally.
type DocumentResolver interface {
	// ResolveFileURL returns a fetchable URL for the document's binary.
	ResolveFileURL(ctx context.Context, documentID string) (string, error)
}

// FetchedBlob is the result of downloading a document binary.
type FetchedBlob struct {
	// Payload is the raw bytes.
	Payload []byte

	// Name is the file name derived from the URL or response headers.
	Name string

	// MimeType is the content type reported by the server.
	MimeType string
}

// BlobFetcher downloads a document binary from a resolved URL. A failed
// fetch is terminal for the navigation attempt; there are no automatic
// retries anywhere in this subsystem.
type BlobFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedBlob, error)
}
