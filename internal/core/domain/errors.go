package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingDocument indicates navigation was requested without a
	// document id. This is a programmer error and should not be reachable
	// from the UI.
	ErrMissingDocument = errors.New("document id required")

	// ErrDocumentUnavailable indicates no cached bytes exist, the upload
	// namespace had no fallback, and remote resolution or fetch failed.
	// Surfaced to the user as "could not open document".
	ErrDocumentUnavailable = errors.New("document unavailable")

	// ErrStorageWrite indicates the underlying store rejected a write
	// (quota, disabled storage). Non-fatal to navigation: freshly fetched
	// bytes remain usable even when caching them failed.
	ErrStorageWrite = errors.New("storage write failed")

	// ErrRenderFailed indicates the rendering collaborator could not parse
	// the binary. Kept distinct from ErrDocumentUnavailable so the user
	// knows the file was found but is invalid or corrupt.
	ErrRenderFailed = errors.New("document could not be rendered")
)
