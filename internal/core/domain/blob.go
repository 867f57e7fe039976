package domain

import "time"

// Namespace identifies one of the two independent keyspaces of the blob
// store. Upload ids are generated locally; document ids are assigned by the
// backend document service. The two are never derived from one another and
// must not collide, so they live in separate namespaces.
type Namespace string

const (
	// NamespaceUpload holds files added locally, keyed by a generated id.
	NamespaceUpload Namespace = "upload"

	// NamespaceDocument caches fetched document binaries, keyed by the
	// server-assigned document id.
	NamespaceDocument Namespace = "document"
)

// BlobRecord is a stored binary file with its metadata. The payload is owned
// exclusively by the record; callers that need a filesystem handle go through
// the navigation service's spool rather than keeping a live reference.
type BlobRecord struct {
	// ID is unique within its namespace. Writing the same id overwrites.
	ID string

	// Name is the original file name.
	Name string

	// MimeType describes the payload (application/pdf in practice).
	MimeType string

	// SizeBytes is the payload length at write time.
	SizeBytes int64

	// LastModified is the source file's modification time, when known.
	LastModified time.Time

	// Payload is the raw binary content.
	Payload []byte

	// CreatedAt is the insertion timestamp.
	CreatedAt time.Time
}

// Info returns the metadata subset of the record, without the payload.
func (r *BlobRecord) Info() BlobInfo {
	return BlobInfo{
		ID:           r.ID,
		Name:         r.Name,
		MimeType:     r.MimeType,
		SizeBytes:    r.SizeBytes,
		LastModified: r.LastModified,
		CreatedAt:    r.CreatedAt,
	}
}

// BlobInfo is the payload-free view of a BlobRecord, suitable for listings
// and for returning from writes (the caller already holds the bytes).
type BlobInfo struct {
	ID           string
	Name         string
	MimeType     string
	SizeBytes    int64
	LastModified time.Time
	CreatedAt    time.Time
}
