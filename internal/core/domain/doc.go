// Package domain contains the core entities of pinpoint: cached binary
// blobs, parsed citations, and the viewer hand-off contract. It depends on
// nothing outside the standard library.
package domain
