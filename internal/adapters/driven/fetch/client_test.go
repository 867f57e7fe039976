package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
)

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 body"))
	}))
	defer server.Close()

	client := NewClient(server.Client())

	blob, err := client.Fetch(context.Background(), server.URL+"/files/lease.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 body"), blob.Payload)
	assert.Equal(t, "application/pdf", blob.MimeType)
	assert.Equal(t, "lease.pdf", blob.Name)
}

func TestFetch_NameFromContentDisposition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="report-final.pdf"`)
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	client := NewClient(server.Client())

	blob, err := client.Fetch(context.Background(), server.URL+"/download")
	require.NoError(t, err)
	assert.Equal(t, "report-final.pdf", blob.Name)
}

func TestFetch_DefaultsWhenHeadersMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	client := NewClient(server.Client())

	blob, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", blob.MimeType)
	assert.Equal(t, "document.pdf", blob.Name)
}

func TestFetch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.Client())

	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDocumentUnavailable)
	assert.Contains(t, err.Error(), "403")
}

func TestFetch_NoRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.Client())

	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "a failed fetch must not be retried")
}

func TestFetch_ConnectionRefused(t *testing.T) {
	client := NewClient(nil)

	_, err := client.Fetch(context.Background(), "http://127.0.0.1:1/doc.pdf")
	assert.ErrorIs(t, err, domain.ErrDocumentUnavailable)
}
