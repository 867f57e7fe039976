package resolve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
)

func TestResolveFileURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/documents/doc-1/file-url", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url": "https://files.example.com/doc-1.pdf"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	url, err := client.ResolveFileURL(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/doc-1.pdf", url)
}

func TestResolveFileURL_EscapesDocumentID(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"url": "https://files.example.com/x.pdf"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	_, err := client.ResolveFileURL(context.Background(), "doc/with spaces")
	require.NoError(t, err)
	assert.Equal(t, "/v1/documents/doc%2Fwith%20spaces/file-url", gotPath)
}

func TestResolveFileURL_EmptyID(t *testing.T) {
	client := NewClient("http://localhost:1", nil)

	_, err := client.ResolveFileURL(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingDocument)
}

func TestResolveFileURL_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "document not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	_, err := client.ResolveFileURL(context.Background(), "doc-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDocumentUnavailable)
	assert.Contains(t, err.Error(), "404")
}

func TestResolveFileURL_EmptyURLInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	_, err := client.ResolveFileURL(context.Background(), "doc-1")
	assert.ErrorIs(t, err, domain.ErrDocumentUnavailable)
}

func TestResolveFileURL_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	_, err := client.ResolveFileURL(context.Background(), "doc-1")
	assert.ErrorIs(t, err, domain.ErrDocumentUnavailable)
}

func TestResolveFileURL_ConnectionRefused(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil)

	_, err := client.ResolveFileURL(context.Background(), "doc-1")
	assert.ErrorIs(t, err, domain.ErrDocumentUnavailable)
}
