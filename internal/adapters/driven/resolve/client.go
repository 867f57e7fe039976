// Package resolve implements the DocumentResolver port against the backend
// document service's HTTP API.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
)

const defaultTimeout = 30 * time.Second

// Client resolves document ids to short-lived file URLs via
// GET {base}/v1/documents/{id}/file-url.
type Client struct {
	baseURL string
	client  *http.Client
}

var _ driven.DocumentResolver = (*Client)(nil)

// NewClient creates a resolver client. A nil httpClient gets a default with
// a 30-second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// fileURLResponse is the service's resolution payload.
type fileURLResponse struct {
	URL string `json:"url"`
}

// ResolveFileURL returns a fetchable URL for the document's binary. Any
// resolution failure wraps domain.ErrDocumentUnavailable; the navigation
// attempt is terminal, there are no retries.
func (c *Client) ResolveFileURL(ctx context.Context, documentID string) (string, error) {
	if documentID == "" {
		return "", domain.ErrMissingDocument
	}

	endpoint := fmt.Sprintf("%s/v1/documents/%s/file-url", c.baseURL, url.PathEscape(documentID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("building resolve request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: resolving file url: %v", domain.ErrDocumentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: resolving file url: %s (%s)",
			domain.ErrDocumentUnavailable, resp.Status, strings.TrimSpace(string(body)))
	}

	var payload fileURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decoding resolve response: %v", domain.ErrDocumentUnavailable, err)
	}
	if payload.URL == "" {
		return "", fmt.Errorf("%w: resolve response carried no url", domain.ErrDocumentUnavailable)
	}

	return payload.URL, nil
}
