// Package fetch implements the BlobFetcher port with a plain HTTP download.
// One GET per resolved URL, no retries and no range resumption; the resolved
// URLs are short-lived and a failed attempt is terminal.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
)

const (
	defaultTimeout  = 90 * time.Second
	defaultMimeType = "application/pdf"
	defaultName     = "document.pdf"
)

// Client downloads document binaries.
type Client struct {
	client *http.Client
}

var _ driven.BlobFetcher = (*Client)(nil)

// NewClient creates a fetcher. A nil httpClient gets a default with a
// 90-second timeout.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{client: httpClient}
}

// Fetch downloads the blob at fetchURL. Failures wrap
// domain.ErrDocumentUnavailable.
func (c *Client) Fetch(ctx context.Context, fetchURL string) (*driven.FetchedBlob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building fetch request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching blob: %v", domain.ErrDocumentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: fetching blob: %s (%s)",
			domain.ErrDocumentUnavailable, resp.Status, strings.TrimSpace(string(body)))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading blob body: %v", domain.ErrDocumentUnavailable, err)
	}

	return &driven.FetchedBlob{
		Payload:  payload,
		Name:     blobName(resp, fetchURL),
		MimeType: blobMimeType(resp),
	}, nil
}

// blobName derives a file name from the Content-Disposition header, falling
// back to the URL path's last element.
func blobName(resp *http.Response, fetchURL string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return path.Base(name)
			}
		}
	}

	if u, err := url.Parse(fetchURL); err == nil {
		if name := path.Base(u.Path); name != "." && name != "/" && name != "" {
			return name
		}
	}

	return defaultName
}

func blobMimeType(resp *http.Response) string {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return defaultMimeType
	}
	if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
		return mediaType
	}
	return defaultMimeType
}
