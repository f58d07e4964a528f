// Package fetch downloads source documents over HTTP and extracts readable
// text from HTML.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/otterworks/gamescout/internal/domain/ports"
)

const (
	// DefaultTimeout bounds a single document download.
	DefaultTimeout = 20 * time.Second
	// maxBodySize caps downloads so a runaway response can't exhaust disk.
	maxBodySize = 32 << 20 // 32 MiB
	// userAgent identifies the crawler politely; some rule-hosting sites
	// reject the Go default.
	userAgent = "Mozilla/5.0 (compatible; gamescout/1.0)"
)

// Client implements ports.Fetcher over net/http.
type Client struct {
	client *http.Client
}

// NewClient creates a fetcher with the given timeout; zero means default.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		client: &http.Client{Timeout: timeout},
	}
}

// Get downloads the URL and returns its body and content type. Non-2xx
// statuses are errors; redirects are followed.
func (c *Client) Get(ctx context.Context, rawURL string) (*ports.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}

	return &ports.FetchResult{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
