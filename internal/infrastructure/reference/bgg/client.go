// Package bgg provides a ReferenceLookup implementation against the
// BoardGameGeek XML API.
package bgg

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/otterworks/gamescout/internal/domain/ports"
)

// DefaultBaseURL is the public BoardGameGeek API host.
const DefaultBaseURL = "https://boardgamegeek.com"

const lookupTimeout = 10 * time.Second

// Client implements ports.ReferenceLookup using the XML API2 exact search.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a new BoardGameGeek client.
func NewClient() *Client {
	return &Client{
		client:  &http.Client{Timeout: lookupTimeout},
		baseURL: DefaultBaseURL,
	}
}

// NewClientWithBaseURL creates a client against a custom host.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// searchResult mirrors the XML API2 search response.
type searchResult struct {
	XMLName xml.Name `xml:"items"`
	Total   int      `xml:"total,attr"`
	Items   []struct {
		ID   string `xml:"id,attr"`
		Type string `xml:"type,attr"`
	} `xml:"item"`
}

// LookupExact searches for an exact-name match and returns the game's page
// URL. The API intermittently demands authentication (401); that surfaces as
// ErrAuthRequired so callers can fall back to another strategy. No match is
// ErrNotFound.
func (c *Client) LookupExact(ctx context.Context, name string) (string, error) {
	searchURL := fmt.Sprintf("%s/xmlapi2/search?query=%s&type=boardgame&exact=1",
		c.baseURL, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", fmt.Errorf("building search request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("searching boardgamegeek: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("boardgamegeek search: status %d: %w", resp.StatusCode, ports.ErrAuthRequired)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("boardgamegeek search: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading search response: %w", err)
	}

	var result searchResult
	if err := xml.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parsing search response: %w", err)
	}

	for _, item := range result.Items {
		if item.Type == "boardgame" && item.ID != "" {
			return fmt.Sprintf("%s/boardgame/%s", DefaultBaseURL, item.ID), nil
		}
	}
	return "", fmt.Errorf("no exact match for %q: %w", name, ports.ErrNotFound)
}
