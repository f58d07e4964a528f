package mocks

import (
	"context"
	"sync"

	"github.com/otterworks/gamescout/internal/domain/ports"
)

// WebSearcher is a mock implementation of ports.WebSearcher.
type WebSearcher struct {
	Links    []ports.SourceLink
	LinksErr error

	ReferenceURL    string
	ReferenceErr    error
	ReferenceCalled int

	Video    *ports.VideoCandidate
	VideoErr error
}

// ResearchLinks returns the configured links or error.
func (m *WebSearcher) ResearchLinks(ctx context.Context, topic string, max int) ([]ports.SourceLink, error) {
	if m.LinksErr != nil {
		return nil, m.LinksErr
	}
	if len(m.Links) > max {
		return m.Links[:max], nil
	}
	return m.Links, nil
}

// FindReferenceURL returns the configured URL or error.
func (m *WebSearcher) FindReferenceURL(ctx context.Context, gameName string) (string, error) {
	m.ReferenceCalled++
	if m.ReferenceErr != nil {
		return "", m.ReferenceErr
	}
	return m.ReferenceURL, nil
}

// FindTutorialVideo returns the configured candidate or error.
func (m *WebSearcher) FindTutorialVideo(ctx context.Context, gameName string) (*ports.VideoCandidate, error) {
	if m.VideoErr != nil {
		return nil, m.VideoErr
	}
	return m.Video, nil
}

// VideoSearcher is a mock implementation of ports.VideoSearcher.
type VideoSearcher struct {
	Candidates []ports.VideoCandidate
	Err        error

	LastQueries []string
}

// SearchVideos returns the configured candidates or error.
func (m *VideoSearcher) SearchVideos(ctx context.Context, queries []string) ([]ports.VideoCandidate, error) {
	m.LastQueries = queries
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Candidates, nil
}

// VideoValidator is a mock implementation of ports.VideoValidator.
type VideoValidator struct {
	Valid     bool
	CallCount int
	LastURL   string
}

// ValidateVideo returns the configured validity.
func (m *VideoValidator) ValidateVideo(ctx context.Context, url string) bool {
	m.CallCount++
	m.LastURL = url
	return m.Valid
}

// TranscriptFetcher is a mock implementation of ports.TranscriptFetcher.
type TranscriptFetcher struct {
	Transcript string
	Err        error
}

// FetchTranscript returns the configured transcript or error.
func (m *TranscriptFetcher) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Transcript, nil
}

// ReferenceLookup is a mock implementation of ports.ReferenceLookup.
type ReferenceLookup struct {
	URL       string
	Err       error
	CallCount int
}

// LookupExact returns the configured URL or error.
func (m *ReferenceLookup) LookupExact(ctx context.Context, name string) (string, error) {
	m.CallCount++
	if m.Err != nil {
		return "", m.Err
	}
	return m.URL, nil
}

// Fetcher is a mock implementation of ports.Fetcher keyed by URL. It is
// safe for concurrent use; source downloads run in a worker pool.
type Fetcher struct {
	mu sync.Mutex

	// Results maps URL to a fetch result. URLs with no entry return Err,
	// or ports.ErrNotFound if Err is nil.
	Results map[string]*ports.FetchResult
	Err     error

	Fetched []string
}

// Get returns the configured result for the URL.
func (m *Fetcher) Get(ctx context.Context, url string) (*ports.FetchResult, error) {
	m.mu.Lock()
	m.Fetched = append(m.Fetched, url)
	m.mu.Unlock()
	if res, ok := m.Results[url]; ok {
		return res, nil
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, ports.ErrNotFound
}
