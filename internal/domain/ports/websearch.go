package ports

import (
	"context"

	"github.com/otterworks/gamescout/internal/domain/entities"
)

// SourceLink is one candidate source URL discovered by web research.
type SourceLink struct {
	Title string              `json:"title"`
	URL   string              `json:"url"`
	Type  entities.SourceType `json:"type"`
}

// WebSearcher defines live web-search capabilities. It serves both primary
// source discovery and the fallback legs of the reference and video chains.
type WebSearcher interface {
	// ResearchLinks discovers up to max candidate source URLs for the topic.
	ResearchLinks(ctx context.Context, topic string, max int) ([]SourceLink, error)

	// FindReferenceURL searches for the canonical reference-site page of a
	// game. Returns ErrNotFound when no plausible URL was found.
	FindReferenceURL(ctx context.Context, gameName string) (string, error)

	// FindTutorialVideo searches for a plausible tutorial video URL.
	// Returns ErrNotFound when no plausible URL was found.
	FindTutorialVideo(ctx context.Context, gameName string) (*VideoCandidate, error)
}
