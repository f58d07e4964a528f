// Package youtube provides video search, validation and transcript fetching
// against YouTube.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/otterworks/gamescout/internal/domain/ports"
	"github.com/otterworks/gamescout/internal/infrastructure/config"
)

// resultsPerQuery caps how many hits each search query contributes.
const resultsPerQuery = 5

// Client implements ports.VideoSearcher using the YouTube Data API.
type Client struct {
	service *youtube.Service
}

// NewClient creates a new YouTube Data API client.
func NewClient(ctx context.Context, cfg config.YouTubeConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("YouTube API key is required")
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	return &Client{service: service}, nil
}

// SearchVideos runs each query against the search endpoint, then fetches
// statistics for the combined, deduplicated hit list.
func (c *Client) SearchVideos(ctx context.Context, queries []string) ([]ports.VideoCandidate, error) {
	seen := make(map[string]bool)
	var ids []string
	meta := make(map[string]*youtube.SearchResultSnippet)

	for _, query := range queries {
		resp, err := c.service.Search.List([]string{"id", "snippet"}).
			Context(ctx).
			Q(query).
			Type("video").
			MaxResults(resultsPerQuery).
			Do()
		if err != nil {
			return nil, fmt.Errorf("searching videos for %q: %w", query, err)
		}
		for _, item := range resp.Items {
			if item.Id == nil || item.Id.VideoId == "" || seen[item.Id.VideoId] {
				continue
			}
			seen[item.Id.VideoId] = true
			ids = append(ids, item.Id.VideoId)
			meta[item.Id.VideoId] = item.Snippet
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	stats, err := c.service.Videos.List([]string{"statistics"}).
		Context(ctx).
		Id(strings.Join(ids, ",")).
		Do()
	if err != nil {
		return nil, fmt.Errorf("fetching video statistics: %w", err)
	}
	statsByID := make(map[string]*youtube.VideoStatistics, len(stats.Items))
	for _, item := range stats.Items {
		statsByID[item.Id] = item.Statistics
	}

	candidates := make([]ports.VideoCandidate, 0, len(ids))
	for _, id := range ids {
		candidate := ports.VideoCandidate{
			ID:  id,
			URL: "https://www.youtube.com/watch?v=" + id,
		}
		if snippet := meta[id]; snippet != nil {
			candidate.Title = snippet.Title
			candidate.Channel = snippet.ChannelTitle
		}
		if s := statsByID[id]; s != nil {
			candidate.ViewCount = s.ViewCount
			candidate.LikeCount = s.LikeCount
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}
