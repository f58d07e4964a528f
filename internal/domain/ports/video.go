package ports

import "context"

// VideoCandidate is one tutorial-video search result with the statistics the
// deterministic ranking function needs. Candidates found through fallback
// web search carry zero statistics and rank on title signals alone.
type VideoCandidate struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	ViewCount uint64 `json:"view_count"`
	LikeCount uint64 `json:"like_count"`
}

// VideoSearcher defines the video-search capability.
type VideoSearcher interface {
	// SearchVideos runs each query phrasing and returns the combined
	// candidate list with statistics populated.
	SearchVideos(ctx context.Context, queries []string) ([]VideoCandidate, error)
}

// VideoValidator checks that a video URL resolves to an existing, playable
// video. Invalid videos are dropped before persistence, never surfaced as
// dead links.
type VideoValidator interface {
	ValidateVideo(ctx context.Context, url string) bool
}

// TranscriptFetcher fetches caption text for a video.
type TranscriptFetcher interface {
	// FetchTranscript returns the caption text for the video, or ErrNotFound
	// when no captions are available.
	FetchTranscript(ctx context.Context, videoID string) (string, error)
}
