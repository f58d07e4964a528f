package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otterworks/gamescout/internal/domain/ports"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://example.com/watch?v=dQw4w9WgXcQ", ""},
		{"https://en.wikipedia.org/wiki/Catan", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractVideoID(tt.url), tt.url)
	}
}

func TestScoreVideoComponents(t *testing.T) {
	// 1M views: log10(1e6)*10 = 60, capped at 50.
	viewsOnly := ports.VideoCandidate{Title: "unrelated", ViewCount: 1_000_000}
	assert.InDelta(t, 50.0, ScoreVideo(viewsOnly, "Catan"), 0.001)

	// 100 views: log10(100)*10 = 20.
	fewViews := ports.VideoCandidate{Title: "unrelated", ViewCount: 100}
	assert.InDelta(t, 20.0, ScoreVideo(fewViews, "Catan"), 0.001)

	channel := ports.VideoCandidate{Title: "unrelated", Channel: "Watch It Played"}
	assert.InDelta(t, 30.0, ScoreVideo(channel, "Catan"), 0.001)

	tutorialTitle := ports.VideoCandidate{Title: "How to Play something"}
	assert.InDelta(t, 20.0, ScoreVideo(tutorialTitle, "Catan"), 0.001)

	nameInTitle := ports.VideoCandidate{Title: "Catan review"}
	assert.InDelta(t, 15.0, ScoreVideo(nameInTitle, "Catan"), 0.001)

	// Like ratio 0.05 -> 50, capped at 10. Views add log10(1000)*10 = 30.
	liked := ports.VideoCandidate{Title: "unrelated", ViewCount: 1000, LikeCount: 50}
	assert.InDelta(t, 40.0, ScoreVideo(liked, "Catan"), 0.001)
}

func TestScoreVideoStacks(t *testing.T) {
	c := ports.VideoCandidate{
		Title:     "How to Play Catan - Tutorial",
		Channel:   "Watch It Played",
		ViewCount: 1_000_000,
		LikeCount: 100_000,
	}
	// 50 views + 30 channel + 20 tutorial + 15 name + 10 likes.
	assert.InDelta(t, 125.0, ScoreVideo(c, "Catan"), 0.001)
}

func TestBestVideoPicksHighest(t *testing.T) {
	candidates := []ports.VideoCandidate{
		{ID: "a", Title: "Catan unboxing", ViewCount: 100},
		{ID: "b", Title: "How to Play Catan", Channel: "Watch It Played", ViewCount: 500_000},
		{ID: "c", Title: "Catan review", ViewCount: 10_000},
	}
	best, score := BestVideo(candidates, "Catan")
	require.NotNil(t, best)
	assert.Equal(t, "b", best.ID)
	assert.Greater(t, score, 100.0)
}

func TestBestVideoTieKeepsFirst(t *testing.T) {
	candidates := []ports.VideoCandidate{
		{ID: "first", Title: "Catan tutorial", ViewCount: 1000},
		{ID: "second", Title: "Catan tutorial", ViewCount: 1000},
	}
	best, _ := BestVideo(candidates, "Catan")
	require.NotNil(t, best)
	assert.Equal(t, "first", best.ID)
}

func TestBestVideoEmpty(t *testing.T) {
	best, score := BestVideo(nil, "Catan")
	assert.Nil(t, best)
	assert.Zero(t, score)
}
