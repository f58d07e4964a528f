package services

import (
	"math"
	"regexp"
	"strings"

	"github.com/otterworks/gamescout/internal/domain/ports"
)

// qualityChannels are known tutorial channels that earn a scoring bonus.
var qualityChannels = []string{
	"watch it played",
	"jongetsgames",
	"shut up & sit down",
	"the rules girl",
	"rodney smith",
	"man vs meeple",
	"rahdo",
	"dice tower",
	"actualol",
}

// videoIDPatterns match the watch, short and embed URL forms.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
}

// ExtractVideoID extracts the video ID from a YouTube URL, or "" if the URL
// is not a recognizable YouTube link.
func ExtractVideoID(url string) string {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// ScoreVideo computes the deterministic quality score of a tutorial-video
// candidate: a log-scale view score capped at 50, +30 for an allowlisted
// channel, +20 for a tutorial-style title, +15 for an exact game-name match
// in the title, and a like-ratio bonus capped at 10.
func ScoreVideo(c ports.VideoCandidate, gameName string) float64 {
	score := 0.0

	if c.ViewCount > 0 {
		viewScore := math.Log10(float64(c.ViewCount)) * 10
		if viewScore > 50 {
			viewScore = 50
		}
		score += viewScore
	}

	channel := strings.ToLower(c.Channel)
	for _, q := range qualityChannels {
		if strings.Contains(channel, q) {
			score += 30
			break
		}
	}

	title := strings.ToLower(c.Title)
	if strings.Contains(title, "how to play") || strings.Contains(title, "tutorial") {
		score += 20
	}
	if strings.Contains(title, strings.ToLower(gameName)) {
		score += 15
	}

	if c.ViewCount > 0 && c.LikeCount > 0 {
		likeBonus := float64(c.LikeCount) / float64(c.ViewCount) * 1000
		if likeBonus > 10 {
			likeBonus = 10
		}
		score += likeBonus
	}

	return score
}

// BestVideo picks the highest-scoring candidate. Among equal scores the
// earliest candidate wins, keeping the choice deterministic for a fixed
// candidate order.
func BestVideo(candidates []ports.VideoCandidate, gameName string) (*ports.VideoCandidate, float64) {
	var best *ports.VideoCandidate
	bestScore := 0.0
	for i := range candidates {
		score := ScoreVideo(candidates[i], gameName)
		if best == nil || score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}
	return best, bestScore
}
