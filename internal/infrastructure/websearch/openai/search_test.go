package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/infrastructure/config"
)

func TestNewSearcherRequiresAPIKey(t *testing.T) {
	_, err := NewSearcher(config.LLMConfig{})
	assert.Error(t, err)
}

func TestNormalizeSourceType(t *testing.T) {
	assert.Equal(t, entities.SourceDocument, normalizeSourceType("document"))
	assert.Equal(t, entities.SourceVideo, normalizeSourceType(" Video "))
	assert.Equal(t, entities.SourceLink, normalizeSourceType("link"))
	assert.Equal(t, entities.SourceWebpage, normalizeSourceType("webpage"))
	assert.Equal(t, entities.SourceWebpage, normalizeSourceType("article"))
	assert.Equal(t, entities.SourceWebpage, normalizeSourceType(""))
}

func TestBGGURLPattern(t *testing.T) {
	assert.Contains(t, bggURLPattern.FindString("The page is https://boardgamegeek.com/boardgame/13/catan here."),
		"https://boardgamegeek.com/boardgame/13/catan")

	assert.Equal(t, "https://www.boardgamegeek.com/boardgame/266192",
		bggURLPattern.FindString("see (https://www.boardgamegeek.com/boardgame/266192) for details"))
	assert.Empty(t, bggURLPattern.FindString("NONE"))
	assert.Empty(t, bggURLPattern.FindString("https://boardgamegeek.com/user/someone"))
}

func TestYouTubeURLPattern(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		youtubeURLPattern.FindString("watch https://www.youtube.com/watch?v=dQw4w9WgXcQ now"))
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ",
		youtubeURLPattern.FindString("short form: https://youtu.be/dQw4w9WgXcQ"))
	assert.Empty(t, youtubeURLPattern.FindString("NONE"))
}
