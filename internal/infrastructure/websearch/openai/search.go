// Package openai provides a WebSearcher implementation backed by an OpenAI
// web-search-capable model.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/domain/ports"
	"github.com/otterworks/gamescout/internal/infrastructure/config"
)

const researchPrompt = `You research the board game %q on the live web.

Find up to %d high-quality sources about the game: official rulebooks (PDF),
rules reference pages, strategy guides, FAQ pages, and tutorial videos.
Prefer authoritative sources (publisher sites, BoardGameGeek, established
review sites). Skip forums, storefronts and social media.

For each source return:
- title: A short human-readable title
- url: The full URL
- type: one of "document" (PDF rulebook), "webpage" (readable article/rules
  page), "video" (YouTube tutorial), "link" (worth recording but not worth
  downloading)

Return ONLY a valid JSON array, no other text.
Example: [{"title": "Official rulebook", "url": "https://example.com/rules.pdf", "type": "document"}]`

const referencePrompt = `Find the BoardGameGeek page for the board game %q.
Reply with the URL of its boardgamegeek.com/boardgame/... page, or NONE if
you cannot find it.`

const tutorialPrompt = `Find the best "how to play" tutorial video for the
board game %q on YouTube. Prefer established tutorial channels. Reply with
the video URL, or NONE if you cannot find one.`

var (
	bggURLPattern     = regexp.MustCompile(`https?://(?:www\.)?boardgamegeek\.com/boardgame/\d+[^\s)\]"']*`)
	youtubeURLPattern = regexp.MustCompile(`https?://(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)[a-zA-Z0-9_-]{11}[^\s)\]"']*`)
)

// Searcher implements ports.WebSearcher using an OpenAI search model.
type Searcher struct {
	client *openai.Client
	model  string
}

// NewSearcher creates a new web searcher.
func NewSearcher(cfg config.LLMConfig) (*Searcher, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := "gpt-4o-search-preview"
	if cfg.SearchModel != "" {
		model = cfg.SearchModel
	}

	return &Searcher{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}, nil
}

// ResearchLinks discovers up to max candidate source URLs for the topic.
func (s *Searcher) ResearchLinks(ctx context.Context, topic string, max int) ([]ports.SourceLink, error) {
	content, err := s.complete(ctx, fmt.Sprintf(researchPrompt, topic, max))
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Type  string `json:"type"`
	}
	if err := json.Unmarshal([]byte(cleanJSONResponse(content)), &raw); err != nil {
		return nil, fmt.Errorf("parsing research links (response: %s): %w", content, ports.ErrUnparseable)
	}

	links := make([]ports.SourceLink, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" {
			continue
		}
		links = append(links, ports.SourceLink{
			Title: r.Title,
			URL:   r.URL,
			Type:  normalizeSourceType(r.Type),
		})
		if len(links) == max {
			break
		}
	}
	return links, nil
}

// FindReferenceURL searches for the game's BoardGameGeek page.
func (s *Searcher) FindReferenceURL(ctx context.Context, gameName string) (string, error) {
	content, err := s.complete(ctx, fmt.Sprintf(referencePrompt, gameName))
	if err != nil {
		return "", err
	}
	if url := bggURLPattern.FindString(content); url != "" {
		return url, nil
	}
	return "", ports.ErrNotFound
}

// FindTutorialVideo searches for a plausible tutorial video URL.
func (s *Searcher) FindTutorialVideo(ctx context.Context, gameName string) (*ports.VideoCandidate, error) {
	content, err := s.complete(ctx, fmt.Sprintf(tutorialPrompt, gameName))
	if err != nil {
		return nil, err
	}
	url := youtubeURLPattern.FindString(content)
	if url == "" {
		return nil, ports.ErrNotFound
	}
	return &ports.VideoCandidate{
		URL:   url,
		Title: fmt.Sprintf("How to play %s", gameName),
	}, nil
}

func (s *Searcher) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// normalizeSourceType maps a declared type to a known SourceType, defaulting
// unknown declarations to webpage so they still get downloaded.
func normalizeSourceType(t string) entities.SourceType {
	switch entities.SourceType(strings.ToLower(strings.TrimSpace(t))) {
	case entities.SourceDocument:
		return entities.SourceDocument
	case entities.SourceVideo:
		return entities.SourceVideo
	case entities.SourceLink:
		return entities.SourceLink
	case entities.SourceText:
		return entities.SourceText
	default:
		return entities.SourceWebpage
	}
}

// cleanJSONResponse removes markdown code blocks if present.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
