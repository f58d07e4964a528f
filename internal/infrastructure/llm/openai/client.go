// Package openai provides Classifier and Generator implementations using OpenAI.
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

const nameExtractionPrompt = `You identify which board game a user's message is about.

You are given the user's message and the list of known game names. If the
message mentions or clearly refers to a board game, return its name. Prefer a
name from the known list when the mention plausibly matches one; otherwise
return the name as the user wrote it. If the message is not about any
particular game, return an empty name.

Return ONLY a valid JSON object, no other text:
{"game_name": "<name or empty string>", "confidence": "high|medium|low"}`

const metadataPrompt = `You extract structured facts about the board game %q from the text of its reference page.

Extract:
- difficulty_score: The complexity/weight rating as a number (e.g. 2.3 on a
  1-5 scale). null if the page does not state one.
- player_count: The supported player count as written (e.g. "3-4"). null if
  the page does not state one.

Use only what the page states. Never guess.

Return ONLY a valid JSON object, no other text:
{"difficulty_score": <number or null>, "player_count": "<string or null>"}`

const descriptionPrompt = `You write a short description of the board game %q based on the source excerpts below.

Write 2-3 sentences covering what kind of game it is, what players do, and
what makes it notable. Use only the excerpts. Plain text, no markdown.`

const answerSystemPrompt = `You are a knowledgeable board game assistant. Answer questions about
rules, setup, strategy and recommendations. Be concrete and concise. When
internal source excerpts are provided, ground your answer in them and prefer
them over general knowledge.`

// Client implements the Classifier and Generator interfaces using OpenAI.
type Client struct {
	client *openai.Client
	// model handles structured extraction; searchModel handles hybrid
	// answer generation with live web search.
	model       string
	searchModel string
}

// NewClient creates a new OpenAI LLM client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}
	searchModel := "gpt-4o-search-preview"
	if cfg.SearchModel != "" {
		searchModel = cfg.SearchModel
	}

	return &Client{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		searchModel: searchModel,
	}, nil
}

// ExtractGameName extracts a candidate game name from free text.
func (c *Client) ExtractGameName(ctx context.Context, userText string, knownNames []string) (*ports.NameExtraction, error) {
	user := fmt.Sprintf("Known games:\n%s\n\nUser message:\n%s",
		strings.Join(knownNames, "\n"), userText)

	content, err := c.complete(ctx, nameExtractionPrompt, user)
	if err != nil {
		return nil, err
	}

	var extraction ports.NameExtraction
	if err := json.Unmarshal([]byte(cleanJSONResponse(content)), &extraction); err != nil {
		return nil, fmt.Errorf("parsing extraction (response: %s): %w", content, ports.ErrUnparseable)
	}
	return &extraction, nil
}

// ExtractMetadata extracts difficulty and player-count fields from the
// visible content of a reference page.
func (c *Client) ExtractMetadata(ctx context.Context, gameName, pageContent string) (*entities.GameMetadata, error) {
	content, err := c.complete(ctx, fmt.Sprintf(metadataPrompt, gameName), pageContent)
	if err != nil {
		return nil, err
	}

	var raw struct {
		DifficultyScore *float64 `json:"difficulty_score"`
		PlayerCount     *string  `json:"player_count"`
	}
	if err := json.Unmarshal([]byte(cleanJSONResponse(content)), &raw); err != nil {
		return nil, fmt.Errorf("parsing metadata (response: %s): %w", content, ports.ErrUnparseable)
	}

	md := &entities.GameMetadata{
		DifficultyScore: raw.DifficultyScore,
	}
	if raw.PlayerCount != nil && strings.TrimSpace(*raw.PlayerCount) != "" && *raw.PlayerCount != "null" {
		md.PlayerCount = raw.PlayerCount
	}
	return md, nil
}

// GenerateDescription produces a short game description from a bounded
// concatenation of source summaries.
func (c *Client) GenerateDescription(ctx context.Context, gameName, sourcesSummary string) (string, error) {
	content, err := c.complete(ctx, fmt.Sprintf(descriptionPrompt, gameName), sourcesSummary)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// Answer answers a question about a game, combining the supplied internal
// context with the search model's live web search. Web pages the model cites
// as markdown links are surfaced as citations.
func (c *Client) Answer(ctx context.Context, gameName, question, contextText string) (*ports.GenerationResult, error) {
	var b strings.Builder
	if gameName != "" {
		fmt.Fprintf(&b, "The question is about the board game %q.\n\n", gameName)
	}
	if contextText != "" {
		fmt.Fprintf(&b, "Internal source excerpts:\n%s\n\n", contextText)
	}
	b.WriteString("Question: ")
	b.WriteString(question)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.searchModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: answerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: b.String()},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	text := resp.Choices[0].Message.Content
	return &ports.GenerationResult{
		Text:         text,
		WebCitations: extractWebCitations(text),
	}, nil
}

// complete runs a single system+user chat completion at low temperature.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// markdownLinkPattern matches [title](http...) links in generated text.
var markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)\s]+)\)`)

// extractWebCitations pulls the web pages the model linked, deduplicated by
// URL in order of first appearance.
func extractWebCitations(text string) []ports.WebCitation {
	matches := markdownLinkPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	citations := make([]ports.WebCitation, 0, len(matches))
	for _, m := range matches {
		if seen[m[2]] {
			continue
		}
		seen[m[2]] = true
		citations = append(citations, ports.WebCitation{Title: m[1], URL: m[2]})
	}
	return citations
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
