package ports

import (
	"context"

	"github.com/otterworks/gamescout/internal/domain/entities"
)

// Confidence grades a structured extraction.
type Confidence string

// Extraction confidence levels.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// NameExtraction is the structured result of game-name extraction.
// A nil result or empty Name means no game was mentioned.
type NameExtraction struct {
	Name       string     `json:"game_name"`
	Confidence Confidence `json:"confidence"`
}

// Classifier defines structured-output LLM calls. Responses that fail schema
// validation surface as ErrUnparseable.
type Classifier interface {
	// ExtractGameName extracts a candidate game name from free text.
	ExtractGameName(ctx context.Context, userText string, knownNames []string) (*NameExtraction, error)

	// ExtractMetadata extracts difficulty and player-count fields from the
	// visible content of a reference page.
	ExtractMetadata(ctx context.Context, gameName, pageContent string) (*entities.GameMetadata, error)

	// GenerateDescription produces a short game description from a bounded
	// concatenation of source summaries.
	GenerateDescription(ctx context.Context, gameName, sourcesSummary string) (string, error)
}

// WebCitation is a live-web source the generator cited.
type WebCitation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// GenerationResult is the output of a hybrid generation call.
type GenerationResult struct {
	Text         string        `json:"text"`
	WebCitations []WebCitation `json:"web_citations,omitempty"`
}

// Generator defines the hybrid answer capability: the provider combines the
// supplied internal context with its own live web search.
type Generator interface {
	// Answer answers a question about a game. gameName and contextText may
	// be empty; the call then degrades to general web-backed chat.
	Answer(ctx context.Context, gameName, question, contextText string) (*GenerationResult, error)
}
