package services

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/domain/ports"
)

const (
	// contextCharCap bounds the retrieved context passed to generation.
	contextCharCap = 10000

	nonReadyDisclaimer = "Note: I haven't researched this game yet, so the answer above is from general knowledge and may be incomplete. Run research on it to get sourced answers."
	apologyText        = "Sorry, I ran into a problem while putting an answer together. Please try again in a moment."
)

// SourceCitation points at one internal source that grounded an answer.
type SourceCitation struct {
	Title     string `json:"title"`
	OriginURL string `json:"origin_url"`
	FileRef   string `json:"file_ref,omitempty"`
}

// AnswerResult is the composed reply to a user question.
type AnswerResult struct {
	Text            string              `json:"text"`
	InternalSources []SourceCitation    `json:"internal_sources,omitempty"`
	WebCitations    []ports.WebCitation `json:"web_citations,omitempty"`
	ResolvedGameID  *int64              `json:"resolved_game_id,omitempty"`
}

// AnswerService composes answers to user questions: resolve the game,
// retrieve indexed context when the game is ready, generate, and attach
// citations and disclaimers.
type AnswerService struct {
	store     ports.GameStore
	resolver  *ResolverService
	ingestor  *IngestService
	generator ports.Generator
	log       *zap.Logger
}

// NewAnswerService creates a new answer service.
func NewAnswerService(store ports.GameStore, resolver *ResolverService, ingestor *IngestService, generator ports.Generator, log *zap.Logger) *AnswerService {
	return &AnswerService{
		store:     store,
		resolver:  resolver,
		ingestor:  ingestor,
		generator: generator,
		log:       log,
	}
}

// Answer resolves the question to a game, retrieves indexed context for
// ready games, and generates a grounded reply. Resolution failures degrade
// to general chat; generation failures degrade to an apologetic reply with
// a nil error so the conversation keeps flowing.
func (s *AnswerService) Answer(ctx context.Context, question string) (*AnswerResult, error) {
	game, err := s.resolver.Resolve(ctx, question)
	if err != nil {
		s.log.Warn("game resolution failed, answering as general chat", zap.Error(err))
		game = nil
	}

	var (
		gameName  string
		ctxText   string
		citations []SourceCitation
	)
	if game != nil {
		gameName = game.Name
		if game.Status == entities.StatusReady {
			ctxText, citations = s.retrieveContext(ctx, game, question)
		}
	}

	result, err := s.generator.Answer(ctx, gameName, question, ctxText)
	if err != nil {
		s.log.Error("answer generation failed", zap.Error(err))
		out := &AnswerResult{Text: apologyText}
		if game != nil {
			out.ResolvedGameID = &game.ID
		}
		return out, nil
	}

	text := strings.TrimSpace(result.Text)
	if len(citations) > 0 {
		text += "\n\n" + formatCitations(citations)
	}
	if game != nil && game.Status != entities.StatusReady {
		text += "\n\n" + nonReadyDisclaimer
	}

	out := &AnswerResult{
		Text:            text,
		InternalSources: citations,
		WebCitations:    result.WebCitations,
	}
	if game != nil {
		out.ResolvedGameID = &game.ID
	}
	return out, nil
}

// retrieveContext pulls the top indexed chunks for the question and formats
// them as numbered source blocks, deduplicating citations per source record.
// Retrieval failure degrades to no context rather than failing the answer.
func (s *AnswerService) retrieveContext(ctx context.Context, game *entities.Game, question string) (string, []SourceCitation) {
	hits, err := s.ingestor.Search(ctx, game.ID, question, DefaultSearchLimit)
	if err != nil {
		s.log.Warn("context retrieval failed, answering without index",
			zap.Int64("game_id", game.ID),
			zap.Error(err))
		return "", nil
	}
	if len(hits) == 0 {
		return "", nil
	}

	sources, err := s.store.ListSources(ctx, game.ID)
	if err != nil {
		s.log.Warn("listing sources for citations failed", zap.Error(err))
		sources = nil
	}
	byID := make(map[int64]*entities.SourceRecord, len(sources))
	for i := range sources {
		byID[sources[i].ID] = &sources[i]
	}

	var (
		b         strings.Builder
		citations []SourceCitation
		cited     = make(map[int64]bool)
	)
	for i, hit := range hits {
		block := fmt.Sprintf("[Source %d]\n%s\n\n", i+1, hit.Text)
		if b.Len()+len(block) > contextCharCap {
			break
		}
		b.WriteString(block)

		src, ok := byID[hit.SourceID]
		if !ok || cited[src.ID] {
			continue
		}
		cited[src.ID] = true
		citations = append(citations, SourceCitation{
			Title:     src.Title,
			OriginURL: src.OriginURL,
			FileRef:   fileRef(game.ID, src),
		})
	}
	return strings.TrimSpace(b.String()), citations
}

// fileRef builds the served-file reference for a downloaded source, or ""
// for reference-only sources.
func fileRef(gameID int64, src *entities.SourceRecord) string {
	if src.LocalPath == nil {
		return ""
	}
	return "/games/" + strconv.FormatInt(gameID, 10) + "/files/" + path.Base(*src.LocalPath)
}

func formatCitations(citations []SourceCitation) string {
	var b strings.Builder
	b.WriteString("Sources:")
	for _, c := range citations {
		title := c.Title
		if title == "" {
			title = c.OriginURL
		}
		b.WriteString("\n- " + title)
		if c.OriginURL != "" && c.OriginURL != title {
			b.WriteString(" (" + c.OriginURL + ")")
		}
	}
	return b.String()
}
