package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/domain/mocks"
	"github.com/otterworks/gamescout/internal/domain/ports"
)

type answerFixture struct {
	svc        *AnswerService
	store      *mocks.GameStore
	classifier *mocks.Classifier
	index      *mocks.VectorIndex
	generator  *mocks.Generator
}

func newAnswerFixture(t *testing.T) *answerFixture {
	t.Helper()
	f := &answerFixture{
		store:      mocks.NewGameStore(),
		classifier: &mocks.Classifier{},
		index:      mocks.NewVectorIndex(),
		generator:  &mocks.Generator{Result: &ports.GenerationResult{Text: "You roll two dice."}},
	}
	log := zap.NewNop()
	embedder := &mocks.Embedder{EmbeddingResult: []float32{0.1, 0.2}}
	resolver := NewResolverService(f.store, f.classifier, log)
	ingestor := NewIngestService(f.store, embedder, f.index, log)
	f.svc = NewAnswerService(f.store, resolver, ingestor, f.generator, log)
	return f
}

// readyGame creates a ready game with one indexed webpage source.
func (f *answerFixture) readyGame(t *testing.T, name string) *entities.Game {
	t.Helper()
	ctx := context.Background()
	game, err := f.store.CreateGame(ctx, name, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, f.store.UpdateStatus(ctx, game.ID, entities.StatusResearching))
	require.NoError(t, f.store.UpdateStatus(ctx, game.ID, entities.StatusReady))
	game.Status = entities.StatusReady

	localPath := game.StoreDir + "/rules.html"
	src := &entities.SourceRecord{
		GameID: game.ID, Type: entities.SourceWebpage,
		OriginURL: "https://example.com/rules", Title: "Official rules",
		LocalPath: &localPath,
	}
	require.NoError(t, f.store.AddSource(ctx, src))

	f.index.Chunks[game.ID] = []entities.Chunk{
		{ID: "c1", GameID: game.ID, SourceID: src.ID, Ordinal: 0, Text: "roll two dice to produce resources"},
		{ID: "c2", GameID: game.ID, SourceID: src.ID, Ordinal: 1, Text: "the robber blocks production"},
	}
	f.classifier.Extraction = &ports.NameExtraction{Name: name, Confidence: ports.ConfidenceHigh}
	return game
}

func TestAnswerReadyGameUsesIndex(t *testing.T) {
	f := newAnswerFixture(t)
	game := f.readyGame(t, "Catan")

	result, err := f.svc.Answer(context.Background(), "how do I get resources in Catan?")
	require.NoError(t, err)

	assert.Equal(t, "Catan", f.generator.LastGameName)
	assert.Contains(t, f.generator.LastContext, "[Source 1]")
	assert.Contains(t, f.generator.LastContext, "roll two dice")

	assert.Contains(t, result.Text, "You roll two dice.")
	assert.Contains(t, result.Text, "Sources:")
	assert.Contains(t, result.Text, "Official rules")
	assert.NotContains(t, result.Text, nonReadyDisclaimer)

	require.NotNil(t, result.ResolvedGameID)
	assert.Equal(t, game.ID, *result.ResolvedGameID)

	// One citation per source record, not per chunk.
	require.Len(t, result.InternalSources, 1)
	c := result.InternalSources[0]
	assert.Equal(t, "Official rules", c.Title)
	assert.Equal(t, "https://example.com/rules", c.OriginURL)
	assert.Equal(t, "/games/1/files/rules.html", c.FileRef)
}

func TestAnswerNonReadyGameGetsDisclaimer(t *testing.T) {
	f := newAnswerFixture(t)
	ctx := context.Background()

	game, err := f.store.CreateGame(ctx, "Wingspan", "")
	require.NoError(t, err)
	f.classifier.Extraction = &ports.NameExtraction{Name: "Wingspan", Confidence: ports.ConfidenceHigh}

	result, err := f.svc.Answer(ctx, "how do eggs work in Wingspan?")
	require.NoError(t, err)

	assert.Contains(t, result.Text, nonReadyDisclaimer)
	assert.Empty(t, f.generator.LastContext, "no retrieval for non-ready games")
	assert.Empty(t, result.InternalSources)
	require.NotNil(t, result.ResolvedGameID)
	assert.Equal(t, game.ID, *result.ResolvedGameID)
}

func TestAnswerUnresolvedIsGeneralChat(t *testing.T) {
	f := newAnswerFixture(t)
	f.classifier.Extraction = &ports.NameExtraction{Name: ""}

	result, err := f.svc.Answer(context.Background(), "what's a good two player game?")
	require.NoError(t, err)

	assert.Empty(t, f.generator.LastGameName)
	assert.NotContains(t, result.Text, nonReadyDisclaimer, "no disclaimer when no game resolved")
	assert.Nil(t, result.ResolvedGameID)
}

func TestAnswerGenerationFailureIsApologetic(t *testing.T) {
	f := newAnswerFixture(t)
	game := f.readyGame(t, "Catan")
	f.generator.Err = errors.New("model overloaded")

	result, err := f.svc.Answer(context.Background(), "how do I trade?")
	require.NoError(t, err, "generation failure degrades, it does not propagate")

	assert.Equal(t, apologyText, result.Text)
	assert.Empty(t, result.InternalSources)
	require.NotNil(t, result.ResolvedGameID)
	assert.Equal(t, game.ID, *result.ResolvedGameID)
}

func TestAnswerRetrievalFailureDegrades(t *testing.T) {
	f := newAnswerFixture(t)
	f.readyGame(t, "Catan")
	f.index.SearchErr = errors.New("index offline")

	result, err := f.svc.Answer(context.Background(), "how do I trade?")
	require.NoError(t, err)

	assert.Empty(t, f.generator.LastContext)
	assert.Contains(t, result.Text, "You roll two dice.")
	assert.Empty(t, result.InternalSources)
}

func TestAnswerExtractionFailureDegrades(t *testing.T) {
	f := newAnswerFixture(t)
	ctx := context.Background()

	// Extraction blows up and there is no tagged history to fall back on.
	_, err := f.store.CreateGame(ctx, "Catan", "")
	require.NoError(t, err)
	f.classifier.ExtractionErr = errors.New("model unavailable")

	result, err := f.svc.Answer(ctx, "hello")
	require.NoError(t, err)
	assert.Contains(t, result.Text, "You roll two dice.")
	assert.Nil(t, result.ResolvedGameID)
}

func TestAnswerPassesThroughWebCitations(t *testing.T) {
	f := newAnswerFixture(t)
	f.classifier.Extraction = &ports.NameExtraction{Name: ""}
	f.generator.Result = &ports.GenerationResult{
		Text: "Try Patchwork.",
		WebCitations: []ports.WebCitation{
			{Title: "Patchwork review", URL: "https://example.com/patchwork"},
		},
	}

	result, err := f.svc.Answer(context.Background(), "suggest a two player game")
	require.NoError(t, err)
	require.Len(t, result.WebCitations, 1)
	assert.Equal(t, "https://example.com/patchwork", result.WebCitations[0].URL)
}
