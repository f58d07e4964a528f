package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/otterworks/gamescout/internal/application/handlers"
	"github.com/otterworks/gamescout/internal/domain/ports"
	"github.com/otterworks/gamescout/internal/domain/services"
	"github.com/otterworks/gamescout/internal/infrastructure/config"
	embedder "github.com/otterworks/gamescout/internal/infrastructure/embedder/openai"
	"github.com/otterworks/gamescout/internal/infrastructure/fetch"
	llm "github.com/otterworks/gamescout/internal/infrastructure/llm/openai"
	"github.com/otterworks/gamescout/internal/infrastructure/reference/bgg"
	"github.com/otterworks/gamescout/internal/infrastructure/relationaldb/sqlite"
	"github.com/otterworks/gamescout/internal/infrastructure/vectordb/qdrant"
	"github.com/otterworks/gamescout/internal/infrastructure/video/youtube"
	websearch "github.com/otterworks/gamescout/internal/infrastructure/websearch/openai"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config   *config.Config
	Games    *handlers.GamesHandler
	Research *handlers.ResearchHandler
	Answer   *handlers.AnswerHandler
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(cfg.GamesDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sqlite.NewRepository(cfg.SQLitePath())
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	index, err := qdrant.NewRepository(cfg.Qdrant)
	if err != nil {
		return fmt.Errorf("creating qdrant repository: %w", err)
	}
	defer index.Close()

	emb, err := embedder.NewEmbedder(cfg.Embedder)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating llm client: %w", err)
	}

	searcher, err := websearch.NewSearcher(cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating web searcher: %w", err)
	}

	// Video search is optional: without an API key tutorial discovery
	// falls back to web search alone.
	var videos ports.VideoSearcher
	if cfg.YouTube.APIKey != "" {
		yt, err := youtube.NewClient(ctx, cfg.YouTube)
		if err != nil {
			return fmt.Errorf("creating youtube client: %w", err)
		}
		videos = yt
	}

	fetcher := fetch.NewClient(time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second)

	ingestService := services.NewIngestService(db, emb, index, logger)
	resolverService := services.NewResolverService(db, llmClient, logger)
	researchService := services.NewResearchService(services.ResearchDeps{
		Store:       db,
		Fetcher:     fetcher,
		Web:         searcher,
		Classifier:  llmClient,
		Reference:   bgg.NewClient(),
		Videos:      videos,
		Validator:   youtube.NewValidator(),
		Transcripts: youtube.NewTranscripts(),
		Ingestor:    ingestService,
		ExtractText: fetch.HTMLToText,
		GamesDir:    cfg.GamesDir(),
	}, logger)
	answerService := services.NewAnswerService(db, resolverService, ingestService, llmClient, logger)

	deps := &Deps{
		Config:   cfg,
		Games:    handlers.NewGamesHandler(db),
		Research: handlers.NewResearchHandler(researchService),
		Answer:   handlers.NewAnswerHandler(db, answerService, logger),
	}

	return fn(deps)
}
