package services

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/domain/ports"
)

// DefaultSearchLimit is the number of chunks retrieved per query.
const DefaultSearchLimit = 5

// IngestService rebuilds and queries the per-game semantic index.
type IngestService struct {
	store    ports.GameStore
	embedder ports.Embedder
	index    ports.VectorIndex
	log      *zap.Logger
}

// NewIngestService creates a new ingest service.
func NewIngestService(store ports.GameStore, embedder ports.Embedder, index ports.VectorIndex, log *zap.Logger) *IngestService {
	return &IngestService{
		store:    store,
		embedder: embedder,
		index:    index,
		log:      log,
	}
}

// Ingest rebuilds the game's index from scratch out of every text-bearing
// source record. Sources whose text artifact cannot be read are logged and
// skipped. Returns the number of indexed chunks; zero text drops the index.
func (s *IngestService) Ingest(ctx context.Context, gameID int64) (int, error) {
	sources, err := s.store.ListSources(ctx, gameID)
	if err != nil {
		return 0, fmt.Errorf("listing sources: %w", err)
	}

	var chunks []entities.Chunk
	for _, src := range sources {
		path, ok := src.TextArtifactPath()
		if !ok {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("skipping unreadable source text",
				zap.Int64("source_id", src.ID),
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		for ordinal, text := range SplitWords(string(data), DefaultChunkWords, DefaultChunkOverlap) {
			chunks = append(chunks, entities.Chunk{
				ID:       uuid.New().String(),
				GameID:   gameID,
				SourceID: src.ID,
				Ordinal:  ordinal,
				Text:     text,
			})
		}
	}

	if len(chunks) == 0 {
		if err := s.index.DeleteIndex(ctx, gameID); err != nil {
			return 0, fmt.Errorf("dropping empty index: %w", err)
		}
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("generating embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(embeddings))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := s.index.Rebuild(ctx, gameID, uint64(len(embeddings[0])), chunks); err != nil {
		return 0, fmt.Errorf("rebuilding index: %w", err)
	}

	s.log.Info("rebuilt index",
		zap.Int64("game_id", gameID),
		zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// Search retrieves the top-k chunks for the query, ordered by descending
// score with ties broken by ascending chunk ordinal. A game with no index
// returns an empty result.
func (s *IngestService) Search(ctx context.Context, gameID int64, query string, limit int) ([]entities.ScoredChunk, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("generating query embedding: %w", err)
	}

	hits, err := s.index.Search(ctx, gameID, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Ordinal < hits[j].Ordinal
	})
	return hits, nil
}
