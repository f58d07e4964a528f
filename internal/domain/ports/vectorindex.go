package ports

import (
	"context"

	"github.com/otterworks/gamescout/internal/domain/entities"
)

// VectorIndex defines the interface for the per-game semantic index. Each
// game owns one index, rebuilt wholesale on every research run.
type VectorIndex interface {
	// Rebuild replaces the game's index with the given embedded chunks.
	// An empty chunk list drops the index entirely.
	Rebuild(ctx context.Context, gameID int64, vectorSize uint64, chunks []entities.Chunk) error

	// Search returns the chunks most similar to the embedding, ordered by
	// descending score. A game with no index yields an empty result, not an
	// error: callers treat "no context" as a valid, common case.
	Search(ctx context.Context, gameID int64, embedding []float32, limit int) ([]entities.ScoredChunk, error)

	// DeleteIndex removes the game's index if it exists.
	DeleteIndex(ctx context.Context, gameID int64) error

	// Close releases the underlying connection.
	Close() error
}
