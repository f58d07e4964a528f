package mocks

import (
	"context"
	"sync"

	"github.com/otterworks/gamescout/internal/domain/entities"
)

// VectorIndex is an in-memory mock implementation of ports.VectorIndex.
// Search returns stored chunks in insertion order with a flat score, which is
// enough to exercise the callers' own ordering and tie-breaking.
type VectorIndex struct {
	mu sync.Mutex

	Chunks map[int64][]entities.Chunk

	RebuildErr error
	SearchErr  error

	RebuildCallCount int
}

// NewVectorIndex returns an empty in-memory index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{Chunks: make(map[int64][]entities.Chunk)}
}

// Rebuild replaces the game's chunks.
func (m *VectorIndex) Rebuild(ctx context.Context, gameID int64, vectorSize uint64, chunks []entities.Chunk) error {
	m.RebuildCallCount++
	if m.RebuildErr != nil {
		return m.RebuildErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(chunks) == 0 {
		delete(m.Chunks, gameID)
		return nil
	}
	m.Chunks[gameID] = append([]entities.Chunk(nil), chunks...)
	return nil
}

// Search returns up to limit stored chunks; an absent index yields nil.
func (m *VectorIndex) Search(ctx context.Context, gameID int64, embedding []float32, limit int) ([]entities.ScoredChunk, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	chunks, ok := m.Chunks[gameID]
	if !ok {
		return nil, nil
	}
	if limit > len(chunks) {
		limit = len(chunks)
	}
	hits := make([]entities.ScoredChunk, 0, limit)
	for _, c := range chunks[:limit] {
		hits = append(hits, entities.ScoredChunk{Chunk: c, Score: 0.9})
	}
	return hits, nil
}

// DeleteIndex removes the game's chunks.
func (m *VectorIndex) DeleteIndex(ctx context.Context, gameID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Chunks, gameID)
	return nil
}

// Close is a no-op.
func (m *VectorIndex) Close() error { return nil }
