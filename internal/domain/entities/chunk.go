package entities

// Chunk is a bounded text segment of a source document, the unit of semantic
// indexing. Chunks are derived artifacts: the per-game index is rebuilt
// wholesale from source text on every research run and holds nothing that
// cannot be reconstructed from SourceRecords.
type Chunk struct {
	ID        string    `json:"id"`
	GameID    int64     `json:"game_id"`
	SourceID  int64     `json:"source_id"`
	Ordinal   int       `json:"ordinal"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// ScoredChunk is a chunk returned from a similarity search.
type ScoredChunk struct {
	Chunk
	Score float32 `json:"score"`
}
