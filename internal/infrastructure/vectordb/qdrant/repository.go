// Package qdrant provides a VectorIndex implementation using Qdrant.
package qdrant

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/infrastructure/config"
)

// Repository implements the VectorIndex interface using Qdrant. Each game
// gets its own collection so a rebuild can drop and recreate it atomically
// from the caller's perspective.
type Repository struct {
	collections pb.CollectionsClient
	points      pb.PointsClient
	conn        *grpc.ClientConn
}

// NewRepository creates a new Qdrant repository.
func NewRepository(cfg config.QdrantConfig) (*Repository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Repository{
		collections: pb.NewCollectionsClient(conn),
		points:      pb.NewPointsClient(conn),
		conn:        conn,
	}, nil
}

// Close closes the gRPC connection.
func (r *Repository) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// collectionName returns the per-game collection name.
func collectionName(gameID int64) string {
	return fmt.Sprintf("game_%d", gameID)
}

// Rebuild replaces the game's index: the collection is dropped, recreated
// with the given vector size, and repopulated with the chunks.
func (r *Repository) Rebuild(ctx context.Context, gameID int64, vectorSize uint64, chunks []entities.Chunk) error {
	collection := collectionName(gameID)

	// Delete is idempotent: a missing collection is not an error.
	if _, err := r.collections.Delete(ctx, &pb.DeleteCollection{
		CollectionName: collection,
	}); err != nil && !isNotFound(err) {
		return fmt.Errorf("dropping collection: %w", err)
	}

	if _, err := r.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	}); err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	if len(chunks) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, 0, len(chunks))
	for _, chunk := range chunks {
		points = append(points, &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: chunk.ID},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: chunk.Embedding},
				},
			},
			Payload: map[string]*pb.Value{
				"game_id":   {Kind: &pb.Value_IntegerValue{IntegerValue: chunk.GameID}},
				"source_id": {Kind: &pb.Value_IntegerValue{IntegerValue: chunk.SourceID}},
				"ordinal":   {Kind: &pb.Value_IntegerValue{IntegerValue: int64(chunk.Ordinal)}},
				"text":      {Kind: &pb.Value_StringValue{StringValue: chunk.Text}},
			},
		})
	}

	if _, err := r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}
	return nil
}

// Search performs a semantic search over the game's collection. A game
// whose collection does not exist yields an empty result, not an error.
func (r *Repository) Search(ctx context.Context, gameID int64, embedding []float32, limit int) ([]entities.ScoredChunk, error) {
	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: collectionName(gameID),
		Vector:         embedding,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("searching points: %w", err)
	}

	return scoredPointsToChunks(resp.Result), nil
}

// DeleteIndex drops the game's collection. Missing collections are ignored.
func (r *Repository) DeleteIndex(ctx context.Context, gameID int64) error {
	_, err := r.collections.Delete(ctx, &pb.DeleteCollection{
		CollectionName: collectionName(gameID),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// isNotFound reports whether the gRPC error means the collection is absent.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return status.Code(err) == codes.NotFound
}

// scoredPointsToChunks converts scored points to chunks.
func scoredPointsToChunks(points []*pb.ScoredPoint) []entities.ScoredChunk {
	chunks := make([]entities.ScoredChunk, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		chunks = append(chunks, entities.ScoredChunk{
			Chunk: entities.Chunk{
				ID:       point.Id.GetUuid(),
				GameID:   getIntValue(payload, "game_id"),
				SourceID: getIntValue(payload, "source_id"),
				Ordinal:  int(getIntValue(payload, "ordinal")),
				Text:     getStringValue(payload, "text"),
			},
			Score: point.Score,
		})
	}
	return chunks
}

// Helper functions for payload extraction.
func getStringValue(payload map[string]*pb.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func getIntValue(payload map[string]*pb.Value, key string) int64 {
	if v, ok := payload[key]; ok {
		return v.GetIntegerValue()
	}
	return 0
}
