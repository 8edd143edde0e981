package contract

import (
	"context"

	"career-assistant-be/internal/entity"
	"career-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredChunk pairs a stored chunk with its cosine similarity to a query
// vector.
type ScoredChunk struct {
	Chunk      *entity.ChunkEmbedding
	Similarity float64
}

type ChunkEmbeddingRepository interface {
	Create(ctx context.Context, chunk *entity.ChunkEmbedding) error
	CreateBulk(ctx context.Context, chunks []*entity.ChunkEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChunkEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChunkEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchTopKWithScore returns the k nearest chunks by cosine similarity,
	// best first, score included. No threshold is applied here: gating is the
	// retriever's job.
	SearchTopKWithScore(ctx context.Context, embedding []float32, k int) ([]*ScoredChunk, error)
}
