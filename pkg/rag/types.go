// Package rag holds the shared vocabulary of the retrieval-augmented answer
// pipeline: evidence, citations, and the narrow vector-index contract the
// retriever depends on.
package rag

import (
	"context"

	"github.com/google/uuid"
)

// IndexMatch is one nearest-neighbor hit returned by the vector index,
// ordered by descending cosine similarity.
type IndexMatch struct {
	ChunkID     uuid.UUID
	DocumentID  uuid.UUID
	Text        string
	SourceLabel string
	Score       float64 // cosine similarity, [-1, 1]
}

// VectorIndex answers top-K nearest-neighbor queries. The production
// implementation is backed by pgvector; tests supply doubles.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, k int) ([]IndexMatch, error)
}

// EvidenceItem is a retrieval result that survived the similarity gate.
// Ephemeral: created per query, persisted only through the citations it
// produces.
type EvidenceItem struct {
	ChunkID     uuid.UUID
	DocumentID  uuid.UUID
	Text        string
	SourceLabel string
	Score       float64
	Rank        int // 1-based, assigned after gating
}

// RefusalMessage is the exact text returned when strict mode is on and no
// evidence clears the similarity threshold. Frontends match on it, so it
// never varies.
const RefusalMessage = "I don't have enough information in the knowledge base to answer that question."

// Citation ties a [Source N] marker in the prompt context to the chunk it
// was built from. Index is 1-based and equals N.
type Citation struct {
	Index       int
	ChunkID     uuid.UUID
	SourceLabel string
	Excerpt     string
}
