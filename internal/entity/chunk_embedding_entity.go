package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChunkEmbedding is one indexed window of a document: the chunk text, where
// it sits in the source, and its embedding vector.
type ChunkEmbedding struct {
	Id           uuid.UUID
	DocumentId   uuid.UUID
	ChunkIndex   int
	SectionLabel string
	Text         string
	StartOffset  int
	EndOffset    int
	ContentHash  string
	Embedding    []float32
	CreatedAt    time.Time
}
