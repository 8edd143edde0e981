package mapper

import (
	"github.com/pgvector/pgvector-go"

	"career-assistant-be/internal/entity"
	"career-assistant-be/internal/model"
)

type ChunkEmbeddingMapper struct{}

func NewChunkEmbeddingMapper() *ChunkEmbeddingMapper {
	return &ChunkEmbeddingMapper{}
}

func (m *ChunkEmbeddingMapper) ToEntity(c *model.ChunkEmbedding) *entity.ChunkEmbedding {
	if c == nil {
		return nil
	}
	return &entity.ChunkEmbedding{
		Id:           c.Id,
		DocumentId:   c.DocumentId,
		ChunkIndex:   c.ChunkIndex,
		SectionLabel: c.SectionLabel,
		Text:         c.Text,
		StartOffset:  c.StartOffset,
		EndOffset:    c.EndOffset,
		ContentHash:  c.ContentHash,
		Embedding:    c.Embedding.Slice(),
		CreatedAt:    c.CreatedAt,
	}
}

func (m *ChunkEmbeddingMapper) ToModel(c *entity.ChunkEmbedding) *model.ChunkEmbedding {
	if c == nil {
		return nil
	}
	return &model.ChunkEmbedding{
		Id:           c.Id,
		DocumentId:   c.DocumentId,
		ChunkIndex:   c.ChunkIndex,
		SectionLabel: c.SectionLabel,
		Text:         c.Text,
		StartOffset:  c.StartOffset,
		EndOffset:    c.EndOffset,
		ContentHash:  c.ContentHash,
		Embedding:    pgvector.NewVector(c.Embedding),
		CreatedAt:    c.CreatedAt,
	}
}
