package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type ChunkEmbedding struct {
	Id           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChunkIndex   int             `gorm:"not null;default:0"`
	SectionLabel string          `gorm:"type:varchar(512);not null"`
	Text         string          `gorm:"type:text;not null"`
	StartOffset  int             `gorm:"not null"`
	EndOffset    int             `gorm:"not null"`
	ContentHash  string          `gorm:"type:varchar(64);not null;index"`
	Embedding    pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text and text-embedding-004 are both 768-dim
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
}

func (ChunkEmbedding) TableName() string {
	return "chunk_embeddings"
}
