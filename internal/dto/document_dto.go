package dto

import (
	"time"

	"github.com/google/uuid"
)

type DocumentResponse struct {
	Id          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	ChunkCount  int       `json:"chunk_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type IngestResponse struct {
	Document   DocumentResponse `json:"document"`
	ChunkCount int              `json:"chunk_count"`
}

type ReindexResponse struct {
	DocumentId uuid.UUID `json:"document_id"`
	Enqueued   bool      `json:"enqueued"`
}

// ReindexDocumentMessage is the payload carried on the reindex topic.
type ReindexDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
