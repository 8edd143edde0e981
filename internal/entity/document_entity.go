package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is an ingested profile source. The raw content is retained so the
// document can be re-chunked and re-embedded without a fresh upload.
type Document struct {
	Id          uuid.UUID
	Filename    string
	ContentType string
	Content     string
	ContentHash string // sha256 of the raw content, for whole-file dedup
	SizeBytes   int64
	ChunkCount  int
	UploadedBy  uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
