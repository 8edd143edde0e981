package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatCitation persists one [Source N] reference of an assistant message.
// The label and excerpt are denormalized so history survives chunk deletion.
type ChatCitation struct {
	Id            uuid.UUID
	ChatMessageId uuid.UUID
	ChunkId       *uuid.UUID
	SourceIndex   int
	SourceLabel   string
	Excerpt       string
	Score         float64
	CreatedAt     time.Time
}
