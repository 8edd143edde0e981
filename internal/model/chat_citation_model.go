package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatCitation struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatMessageId uuid.UUID  `gorm:"type:uuid;not null;index"`
	ChunkId       *uuid.UUID `gorm:"type:uuid;index"` // nullable: chunks may be reindexed away
	SourceIndex   int        `gorm:"not null"`
	SourceLabel   string     `gorm:"type:varchar(512);not null"`
	Excerpt       string     `gorm:"type:text;not null"`
	Score         float64    `gorm:"not null;default:0"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
}

func (ChatCitation) TableName() string {
	return "chat_citations"
}
