package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Filename    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	Content     string    `gorm:"type:text;not null"`
	ContentHash string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	SizeBytes   int64     `gorm:"not null"`
	ChunkCount  int       `gorm:"default:0"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
