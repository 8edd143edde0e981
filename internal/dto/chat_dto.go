package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title string `json:"title" validate:"omitempty,max=255"`
}

type CreateSessionResponse struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type SessionResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Question      string    `json:"question" validate:"required,min=1,max=4000"`
}

type CitationDTO struct {
	Index       int     `json:"index"`
	SourceLabel string  `json:"source_label"`
	Excerpt     string  `json:"excerpt"`
	Score       float64 `json:"score,omitempty"`
}

type SendChatResponse struct {
	ChatSessionId uuid.UUID     `json:"chat_session_id"`
	Answer        string        `json:"answer"`
	HasEvidence   bool          `json:"has_evidence"`
	Citations     []CitationDTO `json:"citations"`
	CreatedAt     time.Time     `json:"created_at"`
}

type ChatHistoryMessage struct {
	Id          uuid.UUID     `json:"id"`
	Role        string        `json:"role"`
	Content     string        `json:"content"`
	HasEvidence bool          `json:"has_evidence"`
	Citations   []CitationDTO `json:"citations,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
