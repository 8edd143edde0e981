package contract

import (
	"context"

	"career-assistant-be/internal/entity"
	"career-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatCitationRepository interface {
	CreateBulk(ctx context.Context, citations []*entity.ChatCitation) error
	DeleteByChatMessageIds(ctx context.Context, messageIds []uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatCitation, error)
}
