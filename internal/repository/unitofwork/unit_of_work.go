package unitofwork

import (
	"context"

	"career-assistant-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. After
// Begin, every accessor returns a repository bound to the transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DocumentRepository() contract.DocumentRepository
	ChunkEmbeddingRepository() contract.ChunkEmbeddingRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ChatCitationRepository() contract.ChatCitationRepository
	SystemLogRepository() contract.SystemLogRepository
}
