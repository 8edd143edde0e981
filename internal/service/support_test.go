package service

import (
	"context"

	"career-assistant-be/internal/entity"
	"career-assistant-be/internal/model"
	"career-assistant-be/internal/repository/contract"
	"career-assistant-be/internal/repository/specification"
	"career-assistant-be/internal/repository/unitofwork"
	"career-assistant-be/pkg/rag/answer"

	"github.com/google/uuid"
)

// In-memory unit of work used across the service tests.

type fakeUowFactory struct {
	uow *fakeUow
}

func newFakeUowFactory() *fakeUowFactory {
	return &fakeUowFactory{uow: &fakeUow{
		users:     &fakeUserRepo{},
		docs:      &fakeDocumentRepo{},
		chunks:    &fakeChunkRepo{},
		sessions:  &fakeSessionRepo{},
		messages:  &fakeMessageRepo{},
		citations: &fakeCitationRepo{},
		syslogs:   &fakeSystemLogRepo{},
	}}
}

func (f *fakeUowFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeUow struct {
	users     *fakeUserRepo
	docs      *fakeDocumentRepo
	chunks    *fakeChunkRepo
	sessions  *fakeSessionRepo
	messages  *fakeMessageRepo
	citations *fakeCitationRepo
	syslogs   *fakeSystemLogRepo

	begun      int
	committed  int
	rolledBack int
}

func (u *fakeUow) Begin(_ context.Context) error { u.begun++; return nil }
func (u *fakeUow) Commit() error                 { u.committed++; return nil }
func (u *fakeUow) Rollback() error               { u.rolledBack++; return nil }

func (u *fakeUow) UserRepository() contract.UserRepository                     { return u.users }
func (u *fakeUow) DocumentRepository() contract.DocumentRepository             { return u.docs }
func (u *fakeUow) ChunkEmbeddingRepository() contract.ChunkEmbeddingRepository { return u.chunks }
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository       { return u.sessions }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository       { return u.messages }
func (u *fakeUow) ChatCitationRepository() contract.ChatCitationRepository     { return u.citations }
func (u *fakeUow) SystemLogRepository() contract.SystemLogRepository           { return u.syslogs }

// Users

type fakeUserRepo struct {
	users []*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	user.Id = uuid.New()
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, _ *entity.User) error { return nil }
func (r *fakeUserRepo) Delete(_ context.Context, _ uuid.UUID) error    { return nil }

func (r *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.users {
		if userMatches(u, specs) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.User, error) {
	return r.users, nil
}

func (r *fakeUserRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.users)), nil
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if u.Id != spec.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != spec.Email {
				return false
			}
		case specification.ByUsername:
			if u.Username != spec.Username {
				return false
			}
		}
	}
	return true
}

// Documents

type fakeDocumentRepo struct {
	docs []*entity.Document
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *entity.Document) error {
	doc.Id = uuid.New()
	r.docs = append(r.docs, doc)
	return nil
}

func (r *fakeDocumentRepo) Update(_ context.Context, _ *entity.Document) error { return nil }

func (r *fakeDocumentRepo) Delete(_ context.Context, id uuid.UUID) error {
	kept := r.docs[:0]
	for _, d := range r.docs {
		if d.Id != id {
			kept = append(kept, d)
		}
	}
	r.docs = kept
	return nil
}

func (r *fakeDocumentRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Document, error) {
	for _, d := range r.docs {
		if documentMatches(d, specs) {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDocumentRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Document, error) {
	return r.docs, nil
}

func (r *fakeDocumentRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.docs)), nil
}

func documentMatches(d *entity.Document, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if d.Id != spec.ID {
				return false
			}
		case specification.ByContentHash:
			if d.ContentHash != spec.Hash {
				return false
			}
		}
	}
	return true
}

// Chunk embeddings

type fakeChunkRepo struct {
	chunks []*entity.ChunkEmbedding
}

func (r *fakeChunkRepo) Create(_ context.Context, chunk *entity.ChunkEmbedding) error {
	chunk.Id = uuid.New()
	r.chunks = append(r.chunks, chunk)
	return nil
}

func (r *fakeChunkRepo) CreateBulk(_ context.Context, chunks []*entity.ChunkEmbedding) error {
	for _, c := range chunks {
		c.Id = uuid.New()
		r.chunks = append(r.chunks, c)
	}
	return nil
}

func (r *fakeChunkRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeChunkRepo) DeleteByDocumentId(_ context.Context, documentId uuid.UUID) error {
	kept := r.chunks[:0]
	for _, c := range r.chunks {
		if c.DocumentId != documentId {
			kept = append(kept, c)
		}
	}
	r.chunks = kept
	return nil
}

func (r *fakeChunkRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.ChunkEmbedding, error) {
	return nil, nil
}

func (r *fakeChunkRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ChunkEmbedding, error) {
	return r.chunks, nil
}

func (r *fakeChunkRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.chunks)), nil
}

func (r *fakeChunkRepo) SearchTopKWithScore(_ context.Context, _ []float32, _ int) ([]*contract.ScoredChunk, error) {
	return nil, nil
}

// Chat sessions

type fakeSessionRepo struct {
	sessions []*entity.ChatSession
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.ChatSession) error {
	session.Id = uuid.New()
	r.sessions = append(r.sessions, session)
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, _ *entity.ChatSession) error { return nil }

func (r *fakeSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	kept := r.sessions[:0]
	for _, s := range r.sessions {
		if s.Id != id {
			kept = append(kept, s)
		}
	}
	r.sessions = kept
	return nil
}

func (r *fakeSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, s := range r.sessions {
		match := true
		for _, sp := range specs {
			if byID, ok := sp.(specification.ByID); ok && s.Id != byID.ID {
				match = false
			}
		}
		if match {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ChatSession, error) {
	return r.sessions, nil
}

// Chat messages

type fakeMessageRepo struct {
	messages []*entity.ChatMessage
}

func (r *fakeMessageRepo) Create(_ context.Context, message *entity.ChatMessage) error {
	message.Id = uuid.New()
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) DeleteByChatSessionId(_ context.Context, sessionId uuid.UUID) error {
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.ChatSessionId != sessionId {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

func (r *fakeMessageRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var out []*entity.ChatMessage
	for _, m := range r.messages {
		match := true
		for _, sp := range specs {
			if bySession, ok := sp.(specification.ByChatSessionID); ok && m.ChatSessionId != bySession.ChatSessionID {
				match = false
			}
		}
		if match {
			out = append(out, m)
		}
	}
	return out, nil
}

// Chat citations

type fakeCitationRepo struct {
	citations []*entity.ChatCitation
}

func (r *fakeCitationRepo) CreateBulk(_ context.Context, citations []*entity.ChatCitation) error {
	for _, c := range citations {
		c.Id = uuid.New()
		r.citations = append(r.citations, c)
	}
	return nil
}

func (r *fakeCitationRepo) DeleteByChatMessageIds(_ context.Context, messageIds []uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(messageIds))
	for _, id := range messageIds {
		drop[id] = true
	}
	kept := r.citations[:0]
	for _, c := range r.citations {
		if !drop[c.ChatMessageId] {
			kept = append(kept, c)
		}
	}
	r.citations = kept
	return nil
}

func (r *fakeCitationRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ChatCitation, error) {
	return r.citations, nil
}

// System logs

type fakeSystemLogRepo struct {
	rows []*model.SystemLog
}

func (r *fakeSystemLogRepo) Create(_ context.Context, log *model.SystemLog) error {
	r.rows = append(r.rows, log)
	return nil
}

// Pipeline doubles

type fakeEmbeddingProvider struct {
	calls int
	err   error
}

func (f *fakeEmbeddingProvider) Generate(_ context.Context, _ string, _ string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakePipeline struct {
	calls  int
	result *answer.Result
	err    error
}

func (f *fakePipeline) Answer(_ context.Context, _ string) (*answer.Result, error) {
	f.calls++
	return f.result, f.err
}

type noopLogger struct{}

func (noopLogger) Debug(_, _ string, _ map[string]interface{}) {}
func (noopLogger) Info(_, _ string, _ map[string]interface{})  {}
func (noopLogger) Warn(_, _ string, _ map[string]interface{})  {}
func (noopLogger) Error(_, _ string, _ map[string]interface{}) {}
func (noopLogger) Sync() error                                 { return nil }
