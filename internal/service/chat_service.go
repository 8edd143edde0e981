package service

import (
	"context"
	"time"

	"career-assistant-be/internal/dto"
	"career-assistant-be/internal/entity"
	"career-assistant-be/internal/pkg/logger"
	"career-assistant-be/internal/pkg/serverutils"
	"career-assistant-be/internal/repository/memory"
	"career-assistant-be/internal/repository/specification"
	"career-assistant-be/internal/repository/unitofwork"
	"career-assistant-be/pkg/events"
	pktNats "career-assistant-be/pkg/nats"
	"career-assistant-be/pkg/rag/answer"

	"github.com/google/uuid"
)

// AnswerPipeline is what the chat service needs from the composer.
type AnswerPipeline interface {
	Answer(ctx context.Context, question string) (*answer.Result, error)
}

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	GetHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]*dto.ChatHistoryMessage, error)
	DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error
	SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	pipeline       AnswerPipeline
	answerCache    *memory.AnswerCache
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline AnswerPipeline,
	answerCache *memory.AnswerCache,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		pipeline:       pipeline,
		answerCache:    answerCache,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	title := req.Title
	if title == "" {
		title = "New conversation"
	}

	session := &entity.ChatSession{
		UserId: userId,
		Title:  title,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: session.Id, Title: session.Title}, nil
}

func (s *chatService) GetSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SessionResponse, len(sessions))
	for i, sess := range sessions {
		res[i] = &dto.SessionResponse{
			Id:        sess.Id,
			Title:     sess.Title,
			CreatedAt: sess.CreatedAt,
			UpdatedAt: sess.UpdatedAt,
		}
	}
	return res, nil
}

// ownedSession loads the session and enforces ownership. Other users' ids
// come back as 404, not 403, so session ids are not probeable.
func (s *chatService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserId != userId {
		return nil, serverutils.NewNotFound("Chat session not found")
	}
	return session, nil
}

func (s *chatService) GetHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]*dto.ChatHistoryMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	messageIds := make([]uuid.UUID, len(messages))
	for i, m := range messages {
		messageIds[i] = m.Id
	}

	byMessage := make(map[uuid.UUID][]dto.CitationDTO)
	if len(messageIds) > 0 {
		citations, err := uow.ChatCitationRepository().FindAll(ctx,
			specification.ByChatMessageIDs{MessageIDs: messageIds},
			specification.OrderBy{Field: "source_index", Desc: false},
		)
		if err != nil {
			return nil, err
		}
		for _, c := range citations {
			byMessage[c.ChatMessageId] = append(byMessage[c.ChatMessageId], dto.CitationDTO{
				Index:       c.SourceIndex,
				SourceLabel: c.SourceLabel,
				Excerpt:     c.Excerpt,
				Score:       c.Score,
			})
		}
	}

	res := make([]*dto.ChatHistoryMessage, len(messages))
	for i, m := range messages {
		res[i] = &dto.ChatHistoryMessage{
			Id:          m.Id,
			Role:        string(m.Role),
			Content:     m.Content,
			HasEvidence: m.HasEvidence,
			Citations:   byMessage[m.Id],
			CreatedAt:   m.CreatedAt,
		}
	}
	return res, nil
}

func (s *chatService) DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownedSession(ctx, uow, userId, sessionId); err != nil {
		return err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx, specification.ByChatSessionID{ChatSessionID: sessionId})
	if err != nil {
		return err
	}
	messageIds := make([]uuid.UUID, len(messages))
	for i, m := range messages {
		messageIds[i] = m.Id
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.ChatCitationRepository().DeleteByChatMessageIds(ctx, messageIds); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}

func (s *chatService) SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.ownedSession(ctx, uow, userId, req.ChatSessionId)
	if err != nil {
		return nil, err
	}

	result, cached := s.answerCache.Get(session.Id, req.Question)
	if !cached {
		result, err = s.pipeline.Answer(ctx, req.Question)
		if err != nil {
			return nil, err
		}
		s.answerCache.Set(session.Id, req.Question, result)
	}

	userMsg := &entity.ChatMessage{
		ChatSessionId: session.Id,
		Role:          entity.ChatRoleUser,
		Content:       req.Question,
	}
	assistantMsg := &entity.ChatMessage{
		ChatSessionId: session.Id,
		Role:          entity.ChatRoleAssistant,
		Content:       result.Text,
		HasEvidence:   result.HasEvidence,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMsg); err != nil {
		uow.Rollback()
		return nil, err
	}

	citations := make([]*entity.ChatCitation, len(result.Citations))
	for i, c := range result.Citations {
		chunkId := c.ChunkID
		citations[i] = &entity.ChatCitation{
			ChatMessageId: assistantMsg.Id,
			ChunkId:       &chunkId,
			SourceIndex:   c.Index,
			SourceLabel:   c.SourceLabel,
			Excerpt:       c.Excerpt,
			Score:         scoreForIndex(result, c.Index),
		}
	}
	if err := uow.ChatCitationRepository().CreateBulk(ctx, citations); err != nil {
		uow.Rollback()
		return nil, err
	}

	session.UpdatedAt = time.Now()
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publishEvent("CHAT_ANSWERED", map[string]interface{}{
		"session_id":   session.Id.String(),
		"has_evidence": result.HasEvidence,
		"citations":    len(result.Citations),
		"cached":       cached,
	})

	res := &dto.SendChatResponse{
		ChatSessionId: session.Id,
		Answer:        result.Text,
		HasEvidence:   result.HasEvidence,
		Citations:     make([]dto.CitationDTO, len(result.Citations)),
		CreatedAt:     assistantMsg.CreatedAt,
	}
	for i, c := range result.Citations {
		res.Citations[i] = dto.CitationDTO{
			Index:       c.Index,
			SourceLabel: c.SourceLabel,
			Excerpt:     c.Excerpt,
			Score:       scoreForIndex(result, c.Index),
		}
	}
	return res, nil
}

// scoreForIndex recovers the similarity score behind citation N. Citations
// are built from the gated evidence in order, so N maps to evidence N-1.
func scoreForIndex(result *answer.Result, index int) float64 {
	if index >= 1 && index <= len(result.Evidence) {
		return result.Evidence[index-1].Score
	}
	return 0
}

func (s *chatService) publishEvent(eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		event := events.BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("ChatService", "Failed to publish audit event", map[string]interface{}{
				"event": eventType,
				"error": err.Error(),
			})
		}
	}()
}
