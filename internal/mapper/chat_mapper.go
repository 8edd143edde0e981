package mapper

import (
	"career-assistant-be/internal/entity"
	"career-assistant-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) SessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}
	return &entity.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *ChatMapper) SessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}
	return &model.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *ChatMapper) SessionsToEntities(sessions []*model.ChatSession) []*entity.ChatSession {
	entities := make([]*entity.ChatSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.SessionToEntity(s)
	}
	return entities
}

func (m *ChatMapper) MessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          entity.ChatRole(msg.Role),
		Content:       msg.Content,
		HasEvidence:   msg.HasEvidence,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          string(msg.Role),
		Content:       msg.Content,
		HasEvidence:   msg.HasEvidence,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) MessagesToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}

func (m *ChatMapper) CitationToEntity(c *model.ChatCitation) *entity.ChatCitation {
	if c == nil {
		return nil
	}
	return &entity.ChatCitation{
		Id:            c.Id,
		ChatMessageId: c.ChatMessageId,
		ChunkId:       c.ChunkId,
		SourceIndex:   c.SourceIndex,
		SourceLabel:   c.SourceLabel,
		Excerpt:       c.Excerpt,
		Score:         c.Score,
		CreatedAt:     c.CreatedAt,
	}
}

func (m *ChatMapper) CitationToModel(c *entity.ChatCitation) *model.ChatCitation {
	if c == nil {
		return nil
	}
	return &model.ChatCitation{
		Id:            c.Id,
		ChatMessageId: c.ChatMessageId,
		ChunkId:       c.ChunkId,
		SourceIndex:   c.SourceIndex,
		SourceLabel:   c.SourceLabel,
		Excerpt:       c.Excerpt,
		Score:         c.Score,
		CreatedAt:     c.CreatedAt,
	}
}

func (m *ChatMapper) CitationsToEntities(cs []*model.ChatCitation) []*entity.ChatCitation {
	entities := make([]*entity.ChatCitation, len(cs))
	for i, c := range cs {
		entities[i] = m.CitationToEntity(c)
	}
	return entities
}
