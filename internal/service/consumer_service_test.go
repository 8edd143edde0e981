package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-assistant-be/internal/config"
	"career-assistant-be/internal/dto"
	"career-assistant-be/internal/entity"
	"career-assistant-be/internal/repository/memory"
)

func newConsumerForTest(t *testing.T) (*consumerService, *fakeUowFactory, *memory.AnswerCache) {
	t.Helper()
	factory := newFakeUowFactory()
	cache := memory.NewAnswerCache(time.Minute)
	svc := NewConsumerService(nil, "document.reindex", factory, &fakeEmbeddingProvider{},
		config.RagConfig{ChunkSize: 400, ChunkOverlap: 80}, cache, nil, noopLogger{})
	return svc.(*consumerService), factory, cache
}

func reindexMessage(t *testing.T, docId uuid.UUID) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.ReindexDocumentMessage{DocumentId: docId})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func TestReindexReplacesChunksAndFlushesCache(t *testing.T) {
	cs, factory, cache := newConsumerForTest(t)

	docId := uuid.New()
	factory.uow.docs.docs = append(factory.uow.docs.docs, &entity.Document{
		Id: docId, Filename: "cv.md", Content: sampleDocument, ChunkCount: 1,
	})
	factory.uow.chunks.chunks = append(factory.uow.chunks.chunks, &entity.ChunkEmbedding{
		Id: uuid.New(), DocumentId: docId, Text: "stale chunk",
	})

	sessionId := uuid.New()
	cache.Set(sessionId, "question", refusalResult())

	cs.processMessage(context.Background(), reindexMessage(t, docId))

	require.NotEmpty(t, factory.uow.chunks.chunks)
	for _, c := range factory.uow.chunks.chunks {
		assert.NotEqual(t, "stale chunk", c.Text)
		assert.Equal(t, docId, c.DocumentId)
		assert.NotEmpty(t, c.Embedding)
	}
	assert.Equal(t, len(factory.uow.chunks.chunks), factory.uow.docs.docs[0].ChunkCount)
	assert.Equal(t, 1, factory.uow.committed)

	_, found := cache.Get(sessionId, "question")
	assert.False(t, found)
}

func TestReindexDocumentGoneKeepsCache(t *testing.T) {
	cs, factory, cache := newConsumerForTest(t)

	sessionId := uuid.New()
	cache.Set(sessionId, "question", evidenceResult())

	cs.processMessage(context.Background(), reindexMessage(t, uuid.New()))

	// Nothing changed, so cached answers stay valid.
	_, found := cache.Get(sessionId, "question")
	assert.True(t, found)
	assert.Zero(t, factory.uow.begun)
}
