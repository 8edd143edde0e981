package service

import (
	"context"
	"encoding/json"
	"time"

	"career-assistant-be/internal/config"
	"career-assistant-be/internal/dto"
	"career-assistant-be/internal/entity"
	"career-assistant-be/internal/pkg/logger"
	"career-assistant-be/internal/repository/memory"
	"career-assistant-be/internal/repository/specification"
	"career-assistant-be/internal/repository/unitofwork"
	"career-assistant-be/pkg/embedding"
	"career-assistant-be/pkg/events"
	pktNats "career-assistant-be/pkg/nats"
	"career-assistant-be/pkg/rag/chunker"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService re-chunks and re-embeds a document in the background. The
// old chunk set is replaced inside one transaction, so a failed reindex
// leaves the previous index intact.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	chunkCfg          chunker.Config
	answerCache       *memory.AnswerCache
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	ragCfg config.RagConfig,
	answerCache *memory.AnswerCache,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		chunkCfg:          chunker.Config{ChunkSize: ragCfg.ChunkSize, ChunkOverlap: ragCfg.ChunkOverlap},
		answerCache:       answerCache,
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ReindexDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal reindex message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed, retrying will not help
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to load document", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if doc == nil {
		cs.logger.Warn("ConsumerService", "Document deleted before reindex", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
		})
		msg.Ack()
		return
	}

	chunks, err := chunker.Split(doc.Content, doc.Filename, cs.chunkCfg)
	if err != nil {
		cs.logger.Error("ConsumerService", "Document no longer chunkable", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
		msg.Ack() // content is immutable, retrying will not help
		return
	}

	embedded := make([]*entity.ChunkEmbedding, len(chunks))
	for i, c := range chunks {
		vector, err := cs.embeddingProvider.Generate(ctx, c.Text, embedding.TaskDocument)
		if err != nil {
			cs.logger.Error("ConsumerService", "Embedding failed during reindex", map[string]interface{}{
				"document_id": doc.Id.String(),
				"chunk":       c.Index,
				"error":       err.Error(),
			})
			msg.Nack()
			return
		}
		embedded[i] = &entity.ChunkEmbedding{
			DocumentId:   doc.Id,
			ChunkIndex:   c.Index,
			SectionLabel: c.SectionLabel,
			Text:         c.Text,
			StartOffset:  c.StartOffset,
			EndOffset:    c.EndOffset,
			ContentHash:  c.ContentHash,
			Embedding:    vector,
		}
	}

	if err := cs.replaceChunks(ctx, uow, doc, embedded); err != nil {
		cs.logger.Error("ConsumerService", "Failed to replace chunk set", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	cs.answerCache.InvalidateAll()

	cs.logger.Info("ConsumerService", "Document reindexed", map[string]interface{}{
		"document_id": doc.Id.String(),
		"chunks":      len(embedded),
	})
	cs.publishEvent("DOCUMENT_REINDEXED", map[string]interface{}{
		"document_id": doc.Id.String(),
		"chunks":      len(embedded),
	})
	msg.Ack()
}

func (cs *consumerService) replaceChunks(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document, embedded []*entity.ChunkEmbedding) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.ChunkEmbeddingRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.ChunkEmbeddingRepository().CreateBulk(ctx, embedded); err != nil {
		uow.Rollback()
		return err
	}
	doc.ChunkCount = len(embedded)
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}

func (cs *consumerService) publishEvent(eventType string, data map[string]interface{}) {
	if cs.eventPublisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		event := events.BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to publish audit event", map[string]interface{}{
				"event": eventType,
				"error": err.Error(),
			})
		}
	}()
}
