package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"career-assistant-be/internal/config"
	"career-assistant-be/internal/dto"
	"career-assistant-be/internal/entity"
	"career-assistant-be/internal/pkg/logger"
	"career-assistant-be/internal/pkg/serverutils"
	"career-assistant-be/internal/repository/memory"
	"career-assistant-be/internal/repository/specification"
	"career-assistant-be/internal/repository/unitofwork"
	"career-assistant-be/pkg/embedding"
	"career-assistant-be/pkg/events"
	"career-assistant-be/pkg/extract"
	pktNats "career-assistant-be/pkg/nats"
	"career-assistant-be/pkg/rag"
	"career-assistant-be/pkg/rag/chunker"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const maxDocumentBytes = 10 * 1024 * 1024

type IDocumentService interface {
	Ingest(ctx context.Context, userId uuid.UUID, filename, contentType string, data []byte) (*dto.IngestResponse, error)
	GetAll(ctx context.Context) ([]*dto.DocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reindex(ctx context.Context, id uuid.UUID) (*dto.ReindexResponse, error)
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	chunkCfg          chunker.Config
	pubSub            *gochannel.GoChannel
	reindexTopic      string
	answerCache       *memory.AnswerCache
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	ragCfg config.RagConfig,
	pubSub *gochannel.GoChannel,
	reindexTopic string,
	answerCache *memory.AnswerCache,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		chunkCfg:          chunker.Config{ChunkSize: ragCfg.ChunkSize, ChunkOverlap: ragCfg.ChunkOverlap},
		pubSub:            pubSub,
		reindexTopic:      reindexTopic,
		answerCache:       answerCache,
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

func (s *documentService) Ingest(ctx context.Context, userId uuid.UUID, filename, contentType string, data []byte) (*dto.IngestResponse, error) {
	if !extract.Supported(filename) {
		return nil, serverutils.NewUnprocessable("Only .md, .txt, .pdf and .docx documents are supported")
	}
	if len(data) == 0 {
		return nil, serverutils.NewUnprocessable("Document is empty")
	}
	if len(data) > maxDocumentBytes {
		return nil, serverutils.NewBadRequest("Document exceeds the 10 MB limit")
	}

	sum := sha256.Sum256(data)
	contentHash := hex.EncodeToString(sum[:])

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.DocumentRepository().FindOne(ctx, specification.ByContentHash{Hash: contentHash})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.NewConflict("An identical document is already ingested")
	}

	content, err := extract.Text(filename, data)
	if err != nil {
		return nil, serverutils.NewUnprocessable("Could not extract text from document")
	}

	chunks, err := chunker.Split(content, filename, s.chunkCfg)
	if err != nil {
		return nil, err
	}

	embedded, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	doc := &entity.Document{
		Filename:    filename,
		ContentType: contentType,
		Content:     content,
		ContentHash: contentHash,
		SizeBytes:   int64(len(data)),
		ChunkCount:  len(chunks),
		UploadedBy:  userId,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		uow.Rollback()
		return nil, err
	}
	for _, e := range embedded {
		e.DocumentId = doc.Id
	}
	if err := uow.ChunkEmbeddingRepository().CreateBulk(ctx, embedded); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// The knowledge base changed; cached answers may now be wrong either way
	// (stale refusals, stale citations).
	s.answerCache.InvalidateAll()

	s.logger.Info("DocumentService", "Document ingested", map[string]interface{}{
		"document_id": doc.Id.String(),
		"filename":    doc.Filename,
		"chunks":      len(chunks),
	})
	s.publishEvent("DOCUMENT_INGESTED", map[string]interface{}{
		"document_id": doc.Id.String(),
		"filename":    doc.Filename,
		"chunks":      len(chunks),
	})

	return &dto.IngestResponse{
		Document:   *toDocumentResponse(doc),
		ChunkCount: len(chunks),
	}, nil
}

func (s *documentService) embedChunks(ctx context.Context, chunks []chunker.Chunk) ([]*entity.ChunkEmbedding, error) {
	embedded := make([]*entity.ChunkEmbedding, len(chunks))
	for i, c := range chunks {
		vector, err := s.embeddingProvider.Generate(ctx, c.Text, embedding.TaskDocument)
		if err != nil {
			return nil, &rag.EmbeddingError{Err: err}
		}
		embedded[i] = &entity.ChunkEmbedding{
			ChunkIndex:   c.Index,
			SectionLabel: c.SectionLabel,
			Text:         c.Text,
			StartOffset:  c.StartOffset,
			EndOffset:    c.EndOffset,
			ContentHash:  c.ContentHash,
			Embedding:    vector,
		}
	}
	return embedded, nil
}

func (s *documentService) GetAll(ctx context.Context) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.DocumentRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.DocumentResponse, len(docs))
	for i, d := range docs {
		res[i] = toDocumentResponse(d)
	}
	return res, nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if doc == nil {
		return serverutils.NewNotFound("Document not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.ChunkEmbeddingRepository().DeleteByDocumentId(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.answerCache.InvalidateAll()

	s.publishEvent("DOCUMENT_DELETED", map[string]interface{}{
		"document_id": id.String(),
		"filename":    doc.Filename,
	})
	return nil
}

func (s *documentService) Reindex(ctx context.Context, id uuid.UUID) (*dto.ReindexResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, serverutils.NewNotFound("Document not found")
	}

	payload, err := json.Marshal(dto.ReindexDocumentMessage{DocumentId: id})
	if err != nil {
		return nil, err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.reindexTopic, msg); err != nil {
		return nil, err
	}

	return &dto.ReindexResponse{DocumentId: id, Enqueued: true}, nil
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:          d.Id,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		ChunkCount:  d.ChunkCount,
		CreatedAt:   d.CreatedAt,
	}
}

func (s *documentService) publishEvent(eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		event := events.BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("DocumentService", "Failed to publish audit event", map[string]interface{}{
				"event": eventType,
				"error": err.Error(),
			})
		}
	}()
}
