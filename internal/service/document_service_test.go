package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-assistant-be/internal/config"
	"career-assistant-be/internal/dto"
	"career-assistant-be/internal/pkg/serverutils"
	"career-assistant-be/internal/repository/memory"
	"career-assistant-be/pkg/rag"
)

func newDocumentServiceForTest(t *testing.T) (IDocumentService, *fakeUowFactory, *fakeEmbeddingProvider, *gochannel.GoChannel, *memory.AnswerCache) {
	t.Helper()
	factory := newFakeUowFactory()
	embedder := &fakeEmbeddingProvider{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	ragCfg := config.RagConfig{ChunkSize: 400, ChunkOverlap: 80}
	cache := memory.NewAnswerCache(time.Minute)
	svc := NewDocumentService(factory, embedder, ragCfg, pubSub, "document.reindex", cache, nil, noopLogger{})
	return svc, factory, embedder, pubSub, cache
}

const sampleDocument = `# Experience

Led the payments platform team for three years, owning the ledger service
and the settlement pipeline end to end.

# Skills

Go, PostgreSQL, distributed systems, event-driven architecture.
`

func TestIngestRejectsUnsupportedExtension(t *testing.T) {
	svc, _, embedder, _, _ := newDocumentServiceForTest(t)

	_, err := svc.Ingest(context.Background(), uuid.New(), "photo.png", "image/png", []byte("content"))

	var httpErr *serverutils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 422, httpErr.Code)
	assert.Zero(t, embedder.calls)
}

func TestIngestRejectsEmptyFile(t *testing.T) {
	svc, _, _, _, _ := newDocumentServiceForTest(t)

	_, err := svc.Ingest(context.Background(), uuid.New(), "cv.md", "text/markdown", nil)

	var httpErr *serverutils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 422, httpErr.Code)
}

func TestIngestRejectsOversizedFile(t *testing.T) {
	svc, _, _, _, _ := newDocumentServiceForTest(t)

	big := []byte(strings.Repeat("a", maxDocumentBytes+1))
	_, err := svc.Ingest(context.Background(), uuid.New(), "cv.md", "text/markdown", big)

	var httpErr *serverutils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestIngestPersistsDocumentAndChunks(t *testing.T) {
	svc, factory, embedder, _, _ := newDocumentServiceForTest(t)
	userId := uuid.New()

	res, err := svc.Ingest(context.Background(), userId, "cv.md", "text/markdown", []byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "cv.md", res.Document.Filename)
	assert.Equal(t, res.ChunkCount, res.Document.ChunkCount)
	require.Len(t, factory.uow.docs.docs, 1)

	doc := factory.uow.docs.docs[0]
	assert.Equal(t, userId, doc.UploadedBy)
	assert.Equal(t, sampleDocument, doc.Content)
	assert.NotEmpty(t, doc.ContentHash)

	require.Len(t, factory.uow.chunks.chunks, res.ChunkCount)
	for _, c := range factory.uow.chunks.chunks {
		assert.Equal(t, doc.Id, c.DocumentId)
		assert.NotEmpty(t, c.Embedding)
	}
	assert.Equal(t, res.ChunkCount, embedder.calls)
	assert.Equal(t, 1, factory.uow.committed)
}

func TestIngestRejectsDuplicateContent(t *testing.T) {
	svc, factory, _, _, _ := newDocumentServiceForTest(t)

	_, err := svc.Ingest(context.Background(), uuid.New(), "cv.md", "text/markdown", []byte(sampleDocument))
	require.NoError(t, err)

	_, err = svc.Ingest(context.Background(), uuid.New(), "copy.md", "text/markdown", []byte(sampleDocument))

	var httpErr *serverutils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code)
	assert.Len(t, factory.uow.docs.docs, 1)
}

func TestIngestEmbeddingFaultLeavesNothingBehind(t *testing.T) {
	svc, factory, embedder, _, _ := newDocumentServiceForTest(t)
	embedder.err = errors.New("connection refused")

	_, err := svc.Ingest(context.Background(), uuid.New(), "cv.md", "text/markdown", []byte(sampleDocument))

	var eerr *rag.EmbeddingError
	require.ErrorAs(t, err, &eerr)
	assert.Empty(t, factory.uow.docs.docs)
	assert.Empty(t, factory.uow.chunks.chunks)
	assert.Zero(t, factory.uow.begun)
}

func TestDeleteCascadesChunks(t *testing.T) {
	svc, factory, _, _, _ := newDocumentServiceForTest(t)

	res, err := svc.Ingest(context.Background(), uuid.New(), "cv.md", "text/markdown", []byte(sampleDocument))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), res.Document.Id))
	assert.Empty(t, factory.uow.docs.docs)
	assert.Empty(t, factory.uow.chunks.chunks)
}

func TestDeleteUnknownDocument(t *testing.T) {
	svc, _, _, _, _ := newDocumentServiceForTest(t)

	err := svc.Delete(context.Background(), uuid.New())

	var httpErr *serverutils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func TestReindexEnqueuesMessage(t *testing.T) {
	svc, _, _, pubSub, _ := newDocumentServiceForTest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	messages, err := pubSub.Subscribe(ctx, "document.reindex")
	require.NoError(t, err)

	res, err := svc.Ingest(ctx, uuid.New(), "cv.md", "text/markdown", []byte(sampleDocument))
	require.NoError(t, err)

	out, err := svc.Reindex(ctx, res.Document.Id)
	require.NoError(t, err)
	assert.True(t, out.Enqueued)
	assert.Equal(t, res.Document.Id, out.DocumentId)

	select {
	case msg := <-messages:
		var payload dto.ReindexDocumentMessage
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, res.Document.Id, payload.DocumentId)
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("no reindex message arrived")
	}
}

func TestReindexUnknownDocument(t *testing.T) {
	svc, _, _, _, _ := newDocumentServiceForTest(t)

	_, err := svc.Reindex(context.Background(), uuid.New())

	var httpErr *serverutils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func buildDocxUpload(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Led the payments platform team for three years.</w:t></w:r></w:p>
  </w:body>
</w:document>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestIngestExtractsDocx(t *testing.T) {
	svc, factory, _, _, _ := newDocumentServiceForTest(t)

	res, err := svc.Ingest(context.Background(), uuid.New(), "resume.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", buildDocxUpload(t))
	require.NoError(t, err)

	require.Len(t, factory.uow.docs.docs, 1)
	assert.Contains(t, factory.uow.docs.docs[0].Content, "payments platform team")
	assert.Greater(t, res.ChunkCount, 0)
}

func TestIngestInvalidatesStaleRefusal(t *testing.T) {
	cache := memory.NewAnswerCache(time.Minute)
	embedder := &fakeEmbeddingProvider{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	docSvc := NewDocumentService(newFakeUowFactory(), embedder, config.RagConfig{ChunkSize: 400, ChunkOverlap: 80},
		pubSub, "document.reindex", cache, nil, noopLogger{})

	pipeline := &fakePipeline{result: refusalResult()}
	chatSvc := NewChatService(newFakeUowFactory(), pipeline, cache, nil, noopLogger{})

	userId := uuid.New()
	session, err := chatSvc.CreateSession(context.Background(), userId, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	req := &dto.SendChatRequest{ChatSessionId: session.Id, Question: "What did they work on?"}

	res, err := chatSvc.SendChat(context.Background(), userId, req)
	require.NoError(t, err)
	assert.Equal(t, rag.RefusalMessage, res.Answer)

	// Ingesting the answering document must flush the cached refusal.
	_, err = docSvc.Ingest(context.Background(), userId, "cv.md", "text/markdown", []byte(sampleDocument))
	require.NoError(t, err)

	pipeline.result = evidenceResult()
	res, err = chatSvc.SendChat(context.Background(), userId, req)
	require.NoError(t, err)
	assert.Equal(t, 2, pipeline.calls)
	assert.True(t, res.HasEvidence)
}

func TestDeleteInvalidatesCachedAnswers(t *testing.T) {
	svc, _, _, _, cache := newDocumentServiceForTest(t)

	res, err := svc.Ingest(context.Background(), uuid.New(), "cv.md", "text/markdown", []byte(sampleDocument))
	require.NoError(t, err)

	// Ingest flushed once already; repopulate to observe the delete flush.
	sessionId := uuid.New()
	cache.Set(sessionId, "question", evidenceResult())

	require.NoError(t, svc.Delete(context.Background(), res.Document.Id))

	_, found := cache.Get(sessionId, "question")
	assert.False(t, found)
}
