package service

import (
	"context"

	"career-assistant-be/internal/repository/unitofwork"
	"career-assistant-be/pkg/rag"
)

// pgVectorIndex adapts the chunk embedding repository to the narrow index
// contract the retriever depends on.
type pgVectorIndex struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPgVectorIndex(uowFactory unitofwork.RepositoryFactory) rag.VectorIndex {
	return &pgVectorIndex{uowFactory: uowFactory}
}

func (i *pgVectorIndex) Query(ctx context.Context, vector []float32, k int) ([]rag.IndexMatch, error) {
	uow := i.uowFactory.NewUnitOfWork(ctx)

	scored, err := uow.ChunkEmbeddingRepository().SearchTopKWithScore(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	matches := make([]rag.IndexMatch, len(scored))
	for idx, s := range scored {
		matches[idx] = rag.IndexMatch{
			ChunkID:     s.Chunk.Id,
			DocumentID:  s.Chunk.DocumentId,
			Text:        s.Chunk.Text,
			SourceLabel: s.Chunk.SectionLabel,
			Score:       s.Similarity,
		}
	}
	return matches, nil
}
