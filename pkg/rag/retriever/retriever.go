// Package retriever runs top-K vector search and applies the similarity
// gate that decides what counts as evidence.
package retriever

import (
	"context"

	"career-assistant-be/pkg/rag"
)

type Retriever struct {
	index     rag.VectorIndex
	threshold float64
	topK      int
}

func New(index rag.VectorIndex, threshold float64, topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{index: index, threshold: threshold, topK: topK}
}

// Retrieve queries the index and keeps only matches whose similarity clears
// the threshold. The gate is absolute: a chunk below it is excluded even if
// it is the best match available. Zero survivors is a normal outcome and
// returns an empty slice, not an error.
func (r *Retriever) Retrieve(ctx context.Context, queryVector []float32) ([]rag.EvidenceItem, error) {
	matches, err := r.index.Query(ctx, queryVector, r.topK)
	if err != nil {
		return nil, &rag.RetrievalError{Err: err}
	}

	items := make([]rag.EvidenceItem, 0, len(matches))
	for _, m := range matches {
		if m.Score < r.threshold {
			continue
		}
		items = append(items, rag.EvidenceItem{
			ChunkID:     m.ChunkID,
			DocumentID:  m.DocumentID,
			Text:        m.Text,
			SourceLabel: m.SourceLabel,
			Score:       m.Score,
			Rank:        len(items) + 1,
		})
	}
	return items, nil
}
