package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"career-assistant-be/pkg/rag"
)

type stubIndex struct {
	matches []rag.IndexMatch
	err     error
	gotK    int
}

func (s *stubIndex) Query(_ context.Context, _ []float32, k int) ([]rag.IndexMatch, error) {
	s.gotK = k
	return s.matches, s.err
}

func match(label string, score float64) rag.IndexMatch {
	return rag.IndexMatch{
		ChunkID:     uuid.New(),
		DocumentID:  uuid.New(),
		Text:        "text for " + label,
		SourceLabel: label,
		Score:       score,
	}
}

func TestRetrieveAppliesThreshold(t *testing.T) {
	idx := &stubIndex{matches: []rag.IndexMatch{
		match("cv.md § Skills", 0.91),
		match("cv.md § Experience", 0.55),
		match("cv.md § Education", 0.12),
	}}
	r := New(idx, 0.60, 5)

	items, err := r.Retrieve(context.Background(), []float32{0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(items))
	}
	if items[0].SourceLabel != "cv.md § Skills" {
		t.Errorf("wrong survivor: %q", items[0].SourceLabel)
	}
	if idx.gotK != 5 {
		t.Errorf("index queried with k=%d", idx.gotK)
	}
}

func TestRetrieveBestMatchBelowThreshold(t *testing.T) {
	idx := &stubIndex{matches: []rag.IndexMatch{match("cv.md § Skills", 0.50)}}
	r := New(idx, 0.99, 5)

	items, err := r.Retrieve(context.Background(), []float32{0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no evidence, got %d items", len(items))
	}
}

func TestRetrievePreservesOrderAndRanks(t *testing.T) {
	idx := &stubIndex{matches: []rag.IndexMatch{
		match("a", 0.80),
		match("b", 0.20),
		match("c", 0.80),
		match("d", 0.70),
	}}
	r := New(idx, 0.60, 10)

	items, err := r.Retrieve(context.Background(), []float32{0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantLabels := []string{"a", "c", "d"}
	if len(items) != len(wantLabels) {
		t.Fatalf("expected %d survivors, got %d", len(wantLabels), len(items))
	}
	for i, item := range items {
		if item.SourceLabel != wantLabels[i] {
			t.Errorf("position %d: got %q, want %q", i, item.SourceLabel, wantLabels[i])
		}
		if item.Rank != i+1 {
			t.Errorf("position %d: rank %d", i, item.Rank)
		}
	}
}

func TestRetrieveWrapsIndexFault(t *testing.T) {
	cause := errors.New("connection refused")
	r := New(&stubIndex{err: cause}, 0.30, 5)

	_, err := r.Retrieve(context.Background(), []float32{0.1})
	var rerr *rag.RetrievalError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *rag.RetrievalError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
}
