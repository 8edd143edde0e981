// Package answer orchestrates the full question-answering pipeline:
// embed the question, retrieve and gate evidence, assemble the cited
// context, and either generate an answer or refuse.
package answer

import (
	"context"
	"fmt"
	"log"

	"career-assistant-be/pkg/embedding"
	"career-assistant-be/pkg/llm"
	"career-assistant-be/pkg/rag"
	"career-assistant-be/pkg/rag/assembler"
	"career-assistant-be/pkg/rag/retriever"
)

const systemPrompt = `You are a factual assistant answering questions about one person's professional profile.

Rules:
- Answer ONLY from the numbered context blocks you are given.
- Cite every claim with the matching [Source N] marker. Use only the source numbers that appear in the context.
- If the context does not contain enough information to answer, say so plainly instead of guessing.
- Never invent employers, dates, titles, skills, or any other profile detail.
- Keep answers concise and specific.`

// Config snapshots the pipeline knobs for one composer instance. The values
// come from config.RagConfig at startup and never change afterwards.
type Config struct {
	StrictMode          bool
	SimilarityThreshold float64
	TopK                int
}

// Result is a completed answer. A refusal is a Result like any other:
// HasEvidence false, Citations empty, Text equal to rag.RefusalMessage.
type Result struct {
	Text        string
	Citations   []rag.Citation
	Evidence    []rag.EvidenceItem
	HasEvidence bool
}

// Composer wires the three external capabilities together. It holds no
// per-question state, so one instance serves all requests concurrently.
//
// Known limitation: the citation list is the assembler's, returned verbatim.
// Markers the model echoes in its prose are not reconciled against it.
type Composer struct {
	embedder  embedding.Provider
	retriever *retriever.Retriever
	generator llm.LLMProvider
	strict    bool
	logger    *log.Logger
}

func NewComposer(embedder embedding.Provider, index rag.VectorIndex, generator llm.LLMProvider, cfg Config, logger *log.Logger) *Composer {
	return &Composer{
		embedder:  embedder,
		retriever: retriever.New(index, cfg.SimilarityThreshold, cfg.TopK),
		generator: generator,
		strict:    cfg.StrictMode,
		logger:    logger,
	}
}

// Answer runs the pipeline for one question. Each external call honors ctx;
// faults surface as the typed pipeline errors and are never converted into
// refusals.
func (c *Composer) Answer(ctx context.Context, question string) (*Result, error) {
	vector, err := c.embedder.Generate(ctx, question, embedding.TaskQuery)
	if err != nil {
		return nil, &rag.EmbeddingError{Err: err}
	}

	evidence, err := c.retriever.Retrieve(ctx, vector)
	if err != nil {
		return nil, err
	}

	hasEvidence := len(evidence) > 0
	c.logf("question answered over %d evidence chunks (strict=%t)", len(evidence), c.strict)

	if !hasEvidence && c.strict {
		return &Result{
			Text:        rag.RefusalMessage,
			Citations:   []rag.Citation{},
			Evidence:    evidence,
			HasEvidence: false,
		}, nil
	}

	contextStr, citations := assembler.Build(evidence)
	text, err := llm.Complete(ctx, c.generator, systemPrompt, userPrompt(contextStr, question))
	if err != nil {
		return nil, &rag.GenerationError{Err: err}
	}

	return &Result{
		Text:        text,
		Citations:   citations,
		Evidence:    evidence,
		HasEvidence: hasEvidence,
	}, nil
}

func userPrompt(contextStr, question string) string {
	if contextStr == "" {
		return fmt.Sprintf("No reference material in the knowledge base matched this question. Answer from general knowledge and state clearly that the knowledge base does not cover it.\n\nQuestion: %s", question)
	}
	return fmt.Sprintf("Context:\n\n%s\n\n---\n\nQuestion: %s", contextStr, question)
}

func (c *Composer) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
