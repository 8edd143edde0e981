package embedding

import "context"

// Task types hint the provider at how the vector will be used. Gemini
// distinguishes document vs query embeddings; Ollama ignores the hint.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

// Provider converts text into a fixed-dimension vector. Implementations must
// be deterministic for identical input and honor context cancellation.
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
