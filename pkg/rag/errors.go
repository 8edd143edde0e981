package rag

// The pipeline surfaces exactly three failure kinds, one per external
// capability. All of them are fatal for the request; none is retried here.
// A refusal is not an error; it is a successful answer with no evidence.

type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return "embedding provider: " + e.Err.Error()
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return "vector index: " + e.Err.Error()
}

func (e *RetrievalError) Unwrap() error { return e.Err }

type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "generation provider: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }
