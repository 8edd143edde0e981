package dto

type HealthResponse struct {
	Status            string `json:"status"`
	Database          string `json:"database"`
	EmbeddingProvider string `json:"embedding_provider"`
	LLMProvider       string `json:"llm_provider"`
	IndexedChunks     int64  `json:"indexed_chunks"`
	StrictMode        bool   `json:"strict_mode"`
}
