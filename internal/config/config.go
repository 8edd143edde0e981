package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Rag      RagConfig
	Ai       AIConfig
}

type AppConfig struct {
	Name               string
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret        string
	TokenExpiryHours int
}

// RagConfig holds the knobs that drive the answer pipeline. It is built once
// at startup and passed into component constructors; algorithmic code never
// reads the environment directly.
type RagConfig struct {
	StrictMode          bool
	SimilarityThreshold float64
	ChunkSize           int
	ChunkOverlap        int
	TopK                int
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "gemini"
	EmbeddingModel    string
	GeminiApiKey      string
	OllamaBaseURL     string
	LLMProvider       string // "ollama" or "groq"
	LLMModel          string
	GroqApiKey        string
	ReindexTopic      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Name:               getEnv("APP_NAME", "AI Career Assistant"),
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8501"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret:        getEnv("JWT_SECRET", ""),
			TokenExpiryHours: getEnvAsInt("TOKEN_EXPIRY_HOURS", 8),
		},
		Rag: RagConfig{
			StrictMode:          getEnvAsBool("STRICT_MODE", true),
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.30),
			ChunkSize:           getEnvAsInt("CHUNK_SIZE", 400),
			ChunkOverlap:        getEnvAsInt("CHUNK_OVERLAP", 80),
			TopK:                getEnvAsInt("TOP_K", 5),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			GeminiApiKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			GroqApiKey:        getEnv("GROQ_API_KEY", ""),
			ReindexTopic:      getEnv("REINDEX_DOCUMENT_TOPIC_NAME", "REINDEX_DOCUMENT"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
