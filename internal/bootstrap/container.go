package bootstrap

import (
	"log"
	"os"
	"time"

	"career-assistant-be/internal/config"
	"career-assistant-be/internal/controller"
	"career-assistant-be/internal/pkg/logger"
	"career-assistant-be/internal/repository/memory"
	"career-assistant-be/internal/repository/unitofwork"
	"career-assistant-be/internal/service"
	"career-assistant-be/pkg/embedding"
	"career-assistant-be/pkg/llm/factory"
	pktNats "career-assistant-be/pkg/nats"
	"career-assistant-be/pkg/rag/answer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	AuthController     controller.IAuthController
	UserController     controller.IUserController
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	HealthController   controller.IHealthController

	// Background services (run from main.go)
	ConsumerService service.IConsumerService
	AuditService    *service.AuditService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus for background reindex work
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding provider
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}

	// Generation provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GroqApiKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// NATS audit bus. Optional: a missing broker degrades to warnings.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	}

	// Answer pipeline
	vectorIndex := service.NewPgVectorIndex(uowFactory)
	composer := answer.NewComposer(
		embeddingProvider,
		vectorIndex,
		llmProvider,
		answer.Config{
			StrictMode:          cfg.Rag.StrictMode,
			SimilarityThreshold: cfg.Rag.SimilarityThreshold,
			TopK:                cfg.Rag.TopK,
		},
		log.New(os.Stdout, "[RAG] ", log.LstdFlags),
	)

	answerCache := memory.NewAnswerCache(15 * time.Minute)

	authService := service.NewAuthService(uowFactory, cfg.Auth.JwtSecret, cfg.Auth.TokenExpiryHours, natsPub, sysLogger)
	userService := service.NewUserService(uowFactory)
	documentService := service.NewDocumentService(uowFactory, embeddingProvider, cfg.Rag, pubSub, cfg.Ai.ReindexTopic, answerCache, natsPub, sysLogger)
	chatService := service.NewChatService(uowFactory, composer, answerCache, natsPub, sysLogger)

	consumerService := service.NewConsumerService(pubSub, cfg.Ai.ReindexTopic, uowFactory, embeddingProvider, cfg.Rag, answerCache, natsPub, sysLogger)
	auditService := service.NewAuditService(uowFactory, natsSub, sysLogger)

	return &Container{
		Logger:             sysLogger,
		AuthController:     controller.NewAuthController(authService),
		UserController:     controller.NewUserController(userService),
		ChatController:     controller.NewChatController(chatService),
		DocumentController: controller.NewDocumentController(documentService),
		HealthController:   controller.NewHealthController(cfg, uowFactory),
		ConsumerService:    consumerService,
		AuditService:       auditService,
	}
}
