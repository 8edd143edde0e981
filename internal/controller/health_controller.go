package controller

import (
	"career-assistant-be/internal/config"
	"career-assistant-be/internal/dto"
	"career-assistant-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(app *fiber.App)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	cfg        *config.Config
	uowFactory unitofwork.RepositoryFactory
}

func NewHealthController(cfg *config.Config, uowFactory unitofwork.RepositoryFactory) IHealthController {
	return &healthController{cfg: cfg, uowFactory: uowFactory}
}

func (c *healthController) RegisterRoutes(app *fiber.App) {
	app.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	res := dto.HealthResponse{
		Status:            "ok",
		Database:          "ok",
		EmbeddingProvider: c.cfg.Ai.EmbeddingProvider,
		LLMProvider:       c.cfg.Ai.LLMProvider,
		StrictMode:        c.cfg.Rag.StrictMode,
	}

	uow := c.uowFactory.NewUnitOfWork(ctx.Context())
	count, err := uow.ChunkEmbeddingRepository().Count(ctx.Context())
	if err != nil {
		res.Status = "degraded"
		res.Database = "unreachable"
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(res)
	}
	res.IndexedChunks = count

	return ctx.JSON(res)
}
