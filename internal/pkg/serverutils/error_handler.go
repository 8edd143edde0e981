package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"career-assistant-be/internal/pkg/logger"
	"career-assistant-be/pkg/rag"
	"career-assistant-be/pkg/rag/chunker"
)

// ErrorHandlerMiddleware converts service and pipeline errors into the JSON
// envelope. Pipeline faults map to 502 (a dependency failed, not the
// request); chunking rejects the payload with 422.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "internal server error"

		var httpErr *HTTPError
		var fiberErr *fiber.Error
		var chunkErr *chunker.ChunkingError
		var embedErr *rag.EmbeddingError
		var retrErr *rag.RetrievalError
		var genErr *rag.GenerationError

		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
			message = httpErr.Message
		case errors.As(err, &chunkErr):
			code = fiber.StatusUnprocessableEntity
			message = chunkErr.Error()
		case errors.As(err, &embedErr), errors.As(err, &retrErr), errors.As(err, &genErr):
			code = fiber.StatusBadGateway
			message = err.Error()
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if log != nil {
			fields := map[string]interface{}{
				"status": code,
				"path":   ctx.Path(),
				"method": ctx.Method(),
			}
			if code >= 500 {
				log.Error("http", err.Error(), fields)
			} else {
				log.Warn("http", err.Error(), fields)
			}
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
