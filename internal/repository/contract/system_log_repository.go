package contract

import (
	"context"

	"career-assistant-be/internal/model"
)

// SystemLogRepository writes audit rows. It works on the model directly:
// system logs are append-only infrastructure records, not domain aggregates.
type SystemLogRepository interface {
	Create(ctx context.Context, log *model.SystemLog) error
}
