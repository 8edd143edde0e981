package service

import (
	"context"
	"encoding/json"
	"fmt"

	"career-assistant-be/internal/model"
	"career-assistant-be/internal/pkg/logger"
	"career-assistant-be/internal/repository/unitofwork"
	"career-assistant-be/pkg/events"
	pktNats "career-assistant-be/pkg/nats"

	"gorm.io/datatypes"
)

// AuditService drains the audit stream into the system_logs table so every
// ingest, reindex, and answered chat leaves a queryable trail.
type AuditService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewAuditService(uowFactory unitofwork.RepositoryFactory, subscriber *pktNats.Subscriber, log logger.ILogger) *AuditService {
	return &AuditService{
		uowFactory: uowFactory,
		subscriber: subscriber,
		logger:     log,
	}
}

func (s *AuditService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("AuditService", "NATS unavailable, audit trail disabled", nil)
		return
	}

	err := s.subscriber.Subscribe("audit.>", "audit-log-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("AuditService", "Failed to start audit subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("AuditService", "Audit service started, listening to audit.>", nil)
}

func (s *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	details, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	module := "audit"
	row := &model.SystemLog{
		Level:   "INFO",
		Module:  &module,
		Message: event.EventType(),
		Details: datatypes.JSON(details),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SystemLogRepository().Create(ctx, row)
}
