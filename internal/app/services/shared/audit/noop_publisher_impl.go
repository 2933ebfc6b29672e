package audit

import (
	"context"
	"time"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type noopPublisher struct {
	log *zap.Logger
}

func NewNoopPublisher(log *zap.Logger) contracts.AuditPublisher {
	return &noopPublisher{log: log}
}

func (p *noopPublisher) Publish(ctx context.Context, event *models.AuditEvent) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	p.log.Debug("noopPublisher.Publish",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAuditEventKey, event.Type),
		zap.String(constvars.LoggingSessionIDKey, event.SessionID),
	)
}

func (p *noopPublisher) Close() error {
	return nil
}

func stamp(event *models.AuditEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
}
