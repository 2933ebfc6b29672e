package contracts

import (
	"context"

	"teleconsult-service/internal/app/models"
)

// AuditPublisher emits workflow events. Publish never fails the caller.
type AuditPublisher interface {
	Publish(ctx context.Context, event *models.AuditEvent)
	Close() error
}
