package contracts

import (
	"context"

	"teleconsult-service/internal/app/models"
)

type PaymentLedgerRepository interface {
	UpsertPending(ctx context.Context, record *models.PaymentRecord) error
	MarkCompleted(ctx context.Context, record *models.PaymentRecord) (*models.PaymentRecord, error)
	MarkFailed(ctx context.Context, sessionID, paymentID, reason string) error
	MarkRefunded(ctx context.Context, sessionID, paymentID string) error
	FindBySessionAndPayment(ctx context.Context, sessionID, paymentID string) (*models.PaymentRecord, error)
}
