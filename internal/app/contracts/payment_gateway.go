package contracts

import (
	"context"

	"teleconsult-service/internal/app/models"
)

type PaymentGateway interface {
	Provider() string
	CreateOrder(ctx context.Context, sessionID string, amount float64, currency string, metadata map[string]string) (*models.OrderHandle, error)
	Verify(ctx context.Context, order *models.OrderHandle, providerToken string) (*models.PaymentResult, error)
	Refund(ctx context.Context, transactionID string, amount float64, reason string) (*models.RefundResult, error)
}
