package payment_gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mockGateway settles payments in-process. A provider token starting with
// "fail_" makes verification fail; any other token succeeds.
type mockGateway struct {
	BaseUrl     string
	OrderExpiry time.Duration
	Log         *zap.Logger
	now         func() time.Time
}

// NewMockGateway builds the in-process gateway used in development and tests.
func NewMockGateway(baseUrl string, orderExpiry time.Duration, logger *zap.Logger) contracts.PaymentGateway {
	return &mockGateway{
		BaseUrl:     baseUrl,
		OrderExpiry: orderExpiry,
		Log:         logger,
		now:         time.Now,
	}
}

func (g *mockGateway) Provider() string {
	return constvars.PaymentProviderMock
}

func (g *mockGateway) CreateOrder(ctx context.Context, sessionID string, amount float64, currency string, metadata map[string]string) (*models.OrderHandle, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	paymentID := "pay_mock_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	order := &models.OrderHandle{
		Provider:   constvars.PaymentProviderMock,
		OrderID:    "order_mock_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		PaymentID:  paymentID,
		PaymentURL: fmt.Sprintf(constvars.MockPaymentURLFormat, g.BaseUrl, paymentID),
		Amount:     amount,
		Currency:   currency,
		ExpiresAt:  g.now().Add(g.OrderExpiry).UTC(),
	}

	g.Log.Info("mockGateway.CreateOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingOrderIDKey, order.OrderID),
		zap.String(constvars.LoggingPaymentIDKey, order.PaymentID),
	)
	return order, nil
}

func (g *mockGateway) Verify(ctx context.Context, order *models.OrderHandle, providerToken string) (*models.PaymentResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if strings.HasPrefix(providerToken, constvars.MockPaymentFailureTokenPrefix) {
		g.Log.Info("mockGateway.Verify instructed to fail",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, order.PaymentID),
		)
		return &models.PaymentResult{
			Status:        models.PaymentRecordFailed,
			FailureReason: "mock payment declined",
		}, nil
	}

	return &models.PaymentResult{
		Status:        models.PaymentRecordCompleted,
		TransactionID: mockTransactionID(order.PaymentID),
	}, nil
}

func (g *mockGateway) Refund(ctx context.Context, transactionID string, amount float64, reason string) (*models.RefundResult, error) {
	return &models.RefundResult{
		RefundID:      "rfnd_mock_" + strings.TrimPrefix(transactionID, "txn_mock_"),
		TransactionID: transactionID,
		Amount:        amount,
		Status:        "processed",
	}, nil
}

// mockTransactionID is derived from the payment id so repeated verification
// reports the same transaction.
func mockTransactionID(paymentID string) string {
	sum := sha256.Sum256([]byte(paymentID))
	return "txn_mock_" + hex.EncodeToString(sum[:])[:20]
}
