package payment_gateway

import (
	"context"
	"time"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// maxGatewayAttempts caps retries of one gateway call, whatever the config says.
const maxGatewayAttempts = 3

type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
}

// retryingGateway retries Verify and Refund on GATEWAY_UNAVAILABLE errors.
// CreateOrder is passed through untouched since a repeated order is a new charge.
type retryingGateway struct {
	contracts.PaymentGateway
	Policy RetryPolicy
	Log    *zap.Logger
}

func newRetryingGateway(gateway contracts.PaymentGateway, policy RetryPolicy, logger *zap.Logger) contracts.PaymentGateway {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.MaxAttempts > maxGatewayAttempts {
		logger.Warn("payment gateway retry attempts capped",
			zap.Int("configured_attempts", policy.MaxAttempts),
			zap.Int("max_attempts", maxGatewayAttempts),
		)
		policy.MaxAttempts = maxGatewayAttempts
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = 200 * time.Millisecond
	}
	return &retryingGateway{
		PaymentGateway: gateway,
		Policy:         policy,
		Log:            logger,
	}
}

func (g *retryingGateway) Verify(ctx context.Context, order *models.OrderHandle, providerToken string) (*models.PaymentResult, error) {
	var result *models.PaymentResult
	err := g.retry(ctx, "Verify", func() error {
		var err error
		result, err = g.PaymentGateway.Verify(ctx, order, providerToken)
		return err
	})
	return result, err
}

func (g *retryingGateway) Refund(ctx context.Context, transactionID string, amount float64, reason string) (*models.RefundResult, error) {
	var result *models.RefundResult
	err := g.retry(ctx, "Refund", func() error {
		var err error
		result, err = g.PaymentGateway.Refund(ctx, transactionID, amount, reason)
		return err
	})
	if err != nil && exceptions.HasCode(err, constvars.ErrCodeGatewayUnavailable) {
		return nil, exceptions.ErrGatewayRefund(err, g.Provider(), transactionID)
	}
	return result, err
}

func (g *retryingGateway) retry(ctx context.Context, operation string, fn func() error) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = g.Policy.InitialInterval
	policy.MaxElapsedTime = 0

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !exceptions.HasCode(err, constvars.ErrCodeGatewayUnavailable) {
			return backoff.Permanent(err)
		}
		g.Log.Warn("retryingGateway transient gateway error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOperationKey, operation),
			zap.String(constvars.LoggingPaymentProviderKey, g.Provider()),
			zap.Int(constvars.LoggingAttemptKey, attempt),
			zap.Error(err),
		)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(g.Policy.MaxAttempts-1)), ctx))
}
