package payment_gateway

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

var (
	paymentGatewayInstance contracts.PaymentGateway
	oncePaymentGateway     sync.Once
)

// NewPaymentGateway picks the provider configured for this process. The chosen
// gateway is wrapped so Verify and Refund retry transient failures.
func NewPaymentGateway(internalConfig *config.InternalConfig, logger *zap.Logger) (contracts.PaymentGateway, error) {
	var err error
	oncePaymentGateway.Do(func() {
		paymentGatewayInstance, err = newPaymentGateway(internalConfig, logger)
	})
	return paymentGatewayInstance, err
}

func newPaymentGateway(internalConfig *config.InternalConfig, logger *zap.Logger) (contracts.PaymentGateway, error) {
	cfg := internalConfig.PaymentGateway
	orderExpiry := time.Duration(internalConfig.Workflow.PaymentOrderExpiryInMinutes) * time.Minute

	var gateway contracts.PaymentGateway
	switch cfg.Provider {
	case constvars.PaymentProviderMock:
		gateway = NewMockGateway(internalConfig.App.BaseUrl, orderExpiry, logger)
	case constvars.PaymentProviderRazorpay:
		if cfg.KeyID == "" || cfg.KeySecret == "" {
			return nil, fmt.Errorf("payment provider %s requires PAYMENT_GATEWAY_KEY_ID and PAYMENT_GATEWAY_KEY_SECRET", cfg.Provider)
		}
		httpClient := &http.Client{Timeout: time.Duration(cfg.RequestTimeoutInSecs) * time.Second}
		gateway = newRazorpayGateway(cfg.BaseUrl, cfg.CheckoutUrl, cfg.KeyID, cfg.KeySecret, orderExpiry, httpClient, logger)
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}

	policy := RetryPolicy{
		MaxAttempts:     cfg.MaxRetryAttempts,
		InitialInterval: time.Duration(cfg.RetryInitialIntervalMs) * time.Millisecond,
	}
	return newRetryingGateway(gateway, policy, logger), nil
}
