package payment_gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testKeyID     = "rzp_test_key"
	testKeySecret = "rzp_test_secret"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialInterval: time.Millisecond}
}

func TestMockGateway_Deterministic(t *testing.T) {
	gateway := newRetryingGateway(NewMockGateway("http://localhost:8080", 30*time.Minute, zap.NewNop()), fastPolicy(), zap.NewNop())
	ctx := context.Background()

	order, err := gateway.CreateOrder(ctx, "session-1", 499, "INR", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.PaymentID, "pay_mock_"))
	assert.Equal(t, "http://localhost:8080/mock-pay/"+order.PaymentID, order.PaymentURL)

	first, err := gateway.Verify(ctx, order, "")
	require.NoError(t, err)
	second, err := gateway.Verify(ctx, order, "anything")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRecordCompleted, first.Status)
	assert.Equal(t, first.TransactionID, second.TransactionID)

	failed, err := gateway.Verify(ctx, order, "fail_card_declined")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRecordFailed, failed.Status)
	assert.Empty(t, failed.TransactionID)
}

func TestNewPaymentGateway_SelectsProvider(t *testing.T) {
	cfg := &config.InternalConfig{}
	cfg.PaymentGateway.Provider = constvars.PaymentProviderMock
	gateway, err := newPaymentGateway(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, constvars.PaymentProviderMock, gateway.Provider())

	cfg.PaymentGateway.Provider = constvars.PaymentProviderRazorpay
	_, err = newPaymentGateway(cfg, zap.NewNop())
	assert.Error(t, err, "razorpay without credentials")

	cfg.PaymentGateway.Provider = "paypal"
	_, err = newPaymentGateway(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestSignature(t *testing.T) {
	signature := computeSignature(testKeySecret, "order_1", "pay_1")
	assert.Len(t, signature, 64)
	assert.True(t, validSignature(testKeySecret, "order_1", "pay_1", signature))
	assert.False(t, validSignature(testKeySecret, "order_1", "pay_2", signature))
	assert.False(t, validSignature("other", "order_1", "pay_1", signature))
}

func newRazorpayTestGateway(t *testing.T, handler http.HandlerFunc) (*retryingGateway, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	inner := newRazorpayGateway(server.URL, "https://checkout.test", testKeyID, testKeySecret, 30*time.Minute, server.Client(), zap.NewNop())
	return newRetryingGateway(inner, fastPolicy(), zap.NewNop()).(*retryingGateway), server
}

func TestRazorpayGateway_CreateOrder(t *testing.T) {
	gateway, _ := newRazorpayTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, testKeyID, user)
		assert.Equal(t, testKeySecret, pass)
		assert.Equal(t, "/orders", r.URL.Path)
		w.Write([]byte(`{"id":"order_abc","amount":49900,"currency":"INR","status":"created"}`))
	})

	order, err := gateway.CreateOrder(context.Background(), "session-1", 499, "INR", map[string]string{"type": "video"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.OrderID)
	assert.Equal(t, "order_abc", order.PaymentID)
	assert.Equal(t, "https://checkout.test?order_id=order_abc", order.PaymentURL)
}

func TestRazorpayGateway_CreateOrderIsNeverRetried(t *testing.T) {
	var calls int32
	gateway, _ := newRazorpayTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := gateway.CreateOrder(context.Background(), "session-1", 499, "INR", nil)
	assert.True(t, exceptions.HasCode(err, constvars.ErrCodeGatewayUnavailable))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRazorpayGateway_VerifyValidSignature(t *testing.T) {
	gateway, _ := newRazorpayTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/order_abc/payments", r.URL.Path)
		w.Write([]byte(`{"items":[{"id":"pay_failed","status":"failed"},{"id":"pay_ok","order_id":"order_abc","status":"captured","amount":49900}]}`))
	})
	order := &models.OrderHandle{OrderID: "order_abc", PaymentID: "order_abc"}

	result, err := gateway.Verify(context.Background(), order, computeSignature(testKeySecret, "order_abc", "pay_ok"))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRecordCompleted, result.Status)
	assert.Equal(t, "pay_ok", result.TransactionID)
}

func TestRazorpayGateway_SignatureMismatchIsNotRetried(t *testing.T) {
	var calls int32
	gateway, _ := newRazorpayTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"items":[{"id":"pay_ok","status":"captured"}]}`))
	})
	order := &models.OrderHandle{OrderID: "order_abc", PaymentID: "order_abc"}

	_, err := gateway.Verify(context.Background(), order, "forged")
	assert.True(t, exceptions.HasCode(err, constvars.ErrCodePaymentVerificationFailed))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRazorpayGateway_VerifyRetriesTransientErrors(t *testing.T) {
	var calls int32
	gateway, _ := newRazorpayTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"items":[{"id":"pay_ok","status":"captured"}]}`))
	})
	order := &models.OrderHandle{OrderID: "order_abc", PaymentID: "order_abc"}

	result, err := gateway.Verify(context.Background(), order, computeSignature(testKeySecret, "order_abc", "pay_ok"))
	require.NoError(t, err)
	assert.Equal(t, "pay_ok", result.TransactionID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRazorpayGateway_VerifyGivesUpAfterThreeAttempts(t *testing.T) {
	var calls int32
	gateway, _ := newRazorpayTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := gateway.Verify(context.Background(), &models.OrderHandle{OrderID: "order_abc"}, "sig")
	assert.True(t, exceptions.HasCode(err, constvars.ErrCodeGatewayUnavailable))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRetryingGateway_AttemptsAreCapped(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	inner := newRazorpayGateway(server.URL, "https://checkout.test", testKeyID, testKeySecret, 30*time.Minute, server.Client(), zap.NewNop())
	gateway := newRetryingGateway(inner, RetryPolicy{MaxAttempts: 10, InitialInterval: time.Millisecond}, zap.NewNop()).(*retryingGateway)

	assert.Equal(t, maxGatewayAttempts, gateway.Policy.MaxAttempts)
	_, err := gateway.Verify(context.Background(), &models.OrderHandle{OrderID: "order_abc"}, "sig")
	assert.True(t, exceptions.HasCode(err, constvars.ErrCodeGatewayUnavailable))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	floor := newRetryingGateway(inner, RetryPolicy{}, zap.NewNop()).(*retryingGateway)
	assert.Equal(t, 1, floor.Policy.MaxAttempts)
}

func TestRazorpayGateway_VerifyWithoutCapturedPayment(t *testing.T) {
	gateway, _ := newRazorpayTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	})

	result, err := gateway.Verify(context.Background(), &models.OrderHandle{OrderID: "order_abc"}, "sig")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRecordFailed, result.Status)
}

func TestRazorpayGateway_Refund(t *testing.T) {
	gateway, _ := newRazorpayTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/pay_ok/refund", r.URL.Path)
		w.Write([]byte(`{"id":"rfnd_1","payment_id":"pay_ok","amount":49900,"status":"processed"}`))
	})

	result, err := gateway.Refund(context.Background(), "pay_ok", 499, "doctor unavailable")
	require.NoError(t, err)
	assert.Equal(t, "rfnd_1", result.RefundID)
	assert.Equal(t, 499.0, result.Amount)
}

func TestGatewayError(t *testing.T) {
	err := gatewayError(400, []byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`))
	assert.EqualError(t, err, "gateway responded 400: BAD_REQUEST_ERROR: The id provided does not exist")

	err = gatewayError(502, []byte(`upstream down`))
	assert.EqualError(t, err, "gateway responded 502: upstream down")
}
