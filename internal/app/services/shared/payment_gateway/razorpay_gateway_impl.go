package payment_gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"
	"teleconsult-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type razorpayGateway struct {
	BaseUrl     string
	CheckoutUrl string
	KeyID       string
	KeySecret   string
	OrderExpiry time.Duration
	HTTPClient  *http.Client
	Log         *zap.Logger
	now         func() time.Time
}

type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type razorpayPayment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type razorpayPaymentList struct {
	Items []razorpayPayment `json:"items"`
}

type razorpayRefundRequest struct {
	Amount int64             `json:"amount"`
	Notes  map[string]string `json:"notes,omitempty"`
}

type razorpayRefund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

func newRazorpayGateway(baseUrl, checkoutUrl, keyID, keySecret string, orderExpiry time.Duration, httpClient *http.Client, logger *zap.Logger) contracts.PaymentGateway {
	return &razorpayGateway{
		BaseUrl:     baseUrl,
		CheckoutUrl: checkoutUrl,
		KeyID:       keyID,
		KeySecret:   keySecret,
		OrderExpiry: orderExpiry,
		HTTPClient:  httpClient,
		Log:         logger,
		now:         time.Now,
	}
}

func (g *razorpayGateway) Provider() string {
	return constvars.PaymentProviderRazorpay
}

// The order id doubles as the payment reference handed to the client.
func (g *razorpayGateway) CreateOrder(ctx context.Context, sessionID string, amount float64, currency string, metadata map[string]string) (*models.OrderHandle, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	g.Log.Info("razorpayGateway.CreateOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	request := razorpayOrderRequest{
		Amount:   toMinorUnits(amount),
		Currency: currency,
		Receipt:  sessionID,
		Notes:    metadata,
	}

	order := new(razorpayOrder)
	if err := g.do(ctx, constvars.MethodPost, "/orders", request, order); err != nil {
		g.Log.Error("razorpayGateway.CreateOrder error calling gateway",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGatewayCreateOrder(err, g.Provider())
	}

	g.Log.Info("razorpayGateway.CreateOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, order.ID),
	)
	return &models.OrderHandle{
		Provider:   g.Provider(),
		OrderID:    order.ID,
		PaymentID:  order.ID,
		PaymentURL: fmt.Sprintf("%s?order_id=%s", g.CheckoutUrl, order.ID),
		Amount:     amount,
		Currency:   currency,
		ExpiresAt:  g.now().Add(g.OrderExpiry).UTC(),
	}, nil
}

// Verify fetches the payments made against the order and accepts a captured
// one only if providerToken is the checkout signature for it.
func (g *razorpayGateway) Verify(ctx context.Context, order *models.OrderHandle, providerToken string) (*models.PaymentResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	g.Log.Info("razorpayGateway.Verify called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, order.OrderID),
	)

	payments := new(razorpayPaymentList)
	if err := g.do(ctx, constvars.MethodGet, "/orders/"+order.OrderID+"/payments", nil, payments); err != nil {
		return nil, err
	}

	var captured *razorpayPayment
	for i := range payments.Items {
		if payments.Items[i].Status == "captured" {
			captured = &payments.Items[i]
			break
		}
	}
	if captured == nil {
		return &models.PaymentResult{
			Status:        models.PaymentRecordFailed,
			FailureReason: "no captured payment for order",
		}, nil
	}

	if !validSignature(g.KeySecret, order.OrderID, captured.ID, providerToken) {
		utils.LogSecurityEvent(g.Log, "payment_signature_mismatch", requestID, utils.SeverityHigh,
			zap.String(constvars.LoggingOrderIDKey, order.OrderID),
			zap.String(constvars.LoggingTransactionIDKey, captured.ID),
			zap.String(constvars.LoggingPaymentProviderKey, g.Provider()),
		)
		return nil, exceptions.ErrPaymentSignatureMismatch(nil, order.PaymentID)
	}

	return &models.PaymentResult{
		Status:        models.PaymentRecordCompleted,
		TransactionID: captured.ID,
	}, nil
}

func (g *razorpayGateway) Refund(ctx context.Context, transactionID string, amount float64, reason string) (*models.RefundResult, error) {
	request := razorpayRefundRequest{
		Amount: toMinorUnits(amount),
		Notes:  map[string]string{"reason": reason},
	}

	refund := new(razorpayRefund)
	if err := g.do(ctx, constvars.MethodPost, "/payments/"+transactionID+"/refund", request, refund); err != nil {
		return nil, err
	}
	return &models.RefundResult{
		RefundID:      refund.ID,
		TransactionID: refund.PaymentID,
		Amount:        float64(refund.Amount) / 100,
		Status:        refund.Status,
	}, nil
}

// do sends an authenticated JSON request. Network failures, 429 and 5xx
// responses come back as GATEWAY_UNAVAILABLE so the retry wrapper can tell
// them apart from permanent rejections.
func (g *razorpayGateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return exceptions.ErrCannotMarshalJSON(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.BaseUrl+path, reader)
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}
	req.SetBasicAuth(g.KeyID, g.KeySecret)
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return exceptions.ErrGatewayUnavailable(err, g.Provider())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return exceptions.ErrGatewayUnavailable(err, g.Provider())
	}

	switch {
	case resp.StatusCode == constvars.StatusTooManyRequests || resp.StatusCode >= constvars.StatusInternalServerError:
		return exceptions.ErrGatewayUnavailable(gatewayError(resp.StatusCode, respBody), g.Provider())
	case resp.StatusCode >= constvars.StatusBadRequest:
		return exceptions.ErrPaymentVerificationFailed(gatewayError(resp.StatusCode, respBody), path)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}

// gatewayError extracts Razorpay's {"error":{"code","description"}} body,
// falling back to the raw payload.
func gatewayError(statusCode int, body []byte) error {
	code := gjson.GetBytes(body, "error.code").String()
	description := gjson.GetBytes(body, "error.description").String()
	if code == "" && description == "" {
		return fmt.Errorf("gateway responded %d: %s", statusCode, body)
	}
	return fmt.Errorf("gateway responded %d: %s: %s", statusCode, code, description)
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
