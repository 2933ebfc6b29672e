package models

import "time"

type PaymentStatus string

const (
	PaymentRecordPending   PaymentStatus = "pending"
	PaymentRecordCompleted PaymentStatus = "completed"
	PaymentRecordFailed    PaymentStatus = "failed"
	PaymentRecordRefunded  PaymentStatus = "refunded"
)

// PaymentRecord is a ledger row keyed by (SessionID, PaymentID).
type PaymentRecord struct {
	ID                   int64
	SessionID            string
	PaymentID            string
	OrderID              string
	PatientID            string
	Provider             string
	Status               PaymentStatus
	Amount               float64
	Currency             string
	GatewayTransactionID string
	FailureReason        string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// OrderHandle is what a gateway hands back after creating an order.
type OrderHandle struct {
	Provider   string
	OrderID    string
	PaymentID  string
	PaymentURL string
	Amount     float64
	Currency   string
	ExpiresAt  time.Time
}

type PaymentResult struct {
	Status        PaymentStatus
	TransactionID string
	FailureReason string
}

type RefundResult struct {
	RefundID      string
	TransactionID string
	Amount        float64
	Status        string
}
