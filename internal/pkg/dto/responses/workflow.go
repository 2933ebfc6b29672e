package responses

import (
	"time"

	"teleconsult-service/internal/app/models"
)

type CollectSymptoms struct {
	SessionID                   string              `json:"sessionId"`
	Diagnosis                   models.Diagnosis    `json:"diagnosis"`
	Severity                    string              `json:"severity"`
	RecommendedConsultationType string              `json:"recommendedConsultationType"`
	Pricing                     []models.PriceQuote `json:"pricing"`
	ExpiresAt                   time.Time           `json:"expiresAt"`
}

type PaymentDetails struct {
	PaymentID  string    `json:"paymentId"`
	OrderID    string    `json:"orderId"`
	PaymentURL string    `json:"paymentUrl"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type SelectConsultation struct {
	SessionID        string         `json:"sessionId"`
	ConsultationType string         `json:"consultationType"`
	PaymentDetails   PaymentDetails `json:"paymentDetails"`
}

type ConfirmPayment struct {
	PaymentStatus     string `json:"paymentStatus"`
	ClinicalSessionID string `json:"clinicalSessionId"`
	TransactionID     string `json:"transactionId"`
	NextStep          string `json:"nextStep"`
}

type CollectDetailedSymptoms struct {
	ConsultationID     string `json:"consultationId"`
	AssignedDoctor     string `json:"assignedDoctor"`
	ConsultationStatus string `json:"consultationStatus"`
}

type SessionView struct {
	SessionID         string    `json:"sessionId"`
	Phase             string    `json:"phase"`
	Version           int64     `json:"version"`
	ConsultationType  string    `json:"consultationType,omitempty"`
	PaymentID         string    `json:"paymentId,omitempty"`
	ClinicalSessionID string    `json:"clinicalSessionId,omitempty"`
	NextStep          string    `json:"nextStep"`
	ExpiresAt         time.Time `json:"expiresAt"`
}
