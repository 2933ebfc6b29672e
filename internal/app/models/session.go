package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Phase is a position in the linear workflow of a consultation request.
type Phase string

const (
	PhaseSymptomsCollected        Phase = "SYMPTOMS_COLLECTED"
	PhaseConsultationTypeSelected Phase = "CONSULTATION_TYPE_SELECTED"
	PhasePaymentPending           Phase = "PAYMENT_PENDING"
	PhasePaymentConfirmed         Phase = "PAYMENT_CONFIRMED"
	PhaseClinicalSessionIssued    Phase = "CLINICAL_SESSION_ISSUED"
)

var phaseRanks = map[Phase]int{
	PhaseSymptomsCollected:        1,
	PhaseConsultationTypeSelected: 2,
	PhasePaymentPending:           3,
	PhasePaymentConfirmed:         4,
	PhaseClinicalSessionIssued:    5,
}

// Rank returns the position of the phase in the workflow, 0 for unknown phases.
func (p Phase) Rank() int {
	return phaseRanks[p]
}

func (p Phase) IsValid() bool {
	return p.Rank() > 0
}

// AtLeast reports whether p is the same as or later than other.
func (p Phase) AtLeast(other Phase) bool {
	return p.Rank() >= other.Rank()
}

func (p Phase) String() string {
	return string(p)
}

// IntakeSnapshot is the data gathered in the first phase and carried by every
// later phase unchanged.
type IntakeSnapshot struct {
	Intake    SymptomIntake `json:"intake"`
	Diagnosis Diagnosis     `json:"diagnosis"`
	Pricing   []PriceQuote  `json:"pricing"`
}

type ConsultationSelection struct {
	ConsultationType string    `json:"consultationType"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	SelectedAt       time.Time `json:"selectedAt"`
}

type PaymentOrder struct {
	Provider   string    `json:"provider"`
	OrderID    string    `json:"orderId"`
	PaymentID  string    `json:"paymentId"`
	PaymentURL string    `json:"paymentUrl"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type PaymentConfirmation struct {
	TransactionID     string    `json:"transactionId"`
	ClinicalSessionID string    `json:"clinicalSessionId"`
	ConfirmedAt       time.Time `json:"confirmedAt"`
}

// SessionPayload is the phase-specific state of a session. The set of
// implementations is closed: each phase has exactly one payload type and that
// type only carries the fields that are valid in the phase.
type SessionPayload interface {
	Phase() Phase
	Snapshot() IntakeSnapshot
}

type SymptomsCollectedPayload struct {
	IntakeSnapshot
}

type ConsultationTypeSelectedPayload struct {
	IntakeSnapshot
	Selection ConsultationSelection `json:"selection"`
}

type PaymentPendingPayload struct {
	IntakeSnapshot
	Selection ConsultationSelection `json:"selection"`
	Order     PaymentOrder          `json:"order"`
}

type PaymentConfirmedPayload struct {
	IntakeSnapshot
	Selection    ConsultationSelection `json:"selection"`
	Order        PaymentOrder          `json:"order"`
	Confirmation PaymentConfirmation   `json:"confirmation"`
}

type ClinicalSessionIssuedPayload struct {
	PaymentConfirmedPayload
	IssuedAt time.Time `json:"issuedAt"`
}

func (p *SymptomsCollectedPayload) Phase() Phase        { return PhaseSymptomsCollected }
func (p *ConsultationTypeSelectedPayload) Phase() Phase { return PhaseConsultationTypeSelected }
func (p *PaymentPendingPayload) Phase() Phase           { return PhasePaymentPending }
func (p *PaymentConfirmedPayload) Phase() Phase         { return PhasePaymentConfirmed }
func (p *ClinicalSessionIssuedPayload) Phase() Phase    { return PhaseClinicalSessionIssued }

func (s IntakeSnapshot) Snapshot() IntakeSnapshot { return s }

// Select moves an intake (or an earlier selection) to a new selection.
func (p *SymptomsCollectedPayload) Select(selection ConsultationSelection) *ConsultationTypeSelectedPayload {
	return &ConsultationTypeSelectedPayload{IntakeSnapshot: p.IntakeSnapshot, Selection: selection}
}

func (p *ConsultationTypeSelectedPayload) WithOrder(order PaymentOrder) *PaymentPendingPayload {
	return &PaymentPendingPayload{IntakeSnapshot: p.IntakeSnapshot, Selection: p.Selection, Order: order}
}

func (p *PaymentPendingPayload) Confirm(confirmation PaymentConfirmation) *PaymentConfirmedPayload {
	return &PaymentConfirmedPayload{
		IntakeSnapshot: p.IntakeSnapshot,
		Selection:      p.Selection,
		Order:          p.Order,
		Confirmation:   confirmation,
	}
}

func (p *PaymentConfirmedPayload) Issue(issuedAt time.Time) *ClinicalSessionIssuedPayload {
	return &ClinicalSessionIssuedPayload{PaymentConfirmedPayload: *p, IssuedAt: issuedAt}
}

// Session is the ephemeral record tracking one patient's progress through
// intake, payment and assignment.
type Session struct {
	SessionID string
	PatientID string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
	Payload   SessionPayload
}

func (s *Session) Phase() Phase {
	if s.Payload == nil {
		return ""
	}
	return s.Payload.Phase()
}

// Confirmed returns the payment confirmation payload when the session is at
// PAYMENT_CONFIRMED or later.
func (s *Session) Confirmed() (*PaymentConfirmedPayload, bool) {
	switch payload := s.Payload.(type) {
	case *PaymentConfirmedPayload:
		return payload, true
	case *ClinicalSessionIssuedPayload:
		return &payload.PaymentConfirmedPayload, true
	default:
		return nil, false
	}
}

// Advance returns a copy of the session carrying the next payload, with the
// version bumped and timestamps refreshed.
func (s *Session) Advance(payload SessionPayload, now time.Time, ttl time.Duration) *Session {
	next := *s
	next.Payload = payload
	next.Version = s.Version + 1
	next.UpdatedAt = now
	next.ExpiresAt = now.Add(ttl)
	return &next
}

type sessionWire struct {
	SessionID string          `json:"sessionId"`
	PatientID string          `json:"patientId"`
	Phase     Phase           `json:"phase"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Payload   json.RawMessage `json:"payload"`
}

func (s Session) MarshalJSON() ([]byte, error) {
	if s.Payload == nil {
		return nil, fmt.Errorf("session %s has no payload", s.SessionID)
	}
	payload, err := json.Marshal(s.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sessionWire{
		SessionID: s.SessionID,
		PatientID: s.PatientID,
		Phase:     s.Payload.Phase(),
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		ExpiresAt: s.ExpiresAt,
		Payload:   payload,
	})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var wire sessionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	payload, err := newPayload(wire.Phase)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(wire.Payload, payload); err != nil {
		return err
	}

	*s = Session{
		SessionID: wire.SessionID,
		PatientID: wire.PatientID,
		Version:   wire.Version,
		CreatedAt: wire.CreatedAt,
		UpdatedAt: wire.UpdatedAt,
		ExpiresAt: wire.ExpiresAt,
		Payload:   payload,
	}
	return nil
}

func newPayload(phase Phase) (SessionPayload, error) {
	switch phase {
	case PhaseSymptomsCollected:
		return &SymptomsCollectedPayload{}, nil
	case PhaseConsultationTypeSelected:
		return &ConsultationTypeSelectedPayload{}, nil
	case PhasePaymentPending:
		return &PaymentPendingPayload{}, nil
	case PhasePaymentConfirmed:
		return &PaymentConfirmedPayload{}, nil
	case PhaseClinicalSessionIssued:
		return &ClinicalSessionIssuedPayload{}, nil
	default:
		return nil, fmt.Errorf("unknown session phase %q", phase)
	}
}
