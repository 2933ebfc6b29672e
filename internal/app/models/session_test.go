package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &Session{
		SessionID: "session-1",
		PatientID: "patient-1",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(time.Hour),
		Payload: &SymptomsCollectedPayload{IntakeSnapshot: IntakeSnapshot{
			Intake: SymptomIntake{Symptoms: []string{"fever", "cough"}, Severity: "severe", Age: 34, Gender: "female", DurationDays: 3},
			Diagnosis: Diagnosis{
				Text:                        "Possible lower respiratory infection",
				Confidence:                  0.82,
				Severity:                    "severe",
				RecommendedConsultationType: "video",
				Source:                      "ai",
			},
			Pricing: []PriceQuote{{ConsultationType: "video", Amount: 499, Currency: "INR", Recommended: true}},
		}},
	}
}

func TestPhase_Ordering(t *testing.T) {
	phases := []Phase{
		PhaseSymptomsCollected,
		PhaseConsultationTypeSelected,
		PhasePaymentPending,
		PhasePaymentConfirmed,
		PhaseClinicalSessionIssued,
	}
	for i := 1; i < len(phases); i++ {
		assert.True(t, phases[i].AtLeast(phases[i-1]))
		assert.False(t, phases[i-1].AtLeast(phases[i]))
	}
	assert.False(t, Phase("BOGUS").IsValid())
}

func TestSession_JSONRoundTripEveryPhase(t *testing.T) {
	session := newTestSession()
	now := session.CreatedAt

	selected := session.Payload.(*SymptomsCollectedPayload).Select(ConsultationSelection{
		ConsultationType: "video", Amount: 499, Currency: "INR", SelectedAt: now,
	})
	pending := selected.WithOrder(PaymentOrder{
		Provider: "mock", OrderID: "order_1", PaymentID: "pay_1", PaymentURL: "http://x/mock-pay/pay_1",
		Amount: 499, Currency: "INR", CreatedAt: now, ExpiresAt: now.Add(15 * time.Minute),
	})
	confirmed := pending.Confirm(PaymentConfirmation{TransactionID: "txn_1", ClinicalSessionID: "clinical-1", ConfirmedAt: now})
	issued := confirmed.Issue(now)

	for _, payload := range []SessionPayload{session.Payload, selected, pending, confirmed, issued} {
		t.Run(payload.Phase().String(), func(t *testing.T) {
			s := session.Advance(payload, now, time.Hour)

			raw, err := json.Marshal(s)
			require.NoError(t, err)

			var decoded Session
			require.NoError(t, json.Unmarshal(raw, &decoded))
			assert.Equal(t, payload.Phase(), decoded.Phase())
			assert.Equal(t, payload, decoded.Payload)
			assert.Equal(t, s.Version, decoded.Version)

			again, err := json.Marshal(&decoded)
			require.NoError(t, err)
			assert.Equal(t, raw, again)
		})
	}
}

func TestSession_Confirmed(t *testing.T) {
	session := newTestSession()
	_, ok := session.Confirmed()
	assert.False(t, ok)

	now := session.CreatedAt
	confirmed := session.Payload.(*SymptomsCollectedPayload).
		Select(ConsultationSelection{ConsultationType: "chat"}).
		WithOrder(PaymentOrder{PaymentID: "pay_1"}).
		Confirm(PaymentConfirmation{ClinicalSessionID: "clinical-1"})

	session = session.Advance(confirmed.Issue(now), now, time.Hour)
	payload, ok := session.Confirmed()
	require.True(t, ok)
	assert.Equal(t, "clinical-1", payload.Confirmation.ClinicalSessionID)
	assert.Equal(t, int64(2), session.Version)
}

func TestSession_UnmarshalUnknownPhase(t *testing.T) {
	var s Session
	err := json.Unmarshal([]byte(`{"sessionId":"s","phase":"NOPE","payload":{}}`), &s)
	assert.Error(t, err)
}
