package models

import "time"

type AuditEvent struct {
	EventID        string            `json:"eventId"`
	Type           string            `json:"type"`
	SessionID      string            `json:"sessionId,omitempty"`
	PatientID      string            `json:"patientId,omitempty"`
	ConsultationID string            `json:"consultationId,omitempty"`
	OccurredAt     time.Time         `json:"occurredAt"`
	Attributes     map[string]string `json:"attributes,omitempty"`
}
