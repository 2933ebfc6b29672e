package models

import (
	"fmt"
	"time"

	"teleconsult-service/internal/pkg/exceptions"
)

type ConsultationStatus string

const (
	ConsultationDraft            ConsultationStatus = "DRAFT"
	ConsultationPaymentPending   ConsultationStatus = "PAYMENT_PENDING"
	ConsultationPaymentConfirmed ConsultationStatus = "PAYMENT_CONFIRMED"
	ConsultationDoctorAssigned   ConsultationStatus = "DOCTOR_ASSIGNED"
	ConsultationInProgress       ConsultationStatus = "IN_PROGRESS"
	ConsultationCompleted        ConsultationStatus = "COMPLETED"
	ConsultationCancelled        ConsultationStatus = "CANCELLED"
	ConsultationExpired          ConsultationStatus = "EXPIRED"
	ConsultationRefunded         ConsultationStatus = "REFUNDED"
)

// mainLine is the only forward path; each status may only move to its successor.
var mainLine = map[ConsultationStatus]ConsultationStatus{
	ConsultationDraft:            ConsultationPaymentPending,
	ConsultationPaymentPending:   ConsultationPaymentConfirmed,
	ConsultationPaymentConfirmed: ConsultationDoctorAssigned,
	ConsultationDoctorAssigned:   ConsultationInProgress,
	ConsultationInProgress:       ConsultationCompleted,
}

func (s ConsultationStatus) IsValid() bool {
	switch s {
	case ConsultationDraft, ConsultationPaymentPending, ConsultationPaymentConfirmed,
		ConsultationDoctorAssigned, ConsultationInProgress, ConsultationCompleted,
		ConsultationCancelled, ConsultationExpired, ConsultationRefunded:
		return true
	}
	return false
}

func (s ConsultationStatus) IsTerminal() bool {
	switch s {
	case ConsultationCompleted, ConsultationCancelled, ConsultationExpired, ConsultationRefunded:
		return true
	}
	return false
}

// IsSideBranch reports statuses reachable from any non-terminal status.
func (s ConsultationStatus) IsSideBranch() bool {
	switch s {
	case ConsultationCancelled, ConsultationExpired, ConsultationRefunded:
		return true
	}
	return false
}

func (s ConsultationStatus) String() string {
	return string(s)
}

type StatusChange struct {
	Status    ConsultationStatus `json:"status" bson:"status"`
	ChangedAt time.Time          `json:"changedAt" bson:"changedAt"`
	ChangedBy string             `json:"changedBy" bson:"changedBy"`
	Reason    string             `json:"reason,omitempty" bson:"reason,omitempty"`
}

// PaymentInfo is copied from the payment record when the consultation is created.
type PaymentInfo struct {
	PaymentID     string    `json:"paymentId" bson:"paymentId"`
	OrderID       string    `json:"orderId" bson:"orderId"`
	TransactionID string    `json:"transactionId" bson:"transactionId"`
	Amount        float64   `json:"amount" bson:"amount"`
	Currency      string    `json:"currency" bson:"currency"`
	Provider      string    `json:"provider" bson:"provider"`
	PaidAt        time.Time `json:"paidAt" bson:"paidAt"`
}

// MedicalRecord holds the fields that are encrypted at rest.
type MedicalRecord struct {
	ChiefComplaint     string    `json:"chiefComplaint"`
	DetailedSymptoms   []string  `json:"detailedSymptoms"`
	MedicalHistory     string    `json:"medicalHistory,omitempty"`
	Allergies          []string  `json:"allergies,omitempty"`
	CurrentMedications []string  `json:"currentMedications,omitempty"`
	PreDiagnosis       Diagnosis `json:"preDiagnosis"`
}

type Prescription struct {
	Medication   string `json:"medication" bson:"medication"`
	Dosage       string `json:"dosage" bson:"dosage"`
	Frequency    string `json:"frequency" bson:"frequency"`
	DurationDays int    `json:"durationDays" bson:"durationDays"`
	Instructions string `json:"instructions,omitempty" bson:"instructions,omitempty"`
}

type Consultation struct {
	ConsultationID    string             `json:"consultationId"`
	PatientID         string             `json:"patientId"`
	DoctorID          string             `json:"doctorId,omitempty"`
	SessionID         string             `json:"sessionId"`
	ClinicalSessionID string             `json:"clinicalSessionId"`
	ConsultationType  string             `json:"consultationType"`
	Status            ConsultationStatus `json:"status"`
	StatusHistory     []StatusChange     `json:"statusHistory"`
	PaymentInfo       PaymentInfo        `json:"paymentInfo"`
	IsActive          bool               `json:"isActive"`
	Medical           MedicalRecord      `json:"medical"`
	DoctorDiagnosis   string             `json:"diagnosis,omitempty"`
	Prescriptions     []Prescription     `json:"prescriptions,omitempty"`
	IntakeArchiveKey  string             `json:"intakeArchiveKey,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
	ClosedAt          *time.Time         `json:"closedAt,omitempty"`
}

// CheckTransition validates moving from one status to another without
// mutating anything.
func CheckTransition(consultationID string, from, to ConsultationStatus) error {
	if from.IsTerminal() {
		return exceptions.ErrConsultationClosed(nil, consultationID, from.String())
	}
	if !to.IsValid() {
		return exceptions.ErrInvalidStatusTransition(fmt.Errorf("unknown status %q", to), from.String(), to.String())
	}
	if to.IsSideBranch() {
		return nil
	}
	if next, ok := mainLine[from]; ok && next == to {
		return nil
	}
	return exceptions.ErrInvalidStatusTransition(nil, from.String(), to.String())
}

// Transition moves the consultation to status and appends the change to its
// history. Terminal statuses soft-close the consultation.
func (c *Consultation) Transition(to ConsultationStatus, actor, reason string, at time.Time) error {
	if err := CheckTransition(c.ConsultationID, c.Status, to); err != nil {
		return err
	}

	c.Status = to
	c.StatusHistory = append(c.StatusHistory, StatusChange{
		Status:    to,
		ChangedAt: at,
		ChangedBy: actor,
		Reason:    reason,
	})
	c.UpdatedAt = at
	if to.IsTerminal() {
		c.IsActive = false
		closedAt := at
		c.ClosedAt = &closedAt
	}
	return nil
}

// NewDraftConsultation starts a consultation in DRAFT with a single history entry.
func NewDraftConsultation(consultationID, patientID, actor string, at time.Time) *Consultation {
	return &Consultation{
		ConsultationID: consultationID,
		PatientID:      patientID,
		Status:         ConsultationDraft,
		StatusHistory: []StatusChange{{
			Status:    ConsultationDraft,
			ChangedAt: at,
			ChangedBy: actor,
		}},
		IsActive:  true,
		CreatedAt: at,
		UpdatedAt: at,
	}
}
