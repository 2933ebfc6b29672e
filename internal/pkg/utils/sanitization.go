package utils

import (
	"strings"

	"teleconsult-service/internal/pkg/dto/requests"
)

// cleanStrings trims every entry and drops the ones left empty.
func cleanStrings(input []string) []string {
	sanitized := make([]string, 0, len(input))
	for _, v := range input {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			sanitized = append(sanitized, trimmed)
		}
	}
	return sanitized
}

func SanitizeCollectSymptomsRequest(input *requests.CollectSymptoms) {
	input.Symptoms = cleanStrings(input.Symptoms)
	input.Severity = strings.ToLower(strings.TrimSpace(input.Severity))
	input.Gender = strings.ToLower(strings.TrimSpace(input.Gender))
	input.Notes = strings.TrimSpace(input.Notes)
}

func SanitizeSelectConsultationRequest(input *requests.SelectConsultation) {
	input.SessionID = strings.TrimSpace(input.SessionID)
	input.SelectedConsultationType = strings.ToLower(strings.TrimSpace(input.SelectedConsultationType))
}

func SanitizeConfirmPaymentRequest(input *requests.ConfirmPayment) {
	input.SessionID = strings.TrimSpace(input.SessionID)
	input.PaymentID = strings.TrimSpace(input.PaymentID)
	input.ProviderToken = strings.TrimSpace(input.ProviderToken)
}

func SanitizeCollectDetailedSymptomsRequest(input *requests.CollectDetailedSymptoms) {
	input.ClinicalSessionID = strings.TrimSpace(input.ClinicalSessionID)
	input.ChiefComplaint = strings.TrimSpace(input.ChiefComplaint)
	input.DetailedSymptoms = cleanStrings(input.DetailedSymptoms)
	input.MedicalHistory = strings.TrimSpace(input.MedicalHistory)
	input.Allergies = cleanStrings(input.Allergies)
	input.CurrentMedications = cleanStrings(input.CurrentMedications)
}
