package models

// SymptomIntake holds the answers a patient gives in the first workflow step.
type SymptomIntake struct {
	Symptoms     []string `json:"symptoms"`
	Severity     string   `json:"severity"`
	Age          int      `json:"age"`
	Gender       string   `json:"gender"`
	DurationDays int      `json:"durationDays"`
	Notes        string   `json:"notes,omitempty"`
}

// Diagnosis is the pre-diagnosis snapshot returned by the AI collaborator or
// produced locally when it cannot be reached.
type Diagnosis struct {
	Text                        string   `json:"text" bson:"text"`
	Confidence                  float64  `json:"confidence" bson:"confidence"`
	Severity                    string   `json:"severity" bson:"severity"`
	RecommendedConsultationType string   `json:"recommendedConsultationType" bson:"recommendedConsultationType"`
	Investigations              []string `json:"investigations" bson:"investigations"`
	TreatmentSuggestions        []string `json:"treatmentSuggestions" bson:"treatmentSuggestions"`
	Source                      string   `json:"source" bson:"source"`
}

type PriceQuote struct {
	ConsultationType string  `json:"consultationType"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	Recommended      bool    `json:"recommended"`
}

// FindQuote returns the quote for the given consultation type.
func FindQuote(quotes []PriceQuote, consultationType string) (PriceQuote, bool) {
	for _, quote := range quotes {
		if quote.ConsultationType == consultationType {
			return quote, true
		}
	}
	return PriceQuote{}, false
}
