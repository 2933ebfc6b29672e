package requests

type CollectSymptoms struct {
	Symptoms     []string `json:"symptoms" validate:"required,min=1,dive,required,max=200"`
	Severity     string   `json:"severity" validate:"required,severity"`
	Age          int      `json:"age" validate:"required,gte=0,lte=130"`
	Gender       string   `json:"gender" validate:"required,oneof=male female other"`
	DurationDays int      `json:"durationDays" validate:"gte=0,lte=3650"`
	Notes        string   `json:"notes" validate:"max=2000"`
}

type SelectConsultation struct {
	SessionID                string `json:"sessionId" validate:"required,uuid"`
	SelectedConsultationType string `json:"selectedConsultationType" validate:"required,consultation_type"`
}

type ConfirmPayment struct {
	SessionID     string `json:"sessionId" validate:"required,uuid"`
	PaymentID     string `json:"paymentId" validate:"required,max=100"`
	ProviderToken string `json:"providerToken" validate:"max=500"`
}

type CollectDetailedSymptoms struct {
	ClinicalSessionID  string   `json:"clinicalSessionId" validate:"required,uuid"`
	ChiefComplaint     string   `json:"chiefComplaint" validate:"required,max=500"`
	DetailedSymptoms   []string `json:"detailedSymptoms" validate:"required,min=1,dive,required,max=500"`
	MedicalHistory     string   `json:"medicalHistory" validate:"max=4000"`
	Allergies          []string `json:"allergies" validate:"dive,max=200"`
	CurrentMedications []string `json:"currentMedications" validate:"dive,max=200"`
}
