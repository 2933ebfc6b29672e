package requests

type UpdateConsultationStatus struct {
	ConsultationID string `json:"-" validate:"required"`
	Status         string `json:"status" validate:"required,oneof=PAYMENT_PENDING PAYMENT_CONFIRMED DOCTOR_ASSIGNED IN_PROGRESS COMPLETED CANCELLED EXPIRED REFUNDED"`
	Reason         string `json:"reason" validate:"max=500"`
}

type Prescription struct {
	Medication   string `json:"medication" validate:"required,max=200"`
	Dosage       string `json:"dosage" validate:"required,max=100"`
	Frequency    string `json:"frequency" validate:"required,max=100"`
	DurationDays int    `json:"durationDays" validate:"gte=1,lte=365"`
	Instructions string `json:"instructions" validate:"max=500"`
}

type RecordDiagnosis struct {
	ConsultationID string         `json:"-" validate:"required"`
	Diagnosis      string         `json:"diagnosis" validate:"required,max=4000"`
	Prescriptions  []Prescription `json:"prescriptions" validate:"dive"`
}

type RefundConsultation struct {
	ConsultationID string `json:"-" validate:"required"`
	Reason         string `json:"reason" validate:"required,max=500"`
}

type ListConsultations struct {
	Page     int `validate:"gte=1"`
	PageSize int `validate:"gte=1,lte=100"`
}
