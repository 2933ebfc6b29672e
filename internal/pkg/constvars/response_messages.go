package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	SymptomsCollectedSuccessMessage         = "symptoms collected successfully"
	ConsultationSelectedSuccessMessage      = "consultation type selected, continue to payment"
	PaymentConfirmedSuccessMessage          = "payment confirmed successfully"
	DetailedSymptomsCollectedSuccessMessage = "consultation created successfully"
	GetSessionSuccessMessage                = "get session successfully"
	GetCurrentDoctorSuccessMessage          = "get current doctor successfully"
	GetDoctorShiftsSuccessMessage           = "get doctor shifts successfully"
	CreateDoctorShiftSuccessMessage         = "doctor shift created successfully"
	UpdateDoctorShiftSuccessMessage         = "doctor shift updated successfully"
	DeactivateDoctorShiftSuccessMessage     = "doctor shift deactivated successfully"
	GetConsultationSuccessMessage           = "get consultation successfully"
	GetConsultationsSuccessMessage          = "get consultations successfully"
	UpdateConsultationStatusSuccessMessage  = "consultation status updated successfully"
	RecordDiagnosisSuccessMessage           = "diagnosis recorded successfully"
	RefundConsultationSuccessMessage        = "consultation refunded successfully"
)
