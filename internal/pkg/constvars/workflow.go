package constvars

const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

const (
	ConsultationTypeChat  = "chat"
	ConsultationTypeAudio = "audio"
	ConsultationTypeVideo = "video"
)

const (
	PaymentProviderMock     = "mock"
	PaymentProviderRazorpay = "razorpay"
)

const (
	MockPaymentFailureTokenPrefix = "fail_"
	MockPaymentURLFormat          = "%s/mock-pay/%s"
)

const (
	NextStepSelectConsultation      = "select_consultation"
	NextStepConfirmPayment          = "confirm_payment"
	NextStepCollectDetailedSymptoms = "collect_detailed_symptoms"
	NextStepConsultation            = "consultation"
)

const (
	PaymentStatusConfirmed = "confirmed"
)

const (
	DiagnosisSourceAI       = "ai"
	DiagnosisSourceFallback = "fallback"
)

const (
	AuditQueueName = "consultation_audit_events"
)

const (
	AuditEventSessionCreated             = "session_created"
	AuditEventConsultationTypeSelected   = "consultation_type_selected"
	AuditEventPaymentOrderCreated        = "payment_order_created"
	AuditEventPaymentConfirmed           = "payment_confirmed"
	AuditEventPaymentFailed              = "payment_failed"
	AuditEventConsultationCreated        = "consultation_created"
	AuditEventConsultationCreationFailed = "consultation_creation_failed"
	AuditEventConsultationStatusChanged  = "consultation_status_changed"
	AuditEventConsultationStatusRejected = "consultation_status_rejected"
	AuditEventPhaseTransitionFailed      = "phase_transition_failed"
)

const (
	IntakeArchiveObjectFormat = "intake/%s/%s.json"
)
