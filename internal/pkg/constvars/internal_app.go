package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_ACTOR_ID_KEY             ContextKey = "actor_id"
	CONTEXT_ACTOR_ROLE_KEY           ContextKey = "actor_role"
)

const (
	REQUEST_ID_PREFIX = "TLCNSLT_SVC_"
)

const (
	AppEnvDevelopment = "development"
	AppEnvProduction  = "production"
)

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
	RoleSystem  = "system"
)

const (
	MongoCollectionConsultations = "consultations"
	MongoCollectionDoctorShifts  = "doctor_shifts"
)

const (
	MongoIndexConsultationClinicalSession = "uniq_clinical_session_id"
	MongoIndexConsultationActivePatient   = "uniq_active_patient"
)

const (
	RedisKeySessionPrefix          = "workflow:session:"
	RedisKeyClinicalSessionPrefix  = "workflow:clinical:"
	RedisKeyConfirmPaymentLock     = "workflow:confirm-payment:"
	RedisKeySelectLock             = "workflow:select-consultation:"
	RedisKeyDoctorCachePrefix      = "doctor-shift:resolved:"
	RedisKeyDoctorShiftVersion     = "doctor-shift:version"
	RedisKeyConsultationExpiryLock = "consultation-expiry:leader"
	RedisKeyConsultationRefundLock = "consultation-refund:"
	RedisKeyIntakeLimitPrefix      = "workflow:intake-limit:"
)
