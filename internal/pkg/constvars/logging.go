package constvars

const (
	LoggingRequestIDKey         = "request_id"
	LoggingDataKey              = "data"
	LoggingRequestKey           = "request"
	LoggingResponseKey          = "response"
	LoggingMethodKey            = "method"
	LoggingEndpointKey          = "endpoint"
	LoggingRemoteAddrKey        = "remote_addr"
	LoggingUserAgentKey         = "user_agent"
	LoggingQueryKey             = "query"
	LoggingStatusCodeKey        = "status_code"
	LoggingDurationKey          = "duration"
	LoggingSuccessKey           = "success"
	LoggingOperationKey         = "operation"
	LoggingErrorTypeKey         = "error_type"
	LoggingErrorCodeKey         = "error_code"
	LoggingErrorMessageKey      = "error_message"
	LoggingRedisKey             = "redis_key"
	LoggingLockValueKey         = "lock_value"
	LoggingLockExpirationKey    = "lock_expiration"
	LoggingLockStoredValueKey   = "lock_stored_value"
	LoggingLockExpectedValueKey = "lock_expected_value"
	LoggingSessionIDKey         = "session_id"
	LoggingClinicalSessionIDKey = "clinical_session_id"
	LoggingPatientIDKey         = "patient_id"
	LoggingDoctorIDKey          = "doctor_id"
	LoggingShiftIDKey           = "shift_id"
	LoggingPhaseKey             = "phase"
	LoggingExpectedPhaseKey     = "expected_phase"
	LoggingPaymentIDKey         = "payment_id"
	LoggingOrderIDKey           = "order_id"
	LoggingTransactionIDKey     = "transaction_id"
	LoggingPaymentProviderKey   = "payment_provider"
	LoggingPaymentStatusKey     = "payment_status"
	LoggingAttemptKey           = "attempt"
	LoggingConsultationIDKey    = "consultation_id"
	LoggingConsultationStatus   = "consultation_status"
	LoggingHourKey              = "hour"
	LoggingShiftVersionKey      = "shift_version"
	LoggingAuditEventKey        = "audit_event"
	LoggingQueueNameKey         = "queue_name"
	LoggingBucketNameKey        = "bucket_name"
	LoggingObjectKey            = "object_key"
	LoggingDiagnosisSourceKey   = "diagnosis_source"
	LoggingCountKey             = "count"
)
