package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":          "is required",
	"min":               "must be at least %s",
	"max":               "must be at most %s",
	"len":               "must be %s characters long",
	"oneof":             "must be one of [%s]",
	"gt":                "must be greater than %s",
	"gte":               "must be greater than or equal to %s",
	"lt":                "must be less than %s",
	"lte":               "must be less than or equal to %s",
	"uuid":              "must be a valid UUID",
	"dive":              "contains an invalid item",
	"severity":          "must be one of [mild, moderate, severe]",
	"consultation_type": "must be one of [chat, audio, video]",
	"hour_of_day":       "must be an hour between 0 and 23",
	"shift_type":        "must be one of [morning, afternoon, evening, night, custom]",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"len":   true,
	"gt":    true,
	"gte":   true,
	"lt":    true,
	"lte":   true,
	"oneof": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientSessionNotFound               = "your consultation session has expired, please start again"
	ErrClientPhaseMismatch                 = "this step is not available at the current stage of your consultation request"
	ErrClientSessionBusy                   = "your previous request for this step is still being processed"
	ErrClientPaymentVerificationFailed     = "we could not verify your payment"
	ErrClientGatewayUnavailable            = "payment service is temporarily unavailable, please try again"
	ErrClientDoctorUnavailable             = "no doctor is available right now, please try again later"
	ErrClientConsultationClosed            = "this consultation is already closed"
	ErrClientConsultationNotFound          = "consultation not found"
	ErrClientActiveConsultationExists      = "you already have an active consultation"
	ErrClientInvalidStatusTransition       = "the consultation cannot move to the requested status"
	ErrClientDoctorShiftNotFound           = "doctor shift not found"
	ErrClientTooManyRequests               = "too many requests, please slow down"
	ErrClientRefundInProgress              = "a refund for this consultation is already being processed"
)

// Error messages for developers
const (
	ErrDevInvalidInput               = "invalid input"
	ErrDevCannotParseJSON            = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON          = "cannot convert struct or other data types to JSON"
	ErrDevValidationFailed           = "validation failed"
	ErrDevURLParamIDValidationFailed = "parameter %s validation failed"
	ErrDevCreateHTTPRequest          = "failed to create HTTP request"

	// Authentication messages
	ErrDevAuthSigningMethod         = "unexpected signing method"
	ErrDevAuthTokenInvalidOrExpired = "invalid or expired token"
	ErrDevAuthTokenMissing          = "token missing"
	ErrDevAuthRoleNotAllowed        = "role %s is not allowed to access this resource"
	ErrDevRateLimited               = "rate limit exceeded for %s window"

	// Workflow messages
	ErrDevSessionNotFound        = "workflow session %s not found or expired"
	ErrDevPhaseMismatch          = "workflow session is in phase %s, expected %s"
	ErrDevPaymentIDMismatch      = "payment id %s does not belong to session %s"
	ErrDevPaymentVerification    = "payment gateway rejected verification for payment %s"
	ErrDevPaymentSignature       = "payment gateway signature mismatch for payment %s"
	ErrDevGatewayUnavailable     = "payment gateway %s unavailable"
	ErrDevGatewayCreateOrder     = "payment gateway %s failed to create order"
	ErrDevGatewayRefund          = "payment gateway %s failed to refund transaction %s"
	ErrDevDoctorUnavailable      = "no active doctor shift covers hour %d and no fallback doctor configured"
	ErrDevConfirmationInProgress = "payment confirmation for session %s still in progress"
	ErrDevSessionBusy            = "workflow session %s is locked by another request"

	// Consultation messages
	ErrDevConsultationNotFound      = "consultation %s not found"
	ErrDevConsultationClosed        = "consultation %s is in terminal status %s"
	ErrDevInvalidStatusTransition   = "consultation cannot transition from %s to %s"
	ErrDevActiveConsultationExists  = "patient %s already has an active consultation"
	ErrDevConsultationConcurrentMod = "consultation %s was modified concurrently"
	ErrDevRefundInProgress          = "refund for consultation %s still in progress"
	ErrDevDoctorShiftNotFound       = "doctor shift %s not found"

	// Database messages
	ErrDevDBFailedToInsertDocument   = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument   = "failed to update document into database"
	ErrDevDBFailedToFindDocument     = "failed when do find document on database"
	ErrDevDBFailedToIterateDocuments = "failed when iterating documents from database"
	ErrDevDBFailedToCreateIndex      = "failed to create index on collection %s"
	ErrDevDBFailedToFindData         = "failed to find data on postgres database"
	ErrDevDBFailedToInsertData       = "failed to insert data into postgres database"
	ErrDevDBFailedToUpdateData       = "failed to update data on postgres database"

	// Minio messages
	ErrDevMinioFailedToCreateObject = "failed to create object into minio storage with bucket name '%s'"

	// Redis messages
	ErrDevRedisSetData        = "failed to SET data into redis"
	ErrDevRedisGetData        = "failed to GET data from redis"
	ErrDevRedisDeleteData     = "failed to DELETE data from redis"
	ErrDevRedisIncrementValue = "failed to INCR data in redis"
	ErrDevRedisTransaction    = "failed to run WATCH/MULTI transaction on key %s"
	ErrDevRedisUnlock         = "failed to release lock"

	// RabbitMQ messages
	ErrDevRabbitMQPublishMessage = "failed to publish message into queue %s"

	// Crypto messages
	ErrDevEncryptField = "failed to encrypt medical field"
	ErrDevDecryptField = "failed to decrypt medical field"

	// Server messages
	ErrDevServerProcess          = "server failed to process something related to machine system"
	ErrDevServerDeadlineExceeded = "deadline exceeded"
)

// Stable error codes returned to clients
const (
	ErrCodeSessionNotFound           = "SESSION_NOT_FOUND"
	ErrCodePhaseMismatch             = "PHASE_MISMATCH"
	ErrCodePaymentVerificationFailed = "PAYMENT_VERIFICATION_FAILED"
	ErrCodeGatewayUnavailable        = "GATEWAY_UNAVAILABLE"
	ErrCodeDoctorUnavailable         = "DOCTOR_UNAVAILABLE"
	ErrCodeConsultationClosed        = "CONSULTATION_CLOSED"
	ErrCodeConsultationNotFound      = "CONSULTATION_NOT_FOUND"
	ErrCodeActiveConsultationExists  = "ACTIVE_CONSULTATION_EXISTS"
	ErrCodeInvalidStatusTransition   = "INVALID_STATUS_TRANSITION"
	ErrCodeDoctorShiftNotFound       = "DOCTOR_SHIFT_NOT_FOUND"
	ErrCodeValidationFailed          = "VALIDATION_FAILED"
	ErrCodeUnauthorized              = "UNAUTHORIZED"
	ErrCodeForbidden                 = "FORBIDDEN"
	ErrCodeTimeout                   = "TIMEOUT"
	ErrCodeInternal                  = "INTERNAL_ERROR"
	ErrCodeRateLimited               = "RATE_LIMITED"
)
