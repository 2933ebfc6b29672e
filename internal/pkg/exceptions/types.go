package exceptions

import (
	"errors"
	"fmt"
	"teleconsult-service/internal/pkg/constvars"
)

// ErrStaleDocument marks a guarded write that lost to a concurrent update.
var ErrStaleDocument = errors.New("stored document changed since it was read")

var (
	ErrURLParamIDValidation = func(err error, paramName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamIDValidationFailed, paramName))
	}
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}

	// Auth
	ErrTokenMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, constvars.ErrDevAuthTokenMissing)
	}
	ErrTokenInvalidOrExpired = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenInvalidOrExpired)
	}
	ErrTooManyRequests = func(err error, window string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusTooManyRequests, constvars.ErrCodeRateLimited, constvars.ErrClientTooManyRequests, fmt.Sprintf(constvars.ErrDevRateLimited, window))
	}
	ErrRoleNotAllowed = func(err error, role string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientNotAuthorized, fmt.Sprintf(constvars.ErrDevAuthRoleNotAllowed, role))
	}

	// Workflow
	ErrSessionNotFound = func(err error, sessionID string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusNotFound, constvars.ErrCodeSessionNotFound, constvars.ErrClientSessionNotFound, fmt.Sprintf(constvars.ErrDevSessionNotFound, sessionID))
	}
	ErrPhaseMismatch = func(err error, actualPhase, expectedPhase string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusConflict, constvars.ErrCodePhaseMismatch, constvars.ErrClientPhaseMismatch, fmt.Sprintf(constvars.ErrDevPhaseMismatch, actualPhase, expectedPhase))
	}
	ErrConfirmationInProgress = func(err error, sessionID string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusConflict, constvars.ErrCodePhaseMismatch, constvars.ErrClientPhaseMismatch, fmt.Sprintf(constvars.ErrDevConfirmationInProgress, sessionID))
	}
	ErrSessionBusy = func(err error, sessionID string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusConflict, constvars.ErrCodePhaseMismatch, constvars.ErrClientSessionBusy, fmt.Sprintf(constvars.ErrDevSessionBusy, sessionID))
	}
	ErrPaymentIDMismatch = func(err error, paymentID, sessionID string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusPaymentRequired, constvars.ErrCodePaymentVerificationFailed, constvars.ErrClientPaymentVerificationFailed, fmt.Sprintf(constvars.ErrDevPaymentIDMismatch, paymentID, sessionID))
	}
	ErrPaymentVerificationFailed = func(err error, paymentID string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusPaymentRequired, constvars.ErrCodePaymentVerificationFailed, constvars.ErrClientPaymentVerificationFailed, fmt.Sprintf(constvars.ErrDevPaymentVerification, paymentID))
	}
	ErrPaymentSignatureMismatch = func(err error, paymentID string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusPaymentRequired, constvars.ErrCodePaymentVerificationFailed, constvars.ErrClientPaymentVerificationFailed, fmt.Sprintf(constvars.ErrDevPaymentSignature, paymentID))
	}
	ErrGatewayUnavailable = func(err error, provider string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusServiceUnavailable, constvars.ErrCodeGatewayUnavailable, constvars.ErrClientGatewayUnavailable, fmt.Sprintf(constvars.ErrDevGatewayUnavailable, provider))
	}
	ErrGatewayCreateOrder = func(err error, provider string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusServiceUnavailable, constvars.ErrCodeGatewayUnavailable, constvars.ErrClientGatewayUnavailable, fmt.Sprintf(constvars.ErrDevGatewayCreateOrder, provider))
	}
	ErrGatewayRefund = func(err error, provider, transactionID string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusServiceUnavailable, constvars.ErrCodeGatewayUnavailable, constvars.ErrClientGatewayUnavailable, fmt.Sprintf(constvars.ErrDevGatewayRefund, provider, transactionID))
	}
	ErrDoctorUnavailable = func(err error, hour int) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusServiceUnavailable, constvars.ErrCodeDoctorUnavailable, constvars.ErrClientDoctorUnavailable, fmt.Sprintf(constvars.ErrDevDoctorUnavailable, hour))
	}

	// Consultation
	ErrConsultationNotFound = func(err error, consultationID string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusNotFound, constvars.ErrCodeConsultationNotFound, constvars.ErrClientConsultationNotFound, fmt.Sprintf(constvars.ErrDevConsultationNotFound, consultationID))
	}
	ErrConsultationClosed = func(err error, consultationID, status string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusConflict, constvars.ErrCodeConsultationClosed, constvars.ErrClientConsultationClosed, fmt.Sprintf(constvars.ErrDevConsultationClosed, consultationID, status))
	}
	ErrInvalidStatusTransition = func(err error, from, to string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusConflict, constvars.ErrCodeInvalidStatusTransition, constvars.ErrClientInvalidStatusTransition, fmt.Sprintf(constvars.ErrDevInvalidStatusTransition, from, to))
	}
	ErrActiveConsultationExists = func(err error, patientID string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusConflict, constvars.ErrCodeActiveConsultationExists, constvars.ErrClientActiveConsultationExists, fmt.Sprintf(constvars.ErrDevActiveConsultationExists, patientID))
	}
	ErrConsultationConcurrentModification = func(err error, consultationID string) *CustomError {
		if err == nil {
			err = ErrStaleDocument
		}
		return BuildNewCustomErrorWithCode(err, constvars.StatusConflict, constvars.ErrCodeInvalidStatusTransition, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevConsultationConcurrentMod, consultationID))
	}
	ErrRefundInProgress = func(err error, consultationID string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusConflict, constvars.ErrCodeInvalidStatusTransition, constvars.ErrClientRefundInProgress, fmt.Sprintf(constvars.ErrDevRefundInProgress, consultationID))
	}
	ErrDoctorShiftNotFound = func(err error, shiftID string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusNotFound, constvars.ErrCodeDoctorShiftNotFound, constvars.ErrClientDoctorShiftNotFound, fmt.Sprintf(constvars.ErrDevDoctorShiftNotFound, shiftID))
	}

	// Mongo DB
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToFindDocument)
	}
	ErrMongoDBIterateDocuments = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToIterateDocuments)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToUpdateDocument)
	}
	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToInsertDocument)
	}
	ErrMongoDBCreateIndex = func(err error, collection string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevDBFailedToCreateIndex, collection))
	}

	// Postgres DB
	ErrPostgresDBFindData = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToFindData)
	}
	ErrPostgresDBInsertData = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToInsertData)
	}
	ErrPostgresDBUpdateData = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToUpdateData)
	}

	// Minio
	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioFailedToCreateObject, bucketName))
	}

	// Redis
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDeleteData)
	}
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisGetData)
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData)
	}
	ErrRedisIncrement = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisIncrementValue)
	}
	ErrRedisTransaction = func(err error, key string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRedisTransaction, key))
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisUnlock)
	}

	// RabbitMQ
	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, queueName))
	}

	// Crypto
	ErrEncryptField = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevEncryptField)
	}
	ErrDecryptField = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDecryptField)
	}

	// HTTP
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCreateHTTPRequest)
	}

	// Default Server
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevServerProcess)
	}
)
