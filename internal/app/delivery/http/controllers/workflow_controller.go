package controllers

import (
	"net/http"
	"sync"
	"time"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/delivery/http/middlewares"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/dto/requests"
	"teleconsult-service/internal/pkg/exceptions"
	"teleconsult-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// WorkflowController serves the patient-facing intake steps.
type WorkflowController struct {
	Log             *zap.Logger
	WorkflowUsecase contracts.WorkflowUsecase
}

var (
	workflowControllerInstance *WorkflowController
	onceWorkflowController     sync.Once
)

func NewWorkflowController(logger *zap.Logger, workflowUsecase contracts.WorkflowUsecase) *WorkflowController {
	onceWorkflowController.Do(func() {
		workflowControllerInstance = newWorkflowController(logger, workflowUsecase)
	})
	return workflowControllerInstance
}

func newWorkflowController(logger *zap.Logger, workflowUsecase contracts.WorkflowUsecase) *WorkflowController {
	return &WorkflowController{
		Log:             logger,
		WorkflowUsecase: workflowUsecase,
	}
}

func (ctrl *WorkflowController) CollectSymptoms(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := requestIDFrom(r)
	actor := middlewares.ActorFromContext(r.Context())

	request := new(requests.CollectSymptoms)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.SanitizeCollectSymptomsRequest(request)

	result, err := ctrl.WorkflowUsecase.CollectSymptoms(r.Context(), actor.ID, request)
	if err != nil {
		ctrl.Log.Error("WorkflowController.CollectSymptoms error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, actor.ID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "symptoms_collected", requestID,
		zap.String(constvars.LoggingSessionIDKey, result.SessionID),
		zap.String("severity", result.Severity),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SymptomsCollectedSuccessMessage, result)
}

func (ctrl *WorkflowController) SelectConsultation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := requestIDFrom(r)
	actor := middlewares.ActorFromContext(r.Context())

	request := new(requests.SelectConsultation)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.SanitizeSelectConsultationRequest(request)

	result, err := ctrl.WorkflowUsecase.SelectConsultation(r.Context(), actor.ID, request)
	if err != nil {
		ctrl.Log.Error("WorkflowController.SelectConsultation error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, request.SessionID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "consultation_type_selected", requestID,
		zap.String(constvars.LoggingSessionIDKey, result.SessionID),
		zap.String("consultation_type", result.ConsultationType),
		zap.String(constvars.LoggingPaymentIDKey, result.PaymentDetails.PaymentID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ConsultationSelectedSuccessMessage, result)
}

func (ctrl *WorkflowController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := requestIDFrom(r)
	actor := middlewares.ActorFromContext(r.Context())

	request := new(requests.ConfirmPayment)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.SanitizeConfirmPaymentRequest(request)

	result, err := ctrl.WorkflowUsecase.ConfirmPayment(r.Context(), actor.ID, request)
	if err != nil {
		ctrl.Log.Error("WorkflowController.ConfirmPayment error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, request.SessionID),
			zap.String(constvars.LoggingPaymentIDKey, request.PaymentID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "payment_confirmed", requestID,
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
		zap.String(constvars.LoggingPaymentIDKey, request.PaymentID),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentConfirmedSuccessMessage, result)
}

func (ctrl *WorkflowController) CollectDetailedSymptoms(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := requestIDFrom(r)
	actor := middlewares.ActorFromContext(r.Context())

	request := new(requests.CollectDetailedSymptoms)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.SanitizeCollectDetailedSymptomsRequest(request)

	result, err := ctrl.WorkflowUsecase.CollectDetailedSymptoms(r.Context(), actor.ID, request)
	if err != nil {
		ctrl.Log.Error("WorkflowController.CollectDetailedSymptoms error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClinicalSessionIDKey, request.ClinicalSessionID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "consultation_created", requestID,
		zap.String(constvars.LoggingConsultationIDKey, result.ConsultationID),
		zap.String(constvars.LoggingDoctorIDKey, result.AssignedDoctor),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.DetailedSymptomsCollectedSuccessMessage, result)
}

func (ctrl *WorkflowController) GetSession(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.ActorFromContext(r.Context())
	sessionID := chi.URLParam(r, constvars.URLParamSessionID)
	if sessionID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamSessionID))
		return
	}

	result, err := ctrl.WorkflowUsecase.GetSession(r.Context(), actor.ID, sessionID)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetSessionSuccessMessage, result)
}
