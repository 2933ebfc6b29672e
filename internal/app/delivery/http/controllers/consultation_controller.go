package controllers

import (
	"net/http"
	"sync"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/delivery/http/middlewares"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/dto/requests"
	"teleconsult-service/internal/pkg/exceptions"
	"teleconsult-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ConsultationController struct {
	Log                 *zap.Logger
	ConsultationUsecase contracts.ConsultationUsecase
}

var (
	consultationControllerInstance *ConsultationController
	onceConsultationController     sync.Once
)

func NewConsultationController(logger *zap.Logger, consultationUsecase contracts.ConsultationUsecase) *ConsultationController {
	onceConsultationController.Do(func() {
		consultationControllerInstance = newConsultationController(logger, consultationUsecase)
	})
	return consultationControllerInstance
}

func newConsultationController(logger *zap.Logger, consultationUsecase contracts.ConsultationUsecase) *ConsultationController {
	return &ConsultationController{
		Log:                 logger,
		ConsultationUsecase: consultationUsecase,
	}
}

func (ctrl *ConsultationController) GetActiveConsultation(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.ActorFromContext(r.Context())
	result, err := ctrl.ConsultationUsecase.GetActiveConsultation(r.Context(), actor.ID)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetConsultationSuccessMessage, result)
}

func (ctrl *ConsultationController) ListConsultations(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.ActorFromContext(r.Context())
	page, pageSize := utils.BuildPaginationRequest(r)
	request := &requests.ListConsultations{Page: page, PageSize: pageSize}

	result, total, err := ctrl.ConsultationUsecase.ListPatientConsultations(r.Context(), actor.ID, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	pagination := utils.BuildPaginationResponse(total, page, pageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.GetConsultationsSuccessMessage, pagination, result)
}

func (ctrl *ConsultationController) GetConsultation(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.ActorFromContext(r.Context())
	consultationID := chi.URLParam(r, constvars.URLParamConsultationID)
	if consultationID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamConsultationID))
		return
	}

	result, err := ctrl.ConsultationUsecase.GetConsultation(r.Context(), actor.ID, actor.Role, consultationID)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetConsultationSuccessMessage, result)
}

func (ctrl *ConsultationController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.ActorFromContext(r.Context())
	request := &requests.UpdateConsultationStatus{ConsultationID: chi.URLParam(r, constvars.URLParamConsultationID)}
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.ConsultationUsecase.UpdateStatus(r.Context(), actor.ID, actor.Role, request)
	if err != nil {
		ctrl.Log.Warn("ConsultationController.UpdateStatus rejected",
			zap.String(constvars.LoggingRequestIDKey, requestIDFrom(r)),
			zap.String(constvars.LoggingConsultationIDKey, request.ConsultationID),
			zap.String("target_status", request.Status),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "consultation_status_updated", requestIDFrom(r),
		zap.String(constvars.LoggingConsultationIDKey, result.ConsultationID),
		zap.String("status", result.Status.String()),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateConsultationStatusSuccessMessage, result)
}

func (ctrl *ConsultationController) RecordDiagnosis(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.ActorFromContext(r.Context())
	request := &requests.RecordDiagnosis{ConsultationID: chi.URLParam(r, constvars.URLParamConsultationID)}
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.ConsultationUsecase.RecordDiagnosis(r.Context(), actor.ID, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "diagnosis_recorded", requestIDFrom(r),
		zap.String(constvars.LoggingConsultationIDKey, result.ConsultationID),
		zap.String(constvars.LoggingDoctorIDKey, actor.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RecordDiagnosisSuccessMessage, result)
}

func (ctrl *ConsultationController) RefundConsultation(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.ActorFromContext(r.Context())
	request := &requests.RefundConsultation{ConsultationID: chi.URLParam(r, constvars.URLParamConsultationID)}
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.ConsultationUsecase.RefundConsultation(r.Context(), actor.ID, request)
	if err != nil {
		ctrl.Log.Error("ConsultationController.RefundConsultation error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestIDFrom(r)),
			zap.String(constvars.LoggingConsultationIDKey, request.ConsultationID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "consultation_refunded", requestIDFrom(r), utils.SeverityMedium,
		zap.String(constvars.LoggingConsultationIDKey, result.ConsultationID),
		zap.String("actor_id", actor.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RefundConsultationSuccessMessage, result)
}
