package controllers

import (
	"net/http"
	"sync"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/dto/requests"
	"teleconsult-service/internal/pkg/exceptions"
	"teleconsult-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DoctorShiftController struct {
	Log                *zap.Logger
	DoctorShiftUsecase contracts.DoctorShiftUsecase
}

var (
	doctorShiftControllerInstance *DoctorShiftController
	onceDoctorShiftController     sync.Once
)

func NewDoctorShiftController(logger *zap.Logger, doctorShiftUsecase contracts.DoctorShiftUsecase) *DoctorShiftController {
	onceDoctorShiftController.Do(func() {
		doctorShiftControllerInstance = newDoctorShiftController(logger, doctorShiftUsecase)
	})
	return doctorShiftControllerInstance
}

func newDoctorShiftController(logger *zap.Logger, doctorShiftUsecase contracts.DoctorShiftUsecase) *DoctorShiftController {
	return &DoctorShiftController{
		Log:                logger,
		DoctorShiftUsecase: doctorShiftUsecase,
	}
}

func (ctrl *DoctorShiftController) CurrentDoctor(w http.ResponseWriter, r *http.Request) {
	result, err := ctrl.DoctorShiftUsecase.CurrentDoctor(r.Context())
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetCurrentDoctorSuccessMessage, result)
}

func (ctrl *DoctorShiftController) ListShifts(w http.ResponseWriter, r *http.Request) {
	request := &requests.ListDoctorShifts{
		Status:   r.URL.Query().Get(constvars.URLQueryParamStatus),
		DoctorID: r.URL.Query().Get(constvars.URLQueryParamDoctorID),
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	result, err := ctrl.DoctorShiftUsecase.ListShifts(r.Context(), request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDoctorShiftsSuccessMessage, result)
}

func (ctrl *DoctorShiftController) CreateShift(w http.ResponseWriter, r *http.Request) {
	request := new(requests.CreateDoctorShift)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.DoctorShiftUsecase.CreateShift(r.Context(), request)
	if err != nil {
		ctrl.Log.Error("DoctorShiftController.CreateShift error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestIDFrom(r)),
			zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "doctor_shift_created", requestIDFrom(r),
		zap.String(constvars.LoggingShiftIDKey, result.ShiftID),
		zap.String(constvars.LoggingDoctorIDKey, result.DoctorID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateDoctorShiftSuccessMessage, result)
}

func (ctrl *DoctorShiftController) UpdateShift(w http.ResponseWriter, r *http.Request) {
	request := &requests.UpdateDoctorShift{ShiftID: chi.URLParam(r, constvars.URLParamShiftID)}
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.DoctorShiftUsecase.UpdateShift(r.Context(), request)
	if err != nil {
		ctrl.Log.Error("DoctorShiftController.UpdateShift error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestIDFrom(r)),
			zap.String(constvars.LoggingShiftIDKey, request.ShiftID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "doctor_shift_updated", requestIDFrom(r),
		zap.String(constvars.LoggingShiftIDKey, result.ShiftID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateDoctorShiftSuccessMessage, result)
}

func (ctrl *DoctorShiftController) DeactivateShift(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, constvars.URLParamShiftID)
	if shiftID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamShiftID))
		return
	}

	if err := ctrl.DoctorShiftUsecase.DeactivateShift(r.Context(), shiftID); err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "doctor_shift_deactivated", requestIDFrom(r),
		zap.String(constvars.LoggingShiftIDKey, shiftID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeactivateDoctorShiftSuccessMessage, nil)
}
