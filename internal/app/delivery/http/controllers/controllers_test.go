package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/dto/requests"
	"teleconsult-service/internal/pkg/dto/responses"
	"teleconsult-service/internal/pkg/exceptions"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSessionID = "0b8a3f2e-4f0c-4a4e-9d57-1c2f9a6b7e10"

type envelope struct {
	Success    bool                  `json:"success"`
	Message    string                `json:"message"`
	ErrorCode  string                `json:"error_code"`
	Data       json.RawMessage       `json:"data"`
	Pagination *responses.Pagination `json:"pagination"`
}

func serve(t *testing.T, router http.Handler, method, path, body, actorID, actorRole string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	ctx := context.WithValue(req.Context(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
	ctx = context.WithValue(ctx, constvars.CONTEXT_ACTOR_ID_KEY, actorID)
	ctx = context.WithValue(ctx, constvars.CONTEXT_ACTOR_ROLE_KEY, actorRole)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func workflowRouter(usecase *mockWorkflowUsecase) http.Handler {
	ctrl := newWorkflowController(zap.NewNop(), usecase)
	r := chi.NewRouter()
	r.Post("/symptoms/collect", ctrl.CollectSymptoms)
	r.Post("/select-consultation", ctrl.SelectConsultation)
	r.Post("/confirm-payment", ctrl.ConfirmPayment)
	r.Post("/symptoms/collect_detailed_symptoms", ctrl.CollectDetailedSymptoms)
	r.Get("/sessions/{sessionId}", ctrl.GetSession)
	return r
}

func TestWorkflowController_CollectSymptoms(t *testing.T) {
	usecase := new(mockWorkflowUsecase)
	router := workflowRouter(usecase)

	usecase.On("CollectSymptoms", mock.Anything, "patient-1", mock.MatchedBy(func(req *requests.CollectSymptoms) bool {
		return len(req.Symptoms) == 2 && req.Symptoms[0] == "fever" && req.Severity == "severe"
	})).Return(&responses.CollectSymptoms{SessionID: testSessionID, Severity: "severe", RecommendedConsultationType: "video"}, nil).Once()

	body := `{"symptoms":["  fever ","cough"],"severity":"severe","age":34,"gender":"male","durationDays":2}`
	rec, env := serve(t, router, http.MethodPost, "/symptoms/collect", body, "patient-1", constvars.RolePatient)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	var data responses.CollectSymptoms
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, testSessionID, data.SessionID)
	assert.Equal(t, "video", data.RecommendedConsultationType)
	usecase.AssertExpectations(t)
}

func TestWorkflowController_CollectSymptomsValidation(t *testing.T) {
	usecase := new(mockWorkflowUsecase)
	router := workflowRouter(usecase)

	rec, env := serve(t, router, http.MethodPost, "/symptoms/collect", `{"symptoms":[],"severity":"extreme"}`, "patient-1", constvars.RolePatient)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, constvars.ErrCodeValidationFailed, env.ErrorCode)

	rec, _ = serve(t, router, http.MethodPost, "/symptoms/collect", `{not json`, "patient-1", constvars.RolePatient)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	usecase.AssertNotCalled(t, "CollectSymptoms", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkflowController_ConfirmPaymentErrors(t *testing.T) {
	usecase := new(mockWorkflowUsecase)
	router := workflowRouter(usecase)
	body := `{"sessionId":"` + testSessionID + `","paymentId":"pay_other"}`

	usecase.On("ConfirmPayment", mock.Anything, "patient-1", mock.Anything).
		Return(nil, exceptions.ErrPaymentIDMismatch(nil, "pay_other", testSessionID)).Once()
	rec, env := serve(t, router, http.MethodPost, "/confirm-payment", body, "patient-1", constvars.RolePatient)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, constvars.ErrCodePaymentVerificationFailed, env.ErrorCode)

	usecase.On("ConfirmPayment", mock.Anything, "patient-1", mock.Anything).
		Return(nil, context.DeadlineExceeded).Once()
	rec, env = serve(t, router, http.MethodPost, "/confirm-payment", body, "patient-1", constvars.RolePatient)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, constvars.ErrCodeTimeout, env.ErrorCode)
}

func TestWorkflowController_GetSession(t *testing.T) {
	usecase := new(mockWorkflowUsecase)
	router := workflowRouter(usecase)

	usecase.On("GetSession", mock.Anything, "patient-1", testSessionID).
		Return(&responses.SessionView{SessionID: testSessionID, Phase: "PAYMENT_PENDING"}, nil).Once()
	rec, env := serve(t, router, http.MethodGet, "/sessions/"+testSessionID, "", "patient-1", constvars.RolePatient)
	assert.Equal(t, http.StatusOK, rec.Code)
	var data responses.SessionView
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "PAYMENT_PENDING", data.Phase)

	usecase.On("GetSession", mock.Anything, "patient-1", "missing").
		Return(nil, exceptions.ErrSessionNotFound(nil, "missing")).Once()
	rec, env = serve(t, router, http.MethodGet, "/sessions/missing", "", "patient-1", constvars.RolePatient)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, constvars.ErrCodeSessionNotFound, env.ErrorCode)
}

func TestConsultationController_ListConsultations(t *testing.T) {
	usecase := new(mockConsultationUsecase)
	ctrl := newConsultationController(zap.NewNop(), usecase)
	router := chi.NewRouter()
	router.Get("/consultations", ctrl.ListConsultations)

	usecase.On("ListPatientConsultations", mock.Anything, "patient-1", &requests.ListConsultations{Page: 2, PageSize: 5}).
		Return([]models.Consultation{{ConsultationID: "c-6"}}, 11, nil).Once()

	rec, env := serve(t, router, http.MethodGet, "/consultations?page=2&page_size=5", "", "patient-1", constvars.RolePatient)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 11, env.Pagination.Total)
	assert.Equal(t, "/consultations?page=3&page_size=5", env.Pagination.NextURL)
	assert.Equal(t, "/consultations?page=1&page_size=5", env.Pagination.PrevURL)
	usecase.AssertExpectations(t)
}

func TestConsultationController_UpdateStatus(t *testing.T) {
	usecase := new(mockConsultationUsecase)
	ctrl := newConsultationController(zap.NewNop(), usecase)
	router := chi.NewRouter()
	router.Patch("/consultations/{consultationId}/status", ctrl.UpdateStatus)

	usecase.On("UpdateStatus", mock.Anything, "doctor-1", constvars.RoleDoctor, &requests.UpdateConsultationStatus{
		ConsultationID: "c-1",
		Status:         "IN_PROGRESS",
	}).Return(&models.Consultation{ConsultationID: "c-1", Status: models.ConsultationInProgress}, nil).Once()
	rec, _ := serve(t, router, http.MethodPatch, "/consultations/c-1/status", `{"status":"IN_PROGRESS"}`, "doctor-1", constvars.RoleDoctor)
	assert.Equal(t, http.StatusOK, rec.Code)

	usecase.On("UpdateStatus", mock.Anything, "doctor-1", constvars.RoleDoctor, mock.Anything).
		Return(nil, exceptions.ErrInvalidStatusTransition(nil, "COMPLETED", "IN_PROGRESS")).Once()
	rec, env := serve(t, router, http.MethodPatch, "/consultations/c-1/status", `{"status":"IN_PROGRESS"}`, "doctor-1", constvars.RoleDoctor)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, constvars.ErrCodeInvalidStatusTransition, env.ErrorCode)

	rec, env = serve(t, router, http.MethodPatch, "/consultations/c-1/status", `{"status":"DRAFTED"}`, "doctor-1", constvars.RoleDoctor)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, constvars.ErrCodeValidationFailed, env.ErrorCode)
	usecase.AssertExpectations(t)
}

func TestDoctorShiftController(t *testing.T) {
	usecase := new(mockDoctorShiftUsecase)
	ctrl := newDoctorShiftController(zap.NewNop(), usecase)
	router := chi.NewRouter()
	router.Get("/doctor-shifts/current-doctor", ctrl.CurrentDoctor)
	router.Post("/doctor-shifts", ctrl.CreateShift)
	router.Delete("/doctor-shifts/{shiftId}", ctrl.DeactivateShift)

	t.Run("current doctor", func(t *testing.T) {
		usecase.On("CurrentDoctor", mock.Anything).Return(&responses.CurrentDoctor{ActiveDoctorID: "dr-night", Hour: 23}, nil).Once()
		rec, env := serve(t, router, http.MethodGet, "/doctor-shifts/current-doctor", "", "patient-1", constvars.RolePatient)
		assert.Equal(t, http.StatusOK, rec.Code)
		var data responses.CurrentDoctor
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "dr-night", data.ActiveDoctorID)
	})

	t.Run("create accepts midnight start", func(t *testing.T) {
		usecase.On("CreateShift", mock.Anything, mock.MatchedBy(func(req *requests.CreateDoctorShift) bool {
			return req.StartHour != nil && *req.StartHour == 0 && *req.EndHour == 8
		})).Return(&models.DoctorShift{ShiftID: "s-1", DoctorID: "dr-night"}, nil).Once()
		rec, _ := serve(t, router, http.MethodPost, "/doctor-shifts",
			`{"shiftType":"night","doctorId":"dr-night","startHour":0,"endHour":8}`, "admin-1", constvars.RoleAdmin)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("create rejects out of range hour", func(t *testing.T) {
		rec, env := serve(t, router, http.MethodPost, "/doctor-shifts",
			`{"shiftType":"night","doctorId":"dr-night","startHour":24,"endHour":8}`, "admin-1", constvars.RoleAdmin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, constvars.ErrCodeValidationFailed, env.ErrorCode)
	})

	t.Run("deactivate unknown shift", func(t *testing.T) {
		usecase.On("DeactivateShift", mock.Anything, "s-404").Return(exceptions.ErrDoctorShiftNotFound(nil, "s-404")).Once()
		rec, env := serve(t, router, http.MethodDelete, "/doctor-shifts/s-404", "", "admin-1", constvars.RoleAdmin)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, constvars.ErrCodeDoctorShiftNotFound, env.ErrorCode)
	})

	usecase.AssertExpectations(t)
}
