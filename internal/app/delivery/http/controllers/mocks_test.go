package controllers

import (
	"context"
	"time"

	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/dto/requests"
	"teleconsult-service/internal/pkg/dto/responses"

	"github.com/stretchr/testify/mock"
)

type mockWorkflowUsecase struct {
	mock.Mock
}

func (m *mockWorkflowUsecase) CollectSymptoms(ctx context.Context, patientID string, request *requests.CollectSymptoms) (*responses.CollectSymptoms, error) {
	args := m.Called(ctx, patientID, request)
	result, _ := args.Get(0).(*responses.CollectSymptoms)
	return result, args.Error(1)
}

func (m *mockWorkflowUsecase) SelectConsultation(ctx context.Context, patientID string, request *requests.SelectConsultation) (*responses.SelectConsultation, error) {
	args := m.Called(ctx, patientID, request)
	result, _ := args.Get(0).(*responses.SelectConsultation)
	return result, args.Error(1)
}

func (m *mockWorkflowUsecase) ConfirmPayment(ctx context.Context, patientID string, request *requests.ConfirmPayment) (*responses.ConfirmPayment, error) {
	args := m.Called(ctx, patientID, request)
	result, _ := args.Get(0).(*responses.ConfirmPayment)
	return result, args.Error(1)
}

func (m *mockWorkflowUsecase) CollectDetailedSymptoms(ctx context.Context, patientID string, request *requests.CollectDetailedSymptoms) (*responses.CollectDetailedSymptoms, error) {
	args := m.Called(ctx, patientID, request)
	result, _ := args.Get(0).(*responses.CollectDetailedSymptoms)
	return result, args.Error(1)
}

func (m *mockWorkflowUsecase) GetSession(ctx context.Context, patientID, sessionID string) (*responses.SessionView, error) {
	args := m.Called(ctx, patientID, sessionID)
	result, _ := args.Get(0).(*responses.SessionView)
	return result, args.Error(1)
}

type mockConsultationUsecase struct {
	mock.Mock
}

func (m *mockConsultationUsecase) GetConsultation(ctx context.Context, actorID, actorRole, consultationID string) (*models.Consultation, error) {
	args := m.Called(ctx, actorID, actorRole, consultationID)
	result, _ := args.Get(0).(*models.Consultation)
	return result, args.Error(1)
}

func (m *mockConsultationUsecase) ListPatientConsultations(ctx context.Context, patientID string, request *requests.ListConsultations) ([]models.Consultation, int, error) {
	args := m.Called(ctx, patientID, request)
	result, _ := args.Get(0).([]models.Consultation)
	return result, args.Int(1), args.Error(2)
}

func (m *mockConsultationUsecase) GetActiveConsultation(ctx context.Context, patientID string) (*models.Consultation, error) {
	args := m.Called(ctx, patientID)
	result, _ := args.Get(0).(*models.Consultation)
	return result, args.Error(1)
}

func (m *mockConsultationUsecase) UpdateStatus(ctx context.Context, actorID, actorRole string, request *requests.UpdateConsultationStatus) (*models.Consultation, error) {
	args := m.Called(ctx, actorID, actorRole, request)
	result, _ := args.Get(0).(*models.Consultation)
	return result, args.Error(1)
}

func (m *mockConsultationUsecase) RecordDiagnosis(ctx context.Context, doctorID string, request *requests.RecordDiagnosis) (*models.Consultation, error) {
	args := m.Called(ctx, doctorID, request)
	result, _ := args.Get(0).(*models.Consultation)
	return result, args.Error(1)
}

func (m *mockConsultationUsecase) RefundConsultation(ctx context.Context, actorID string, request *requests.RefundConsultation) (*models.Consultation, error) {
	args := m.Called(ctx, actorID, request)
	result, _ := args.Get(0).(*models.Consultation)
	return result, args.Error(1)
}

func (m *mockConsultationUsecase) ExpireStaleConsultations(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type mockDoctorShiftUsecase struct {
	mock.Mock
}

func (m *mockDoctorShiftUsecase) CreateShift(ctx context.Context, request *requests.CreateDoctorShift) (*models.DoctorShift, error) {
	args := m.Called(ctx, request)
	result, _ := args.Get(0).(*models.DoctorShift)
	return result, args.Error(1)
}

func (m *mockDoctorShiftUsecase) UpdateShift(ctx context.Context, request *requests.UpdateDoctorShift) (*models.DoctorShift, error) {
	args := m.Called(ctx, request)
	result, _ := args.Get(0).(*models.DoctorShift)
	return result, args.Error(1)
}

func (m *mockDoctorShiftUsecase) DeactivateShift(ctx context.Context, shiftID string) error {
	return m.Called(ctx, shiftID).Error(0)
}

func (m *mockDoctorShiftUsecase) ListShifts(ctx context.Context, request *requests.ListDoctorShifts) ([]models.DoctorShift, error) {
	args := m.Called(ctx, request)
	result, _ := args.Get(0).([]models.DoctorShift)
	return result, args.Error(1)
}

func (m *mockDoctorShiftUsecase) CurrentDoctor(ctx context.Context) (*responses.CurrentDoctor, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).(*responses.CurrentDoctor)
	return result, args.Error(1)
}
