package contracts

import (
	"context"
	"time"

	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/dto/requests"
)

type ConsultationRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, consultation *models.Consultation) error
	FindByID(ctx context.Context, consultationID string) (*models.Consultation, error)
	FindByClinicalSessionID(ctx context.Context, clinicalSessionID string) (*models.Consultation, error)
	FindActiveByPatientID(ctx context.Context, patientID string) (*models.Consultation, error)
	FindByPatientID(ctx context.Context, patientID string, page, pageSize int) ([]models.Consultation, int, error)
	FindStale(ctx context.Context, status models.ConsultationStatus, updatedBefore time.Time, limit int) ([]models.Consultation, error)
	// Update replaces the stored consultation if its updatedAt still equals
	// previousUpdatedAt.
	Update(ctx context.Context, consultation *models.Consultation, previousUpdatedAt time.Time) error
}

type ConsultationUsecase interface {
	GetConsultation(ctx context.Context, actorID, actorRole, consultationID string) (*models.Consultation, error)
	ListPatientConsultations(ctx context.Context, patientID string, request *requests.ListConsultations) ([]models.Consultation, int, error)
	GetActiveConsultation(ctx context.Context, patientID string) (*models.Consultation, error)
	UpdateStatus(ctx context.Context, actorID, actorRole string, request *requests.UpdateConsultationStatus) (*models.Consultation, error)
	RecordDiagnosis(ctx context.Context, doctorID string, request *requests.RecordDiagnosis) (*models.Consultation, error)
	RefundConsultation(ctx context.Context, actorID string, request *requests.RefundConsultation) (*models.Consultation, error)
	ExpireStaleConsultations(ctx context.Context, now time.Time) (int, error)
}
