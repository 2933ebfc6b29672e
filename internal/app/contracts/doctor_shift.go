package contracts

import (
	"context"
	"time"

	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/dto/requests"
	"teleconsult-service/internal/pkg/dto/responses"
)

type DoctorShiftRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, shift *models.DoctorShift) error
	FindByID(ctx context.Context, shiftID string) (*models.DoctorShift, error)
	Find(ctx context.Context, status, doctorID string) ([]models.DoctorShift, error)
	Update(ctx context.Context, shift *models.DoctorShift) error
}

// DoctorResolver maps a point in time to the responsible doctor.
type DoctorResolver interface {
	Resolve(ctx context.Context, at time.Time) (*models.DoctorAssignment, error)
	Invalidate(ctx context.Context) error
}

type DoctorShiftUsecase interface {
	CreateShift(ctx context.Context, request *requests.CreateDoctorShift) (*models.DoctorShift, error)
	UpdateShift(ctx context.Context, request *requests.UpdateDoctorShift) (*models.DoctorShift, error)
	DeactivateShift(ctx context.Context, shiftID string) error
	ListShifts(ctx context.Context, request *requests.ListDoctorShifts) ([]models.DoctorShift, error)
	CurrentDoctor(ctx context.Context) (*responses.CurrentDoctor, error)
}
