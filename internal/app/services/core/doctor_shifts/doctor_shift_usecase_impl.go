package doctor_shifts

import (
	"context"
	"sync"
	"time"

	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/dto/requests"
	"teleconsult-service/internal/pkg/dto/responses"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	doctorShiftUsecaseInstance contracts.DoctorShiftUsecase
	onceDoctorShiftUsecase     sync.Once
)

type doctorShiftUsecase struct {
	Repository contracts.DoctorShiftRepository
	Resolver   contracts.DoctorResolver
	Location   *time.Location
	Log        *zap.Logger
	now        func() time.Time
}

func NewDoctorShiftUsecase(repository contracts.DoctorShiftRepository, resolver contracts.DoctorResolver, internalConfig *config.InternalConfig, logger *zap.Logger) contracts.DoctorShiftUsecase {
	onceDoctorShiftUsecase.Do(func() {
		location, err := time.LoadLocation(internalConfig.App.Timezone)
		if err != nil {
			logger.Warn("doctorShiftUsecase unknown timezone, using UTC",
				zap.String("timezone", internalConfig.App.Timezone),
				zap.Error(err),
			)
			location = time.UTC
		}
		doctorShiftUsecaseInstance = newDoctorShiftUsecase(repository, resolver, location, logger)
	})
	return doctorShiftUsecaseInstance
}

func newDoctorShiftUsecase(repository contracts.DoctorShiftRepository, resolver contracts.DoctorResolver, location *time.Location, logger *zap.Logger) *doctorShiftUsecase {
	return &doctorShiftUsecase{
		Repository: repository,
		Resolver:   resolver,
		Location:   location,
		Log:        logger,
		now:        time.Now,
	}
}

func (uc *doctorShiftUsecase) CreateShift(ctx context.Context, request *requests.CreateDoctorShift) (*models.DoctorShift, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorShiftUsecase.CreateShift called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
	)

	shift := &models.DoctorShift{
		ShiftID:       uuid.NewString(),
		ShiftType:     request.ShiftType,
		DoctorID:      request.DoctorID,
		StartHour:     *request.StartHour,
		EndHour:       *request.EndHour,
		Status:        models.ShiftStatusActive,
		EffectiveFrom: request.EffectiveFrom,
		EffectiveTo:   request.EffectiveTo,
	}
	shift.CreatedAt = uc.now()
	shift.UpdatedAt = shift.CreatedAt

	if err := uc.Repository.Create(ctx, shift); err != nil {
		uc.Log.Error("doctorShiftUsecase.CreateShift error creating shift",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.invalidate(ctx, "CreateShift")

	uc.Log.Info("doctorShiftUsecase.CreateShift succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingShiftIDKey, shift.ShiftID),
	)
	return shift, nil
}

func (uc *doctorShiftUsecase) UpdateShift(ctx context.Context, request *requests.UpdateDoctorShift) (*models.DoctorShift, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorShiftUsecase.UpdateShift called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingShiftIDKey, request.ShiftID),
	)

	shift, err := uc.Repository.FindByID(ctx, request.ShiftID)
	if err != nil {
		return nil, err
	}

	if request.ShiftType != "" {
		shift.ShiftType = request.ShiftType
	}
	if request.DoctorID != "" {
		shift.DoctorID = request.DoctorID
	}
	if request.StartHour != nil {
		shift.StartHour = *request.StartHour
	}
	if request.EndHour != nil {
		shift.EndHour = *request.EndHour
	}
	if request.Status != "" {
		shift.Status = request.Status
	}
	if request.EffectiveFrom != nil {
		shift.EffectiveFrom = request.EffectiveFrom
	}
	if request.EffectiveTo != nil {
		shift.EffectiveTo = request.EffectiveTo
	}
	shift.UpdatedAt = uc.now()

	if err := uc.Repository.Update(ctx, shift); err != nil {
		uc.Log.Error("doctorShiftUsecase.UpdateShift error updating shift",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.invalidate(ctx, "UpdateShift")
	return shift, nil
}

func (uc *doctorShiftUsecase) DeactivateShift(ctx context.Context, shiftID string) error {
	_, err := uc.UpdateShift(ctx, &requests.UpdateDoctorShift{ShiftID: shiftID, Status: models.ShiftStatusInactive})
	return err
}

func (uc *doctorShiftUsecase) ListShifts(ctx context.Context, request *requests.ListDoctorShifts) ([]models.DoctorShift, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorShiftUsecase.ListShifts called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return uc.Repository.Find(ctx, request.Status, request.DoctorID)
}

func (uc *doctorShiftUsecase) CurrentDoctor(ctx context.Context) (*responses.CurrentDoctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorShiftUsecase.CurrentDoctor called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	assignment, err := uc.Resolver.Resolve(ctx, uc.now().In(uc.Location))
	if err != nil {
		return nil, err
	}

	return &responses.CurrentDoctor{
		ActiveDoctorID: assignment.DoctorID,
		Hour:           assignment.Hour,
		Fallback:       assignment.Fallback,
	}, nil
}

// invalidate failures are tolerated; stale assignments age out with the cache TTL.
func (uc *doctorShiftUsecase) invalidate(ctx context.Context, operation string) {
	if err := uc.Resolver.Invalidate(ctx); err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		uc.Log.Error("doctorShiftUsecase failed to invalidate doctor cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOperationKey, operation),
			zap.Error(err),
		)
	}
}
