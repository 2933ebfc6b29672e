package consultations

import (
	"context"
	"errors"
	"sync"
	"time"

	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/dto/requests"
	"teleconsult-service/internal/pkg/exceptions"
	"teleconsult-service/internal/pkg/utils"

	"go.uber.org/zap"
)

const (
	defaultPageSize        = 10
	defaultStaleAfter      = 48 * time.Hour
	defaultExpiryBatchSize = 100
	expiryReason           = "no activity since doctor assignment"
	defaultRefundLockTTL   = 2 * time.Minute
	refundWriteAttempts    = 3
)

var (
	consultationUsecaseInstance contracts.ConsultationUsecase
	onceConsultationUsecase     sync.Once
)

type consultationUsecase struct {
	Repository      contracts.ConsultationRepository
	PaymentGateway  contracts.PaymentGateway
	PaymentLedger   contracts.PaymentLedgerRepository
	Locker          contracts.LockerService
	AuditPublisher  contracts.AuditPublisher
	StaleAfter      time.Duration
	RefundLockTTL   time.Duration
	ExpiryBatchSize int
	Log             *zap.Logger
	now             func() time.Time
}

func NewConsultationUsecase(
	repository contracts.ConsultationRepository,
	paymentGateway contracts.PaymentGateway,
	paymentLedger contracts.PaymentLedgerRepository,
	lockerService contracts.LockerService,
	auditPublisher contracts.AuditPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ConsultationUsecase {
	onceConsultationUsecase.Do(func() {
		uc := newConsultationUsecase(repository, paymentGateway, paymentLedger, lockerService, auditPublisher, logger)
		if internalConfig.Consultation.StaleAfterInHours > 0 {
			uc.StaleAfter = time.Duration(internalConfig.Consultation.StaleAfterInHours) * time.Hour
		}
		if internalConfig.Consultation.ExpiryBatchSize > 0 {
			uc.ExpiryBatchSize = internalConfig.Consultation.ExpiryBatchSize
		}
		consultationUsecaseInstance = uc
	})
	return consultationUsecaseInstance
}

func newConsultationUsecase(
	repository contracts.ConsultationRepository,
	paymentGateway contracts.PaymentGateway,
	paymentLedger contracts.PaymentLedgerRepository,
	lockerService contracts.LockerService,
	auditPublisher contracts.AuditPublisher,
	logger *zap.Logger,
) *consultationUsecase {
	return &consultationUsecase{
		Repository:      repository,
		PaymentGateway:  paymentGateway,
		PaymentLedger:   paymentLedger,
		Locker:          lockerService,
		AuditPublisher:  auditPublisher,
		StaleAfter:      defaultStaleAfter,
		RefundLockTTL:   defaultRefundLockTTL,
		ExpiryBatchSize: defaultExpiryBatchSize,
		Log:             logger,
		now:             time.Now,
	}
}

func (uc *consultationUsecase) GetConsultation(ctx context.Context, actorID, actorRole, consultationID string) (*models.Consultation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("consultationUsecase.GetConsultation called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingConsultationIDKey, consultationID),
	)

	return uc.findVisible(ctx, actorID, actorRole, consultationID)
}

func (uc *consultationUsecase) ListPatientConsultations(ctx context.Context, patientID string, request *requests.ListConsultations) ([]models.Consultation, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("consultationUsecase.ListPatientConsultations called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	page, pageSize := request.Page, request.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return uc.Repository.FindByPatientID(ctx, patientID, page, pageSize)
}

func (uc *consultationUsecase) GetActiveConsultation(ctx context.Context, patientID string) (*models.Consultation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("consultationUsecase.GetActiveConsultation called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	consultation, err := uc.Repository.FindActiveByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, exceptions.ErrConsultationNotFound(nil, "active")
	}
	return consultation, nil
}

func (uc *consultationUsecase) UpdateStatus(ctx context.Context, actorID, actorRole string, request *requests.UpdateConsultationStatus) (*models.Consultation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("consultationUsecase.UpdateStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingConsultationIDKey, request.ConsultationID),
		zap.String(constvars.LoggingConsultationStatus, request.Status),
	)

	consultation, err := uc.findVisible(ctx, actorID, actorRole, request.ConsultationID)
	if err != nil {
		return nil, err
	}

	to := models.ConsultationStatus(request.Status)
	if err := allowedTransitionFor(actorRole, consultation, to); err != nil {
		uc.rejected(ctx, consultation, consultation.Status, to, actorID, err)
		return nil, err
	}

	if err := uc.transition(ctx, consultation, to, actorID, request.Reason); err != nil {
		return nil, err
	}
	return consultation, nil
}

func (uc *consultationUsecase) RecordDiagnosis(ctx context.Context, doctorID string, request *requests.RecordDiagnosis) (*models.Consultation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("consultationUsecase.RecordDiagnosis called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingConsultationIDKey, request.ConsultationID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	consultation, err := uc.findVisible(ctx, doctorID, constvars.RoleDoctor, request.ConsultationID)
	if err != nil {
		return nil, err
	}

	switch consultation.Status {
	case models.ConsultationDoctorAssigned, models.ConsultationInProgress:
	default:
		err := models.CheckTransition(consultation.ConsultationID, consultation.Status, models.ConsultationInProgress)
		if err == nil {
			err = exceptions.ErrInvalidStatusTransition(nil, consultation.Status.String(), models.ConsultationInProgress.String())
		}
		uc.rejected(ctx, consultation, consultation.Status, models.ConsultationInProgress, doctorID, err)
		return nil, err
	}

	previousUpdatedAt := consultation.UpdatedAt
	now := uc.now()
	if consultation.Status == models.ConsultationDoctorAssigned {
		if err := consultation.Transition(models.ConsultationInProgress, doctorID, "diagnosis recorded", now); err != nil {
			return nil, err
		}
	}

	consultation.DoctorDiagnosis = request.Diagnosis
	consultation.Prescriptions = make([]models.Prescription, 0, len(request.Prescriptions))
	for _, p := range request.Prescriptions {
		consultation.Prescriptions = append(consultation.Prescriptions, models.Prescription{
			Medication:   p.Medication,
			Dosage:       p.Dosage,
			Frequency:    p.Frequency,
			DurationDays: p.DurationDays,
			Instructions: p.Instructions,
		})
	}
	consultation.UpdatedAt = now

	if err := uc.Repository.Update(ctx, consultation, previousUpdatedAt); err != nil {
		uc.Log.Error("consultationUsecase.RecordDiagnosis error updating consultation",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingConsultationIDKey, consultation.ConsultationID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.publishStatusChanged(ctx, consultation, doctorID, "diagnosis recorded")
	return consultation, nil
}

// RefundConsultation returns the captured payment and closes the consultation.
// Refunds of one consultation are serialized by a lock, and a refund of an
// already refunded consultation returns it without calling the gateway.
func (uc *consultationUsecase) RefundConsultation(ctx context.Context, actorID string, request *requests.RefundConsultation) (*models.Consultation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("consultationUsecase.RefundConsultation called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingConsultationIDKey, request.ConsultationID),
	)

	consultation, err := uc.refundable(ctx, actorID, request.ConsultationID)
	if err != nil || consultation.Status == models.ConsultationRefunded {
		return consultation, err
	}

	lockKey := constvars.RedisKeyConsultationRefundLock + consultation.ConsultationID
	acquired, token, err := uc.Locker.TryLock(ctx, lockKey, uc.RefundLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		uc.Log.Warn("consultationUsecase.RefundConsultation refund already in progress",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingConsultationIDKey, consultation.ConsultationID),
		)
		return nil, exceptions.ErrRefundInProgress(nil, consultation.ConsultationID)
	}
	defer uc.unlock(ctx, lockKey, token)

	// The previous holder may have refunded between our read and the lock.
	consultation, err = uc.refundable(ctx, actorID, request.ConsultationID)
	if err != nil || consultation.Status == models.ConsultationRefunded {
		return consultation, err
	}

	payment := consultation.PaymentInfo
	refundCtx := context.WithoutCancel(ctx)
	refund, err := uc.PaymentGateway.Refund(refundCtx, payment.TransactionID, payment.Amount, request.Reason)
	if err != nil {
		uc.Log.Error("consultationUsecase.RefundConsultation gateway refund failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingConsultationIDKey, consultation.ConsultationID),
			zap.String(constvars.LoggingTransactionIDKey, payment.TransactionID),
			zap.Error(err),
		)
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "payment_refunded", requestID,
		zap.String(constvars.LoggingConsultationIDKey, consultation.ConsultationID),
		zap.String(constvars.LoggingTransactionIDKey, payment.TransactionID),
		zap.String("refund_id", refund.RefundID),
	)

	if err := uc.PaymentLedger.MarkRefunded(refundCtx, consultation.SessionID, payment.PaymentID); err != nil {
		// The money already moved; keep going so the consultation reflects it.
		uc.Log.Error("consultationUsecase.RefundConsultation ledger update failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, consultation.SessionID),
			zap.String(constvars.LoggingPaymentIDKey, payment.PaymentID),
			zap.Error(err),
		)
	}

	// The money already moved, so a status write lost to a concurrent update
	// is retried against the fresh document.
	for attempt := 1; ; attempt++ {
		err = uc.transition(refundCtx, consultation, models.ConsultationRefunded, actorID, request.Reason)
		if err == nil {
			return consultation, nil
		}
		if attempt == refundWriteAttempts || !errors.Is(err, exceptions.ErrStaleDocument) {
			return nil, err
		}
		consultation, err = uc.Repository.FindByID(refundCtx, request.ConsultationID)
		if err != nil {
			return nil, err
		}
	}
}

// refundable loads a consultation and checks it may be refunded. An already
// refunded consultation is returned as is.
func (uc *consultationUsecase) refundable(ctx context.Context, actorID, consultationID string) (*models.Consultation, error) {
	consultation, err := uc.Repository.FindByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if consultation.Status == models.ConsultationRefunded {
		return consultation, nil
	}

	if err := models.CheckTransition(consultation.ConsultationID, consultation.Status, models.ConsultationRefunded); err != nil {
		uc.rejected(ctx, consultation, consultation.Status, models.ConsultationRefunded, actorID, err)
		return nil, err
	}
	if consultation.PaymentInfo.TransactionID == "" {
		err := exceptions.ErrInvalidStatusTransition(errors.New("consultation has no captured payment"), consultation.Status.String(), models.ConsultationRefunded.String())
		uc.rejected(ctx, consultation, consultation.Status, models.ConsultationRefunded, actorID, err)
		return nil, err
	}
	return consultation, nil
}

func (uc *consultationUsecase) unlock(ctx context.Context, key, token string) {
	if err := uc.Locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		uc.Log.Warn("consultationUsecase failed to release lock",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
	}
}

// ExpireStaleConsultations closes consultations stuck in DOCTOR_ASSIGNED. A
// consultation modified concurrently is skipped and picked up by a later run.
func (uc *consultationUsecase) ExpireStaleConsultations(ctx context.Context, now time.Time) (int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	stale, err := uc.Repository.FindStale(ctx, models.ConsultationDoctorAssigned, now.Add(-uc.StaleAfter), uc.ExpiryBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		consultation := &stale[i]
		err := uc.transition(ctx, consultation, models.ConsultationExpired, constvars.RoleSystem, expiryReason)
		if err != nil {
			if exceptions.HasCode(err, constvars.ErrCodeInvalidStatusTransition) || exceptions.HasCode(err, constvars.ErrCodeConsultationClosed) {
				continue
			}
			return expired, err
		}
		expired++
	}

	uc.Log.Info("consultationUsecase.ExpireStaleConsultations finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, expired),
	)
	return expired, nil
}

// findVisible loads a consultation and hides it from actors who may not see it.
func (uc *consultationUsecase) findVisible(ctx context.Context, actorID, actorRole, consultationID string) (*models.Consultation, error) {
	consultation, err := uc.Repository.FindByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}

	switch actorRole {
	case constvars.RoleAdmin, constvars.RoleSystem:
		return consultation, nil
	case constvars.RoleDoctor:
		if consultation.DoctorID == actorID {
			return consultation, nil
		}
	case constvars.RolePatient:
		if consultation.PatientID == actorID {
			return consultation, nil
		}
	}
	return nil, exceptions.ErrConsultationNotFound(nil, consultationID)
}

// allowedTransitionFor narrows the state machine by role. Refunds always go
// through RefundConsultation because they move money.
func allowedTransitionFor(actorRole string, consultation *models.Consultation, to models.ConsultationStatus) error {
	from := consultation.Status.String()
	if to == models.ConsultationRefunded {
		return exceptions.ErrInvalidStatusTransition(errors.New("refunds must use the refund operation"), from, to.String())
	}

	switch actorRole {
	case constvars.RolePatient:
		if to != models.ConsultationCancelled {
			return exceptions.ErrRoleNotAllowed(nil, actorRole)
		}
	case constvars.RoleDoctor:
		switch to {
		case models.ConsultationInProgress, models.ConsultationCompleted, models.ConsultationCancelled:
		default:
			return exceptions.ErrRoleNotAllowed(nil, actorRole)
		}
	}
	return nil
}

func (uc *consultationUsecase) transition(ctx context.Context, consultation *models.Consultation, to models.ConsultationStatus, actor, reason string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	from := consultation.Status
	previousUpdatedAt := consultation.UpdatedAt
	if err := consultation.Transition(to, actor, reason, uc.now()); err != nil {
		uc.rejected(ctx, consultation, from, to, actor, err)
		return err
	}

	if err := uc.Repository.Update(ctx, consultation, previousUpdatedAt); err != nil {
		uc.Log.Error("consultationUsecase error persisting status change",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingConsultationIDKey, consultation.ConsultationID),
			zap.String(constvars.LoggingConsultationStatus, to.String()),
			zap.Error(err),
		)
		uc.rejected(ctx, consultation, from, to, actor, err)
		return err
	}

	uc.publishStatusChanged(ctx, consultation, actor, reason)
	return nil
}

func (uc *consultationUsecase) publishStatusChanged(ctx context.Context, consultation *models.Consultation, actor, reason string) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	utils.LogBusinessEvent(uc.Log, constvars.AuditEventConsultationStatusChanged, requestID,
		zap.String(constvars.LoggingConsultationIDKey, consultation.ConsultationID),
		zap.String(constvars.LoggingConsultationStatus, consultation.Status.String()),
	)

	uc.AuditPublisher.Publish(ctx, &models.AuditEvent{
		Type:           constvars.AuditEventConsultationStatusChanged,
		SessionID:      consultation.SessionID,
		PatientID:      consultation.PatientID,
		ConsultationID: consultation.ConsultationID,
		Attributes: map[string]string{
			"status": consultation.Status.String(),
			"actor":  actor,
			"reason": reason,
		},
	})
}

func (uc *consultationUsecase) rejected(ctx context.Context, consultation *models.Consultation, from, to models.ConsultationStatus, actor string, cause error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Warn("consultationUsecase status change rejected",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingConsultationIDKey, consultation.ConsultationID),
		zap.String("from_status", from.String()),
		zap.String(constvars.LoggingConsultationStatus, to.String()),
		zap.Error(cause),
	)

	uc.AuditPublisher.Publish(ctx, &models.AuditEvent{
		Type:           constvars.AuditEventConsultationStatusRejected,
		SessionID:      consultation.SessionID,
		PatientID:      consultation.PatientID,
		ConsultationID: consultation.ConsultationID,
		Attributes: map[string]string{
			"from":   from.String(),
			"to":     to.String(),
			"actor":  actor,
			"reason": cause.Error(),
		},
	})
}
