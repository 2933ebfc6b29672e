package workflow

import (
	"context"
	"strconv"
	"time"

	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/dto/requests"
	"teleconsult-service/internal/pkg/dto/responses"
	"teleconsult-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

// CollectDetailedSymptoms is the only place a consultation is created. A
// retry for a clinical session that already produced a consultation returns
// that consultation.
func (uc *workflowUsecase) CollectDetailedSymptoms(ctx context.Context, patientID string, request *requests.CollectDetailedSymptoms) (*responses.CollectDetailedSymptoms, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("workflowUsecase.CollectDetailedSymptoms called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicalSessionIDKey, request.ClinicalSessionID),
	)

	session, err := uc.clinicalSession(ctx, patientID, request.ClinicalSessionID)
	if err != nil {
		if exceptions.HasCode(err, constvars.ErrCodeSessionNotFound) {
			// The session is deleted once its consultation exists.
			if replay := uc.existingConsultation(ctx, patientID, request.ClinicalSessionID); replay != nil {
				return replay, nil
			}
		}
		return nil, err
	}

	confirmed, ok := session.Confirmed()
	if !ok {
		err := exceptions.ErrPhaseMismatch(nil, session.Phase().String(), models.PhasePaymentConfirmed.String())
		uc.transitionFailed(ctx, session, models.PhaseClinicalSessionIssued, err)
		return nil, err
	}
	if confirmed.Confirmation.ClinicalSessionID != request.ClinicalSessionID {
		return nil, exceptions.ErrSessionNotFound(nil, request.ClinicalSessionID)
	}

	if replay := uc.existingConsultation(ctx, patientID, request.ClinicalSessionID); replay != nil {
		uc.cleanup(ctx, session.SessionID, request.ClinicalSessionID)
		return replay, nil
	}

	now := uc.now()
	if session.Phase() == models.PhasePaymentConfirmed {
		issued := session.Advance(confirmed.Issue(now), now, uc.Settings.PaymentPhaseTTL)
		swapped, err := uc.SessionStore.CompareAndSwap(ctx, session.SessionID, models.PhasePaymentConfirmed, issued, uc.Settings.PaymentPhaseTTL)
		if err != nil {
			// A concurrent request may have finished and deleted the session.
			if exceptions.HasCode(err, constvars.ErrCodeSessionNotFound) {
				if replay := uc.existingConsultation(ctx, patientID, request.ClinicalSessionID); replay != nil {
					return replay, nil
				}
			}
			return nil, err
		}
		if swapped {
			session = issued
		} else {
			// A concurrent request issued it first; creation below is still
			// guarded by the unique clinical session index.
			uc.Log.Info("workflowUsecase.CollectDetailedSymptoms session issued concurrently",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSessionIDKey, session.SessionID),
			)
		}
	}

	assignment, err := uc.DoctorResolver.Resolve(ctx, now.In(uc.Settings.Location))
	if err != nil {
		uc.creationFailed(ctx, session, err)
		return nil, err
	}

	consultation, err := uc.buildConsultation(patientID, session, confirmed, assignment, request)
	if err != nil {
		uc.creationFailed(ctx, session, err)
		return nil, err
	}
	if err := uc.ConsultationRepository.Create(ctx, consultation); err != nil {
		if exceptions.HasCode(err, constvars.ErrCodeActiveConsultationExists) {
			if replay := uc.existingConsultation(ctx, patientID, request.ClinicalSessionID); replay != nil {
				uc.cleanup(ctx, session.SessionID, request.ClinicalSessionID)
				return replay, nil
			}
		}
		uc.creationFailed(ctx, session, err)
		return nil, err
	}

	uc.archiveIntake(ctx, consultation, confirmed.IntakeSnapshot)
	uc.cleanup(ctx, session.SessionID, request.ClinicalSessionID)

	uc.audit(ctx, constvars.AuditEventConsultationCreated, session, consultation.ConsultationID, map[string]string{
		"doctorId":         consultation.DoctorID,
		"consultationType": consultation.ConsultationType,
		"fallbackDoctor":   strconv.FormatBool(assignment.Fallback),
	})

	return &responses.CollectDetailedSymptoms{
		ConsultationID:     consultation.ConsultationID,
		AssignedDoctor:     consultation.DoctorID,
		ConsultationStatus: consultation.Status.String(),
	}, nil
}

func (uc *workflowUsecase) clinicalSession(ctx context.Context, patientID, clinicalSessionID string) (*models.Session, error) {
	sessionID, err := uc.SessionStore.ResolveClinicalSession(ctx, clinicalSessionID)
	if err != nil {
		return nil, err
	}
	return uc.loadOwned(ctx, patientID, sessionID)
}

func (uc *workflowUsecase) existingConsultation(ctx context.Context, patientID, clinicalSessionID string) *responses.CollectDetailedSymptoms {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	consultation, err := uc.ConsultationRepository.FindByClinicalSessionID(ctx, clinicalSessionID)
	if err != nil {
		uc.Log.Error("workflowUsecase.CollectDetailedSymptoms error looking up consultation",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClinicalSessionIDKey, clinicalSessionID),
			zap.Error(err),
		)
		return nil
	}
	if consultation == nil || consultation.PatientID != patientID {
		return nil
	}

	uc.Log.Info("workflowUsecase.CollectDetailedSymptoms replaying existing consultation",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingConsultationIDKey, consultation.ConsultationID),
	)
	return &responses.CollectDetailedSymptoms{
		ConsultationID:     consultation.ConsultationID,
		AssignedDoctor:     consultation.DoctorID,
		ConsultationStatus: consultation.Status.String(),
	}
}

// buildConsultation records the path the request took as status history:
// DRAFT, PAYMENT_PENDING, PAYMENT_CONFIRMED and DOCTOR_ASSIGNED.
func (uc *workflowUsecase) buildConsultation(patientID string, session *models.Session, confirmed *models.PaymentConfirmedPayload, assignment *models.DoctorAssignment, request *requests.CollectDetailedSymptoms) (*models.Consultation, error) {
	now := uc.now()
	consultation := models.NewDraftConsultation(uc.newID(), patientID, patientID, confirmed.Selection.SelectedAt)
	consultation.SessionID = session.SessionID
	consultation.ClinicalSessionID = confirmed.Confirmation.ClinicalSessionID
	consultation.ConsultationType = confirmed.Selection.ConsultationType
	consultation.PaymentInfo = models.PaymentInfo{
		PaymentID:     confirmed.Order.PaymentID,
		OrderID:       confirmed.Order.OrderID,
		TransactionID: confirmed.Confirmation.TransactionID,
		Amount:        confirmed.Order.Amount,
		Currency:      confirmed.Order.Currency,
		Provider:      confirmed.Order.Provider,
		PaidAt:        confirmed.Confirmation.ConfirmedAt,
	}
	consultation.Medical = models.MedicalRecord{
		ChiefComplaint:     request.ChiefComplaint,
		DetailedSymptoms:   request.DetailedSymptoms,
		MedicalHistory:     request.MedicalHistory,
		Allergies:          request.Allergies,
		CurrentMedications: request.CurrentMedications,
		PreDiagnosis:       confirmed.Diagnosis,
	}
	consultation.DoctorID = assignment.DoctorID

	assignmentReason := "shift " + assignment.ShiftID
	if assignment.Fallback {
		assignmentReason = "fallback doctor"
	}
	steps := []struct {
		to     models.ConsultationStatus
		actor  string
		reason string
		at     time.Time
	}{
		{models.ConsultationPaymentPending, patientID, "order " + confirmed.Order.OrderID, confirmed.Order.CreatedAt},
		{models.ConsultationPaymentConfirmed, constvars.RoleSystem, "transaction " + confirmed.Confirmation.TransactionID, confirmed.Confirmation.ConfirmedAt},
		{models.ConsultationDoctorAssigned, constvars.RoleSystem, assignmentReason, now},
	}
	for _, step := range steps {
		if err := consultation.Transition(step.to, step.actor, step.reason, step.at); err != nil {
			return nil, err
		}
	}
	consultation.CreatedAt = now
	return consultation, nil
}

func (uc *workflowUsecase) archiveIntake(ctx context.Context, consultation *models.Consultation, snapshot models.IntakeSnapshot) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	key, err := uc.IntakeArchive.Archive(ctx, consultation.ConsultationID, &snapshot)
	if err != nil {
		uc.Log.Warn("workflowUsecase.CollectDetailedSymptoms intake archive failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingConsultationIDKey, consultation.ConsultationID),
			zap.Error(err),
		)
		return
	}
	if key == "" {
		return
	}

	previousUpdatedAt := consultation.UpdatedAt
	consultation.IntakeArchiveKey = key
	consultation.UpdatedAt = uc.now()
	if err := uc.ConsultationRepository.Update(ctx, consultation, previousUpdatedAt); err != nil {
		uc.Log.Warn("workflowUsecase.CollectDetailedSymptoms failed to record intake archive key",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingConsultationIDKey, consultation.ConsultationID),
			zap.String(constvars.LoggingObjectKey, key),
			zap.Error(err),
		)
	}
}

func (uc *workflowUsecase) cleanup(ctx context.Context, sessionID, clinicalSessionID string) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if err := uc.SessionStore.Delete(ctx, sessionID); err != nil {
		uc.Log.Warn("workflowUsecase.CollectDetailedSymptoms failed to delete session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
	}
	if err := uc.SessionStore.DeleteClinicalIndex(ctx, clinicalSessionID); err != nil {
		uc.Log.Warn("workflowUsecase.CollectDetailedSymptoms failed to delete clinical index",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClinicalSessionIDKey, clinicalSessionID),
			zap.Error(err),
		)
	}
}

func (uc *workflowUsecase) creationFailed(ctx context.Context, session *models.Session, cause error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Error("workflowUsecase.CollectDetailedSymptoms consultation creation failed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.SessionID),
		zap.Error(cause),
	)
	uc.AuditPublisher.Publish(ctx, &models.AuditEvent{
		Type:      constvars.AuditEventConsultationCreationFailed,
		SessionID: session.SessionID,
		PatientID: session.PatientID,
		Attributes: map[string]string{
			"reason": cause.Error(),
		},
	})
}
