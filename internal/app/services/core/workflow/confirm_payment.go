package workflow

import (
	"context"
	"errors"
	"time"

	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/dto/requests"
	"teleconsult-service/internal/pkg/dto/responses"
	"teleconsult-service/internal/pkg/exceptions"
	"teleconsult-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// ConfirmPayment verifies the payment of a PAYMENT_PENDING session and issues
// the clinical session id. Replays, sequential or concurrent, return the
// stored result without calling the gateway again. It never creates a
// consultation.
func (uc *workflowUsecase) ConfirmPayment(ctx context.Context, patientID string, request *requests.ConfirmPayment) (*responses.ConfirmPayment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("workflowUsecase.ConfirmPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
		zap.String(constvars.LoggingPaymentIDKey, request.PaymentID),
	)

	deadline := uc.now().Add(uc.Settings.ConfirmWaitTimeout)
	for {
		response, retry, err := uc.confirmOnce(ctx, patientID, request)
		if err != nil || !retry {
			return response, err
		}

		if !uc.now().Before(deadline) {
			uc.Log.Warn("workflowUsecase.ConfirmPayment gave up waiting for concurrent confirmation",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSessionIDKey, request.SessionID),
			)
			return nil, exceptions.ErrConfirmationInProgress(nil, request.SessionID)
		}

		select {
		case <-ctx.Done():
			return nil, exceptions.ErrServerDeadlineExceeded(ctx.Err())
		case <-time.After(uc.Settings.ConfirmWaitInterval):
		}
	}
}

// confirmOnce runs one attempt. retry is true when another request holds the
// confirmation lock and the caller should poll.
func (uc *workflowUsecase) confirmOnce(ctx context.Context, patientID string, request *requests.ConfirmPayment) (*responses.ConfirmPayment, bool, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	pending, session, replay, err := uc.pendingPayment(ctx, patientID, request)
	if err != nil || replay != nil {
		return replay, false, err
	}

	lockKey := constvars.RedisKeyConfirmPaymentLock + session.SessionID
	acquired, token, err := uc.Locker.TryLock(ctx, lockKey, uc.Settings.ConfirmLockTTL)
	if err != nil {
		return nil, false, err
	}
	if !acquired {
		return nil, true, nil
	}
	defer uc.unlock(ctx, lockKey, token)

	// The previous holder may have finished between our read and the lock.
	pending, session, replay, err = uc.pendingPayment(ctx, patientID, request)
	if err != nil || replay != nil {
		return replay, false, err
	}

	order := &models.OrderHandle{
		Provider:   pending.Order.Provider,
		OrderID:    pending.Order.OrderID,
		PaymentID:  pending.Order.PaymentID,
		PaymentURL: pending.Order.PaymentURL,
		Amount:     pending.Order.Amount,
		Currency:   pending.Order.Currency,
		ExpiresAt:  pending.Order.ExpiresAt,
	}

	// Verification must not be abandoned halfway because the client hung up.
	verifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.Settings.VerificationTimeout)
	result, err := uc.PaymentGateway.Verify(verifyCtx, order, request.ProviderToken)
	cancel()
	if err != nil {
		if exceptions.HasCode(err, constvars.ErrCodeGatewayUnavailable) {
			uc.Log.Error("workflowUsecase.ConfirmPayment gateway unavailable",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSessionIDKey, session.SessionID),
				zap.Error(err),
			)
			uc.transitionFailed(ctx, session, models.PhasePaymentConfirmed, err)
			return nil, false, err
		}
		uc.paymentFailed(ctx, session, pending, err.Error())
		return nil, false, err
	}
	if result.Status != models.PaymentRecordCompleted {
		reason := result.FailureReason
		if reason == "" {
			reason = string(result.Status)
		}
		uc.paymentFailed(ctx, session, pending, reason)
		return nil, false, exceptions.ErrPaymentVerificationFailed(errors.New(reason), request.PaymentID)
	}

	now := uc.now()
	confirmed := pending.Confirm(models.PaymentConfirmation{
		TransactionID:     result.TransactionID,
		ClinicalSessionID: uc.newID(),
		ConfirmedAt:       now,
	})
	next := session.Advance(confirmed, now, uc.Settings.PaymentPhaseTTL)

	swapped, err := uc.SessionStore.CompareAndSwap(ctx, session.SessionID, models.PhasePaymentPending, next, uc.Settings.PaymentPhaseTTL)
	if err != nil {
		return nil, false, err
	}
	if !swapped {
		uc.Log.Warn("workflowUsecase.ConfirmPayment lost the session swap, replaying",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, session.SessionID),
		)
		_, _, replay, err = uc.pendingPayment(ctx, patientID, request)
		if err != nil {
			return nil, false, err
		}
		if replay == nil {
			err := exceptions.ErrPhaseMismatch(nil, models.PhasePaymentPending.String(), models.PhasePaymentConfirmed.String())
			uc.transitionFailed(ctx, session, models.PhasePaymentConfirmed, err)
			return nil, false, err
		}
		return replay, false, nil
	}

	if err := uc.SessionStore.PutClinicalIndex(ctx, confirmed.Confirmation.ClinicalSessionID, session.SessionID, uc.Settings.PaymentPhaseTTL); err != nil {
		return nil, false, err
	}

	_, err = uc.PaymentLedger.MarkCompleted(ctx, &models.PaymentRecord{
		SessionID:            session.SessionID,
		PaymentID:            confirmed.Order.PaymentID,
		OrderID:              confirmed.Order.OrderID,
		PatientID:            patientID,
		Provider:             confirmed.Order.Provider,
		Status:               models.PaymentRecordCompleted,
		Amount:               confirmed.Order.Amount,
		Currency:             confirmed.Order.Currency,
		GatewayTransactionID: result.TransactionID,
	})
	if err != nil {
		uc.Log.Error("workflowUsecase.ConfirmPayment error writing completed payment record",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, confirmed.Order.PaymentID),
			zap.String(constvars.LoggingTransactionIDKey, result.TransactionID),
			zap.Error(err),
		)
	}

	uc.audit(ctx, constvars.AuditEventPaymentConfirmed, next, "", map[string]string{
		"paymentId":         confirmed.Order.PaymentID,
		"transactionId":     result.TransactionID,
		"clinicalSessionId": confirmed.Confirmation.ClinicalSessionID,
	})

	return confirmationResponse(confirmed), false, nil
}

// pendingPayment loads the session for confirmation. It returns a replay
// response when the session is already confirmed, and the pending payload
// otherwise.
func (uc *workflowUsecase) pendingPayment(ctx context.Context, patientID string, request *requests.ConfirmPayment) (*models.PaymentPendingPayload, *models.Session, *responses.ConfirmPayment, error) {
	session, err := uc.loadOwned(ctx, patientID, request.SessionID)
	if err != nil {
		return nil, nil, nil, err
	}

	if confirmed, ok := session.Confirmed(); ok {
		if confirmed.Order.PaymentID != request.PaymentID {
			return nil, nil, nil, exceptions.ErrPaymentIDMismatch(nil, request.PaymentID, session.SessionID)
		}
		// Re-writing the index heals a confirmation that failed right after its swap.
		err := uc.SessionStore.PutClinicalIndex(ctx, confirmed.Confirmation.ClinicalSessionID, session.SessionID, uc.Settings.PaymentPhaseTTL)
		if err != nil {
			return nil, nil, nil, err
		}
		return nil, session, confirmationResponse(confirmed), nil
	}

	pending, ok := session.Payload.(*models.PaymentPendingPayload)
	if !ok {
		err := exceptions.ErrPhaseMismatch(nil, session.Phase().String(), models.PhasePaymentPending.String())
		uc.transitionFailed(ctx, session, models.PhasePaymentConfirmed, err)
		return nil, nil, nil, err
	}
	if pending.Order.PaymentID != request.PaymentID {
		return nil, nil, nil, exceptions.ErrPaymentIDMismatch(nil, request.PaymentID, session.SessionID)
	}
	return pending, session, nil, nil
}

func (uc *workflowUsecase) paymentFailed(ctx context.Context, session *models.Session, pending *models.PaymentPendingPayload, reason string) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Warn("workflowUsecase.ConfirmPayment payment verification failed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.SessionID),
		zap.String(constvars.LoggingPaymentIDKey, pending.Order.PaymentID),
		zap.String("reason", reason),
	)

	if err := uc.PaymentLedger.MarkFailed(ctx, session.SessionID, pending.Order.PaymentID, reason); err != nil {
		uc.Log.Error("workflowUsecase.ConfirmPayment error writing failed payment record",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	utils.LogBusinessEvent(uc.Log, constvars.AuditEventPaymentFailed, requestID,
		zap.String(constvars.LoggingSessionIDKey, session.SessionID),
	)
	uc.AuditPublisher.Publish(ctx, &models.AuditEvent{
		Type:      constvars.AuditEventPaymentFailed,
		SessionID: session.SessionID,
		PatientID: session.PatientID,
		Attributes: map[string]string{
			"paymentId": pending.Order.PaymentID,
			"reason":    reason,
		},
	})
}

func confirmationResponse(confirmed *models.PaymentConfirmedPayload) *responses.ConfirmPayment {
	return &responses.ConfirmPayment{
		PaymentStatus:     constvars.PaymentStatusConfirmed,
		ClinicalSessionID: confirmed.Confirmation.ClinicalSessionID,
		TransactionID:     confirmed.Confirmation.TransactionID,
		NextStep:          constvars.NextStepCollectDetailedSymptoms,
	}
}
