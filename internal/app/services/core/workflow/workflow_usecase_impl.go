package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/app/services/shared/diagnosis"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/dto/requests"
	"teleconsult-service/internal/pkg/dto/responses"
	"teleconsult-service/internal/pkg/exceptions"
	"teleconsult-service/internal/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	workflowUsecaseInstance contracts.WorkflowUsecase
	onceWorkflowUsecase     sync.Once
)

// Settings holds the timing knobs of the workflow.
type Settings struct {
	SymptomPhaseTTL     time.Duration
	PaymentPhaseTTL     time.Duration
	ConfirmLockTTL      time.Duration
	ConfirmWaitTimeout  time.Duration
	ConfirmWaitInterval time.Duration
	VerificationTimeout time.Duration
	Location            *time.Location
	Pricing             PriceTable
}

func SettingsFromConfig(internalConfig *config.InternalConfig, location *time.Location) Settings {
	workflow := internalConfig.Workflow
	return Settings{
		SymptomPhaseTTL:     time.Duration(workflow.SymptomPhaseTTLInMinutes) * time.Minute,
		PaymentPhaseTTL:     time.Duration(workflow.PaymentPhaseTTLInHours) * time.Hour,
		ConfirmLockTTL:      time.Duration(workflow.ConfirmLockTTLInSeconds) * time.Second,
		ConfirmWaitTimeout:  time.Duration(workflow.ConfirmWaitTimeoutInSeconds) * time.Second,
		ConfirmWaitInterval: time.Duration(workflow.ConfirmWaitIntervalInMillis) * time.Millisecond,
		VerificationTimeout: time.Duration(workflow.VerificationTimeoutInSeconds) * time.Second,
		Location:            location,
		Pricing:             NewPriceTable(internalConfig.Pricing),
	}
}

// Dependencies groups the collaborators of the orchestrator.
type Dependencies struct {
	SessionStore           contracts.SessionStore
	Locker                 contracts.LockerService
	PaymentGateway         contracts.PaymentGateway
	PaymentLedger          contracts.PaymentLedgerRepository
	DiagnosisService       contracts.DiagnosisService
	DoctorResolver         contracts.DoctorResolver
	ConsultationRepository contracts.ConsultationRepository
	IntakeArchive          contracts.IntakeArchive
	AuditPublisher         contracts.AuditPublisher
}

type workflowUsecase struct {
	Dependencies
	Settings Settings
	Log      *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewWorkflowUsecase(dependencies Dependencies, settings Settings, logger *zap.Logger) contracts.WorkflowUsecase {
	onceWorkflowUsecase.Do(func() {
		workflowUsecaseInstance = newWorkflowUsecase(dependencies, settings, logger)
	})
	return workflowUsecaseInstance
}

func newWorkflowUsecase(dependencies Dependencies, settings Settings, logger *zap.Logger) *workflowUsecase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &workflowUsecase{
		Dependencies: dependencies,
		Settings:     settings,
		Log:          logger,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

func (uc *workflowUsecase) CollectSymptoms(ctx context.Context, patientID string, request *requests.CollectSymptoms) (*responses.CollectSymptoms, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("workflowUsecase.CollectSymptoms called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	intake := models.SymptomIntake{
		Symptoms:     request.Symptoms,
		Severity:     request.Severity,
		Age:          request.Age,
		Gender:       request.Gender,
		DurationDays: request.DurationDays,
		Notes:        request.Notes,
	}

	result, err := uc.DiagnosisService.Diagnose(ctx, &intake)
	if err != nil || result == nil {
		uc.Log.Warn("workflowUsecase.CollectSymptoms diagnosis unavailable, using fallback",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		result = diagnosis.FallbackDiagnosis(&intake)
	}
	if result.Severity == "" {
		result.Severity = intake.Severity
	}
	if !isConsultationType(result.RecommendedConsultationType) {
		result.RecommendedConsultationType = diagnosis.RecommendConsultationType(result.Severity)
	}

	now := uc.now()
	session := &models.Session{
		SessionID: uc.newID(),
		PatientID: patientID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(uc.Settings.SymptomPhaseTTL),
		Payload: &models.SymptomsCollectedPayload{IntakeSnapshot: models.IntakeSnapshot{
			Intake:    intake,
			Diagnosis: *result,
			Pricing:   uc.Settings.Pricing.Quotes(result.RecommendedConsultationType),
		}},
	}

	if err := uc.SessionStore.Put(ctx, session, uc.Settings.SymptomPhaseTTL); err != nil {
		uc.Log.Error("workflowUsecase.CollectSymptoms error storing session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.audit(ctx, constvars.AuditEventSessionCreated, session, "", map[string]string{
		"severity":                    result.Severity,
		"recommendedConsultationType": result.RecommendedConsultationType,
		"diagnosisSource":             result.Source,
	})

	payload := session.Payload.Snapshot()
	return &responses.CollectSymptoms{
		SessionID:                   session.SessionID,
		Diagnosis:                   payload.Diagnosis,
		Severity:                    payload.Diagnosis.Severity,
		RecommendedConsultationType: payload.Diagnosis.RecommendedConsultationType,
		Pricing:                     payload.Pricing,
		ExpiresAt:                   session.ExpiresAt,
	}, nil
}

func (uc *workflowUsecase) SelectConsultation(ctx context.Context, patientID string, request *requests.SelectConsultation) (*responses.SelectConsultation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("workflowUsecase.SelectConsultation called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
	)

	session, err := uc.loadOwned(ctx, patientID, request.SessionID)
	if err != nil {
		return nil, err
	}
	if replay, ok := selectionReplay(session, request.SelectedConsultationType); ok {
		return replay, nil
	}

	lockKey := constvars.RedisKeySelectLock + session.SessionID
	acquired, token, err := uc.Locker.TryLock(ctx, lockKey, uc.Settings.ConfirmLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrSessionBusy(nil, session.SessionID)
	}
	defer uc.unlock(ctx, lockKey, token)

	// Another request may have moved the session while we waited for the lock.
	session, err = uc.loadOwned(ctx, patientID, request.SessionID)
	if err != nil {
		return nil, err
	}
	if replay, ok := selectionReplay(session, request.SelectedConsultationType); ok {
		return replay, nil
	}

	var intake *models.SymptomsCollectedPayload
	switch payload := session.Payload.(type) {
	case *models.SymptomsCollectedPayload:
		intake = payload
	case *models.ConsultationTypeSelectedPayload:
		// No order exists yet, so the selection may still change.
		intake = &models.SymptomsCollectedPayload{IntakeSnapshot: payload.IntakeSnapshot}
	default:
		err := exceptions.ErrPhaseMismatch(nil, session.Phase().String(), models.PhaseSymptomsCollected.String())
		uc.transitionFailed(ctx, session, models.PhaseConsultationTypeSelected, err)
		return nil, err
	}

	quote, ok := models.FindQuote(intake.Pricing, request.SelectedConsultationType)
	if !ok {
		err := exceptions.ErrPhaseMismatch(nil, session.Phase().String(), models.PhaseSymptomsCollected.String())
		uc.transitionFailed(ctx, session, models.PhaseConsultationTypeSelected, err)
		return nil, err
	}

	now := uc.now()
	selected := intake.Select(models.ConsultationSelection{
		ConsultationType: quote.ConsultationType,
		Amount:           quote.Amount,
		Currency:         quote.Currency,
		SelectedAt:       now,
	})
	selectedSession := session.Advance(selected, now, uc.Settings.PaymentPhaseTTL)
	if err := uc.swap(ctx, session, selectedSession); err != nil {
		return nil, err
	}

	uc.audit(ctx, constvars.AuditEventConsultationTypeSelected, selectedSession, "", map[string]string{
		"consultationType": quote.ConsultationType,
	})

	handle, err := uc.PaymentGateway.CreateOrder(ctx, session.SessionID, quote.Amount, quote.Currency, map[string]string{
		"patientId":        patientID,
		"consultationType": quote.ConsultationType,
	})
	if err != nil {
		uc.Log.Error("workflowUsecase.SelectConsultation error creating payment order",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, session.SessionID),
			zap.Error(err),
		)
		uc.transitionFailed(ctx, selectedSession, models.PhasePaymentPending, err)
		return nil, err
	}

	order := models.PaymentOrder{
		Provider:   handle.Provider,
		OrderID:    handle.OrderID,
		PaymentID:  handle.PaymentID,
		PaymentURL: handle.PaymentURL,
		Amount:     handle.Amount,
		Currency:   handle.Currency,
		CreatedAt:  now.UTC(),
		ExpiresAt:  handle.ExpiresAt.UTC(),
	}
	pendingSession := selectedSession.Advance(selected.WithOrder(order), uc.now(), uc.Settings.PaymentPhaseTTL)
	if err := uc.swap(ctx, selectedSession, pendingSession); err != nil {
		uc.Log.Error("workflowUsecase.SelectConsultation payment order left unattached",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, order.OrderID),
			zap.Error(err),
		)
		return nil, err
	}

	err = uc.PaymentLedger.UpsertPending(ctx, &models.PaymentRecord{
		SessionID: session.SessionID,
		PaymentID: order.PaymentID,
		OrderID:   order.OrderID,
		PatientID: patientID,
		Provider:  order.Provider,
		Status:    models.PaymentRecordPending,
		Amount:    order.Amount,
		Currency:  order.Currency,
	})
	if err != nil {
		// MarkCompleted upserts, so a missing pending row heals on confirmation.
		uc.Log.Error("workflowUsecase.SelectConsultation error writing pending payment record",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, order.PaymentID),
			zap.Error(err),
		)
	}

	uc.audit(ctx, constvars.AuditEventPaymentOrderCreated, pendingSession, "", map[string]string{
		"orderId":   order.OrderID,
		"paymentId": order.PaymentID,
		"provider":  order.Provider,
	})

	return selectionResponse(pendingSession.SessionID, quote.ConsultationType, order), nil
}

func (uc *workflowUsecase) GetSession(ctx context.Context, patientID, sessionID string) (*responses.SessionView, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("workflowUsecase.GetSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	session, err := uc.loadOwned(ctx, patientID, sessionID)
	if err != nil {
		return nil, err
	}

	view := &responses.SessionView{
		SessionID: session.SessionID,
		Phase:     session.Phase().String(),
		Version:   session.Version,
		NextStep:  nextStep(session.Phase()),
		ExpiresAt: session.ExpiresAt,
	}
	switch payload := session.Payload.(type) {
	case *models.ConsultationTypeSelectedPayload:
		view.ConsultationType = payload.Selection.ConsultationType
	case *models.PaymentPendingPayload:
		view.ConsultationType = payload.Selection.ConsultationType
		view.PaymentID = payload.Order.PaymentID
	}
	if confirmed, ok := session.Confirmed(); ok {
		view.ConsultationType = confirmed.Selection.ConsultationType
		view.PaymentID = confirmed.Order.PaymentID
		view.ClinicalSessionID = confirmed.Confirmation.ClinicalSessionID
	}
	return view, nil
}

// loadOwned reads a session and hides sessions of other patients behind the
// same not-found error an expired session gets.
func (uc *workflowUsecase) loadOwned(ctx context.Context, patientID, sessionID string) (*models.Session, error) {
	session, err := uc.SessionStore.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.PatientID != patientID {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		utils.LogSecurityEvent(uc.Log, "foreign_session_access", requestID, utils.SeverityMedium,
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.String(constvars.LoggingPatientIDKey, patientID),
		)
		return nil, exceptions.ErrSessionNotFound(nil, sessionID)
	}
	return session, nil
}

// swap persists next if current is still in the phase it was read in.
func (uc *workflowUsecase) swap(ctx context.Context, current, next *models.Session) error {
	swapped, err := uc.SessionStore.CompareAndSwap(ctx, current.SessionID, current.Phase(), next, ttlFor(next, uc.Settings))
	if err != nil {
		return err
	}
	if !swapped {
		err := exceptions.ErrPhaseMismatch(nil, "changed concurrently", current.Phase().String())
		uc.transitionFailed(ctx, current, next.Phase(), err)
		return err
	}
	return nil
}

// transitionFailed records a session that could not move to the target phase.
func (uc *workflowUsecase) transitionFailed(ctx context.Context, session *models.Session, to models.Phase, cause error) {
	uc.audit(ctx, constvars.AuditEventPhaseTransitionFailed, session, "", map[string]string{
		"from":   session.Phase().String(),
		"to":     to.String(),
		"reason": failureReason(cause),
	})
}

// failureReason drops the code locations a CustomError carries in Error().
func failureReason(err error) string {
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		return customErr.DevMessage
	}
	return err.Error()
}

func (uc *workflowUsecase) unlock(ctx context.Context, key, token string) {
	if err := uc.Locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		uc.Log.Warn("workflowUsecase failed to release lock",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
	}
}

func (uc *workflowUsecase) audit(ctx context.Context, eventType string, session *models.Session, consultationID string, attributes map[string]string) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	fields := []zap.Field{
		zap.String(constvars.LoggingSessionIDKey, session.SessionID),
		zap.String(constvars.LoggingPhaseKey, session.Phase().String()),
	}
	if consultationID != "" {
		fields = append(fields, zap.String(constvars.LoggingConsultationIDKey, consultationID))
	}
	utils.LogBusinessEvent(uc.Log, eventType, requestID, fields...)

	uc.AuditPublisher.Publish(ctx, &models.AuditEvent{
		Type:           eventType,
		SessionID:      session.SessionID,
		PatientID:      session.PatientID,
		ConsultationID: consultationID,
		Attributes:     attributes,
	})
}

func ttlFor(session *models.Session, settings Settings) time.Duration {
	if session.Phase().AtLeast(models.PhaseConsultationTypeSelected) {
		return settings.PaymentPhaseTTL
	}
	return settings.SymptomPhaseTTL
}

func selectionReplay(session *models.Session, consultationType string) (*responses.SelectConsultation, bool) {
	pending, ok := session.Payload.(*models.PaymentPendingPayload)
	if !ok || pending.Selection.ConsultationType != consultationType {
		return nil, false
	}
	return selectionResponse(session.SessionID, consultationType, pending.Order), true
}

func selectionResponse(sessionID, consultationType string, order models.PaymentOrder) *responses.SelectConsultation {
	return &responses.SelectConsultation{
		SessionID:        sessionID,
		ConsultationType: consultationType,
		PaymentDetails: responses.PaymentDetails{
			PaymentID:  order.PaymentID,
			OrderID:    order.OrderID,
			PaymentURL: order.PaymentURL,
			Amount:     order.Amount,
			Currency:   order.Currency,
			ExpiresAt:  order.ExpiresAt,
		},
	}
}

func nextStep(phase models.Phase) string {
	switch phase {
	case models.PhaseSymptomsCollected, models.PhaseConsultationTypeSelected:
		return constvars.NextStepSelectConsultation
	case models.PhasePaymentPending:
		return constvars.NextStepConfirmPayment
	default:
		return constvars.NextStepCollectDetailedSymptoms
	}
}

func isConsultationType(value string) bool {
	for _, consultationType := range consultationTypes {
		if consultationType == value {
			return true
		}
	}
	return false
}
