package workflow

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// memorySessionStore keeps sessions serialized, the way Redis does, so tests
// see the same copy semantics as production.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
	clinical map[string]string
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string][]byte), clinical: make(map[string]string)}
}

func (s *memorySessionStore) Put(ctx context.Context, session *models.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = data
	return nil
}

func (s *memorySessionStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.Lock()
	data, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, exceptions.ErrSessionNotFound(nil, sessionID)
	}
	session := new(models.Session)
	if err := json.Unmarshal(data, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *memorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *memorySessionStore) CompareAndSwap(ctx context.Context, sessionID string, expectedPhase models.Phase, next *models.Session, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.sessions[sessionID]
	if !ok {
		return false, exceptions.ErrSessionNotFound(nil, sessionID)
	}
	current := new(models.Session)
	if err := json.Unmarshal(data, current); err != nil {
		return false, err
	}
	if current.Phase() != expectedPhase {
		return false, nil
	}
	encoded, err := json.Marshal(next)
	if err != nil {
		return false, err
	}
	s.sessions[sessionID] = encoded
	return true, nil
}

func (s *memorySessionStore) PutClinicalIndex(ctx context.Context, clinicalSessionID, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clinical[clinicalSessionID] = sessionID
	return nil
}

func (s *memorySessionStore) ResolveClinicalSession(ctx context.Context, clinicalSessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessionID, ok := s.clinical[clinicalSessionID]
	if !ok {
		return "", exceptions.ErrSessionNotFound(nil, clinicalSessionID)
	}
	return sessionID, nil
}

func (s *memorySessionStore) DeleteClinicalIndex(ctx context.Context, clinicalSessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clinical, clinicalSessionID)
	return nil
}

func (s *memorySessionStore) has(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[sessionID]
	return ok
}

type memoryLocker struct {
	mu    sync.Mutex
	locks map[string]string
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{locks: make(map[string]string)}
}

func (l *memoryLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.locks[key]; held {
		return false, "", nil
	}
	token := uuid.NewString()
	l.locks[key] = token
	return true, token, nil
}

func (l *memoryLocker) Unlock(ctx context.Context, key, lockValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks[key] == lockValue {
		delete(l.locks, key)
	}
	return nil
}

func (l *memoryLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

// countingGateway wraps a gateway and counts calls that reach it.
type countingGateway struct {
	contracts.PaymentGateway
	orders    atomic.Int32
	verifies  atomic.Int32
	delay     time.Duration
	createErr error
	verifyErr error
}

func (g *countingGateway) CreateOrder(ctx context.Context, sessionID string, amount float64, currency string, metadata map[string]string) (*models.OrderHandle, error) {
	g.orders.Add(1)
	if g.createErr != nil {
		return nil, g.createErr
	}
	return g.PaymentGateway.CreateOrder(ctx, sessionID, amount, currency, metadata)
}

func (g *countingGateway) Verify(ctx context.Context, order *models.OrderHandle, token string) (*models.PaymentResult, error) {
	g.verifies.Add(1)
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.PaymentGateway.Verify(ctx, order, token)
}

type memoryLedger struct {
	mu      sync.Mutex
	records map[string]models.PaymentRecord
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{records: make(map[string]models.PaymentRecord)}
}

func ledgerKey(sessionID, paymentID string) string { return sessionID + "|" + paymentID }

func (l *memoryLedger) UpsertPending(ctx context.Context, record *models.PaymentRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := ledgerKey(record.SessionID, record.PaymentID)
	if _, ok := l.records[key]; !ok {
		l.records[key] = *record
	}
	return nil
}

func (l *memoryLedger) MarkCompleted(ctx context.Context, record *models.PaymentRecord) (*models.PaymentRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := ledgerKey(record.SessionID, record.PaymentID)
	if stored, ok := l.records[key]; ok && stored.Status == models.PaymentRecordCompleted {
		return &stored, nil
	}
	stored := *record
	stored.Status = models.PaymentRecordCompleted
	l.records[key] = stored
	return &stored, nil
}

func (l *memoryLedger) MarkFailed(ctx context.Context, sessionID, paymentID, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := ledgerKey(sessionID, paymentID)
	stored := l.records[key]
	stored.Status = models.PaymentRecordFailed
	stored.FailureReason = reason
	l.records[key] = stored
	return nil
}

func (l *memoryLedger) MarkRefunded(ctx context.Context, sessionID, paymentID string) error {
	return nil
}

func (l *memoryLedger) FindBySessionAndPayment(ctx context.Context, sessionID, paymentID string) (*models.PaymentRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	stored, ok := l.records[ledgerKey(sessionID, paymentID)]
	if !ok {
		return nil, nil
	}
	return &stored, nil
}

// memoryConsultations enforces the two unique indexes of the real collection.
type memoryConsultations struct {
	mu    sync.Mutex
	items map[string]models.Consultation
}

func newMemoryConsultations() *memoryConsultations {
	return &memoryConsultations{items: make(map[string]models.Consultation)}
}

func (r *memoryConsultations) EnsureIndexes(ctx context.Context) error { return nil }

func (r *memoryConsultations) Create(ctx context.Context, c *models.Consultation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.ClinicalSessionID == c.ClinicalSessionID || (c.IsActive && existing.IsActive && existing.PatientID == c.PatientID) {
			return exceptions.ErrActiveConsultationExists(nil, c.PatientID)
		}
	}
	r.items[c.ConsultationID] = *c
	return nil
}

func (r *memoryConsultations) FindByID(ctx context.Context, id string) (*models.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, exceptions.ErrConsultationNotFound(nil, id)
	}
	return &c, nil
}

func (r *memoryConsultations) FindByClinicalSessionID(ctx context.Context, id string) (*models.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.ClinicalSessionID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memoryConsultations) FindActiveByPatientID(ctx context.Context, patientID string) (*models.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.PatientID == patientID && c.IsActive {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memoryConsultations) FindByPatientID(ctx context.Context, patientID string, page, pageSize int) ([]models.Consultation, int, error) {
	return nil, 0, nil
}

func (r *memoryConsultations) FindStale(ctx context.Context, status models.ConsultationStatus, before time.Time, limit int) ([]models.Consultation, error) {
	return nil, nil
}

func (r *memoryConsultations) Update(ctx context.Context, c *models.Consultation, previousUpdatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[c.ConsultationID]
	if !ok || !stored.UpdatedAt.Equal(previousUpdatedAt) {
		return exceptions.ErrConsultationConcurrentModification(nil, c.ConsultationID)
	}
	r.items[c.ConsultationID] = *c
	return nil
}

func (r *memoryConsultations) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type stubDiagnosis struct {
	diagnosis *models.Diagnosis
}

func (s *stubDiagnosis) Diagnose(ctx context.Context, intake *models.SymptomIntake) (*models.Diagnosis, error) {
	d := *s.diagnosis
	return &d, nil
}

type stubResolver struct {
	assignment *models.DoctorAssignment
	err        error
}

func (s *stubResolver) Resolve(ctx context.Context, at time.Time) (*models.DoctorAssignment, error) {
	if s.err != nil {
		return nil, s.err
	}
	a := *s.assignment
	a.Hour = at.Hour()
	return &a, nil
}

func (s *stubResolver) Invalidate(ctx context.Context) error { return nil }

type recordingArchive struct {
	mu   sync.Mutex
	keys []string
}

func (a *recordingArchive) Archive(ctx context.Context, consultationID string, snapshot *models.IntakeSnapshot) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := "intake/" + consultationID + ".json"
	a.keys = append(a.keys, key)
	return key, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event *models.AuditEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) last(eventType string) *models.AuditEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.events) - 1; i >= 0; i-- {
		if p.events[i].Type == eventType {
			event := p.events[i]
			return &event
		}
	}
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}
