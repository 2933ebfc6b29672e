package consultations

import (
	"context"
	"sync"
	"testing"
	"time"

	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]string
	unlocked []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]string)}
}

func (l *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return false, "", nil
	}
	l.held[key] = "token-" + key
	return true, l.held[key], nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == lockValue {
		delete(l.held, key)
		l.unlocked = append(l.unlocked, key)
	}
	return nil
}

func (l *fakeLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

func TestExpiryWorker_RunOnceExpiresStaleConsultations(t *testing.T) {
	f := newFixture(assignedConsultation("stale", "patient-1", "dr-1", testClock.Add(-72*time.Hour)))
	locker := newFakeLocker()

	worker := NewExpiryWorker(zap.NewNop(), "@every 1m", locker, f.uc)
	worker.now = func() time.Time { return testClock }

	expired := worker.runOnce(context.Background())

	assert.Equal(t, 1, expired)
	assert.Equal(t, models.ConsultationExpired, f.repo.get("stale").Status)
	assert.Equal(t, []string{constvars.RedisKeyConsultationExpiryLock}, locker.unlocked)
}

func TestExpiryWorker_RunOnceSkipsWithoutLeadership(t *testing.T) {
	f := newFixture(assignedConsultation("stale", "patient-1", "dr-1", testClock.Add(-72*time.Hour)))
	locker := newFakeLocker()
	locker.held[constvars.RedisKeyConsultationExpiryLock] = "other-instance"

	worker := NewExpiryWorker(zap.NewNop(), "@every 1m", locker, f.uc)
	worker.now = func() time.Time { return testClock }

	assert.Equal(t, 0, worker.runOnce(context.Background()))
	assert.Equal(t, models.ConsultationDoctorAssigned, f.repo.get("stale").Status)
}

func TestExpiryWorker_InvalidSpecFallsBack(t *testing.T) {
	f := newFixture()
	worker := NewExpiryWorker(zap.NewNop(), "not a cron spec", newFakeLocker(), f.uc)

	worker.Start(context.Background())
	defer worker.Stop()

	assert.Len(t, worker.cron.Entries(), 1)
}
