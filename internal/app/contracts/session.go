package contracts

import (
	"context"
	"time"

	"teleconsult-service/internal/app/models"
)

// SessionStore keeps in-flight workflow sessions with a TTL.
type SessionStore interface {
	Put(ctx context.Context, session *models.Session, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Delete(ctx context.Context, sessionID string) error
	// CompareAndSwap writes next only if the stored session is still in
	// expectedPhase. A false result with a nil error means another writer won.
	CompareAndSwap(ctx context.Context, sessionID string, expectedPhase models.Phase, next *models.Session, ttl time.Duration) (bool, error)
	PutClinicalIndex(ctx context.Context, clinicalSessionID, sessionID string, ttl time.Duration) error
	ResolveClinicalSession(ctx context.Context, clinicalSessionID string) (string, error)
	DeleteClinicalIndex(ctx context.Context, clinicalSessionID string) error
}
