package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	sessionStoreInstance contracts.SessionStore
	onceSessionStore     sync.Once
)

type sessionStore struct {
	RedisRepository contracts.RedisRepository
	Log             *zap.Logger
}

func NewSessionStore(redisRepository contracts.RedisRepository, logger *zap.Logger) contracts.SessionStore {
	onceSessionStore.Do(func() {
		sessionStoreInstance = newSessionStore(redisRepository, logger)
	})
	return sessionStoreInstance
}

func newSessionStore(redisRepository contracts.RedisRepository, logger *zap.Logger) *sessionStore {
	return &sessionStore{
		RedisRepository: redisRepository,
		Log:             logger,
	}
}

func sessionKey(sessionID string) string {
	return constvars.RedisKeySessionPrefix + sessionID
}

func clinicalKey(clinicalSessionID string) string {
	return constvars.RedisKeyClinicalSessionPrefix + clinicalSessionID
}

func (s *sessionStore) Put(ctx context.Context, session *models.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.RedisRepository.SetRaw(ctx, sessionKey(session.SessionID), data, ttl)
}

func (s *sessionStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	data, err := s.RedisRepository.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, exceptions.ErrSessionNotFound(nil, sessionID)
	}

	session := new(models.Session)
	if err := json.Unmarshal([]byte(data), session); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return session, nil
}

func (s *sessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.RedisRepository.Delete(ctx, sessionKey(sessionID))
}

func (s *sessionStore) CompareAndSwap(ctx context.Context, sessionID string, expectedPhase models.Phase, next *models.Session, ttl time.Duration) (bool, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	data, err := json.Marshal(next)
	if err != nil {
		return false, exceptions.ErrCannotMarshalJSON(err)
	}

	found := false
	var storedPhase models.Phase
	swapped, err := s.RedisRepository.CompareAndSwap(ctx, sessionKey(sessionID), func(current string) bool {
		found = true
		var header struct {
			Phase models.Phase `json:"phase"`
		}
		if err := json.Unmarshal([]byte(current), &header); err != nil {
			return false
		}
		storedPhase = header.Phase
		return header.Phase == expectedPhase
	}, data, ttl)
	if err != nil {
		return false, err
	}
	if !found {
		return false, exceptions.ErrSessionNotFound(nil, sessionID)
	}

	if !swapped {
		s.Log.Info("sessionStore.CompareAndSwap lost",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.String(constvars.LoggingPhaseKey, storedPhase.String()),
			zap.String(constvars.LoggingExpectedPhaseKey, expectedPhase.String()),
		)
	}
	return swapped, nil
}

func (s *sessionStore) PutClinicalIndex(ctx context.Context, clinicalSessionID, sessionID string, ttl time.Duration) error {
	return s.RedisRepository.SetRaw(ctx, clinicalKey(clinicalSessionID), []byte(sessionID), ttl)
}

func (s *sessionStore) ResolveClinicalSession(ctx context.Context, clinicalSessionID string) (string, error) {
	sessionID, err := s.RedisRepository.Get(ctx, clinicalKey(clinicalSessionID))
	if err != nil {
		return "", err
	}
	if sessionID == "" {
		return "", exceptions.ErrSessionNotFound(fmt.Errorf("clinical session %s not indexed", clinicalSessionID), clinicalSessionID)
	}
	return sessionID, nil
}

func (s *sessionStore) DeleteClinicalIndex(ctx context.Context, clinicalSessionID string) error {
	return s.RedisRepository.Delete(ctx, clinicalKey(clinicalSessionID))
}
