package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// Window is one fixed-window quota. A non-positive Quota disables it.
type Window struct {
	Name     string
	Duration time.Duration
	Quota    int
}

// Decision reports whether a request may proceed and, when it may not, how
// long the caller should wait.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
	Window     string
}

// IntakeLimiter caps how often a patient can start a new workflow session.
// Each window is a Redis counter keyed by patient and window start, expiring
// with the window.
type IntakeLimiter struct {
	redis   contracts.RedisRepository
	log     *zap.Logger
	windows []Window
}

func NewIntakeLimiter(redis contracts.RedisRepository, log *zap.Logger, windows ...Window) *IntakeLimiter {
	return &IntakeLimiter{redis: redis, log: log, windows: windows}
}

// Allow counts the request against every window. Redis failures let the
// request through so an outage of the limiter never blocks intake.
func (l *IntakeLimiter) Allow(ctx context.Context, patientID string, now time.Time) Decision {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	for _, window := range l.windows {
		if window.Quota <= 0 || window.Duration <= 0 {
			continue
		}

		windowStart := now.UTC().Truncate(window.Duration)
		key := fmt.Sprintf("%s%s:%s:%d", constvars.RedisKeyIntakeLimitPrefix, window.Name, patientID, windowStart.Unix())

		count, err := l.redis.Increment(ctx, key)
		if err != nil {
			l.log.Warn("IntakeLimiter.Allow counter unavailable",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, key),
				zap.Error(err),
			)
			continue
		}
		if count == 1 {
			if _, err := l.redis.Expire(ctx, key, window.Duration); err != nil {
				l.log.Warn("IntakeLimiter.Allow failed to set window expiry",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingRedisKey, key),
					zap.Error(err),
				)
			}
		}

		if count > int64(window.Quota) {
			retryAfter := windowStart.Add(window.Duration).Sub(now)
			l.log.Info("IntakeLimiter.Allow quota exceeded",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPatientIDKey, patientID),
				zap.String("window", window.Name),
				zap.Int64(constvars.LoggingCountKey, count),
			)
			return Decision{Allowed: false, RetryAfter: retryAfter, Window: window.Name}
		}
	}
	return Decision{Allowed: true}
}
