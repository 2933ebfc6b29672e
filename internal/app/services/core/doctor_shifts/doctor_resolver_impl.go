package doctor_shifts

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	doctorResolverInstance contracts.DoctorResolver
	onceDoctorResolver     sync.Once
)

type doctorResolver struct {
	Repository       contracts.DoctorShiftRepository
	RedisRepository  contracts.RedisRepository
	FallbackDoctorID string
	CacheTTL         time.Duration
	Log              *zap.Logger
}

func NewDoctorResolver(repository contracts.DoctorShiftRepository, redisRepository contracts.RedisRepository, internalConfig *config.InternalConfig, logger *zap.Logger) contracts.DoctorResolver {
	onceDoctorResolver.Do(func() {
		doctorResolverInstance = newDoctorResolver(
			repository,
			redisRepository,
			internalConfig.DoctorShift.FallbackDoctorID,
			time.Duration(internalConfig.DoctorShift.CacheTTLInMinutes)*time.Minute,
			logger,
		)
	})
	return doctorResolverInstance
}

func newDoctorResolver(repository contracts.DoctorShiftRepository, redisRepository contracts.RedisRepository, fallbackDoctorID string, cacheTTL time.Duration, logger *zap.Logger) *doctorResolver {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &doctorResolver{
		Repository:       repository,
		RedisRepository:  redisRepository,
		FallbackDoctorID: fallbackDoctorID,
		CacheTTL:         cacheTTL,
		Log:              logger,
	}
}

// cacheKey includes the calendar date so shifts with effective ranges never
// leak across days. Bounds inside the hour are handled by the entry TTL.
func cacheKey(version string, at time.Time) string {
	return fmt.Sprintf("%s%s:%s:%02d", constvars.RedisKeyDoctorCachePrefix, version, at.Format(time.DateOnly), at.Hour())
}

func (r *doctorResolver) Resolve(ctx context.Context, at time.Time) (*models.DoctorAssignment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	version, err := r.version(ctx)
	if err != nil {
		// Redis trouble should not block assignment; resolve from the source.
		r.Log.Warn("doctorResolver.Resolve shift version unavailable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		assignment, _, err := r.resolveFromRepository(ctx, at)
		return assignment, err
	}

	key := cacheKey(version, at)
	cached, err := r.RedisRepository.Get(ctx, key)
	if err == nil && cached != "" {
		assignment := new(models.DoctorAssignment)
		if err := json.Unmarshal([]byte(cached), assignment); err == nil {
			r.Log.Debug("doctorResolver.Resolve cache hit",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, key),
				zap.String(constvars.LoggingDoctorIDKey, assignment.DoctorID),
			)
			return assignment, nil
		}
	}

	assignment, shifts, err := r.resolveFromRepository(ctx, at)
	if err != nil {
		return nil, err
	}

	// A shift taking effect later in this hour must not be hidden by the cache.
	ttl := r.CacheTTL
	if boundary, ok := NextBoundary(at, shifts); ok && boundary.Sub(at) < ttl {
		ttl = boundary.Sub(at)
	}

	data, err := json.Marshal(assignment)
	if err == nil {
		if err := r.RedisRepository.SetRaw(ctx, key, data, ttl); err != nil {
			r.Log.Warn("doctorResolver.Resolve failed to cache assignment",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, key),
				zap.Error(err),
			)
		}
	}
	return assignment, nil
}

func (r *doctorResolver) resolveFromRepository(ctx context.Context, at time.Time) (*models.DoctorAssignment, []models.DoctorShift, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	shifts, err := r.Repository.Find(ctx, models.ShiftStatusActive, "")
	if err != nil {
		return nil, nil, err
	}

	assignment, err := Resolve(at, shifts, r.FallbackDoctorID)
	if err != nil {
		r.Log.Error("doctorResolver.Resolve no doctor available",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingHourKey, at.Hour()),
			zap.Error(err),
		)
		return nil, nil, err
	}

	if assignment.Fallback {
		r.Log.Warn("doctorResolver.Resolve using fallback doctor",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingHourKey, assignment.Hour),
			zap.String(constvars.LoggingDoctorIDKey, assignment.DoctorID),
		)
	}
	return &assignment, shifts, nil
}

// Invalidate bumps the shift-table version so every cached assignment becomes
// unreachable and ages out on its own TTL.
func (r *doctorResolver) Invalidate(ctx context.Context) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	version, err := r.RedisRepository.Increment(ctx, constvars.RedisKeyDoctorShiftVersion)
	if err != nil {
		return err
	}

	r.Log.Info("doctorResolver.Invalidate shift table version bumped",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingShiftVersionKey, version),
	)
	return nil
}

func (r *doctorResolver) version(ctx context.Context) (string, error) {
	raw, err := r.RedisRepository.Get(ctx, constvars.RedisKeyDoctorShiftVersion)
	if err != nil {
		return "", err
	}
	if raw == "" {
		return "0", nil
	}
	if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
		return "", err
	}
	return raw, nil
}
