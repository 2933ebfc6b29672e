package middlewares

import (
	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/app/services/shared/ratelimiter"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Middlewares struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	IntakeLimiter  *ratelimiter.IntakeLimiter
	Enforcer       *casbin.Enforcer
}

func NewMiddlewares(logger *zap.Logger, internalConfig *config.InternalConfig, intakeLimiter *ratelimiter.IntakeLimiter, enforcer *casbin.Enforcer) *Middlewares {
	return &Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		IntakeLimiter:  intakeLimiter,
		Enforcer:       enforcer,
	}
}

// Actor is the authenticated caller.
type Actor struct {
	ID   string
	Role string
}
