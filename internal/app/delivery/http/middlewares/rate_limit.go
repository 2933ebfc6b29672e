package middlewares

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"
	"teleconsult-service/internal/pkg/utils"

	"github.com/go-chi/httprate"
)

// GlobalRateLimit caps requests per client IP per second.
func (m *Middlewares) GlobalRateLimit() func(next http.Handler) http.Handler {
	return httprate.LimitByIP(m.InternalConfig.App.MaxRequests, time.Second)
}

// IntakeLimit throttles how often the authenticated patient may start a new
// workflow session.
func (m *Middlewares) IntakeLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.IntakeLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		actor := ActorFromContext(r.Context())
		decision := m.IntakeLimiter.Allow(r.Context(), actor.ID, time.Now())
		if !decision.Allowed {
			seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
			w.Header().Set(constvars.HeaderRetryAfter, strconv.Itoa(seconds))
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTooManyRequests(nil, decision.Window))
			return
		}
		next.ServeHTTP(w, r)
	})
}
