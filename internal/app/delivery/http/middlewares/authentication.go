package middlewares

import (
	"context"
	"net/http"
	"strings"

	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"
	"teleconsult-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate validates the bearer token and stores the actor in the context.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if authHeader == "" || !strings.HasPrefix(authHeader, constvars.HeaderBearerPrefix) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, constvars.HeaderBearerPrefix))
		claims, err := utils.ParseAccessToken(token, m.InternalConfig.JWT.Secret)
		if err != nil {
			requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			utils.LogSecurityEvent(m.Log, "invalid_access_token", requestID, utils.SeverityLow,
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_ACTOR_ID_KEY, claims.Subject)
		ctx = context.WithValue(ctx, constvars.CONTEXT_ACTOR_ROLE_KEY, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ActorFromContext(ctx context.Context) Actor {
	id, _ := ctx.Value(constvars.CONTEXT_ACTOR_ID_KEY).(string)
	role, _ := ctx.Value(constvars.CONTEXT_ACTOR_ROLE_KEY).(string)
	return Actor{ID: id, Role: role}
}
