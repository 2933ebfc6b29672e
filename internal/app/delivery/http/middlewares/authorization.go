package middlewares

import (
	"fmt"
	"net/http"

	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"
	"teleconsult-service/internal/pkg/utils"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// Permission grants a role access to a path pattern (chi style :params) for
// the methods matched by Methods.
type Permission struct {
	Role    string
	Path    string
	Methods string
}

// DefaultPermissions is the access table of the API relative to basePath.
func DefaultPermissions(basePath string) []Permission {
	everyone := []string{constvars.RolePatient, constvars.RoleDoctor, constvars.RoleAdmin}
	permissions := []Permission{
		{constvars.RolePatient, basePath + "/symptoms/collect", "POST"},
		{constvars.RolePatient, basePath + "/symptoms/collect_detailed_symptoms", "POST"},
		{constvars.RolePatient, basePath + "/select-consultation", "POST"},
		{constvars.RolePatient, basePath + "/confirm-payment", "POST"},
		{constvars.RolePatient, basePath + "/sessions/:id", "GET"},
		{constvars.RolePatient, basePath + "/consultations", "GET"},
		{constvars.RolePatient, basePath + "/consultations/active", "GET"},
		{constvars.RoleAdmin, basePath + "/doctor-shifts", "GET|POST"},
		{constvars.RoleAdmin, basePath + "/doctor-shifts/:id", "PUT|DELETE"},
		{constvars.RoleAdmin, basePath + "/consultations/:id/refund", "POST"},
		{constvars.RoleDoctor, basePath + "/consultations/:id/diagnosis", "POST"},
	}
	for _, role := range everyone {
		permissions = append(permissions,
			Permission{role, basePath + "/doctor-shifts/current-doctor", "GET"},
			Permission{role, basePath + "/consultations/:id", "GET"},
			Permission{role, basePath + "/consultations/:id/status", "PATCH"},
		)
	}
	return permissions
}

// NewEnforcer loads permissions into an in-memory casbin enforcer.
func NewEnforcer(permissions []Permission) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	rules := make([][]string, 0, len(permissions))
	for _, permission := range permissions {
		rules = append(rules, []string{permission.Role, permission.Path, fmt.Sprintf("^(%s)$", permission.Methods)})
	}
	if _, err := enforcer.AddPolicies(rules); err != nil {
		return nil, err
	}
	return enforcer, nil
}

// Authorize checks the authenticated actor against the enforcer. It must run
// after Authenticate.
func (m *Middlewares) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := ActorFromContext(r.Context())
		allowed, err := m.Enforcer.Enforce(actor.Role, r.URL.Path, r.Method)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerProcess(err))
			return
		}
		if !allowed {
			requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			utils.LogSecurityEvent(m.Log, "role_not_allowed", requestID, utils.SeverityMedium,
				zap.String("actor_id", actor.ID),
				zap.String("actor_role", actor.Role),
				zap.String(constvars.LoggingMethodKey, r.Method),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrRoleNotAllowed(nil, actor.Role))
			return
		}
		next.ServeHTTP(w, r)
	})
}
