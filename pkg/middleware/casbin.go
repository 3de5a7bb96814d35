package middleware

import (
	"ScholarsBox/internal/auth"
	"ScholarsBox/internal/config"
	"fmt"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act, eft

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

const anyMethod = "^(GET|POST|PUT|DELETE)$"

// defaultPolicies apply when no RBAC_POLICY_FILE is configured. Admins
// inherit everything viewers may do.
var defaultPolicies = [][]string{
	{auth.RoleViewer, "/api/admin/check-auth", "^GET$", "allow"},
	{auth.RoleViewer, "/api/admin/dashboard", "^GET$", "allow"},
	{auth.RoleViewer, "/api/admin/analytics", "^GET$", "allow"},
	{auth.RoleViewer, "/api/scholarships/studentlist", "^GET$", "allow"},
	{auth.RoleAdmin, "/api/admin/*", anyMethod, "allow"},
	{auth.RoleAdmin, "/api/scholarships/*", anyMethod, "allow"},
	{auth.RoleAdmin, "applicants", "^read-pii$", "allow"},
}

var defaultGroupings = [][]string{
	{auth.RoleAdmin, auth.RoleViewer},
}

// RBAC wraps the casbin enforcer for route checks and capability checks.
type RBAC struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

func NewRBAC(cfg *config.AppConfig, logger *zap.Logger) (*RBAC, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}

	var enforcer *casbin.Enforcer
	if cfg.RBACPolicyFile != "" {
		enforcer, err = casbin.NewEnforcer(m, fileadapter.NewAdapter(cfg.RBACPolicyFile))
		if err != nil {
			return nil, fmt.Errorf("create casbin enforcer from %s: %w", cfg.RBACPolicyFile, err)
		}
	} else {
		enforcer, err = casbin.NewEnforcer(m)
		if err != nil {
			return nil, fmt.Errorf("create casbin enforcer: %w", err)
		}
		if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
			return nil, err
		}
		if _, err := enforcer.AddGroupingPolicies(defaultGroupings); err != nil {
			return nil, err
		}
	}

	policies, _ := enforcer.GetPolicy()
	logger.Info("Casbin enforcer created", zap.Int("policies", len(policies)))
	return &RBAC{enforcer: enforcer, logger: logger}, nil
}

// Can reports whether role may perform act on obj. Enforcement errors deny.
func (r *RBAC) Can(role, obj, act string) bool {
	allowed, err := r.enforcer.Enforce(role, obj, act)
	if err != nil {
		r.logger.Error("Casbin enforce error", zap.Error(err))
		return false
	}
	return allowed
}

// Middleware enforces route-level RBAC for the authenticated caller.
func (r *RBAC) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get("user").(*auth.JWTClaims)
		if !ok || claims == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized: missing user claims"})
		}
		obj := c.Path()
		act := c.Request().Method
		if !r.Can(claims.Role, obj, act) {
			r.logger.Info("Casbin denied",
				zap.String("role", claims.Role),
				zap.String("obj", obj),
				zap.String("act", act))
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden: insufficient permissions"})
		}
		return next(c)
	}
}
