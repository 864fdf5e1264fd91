package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rmoraless/authgate/internal/api/metrics"
	"github.com/rmoraless/authgate/internal/core/domain"
)

// Decision is the outcome of evaluating the route policy for a request.
type Decision int

const (
	Allow Decision = iota
	// Unauthenticated means the rule needs a principal and none is present.
	Unauthenticated
	// Forbidden means a principal is present but its role is insufficient.
	Forbidden
)

// Rule is one entry of the ordered route policy table.
//
// Pattern is an exact path unless it ends in "/", in which case it matches
// the prefix. An empty Methods slice matches every method. Exactly one of
// Public, AnyAuthenticated or Roles describes the requirement.
type Rule struct {
	Pattern          string
	Methods          []string
	Public           bool
	AnyAuthenticated bool
	Roles            []string
}

func (r Rule) matches(path, method string) bool {
	if strings.HasSuffix(r.Pattern, "/") {
		if !strings.HasPrefix(path, r.Pattern) {
			return false
		}
	} else if path != r.Pattern {
		return false
	}
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// RoutePolicy is an ordered rule table, evaluated top to bottom with first
// match winning. It is built once at startup and read-only afterwards, so it
// is safe for concurrent use without locking.
type RoutePolicy struct {
	rules []Rule
}

func NewRoutePolicy(rules []Rule) *RoutePolicy {
	return &RoutePolicy{rules: rules}
}

// DefaultRoutePolicy is the gateway's route table:
//
//  1. /api/v1/auth/admin           → ADMIN only
//  2. /api/v1/auth/user            → USER or ADMIN
//  3. POST /api/v1/auth/**         → public (register, login)
//  4. /api/v1/**                   → any authenticated principal
//  5. operational endpoints        → public (health, metrics, swagger)
//  6. everything else              → any authenticated principal
func DefaultRoutePolicy() *RoutePolicy {
	return NewRoutePolicy([]Rule{
		{Pattern: "/api/v1/auth/admin", Roles: []string{domain.RoleAdmin}},
		{Pattern: "/api/v1/auth/user", Roles: []string{domain.RoleUser, domain.RoleAdmin}},
		{Pattern: "/api/v1/auth/", Methods: []string{http.MethodPost}, Public: true},
		{Pattern: "/api/v1/", AnyAuthenticated: true},
		{Pattern: "/health", Public: true},
		{Pattern: "/health/", Public: true},
		{Pattern: "/metrics", Public: true},
		{Pattern: "/swagger/", Public: true},
	})
}

// Authorize evaluates the table for path and method against p. Requests that
// match no rule require an authenticated principal.
func (rp *RoutePolicy) Authorize(path, method string, p *domain.Principal) Decision {
	for _, r := range rp.rules {
		if !r.matches(path, method) {
			continue
		}
		return decide(r, p)
	}
	// Default rule: authenticated-any.
	if p == nil {
		return Unauthenticated
	}
	return Allow
}

func decide(r Rule, p *domain.Principal) Decision {
	switch {
	case r.Public:
		return Allow
	case r.AnyAuthenticated:
		if p == nil {
			return Unauthenticated
		}
		return Allow
	default:
		if p == nil {
			return Unauthenticated
		}
		if !p.HasAnyRole(r.Roles...) {
			return Forbidden
		}
		return Allow
	}
}

// Policy enforces the route table after authentication ran. It distinguishes
// the two deny causes so the boundary can render 401 vs 403.
func Policy(rp *RoutePolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch rp.Authorize(c.Request().URL.Path, c.Request().Method, PrincipalFrom(c)) {
			case Allow:
				metrics.AuthzDecisionsTotal.WithLabelValues("allow").Inc()
				return next(c)
			case Forbidden:
				metrics.AuthzDecisionsTotal.WithLabelValues("forbidden").Inc()
				return domain.ErrForbidden
			default:
				metrics.AuthzDecisionsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}
		}
	}
}
