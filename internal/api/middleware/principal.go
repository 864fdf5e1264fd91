package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/rmoraless/authgate/internal/core/domain"
)

// principalKey is the echo context key under which the authenticated
// principal is stored. Unexported so only this package can write it.
const principalKey = "authgate.principal"

// SetPrincipal attaches p to the request context. The attach is idempotent:
// once a principal is present, later calls are no-ops, so a second pass of
// the authentication middleware cannot swap identities mid-request.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	if p == nil {
		return
	}
	if existing := PrincipalFrom(c); existing != nil {
		return
	}
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal attached to the request, or nil when
// the request is anonymous.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}
