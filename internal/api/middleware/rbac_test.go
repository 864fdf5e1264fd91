package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rmoraless/authgate/internal/core/domain"
)

func runRBAC(t *testing.T, p *domain.Principal, roles ...string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if p != nil {
		SetPrincipal(c, p)
	}

	mw := RequireRoles(roles...)
	return mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
}

func TestRequireRoles_Allowed(t *testing.T) {
	admin := &domain.Principal{ID: "1", Username: "root", Role: domain.RoleAdmin}
	if err := runRBAC(t, admin, domain.RoleAdmin); err != nil {
		t.Fatalf("expected admin to pass, got %v", err)
	}
}

func TestRequireRoles_WrongRole(t *testing.T) {
	user := &domain.Principal{ID: "2", Username: "alice", Role: domain.RoleUser}
	if err := runRBAC(t, user, domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRoles_NoPrincipal(t *testing.T) {
	if err := runRBAC(t, nil, domain.RoleAdmin); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
