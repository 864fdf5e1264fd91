package middleware

import (
	"net/http"
	"testing"

	"github.com/rmoraless/authgate/internal/core/domain"
)

func TestRoutePolicy_Authorize(t *testing.T) {
	rp := DefaultRoutePolicy()

	admin := &domain.Principal{ID: "1", Username: "root", Role: domain.RoleAdmin}
	user := &domain.Principal{ID: "2", Username: "alice", Role: domain.RoleUser}

	tests := []struct {
		name      string
		path      string
		method    string
		principal *domain.Principal
		want      Decision
	}{
		{"admin route with admin", "/api/v1/auth/admin", http.MethodGet, admin, Allow},
		{"admin route with user", "/api/v1/auth/admin", http.MethodGet, user, Forbidden},
		{"admin route anonymous", "/api/v1/auth/admin", http.MethodGet, nil, Unauthenticated},
		{"user route with user", "/api/v1/auth/user", http.MethodGet, user, Allow},
		{"user route with admin", "/api/v1/auth/user", http.MethodGet, admin, Allow},
		{"user route anonymous", "/api/v1/auth/user", http.MethodGet, nil, Unauthenticated},
		{"register is public", "/api/v1/auth/register", http.MethodPost, nil, Allow},
		{"login is public", "/api/v1/auth/login", http.MethodPost, nil, Allow},
		{"GET on auth namespace is not public", "/api/v1/auth/whoami", http.MethodGet, nil, Unauthenticated},
		{"protected namespace anonymous", "/api/v1/things", http.MethodGet, nil, Unauthenticated},
		{"protected namespace with user", "/api/v1/things", http.MethodGet, user, Allow},
		{"health is public", "/health", http.MethodGet, nil, Allow},
		{"readiness is public", "/health/ready", http.MethodGet, nil, Allow},
		{"metrics is public", "/metrics", http.MethodGet, nil, Allow},
		{"unknown route anonymous", "/other", http.MethodGet, nil, Unauthenticated},
		{"unknown route authenticated", "/other", http.MethodGet, user, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rp.Authorize(tt.path, tt.method, tt.principal); got != tt.want {
				t.Fatalf("Authorize(%s %s) = %v, want %v", tt.method, tt.path, got, tt.want)
			}
		})
	}
}

// Rule order matters: the admin rule must win over the public POST rule even
// though both could match a POST to /api/v1/auth/admin.
func TestRoutePolicy_FirstMatchWins(t *testing.T) {
	rp := DefaultRoutePolicy()

	if got := rp.Authorize("/api/v1/auth/admin", http.MethodPost, nil); got != Unauthenticated {
		t.Fatalf("POST /api/v1/auth/admin anonymous = %v, want Unauthenticated", got)
	}
	user := &domain.Principal{ID: "2", Username: "alice", Role: domain.RoleUser}
	if got := rp.Authorize("/api/v1/auth/admin", http.MethodPost, user); got != Forbidden {
		t.Fatalf("POST /api/v1/auth/admin as user = %v, want Forbidden", got)
	}
}

func TestRule_Matching(t *testing.T) {
	exact := Rule{Pattern: "/api/v1/auth/user"}
	if !exact.matches("/api/v1/auth/user", http.MethodGet) {
		t.Fatalf("exact pattern should match its own path")
	}
	if exact.matches("/api/v1/auth/username", http.MethodGet) {
		t.Fatalf("exact pattern must not match a longer path")
	}

	prefix := Rule{Pattern: "/api/v1/", Methods: []string{http.MethodPost}}
	if !prefix.matches("/api/v1/anything/below", http.MethodPost) {
		t.Fatalf("prefix pattern should match nested paths")
	}
	if prefix.matches("/api/v1/anything", http.MethodGet) {
		t.Fatalf("method filter should exclude GET")
	}
}
