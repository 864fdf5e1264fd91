package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rmoraless/authgate/internal/api/metrics"
	"github.com/rmoraless/authgate/internal/core/domain"
	"github.com/rmoraless/authgate/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	loginGuard  ports.LoginGuard
}

func NewAuthHandler(authService ports.AuthService, loginGuard ports.LoginGuard) *AuthHandler {
	if loginGuard == nil {
		loginGuard = noopLoginGuard{}
	}
	return &AuthHandler{authService: authService, loginGuard: loginGuard}
}

// noopLoginGuard is used when no throttle is configured.
type noopLoginGuard struct{}

func (noopLoginGuard) Allowed(context.Context, string) (bool, error) { return true, nil }
func (noopLoginGuard) RecordFailure(context.Context, string) error   { return nil }
func (noopLoginGuard) Reset(context.Context, string) error           { return nil }

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=USER ADMIN"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusOK, userResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
}

// Login authenticates a user and returns a signed bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if ok, err := h.loginGuard.Allowed(ctx, req.Username); err == nil && !ok {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return domain.ErrTooManyAttempts
	}

	user, token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		// Unknown user and wrong password render identically so the
		// response cannot be used to enumerate usernames.
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			_ = h.loginGuard.RecordFailure(ctx, req.Username)
			return domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	_ = h.loginGuard.Reset(ctx, req.Username)
	return c.JSON(http.StatusOK, tokenResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	})
}

// Admin greets principals holding the ADMIN role.
//
// @Summary      Admin-only greeting
// @Tags         auth
// @Produce      plain
// @Success      200  {string}  string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/auth/admin [get]
func (h *AuthHandler) Admin(c echo.Context) error {
	return c.String(http.StatusOK, "Hello Admin")
}

// User greets any authenticated principal with the USER or ADMIN role.
//
// @Summary      User greeting
// @Tags         auth
// @Produce      plain
// @Success      200  {string}  string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/auth/user [get]
func (h *AuthHandler) User(c echo.Context) error {
	return c.String(http.StatusOK, "Hello User")
}

// Test is an ADMIN-gated probe; its role check sits on the route itself
// rather than in the policy table.
//
// @Summary      Route-level RBAC probe
// @Tags         auth
// @Produce      plain
// @Success      200  {string}  string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/auth/test [get]
func (h *AuthHandler) Test(c echo.Context) error {
	return c.String(http.StatusOK, "Hello Test")
}
