package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/rmoraless/authgate/docs"
	"github.com/rmoraless/authgate/internal/api/handler"
	"github.com/rmoraless/authgate/internal/api/middleware"
	"github.com/rmoraless/authgate/internal/core/domain"
	"github.com/rmoraless/authgate/internal/core/ports"
)

// Dependencies carries the collaborators the router wires into handlers and
// middleware. Everything is supplied explicitly so tests can swap in stubs.
type Dependencies struct {
	AuthService ports.AuthService
	Tokens      ports.TokenCodec
	Users       ports.UserRepository
	LoginGuard  ports.LoginGuard
	Policy      *middleware.RoutePolicy
	Logger      zerolog.Logger

	// MetricsRegistry scopes HTTP metrics; nil uses the process-wide default
	// registry. Tests inject a fresh registry per router to avoid duplicate
	// collector registration.
	MetricsRegistry *prometheus.Registry

	// Optional: only used by the readiness probe.
	Mongo *mongo.Database
	Redis *redis.Client
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	policy := deps.Policy
	if policy == nil {
		policy = middleware.DefaultRoutePolicy()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	if deps.MetricsRegistry != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "authgate",
			Registerer: deps.MetricsRegistry,
		}))
	} else {
		e.Use(echoprometheus.NewMiddleware("authgate"))
	}
	e.Use(middleware.Authenticate(deps.Tokens, deps.Users, deps.Logger))
	e.Use(middleware.Policy(policy))

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.LoginGuard)

	// --- Auth routes ---
	auth := e.Group("/api/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/admin", authHandler.Admin)
	auth.GET("/user", authHandler.User)
	auth.GET("/test", authHandler.Test, middleware.RequireRoles(domain.RoleAdmin))

	// --- Operational endpoints (public entries in the policy table) ---
	if deps.MetricsRegistry != nil {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: deps.MetricsRegistry,
		}))
	} else {
		e.GET("/metrics", echoprometheus.NewHandler())
	}
	e.GET("/swagger/*", echoswagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	if deps.Mongo != nil {
		e.GET("/health/ready", handler.NewReadinessHandler(deps.Mongo, deps.Redis).Readiness)
	}

	return e
}
