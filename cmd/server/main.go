package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rmoraless/authgate/internal/api"
	"github.com/rmoraless/authgate/internal/api/middleware"
	"github.com/rmoraless/authgate/internal/core/service"
	"github.com/rmoraless/authgate/internal/infrastructure/config"
	"github.com/rmoraless/authgate/internal/infrastructure/crypto"
	mongodb "github.com/rmoraless/authgate/internal/infrastructure/db/mongo"
	redisdb "github.com/rmoraless/authgate/internal/infrastructure/db/redis"
	"github.com/rmoraless/authgate/pkg/logger"
)

// @title        AuthGate API
// @version      1.0
// @description  Stateless authentication and authorization gateway.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	signingKey, err := cfg.SigningKey()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid signing key")
	}

	// --- Mongo ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}()

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Core services ---
	tokens := service.NewTokenService(signingKey, cfg.TokenTTL(), nil)
	hasher := crypto.NewBcryptHasher(cfg.BcryptCost)
	authService := service.NewAuthService(users, hasher, tokens, log)
	loginGuard := redisdb.NewLoginGuard(rdb, cfg.LoginMaxFails, cfg.LoginFailWindow)

	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		Tokens:      tokens,
		Users:       users,
		LoginGuard:  loginGuard,
		Policy:      middleware.DefaultRoutePolicy(),
		Logger:      log,
		Mongo:       db,
		Redis:       rdb,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("authgate listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("authgate stopped")
}
