// Copyright (c) 2026 Maestro Platform. All rights reserved.

// Command api is the entry point for the Maestro HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Seed the SUPERADMIN account (idempotent).
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maestroride/maestro/internal/api"
	"github.com/maestroride/maestro/internal/auth"
	"github.com/maestroride/maestro/internal/platform/config"
	"github.com/maestroride/maestro/internal/platform/constants"
	"github.com/maestroride/maestro/internal/platform/middleware"
	"github.com/maestroride/maestro/internal/platform/migration"
	pgstore "github.com/maestroride/maestro/internal/platform/postgres"
	redisstore "github.com/maestroride/maestro/internal/platform/redis"
	"github.com/maestroride/maestro/internal/platform/sec"
	"github.com/maestroride/maestro/internal/users"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Codec ────────────────────────────────────────────────────
	codec, err := sec.NewTokenCodec(
		cfg.JWTAccessSecret, cfg.JWTRefreshSecret,
		cfg.JWTAccessTTL, cfg.JWTRefreshTTL,
		constants.AuthIssuer,
	)
	must(log, err, "initialize token codec")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	userRepository := users.NewPostgresRepository(pool)
	userService := users.NewService(userRepository, cfg.BcryptCost, log)
	userHandler := users.NewHandler(userService)

	throttle := auth.NewSignInThrottle(rdb, log)
	authService := auth.NewService(userRepository, codec, throttle, log)
	authHandler := auth.NewHandler(authService, auth.CookieSettings{
		AccessName:  cfg.AccessCookieName,
		RefreshName: cfg.RefreshCookieName,
		Secure:      !cfg.IsDevelopment(),
	})

	guard := middleware.NewGuard(codec, userRepository, cfg.AccessCookieName)

	// ── 8. SUPERADMIN Seed ────────────────────────────────────────────────
	must(log,
		userService.EnsureSuperAdmin(startupCtx, cfg.SuperAdminEmail, cfg.SuperAdminPassword),
		"seed superadmin account")

	// ── 9. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		User:      userHandler,
	}

	server := api.NewServer(context.Background(), cfg, log, guard, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
