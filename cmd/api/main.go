// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Timekeep HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build the token verifier and the manager-access resolver.
//  7. Wire HTTP handlers and the team watchers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sony/gobreaker"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/api"
	"github.com/taibuivan/timekeep/internal/dashboard"
	"github.com/taibuivan/timekeep/internal/platform/config"
	"github.com/taibuivan/timekeep/internal/platform/constants"
	"github.com/taibuivan/timekeep/internal/platform/metrics"
	"github.com/taibuivan/timekeep/internal/platform/middleware"
	"github.com/taibuivan/timekeep/internal/platform/migration"
	pgstore "github.com/taibuivan/timekeep/internal/platform/postgres"
	redisstore "github.com/taibuivan/timekeep/internal/platform/redis"
	"github.com/taibuivan/timekeep/internal/platform/sec"
	"github.com/taibuivan/timekeep/internal/team"
	"github.com/taibuivan/timekeep/internal/timesheet"
	"github.com/taibuivan/timekeep/internal/users/profile"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("service", constants.AppName), slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("timezone", cfg.Timezone),
		slog.Int("edit_window_days", cfg.EditWindowDays),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives until shutdown; stops the rate limiter sweep.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

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

	// ── 6. Identity & Access ──────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPubKeyPath, "", cfg.JWTIssuer)
	must(log, err, "initialize token verifier")

	appMetrics := metrics.New()

	profiles := profile.NewPostgresRepository(pool)

	breakerSettings := access.DefaultBreakerSettings()
	breakerSettings.CallTimeout = cfg.RoleLookupTimeout
	breakerSettings.Logger = log
	roleLookup := access.NewGuardedLookup(profiles, breakerSettings)

	resolver := access.NewResolver(middleware.ClaimsSession{}, roleLookup,
		access.WithDepartments(profiles),
		access.WithLookupTimeout(cfg.RoleLookupTimeout),
		access.WithMetrics(appMetrics),
	)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
		CheckRoleLookup: func(context.Context) error {
			if state := roleLookup.State(); state == gobreaker.StateOpen {
				return fmt.Errorf("role lookup circuit is %s", state)
			}
			return nil
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	window := timesheet.NewEditWindow(cfg.EditWindowDays, cfg.Location())

	entryService := timesheet.NewService(
		timesheet.NewPostgresRepository(pool),
		timesheet.NewRedisDraftStore(rdb),
		window,
		cfg.DraftTTL,
		appMetrics,
	)

	teamService := team.NewService(team.NewPostgresStore(pool), window)
	watchers := team.NewRegistry(teamService, team.WatcherOptions{
		Interval: cfg.TeamPollInterval,
		Logger:   log,
		Metrics:  appMetrics,
	})
	defer watchers.Close()

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Profile:   profile.NewHandler(profile.NewService(profiles)),
		Entries:   timesheet.NewHandler(entryService),
		Dashboard: dashboard.NewHandler(dashboard.NewService(entryService)),
		Team:      team.NewHandler(teamService, watchers),
	}

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log, api.Dependencies{
		Verifier: tokens,
		Resolver: resolver,
		Metrics:  appMetrics,
	}, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
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

	// Streams hold their connections open; stop the watchers before draining.
	watchers.Close()

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger carrying the global app attribute.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", "timekeep"))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
