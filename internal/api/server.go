// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Every protected route group is guarded by [middleware.RequireRoute] with
    the role resolved for the request, never the role carried by the token.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/dashboard"
	"github.com/taibuivan/timekeep/internal/platform/config"
	"github.com/taibuivan/timekeep/internal/platform/constants"
	"github.com/taibuivan/timekeep/internal/platform/metrics"
	"github.com/taibuivan/timekeep/internal/platform/middleware"
	"github.com/taibuivan/timekeep/internal/team"
	"github.com/taibuivan/timekeep/internal/timesheet"
	"github.com/taibuivan/timekeep/internal/users/profile"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets. A nil handler leaves
// its route group unmounted.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Profile serves /me and the admin role management.
	Profile *profile.Handler

	// Entries serves the timesheet entries and drafts.
	Entries *timesheet.Handler

	// Dashboard serves the personal summary.
	Dashboard *dashboard.Handler

	// Team serves the compliance views and stream.
	Team *team.Handler
}

// Dependencies are the cross-cutting collaborators of the router.
type Dependencies struct {
	Verifier middleware.TokenVerifier
	Resolver middleware.AccessResolver
	Metrics  *metrics.Metrics
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, deps Dependencies, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(deps.Metrics.Middleware)
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.SecureHeaders(cfg))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)
	r.Use(middleware.Timeout(constants.GlobalRequestTimeout))

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	if h.Liveness != nil {
		r.Get("/health", h.Liveness)
	}
	if h.Readiness != nil {
		r.Get("/ready", h.Readiness)
	}
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	// # Application API
	// Every group resolves the caller's role once, then checks its route.
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Authenticate(deps.Verifier))
		api.Use(middleware.RequireAuth)
		api.Use(middleware.ResolveAccess(deps.Resolver))

		guard := func(route access.Route) func(http.Handler) http.Handler {
			return middleware.RequireRoute(route, deps.Metrics)
		}

		if h.Profile != nil {
			api.Route("/me", h.Profile.RegisterMeRoutes)
			api.With(guard(access.RouteAdmin)).Route("/admin", h.Profile.RegisterAdminRoutes)
		}
		if h.Entries != nil {
			api.With(guard(access.RouteEntry)).Route("/entries", h.Entries.RegisterRoutes)
		}
		if h.Dashboard != nil {
			api.With(guard(access.RouteDashboard)).Route("/dashboard", h.Dashboard.RegisterRoutes)
		}
		if h.Team != nil {
			api.With(guard(access.RouteTeam)).Route("/team", h.Team.RegisterRoutes)
		}
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
