// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/platform/apperr"
	"github.com/taibuivan/timekeep/internal/platform/constants"
	"github.com/taibuivan/timekeep/internal/platform/ctxutil"
	"github.com/taibuivan/timekeep/internal/platform/metrics"
	"github.com/taibuivan/timekeep/internal/platform/respond"
	"github.com/taibuivan/timekeep/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// AccessResolver resolves the capabilities of the authenticated user.
type AccessResolver interface {
	CheckManagerAccess(ctx context.Context) (access.ManagerAccess, error)
}

// # Authentication

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Browser navigations (Accept: text/html) are redirected to the login page;
// API calls get 401. Must be registered AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			unauthenticated(writer, request)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// ClaimsSession implements [access.SessionProvider] on top of the verified JWT claims.
type ClaimsSession struct{}

// CurrentUser returns the user id carried by the verified token.
func (ClaimsSession) CurrentUser(ctx context.Context) (string, bool) {
	claims := ctxutil.GetAuthUser(ctx)
	if claims == nil || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}

// # Authorization

// ResolveAccess runs the manager-access resolver once per request and stores
// the result for [RequireRoute] and the handlers.
//
// The resolver fails closed, so the only error it reports is a missing session.
func ResolveAccess(resolver AccessResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			result, err := resolver.CheckManagerAccess(request.Context())
			if errors.Is(err, access.ErrUnauthenticated) {
				unauthenticated(writer, request)
				return
			}
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := access.WithManagerAccess(request.Context(), result)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRoute allows the request only if the resolved role may open route.
//
// Must be registered AFTER [ResolveAccess]; without a resolved result the
// request is treated as anonymous and denied.
func RequireRoute(route access.Route, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			var role *access.Role
			if result, ok := access.ManagerAccessFrom(request.Context()); ok {
				role = &result.Role
			}

			allowed := access.CanAccessRoute(role, string(route))
			m.RouteDecision(string(route), allowed)

			if !allowed {
				if role == nil {
					unauthenticated(writer, request)
					return
				}
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "route_denied",
					slog.String("route", string(route)),
					slog.String("role", role.String()),
				)
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// unauthenticated redirects browsers to the login page and answers 401 otherwise.
func unauthenticated(writer http.ResponseWriter, request *http.Request) {
	if request.Method == http.MethodGet && strings.Contains(request.Header.Get(constants.HeaderAccept), "text/html") {
		http.Redirect(writer, request, constants.LoginPath, http.StatusFound)
		return
	}
	respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
}
