// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/access/mocks"
	"github.com/taibuivan/timekeep/internal/platform/metrics"
	"github.com/taibuivan/timekeep/internal/platform/middleware"
	"github.com/taibuivan/timekeep/internal/platform/sec"
)

// staticVerifier accepts "good-<user>" tokens and rejects everything else.
type staticVerifier map[string]*sec.AuthClaims

func (v staticVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	claims, ok := v[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

var verifier = staticVerifier{
	"good-staff":   {UserID: "u-staff", Role: "staff"},
	"good-manager": {UserID: "u-manager", Role: "manager"},
	// The token still says admin, the profile store says staff.
	"good-demoted": {UserID: "u-demoted", Role: "admin"},
}

func newGuardedRouter(t *testing.T, m *metrics.Metrics) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	roles := mocks.NewMockRoleLookup(ctrl)
	roles.EXPECT().RoleByID(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, userID string) (access.Role, error) {
			switch userID {
			case "u-manager":
				return access.RoleManager, nil
			case "u-staff", "u-demoted":
				return access.RoleStaff, nil
			}
			return "", access.ErrProfileNotFound
		}).AnyTimes()

	resolver := access.NewResolver(middleware.ClaimsSession{}, roles, access.WithMetrics(m))
	ok := func(w http.ResponseWriter, r *http.Request) {
		result, _ := access.ManagerAccessFrom(r.Context())
		_, _ = w.Write([]byte(result.Role))
	}

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(verifier))
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth, middleware.ResolveAccess(resolver))
		r.With(middleware.RequireRoute(access.RouteEntry, m)).Get("/entries", ok)
		r.With(middleware.RequireRoute(access.RouteTeam, m)).Get("/team", ok)
	})
	return router
}

func serve(router http.Handler, path, token, accept string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	if accept != "" {
		request.Header.Set("Accept", accept)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestRouteGuard verifies the full authentication, resolution and route chain.
*/
func TestRouteGuard(t *testing.T) {
	m := metrics.New()
	router := newGuardedRouter(t, m)

	tests := []struct {
		name   string
		path   string
		token  string
		accept string
		status int
		body   string
	}{
		{"anonymous_api", "/entries", "", "", http.StatusUnauthorized, ""},
		{"anonymous_browser", "/team", "", "text/html,application/xhtml+xml", http.StatusFound, ""},
		{"bad_token", "/entries", "forged", "", http.StatusUnauthorized, ""},
		{"staff_entry", "/entries", "good-staff", "", http.StatusOK, "staff"},
		{"staff_team", "/team", "good-staff", "", http.StatusForbidden, ""},
		{"manager_team", "/team", "good-manager", "", http.StatusOK, "manager"},
		{"stale_token_role", "/team", "good-demoted", "", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(router, tt.path, tt.token, tt.accept)
			require.Equal(t, tt.status, recorder.Code, recorder.Body.String())
			if tt.body != "" {
				assert.Equal(t, tt.body, recorder.Body.String())
			}
			if tt.status == http.StatusFound {
				assert.Equal(t, "/login", recorder.Header().Get("Location"))
			}
		})
	}

	expected := `
# HELP timekeep_route_decisions_total Route permission decisions by route and outcome.
# TYPE timekeep_route_decisions_total counter
timekeep_route_decisions_total{outcome="allowed",route="/entry"} 1
timekeep_route_decisions_total{outcome="allowed",route="/team"} 1
timekeep_route_decisions_total{outcome="denied",route="/team"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "timekeep_route_decisions_total"))
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(verifier))
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {})

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Token good-staff")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestRequireRoute_WithoutResolution verifies that a missing access result is treated as anonymous.
*/
func TestRequireRoute_WithoutResolution(t *testing.T) {
	handler := middleware.RequireRoute(access.RouteDashboard, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
