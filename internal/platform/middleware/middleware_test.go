// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/timekeep/internal/platform/ctxutil"
	"github.com/taibuivan/timekeep/internal/platform/middleware"
)

type appConfig struct {
	dev     bool
	origins []string
}

func (c appConfig) IsDevelopment() bool      { return c.dev }
func (c appConfig) AllowedOrigins() []string { return c.origins }

var noop = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

/*
TestCORS verifies which origins are echoed back in production.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(appConfig{origins: []string{"https://partner.example.com/"}})(noop)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://timekeep.app", true},
		{"https://staging.timekeep.app", true},
		{"https://partner.example.com", true},
		{"http://timekeep.app", false},
		{"https://eviltimekeep.app", false},
		{"https://timekeep.app.evil.io", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler := middleware.CORS(appConfig{dev: true})(noop)

	request := httptest.NewRequest(http.MethodOptions, "/api/v1/entries", nil)
	request.Header.Set("Origin", "http://localhost:5173")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecureHeaders(t *testing.T) {
	handler := middleware.SecureHeaders(appConfig{dev: true})(noop)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", recorder.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", recorder.Header().Get("Referrer-Policy"))
}

/*
TestRateLimit verifies that a burst beyond the bucket size is rejected per IP.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler := middleware.RateLimit(ctx)(noop)

	limited := 0
	for range 150 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Real-IP", "203.0.113.7")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		if recorder.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Positive(t, limited)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Real-IP", "203.0.113.8")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	var seenID string
	var seenLogger *slog.Logger
	handler := middleware.RequestID()(middleware.StructuredLogger(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = ctxutil.GetRequestID(r.Context())
		seenLogger = ctxutil.GetLogger(r.Context())
	})))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "req-42")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "req-42", seenID)
	assert.Equal(t, "req-42", recorder.Header().Get("X-Request-ID"))
	assert.NotNil(t, seenLogger)
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

/*
TestTimeout verifies that event streams keep a context without deadline.
*/
func TestTimeout(t *testing.T) {
	var hasDeadline bool
	handler := middleware.Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, hasDeadline)

	request := httptest.NewRequest(http.MethodGet, "/stream", nil)
	request.Header.Set("Accept", "text/event-stream")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.False(t, hasDeadline)
}
