// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package team

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/timekeep/internal/platform/constants"
	"github.com/taibuivan/timekeep/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/timekeep/internal/platform/request"
	"github.com/taibuivan/timekeep/internal/platform/respond"
)

// Handler serves the team compliance endpoints.
type Handler struct {
	service   *Service
	registry  *Registry
	heartbeat time.Duration
}

// NewHandler creates a new Handler.
func NewHandler(service *Service, registry *Registry) *Handler {
	return &Handler{service: service, registry: registry, heartbeat: constants.StreamHeartbeatInterval}
}

// RegisterRoutes mounts the compliance endpoints. The caller guards them with the team route.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/compliance", handler.getCompliance)
	router.Get("/compliance/stream", handler.streamCompliance)
	router.Post("/compliance/refresh", handler.refreshCompliance)
}

// RefreshResult is returned by the refresh endpoint.
type RefreshResult struct {
	Snapshot    *Snapshot `json:"snapshot"`
	LastUpdated time.Time `json:"last_updated"`
	Polling     bool      `json:"polling"`
}

/*
GET /api/v1/team/compliance.

Description: Reads a fresh snapshot of the caller's scope.

Response:
  - 200: Snapshot
  - 403: ErrForbidden
*/
func (handler *Handler) getCompliance(writer http.ResponseWriter, request *http.Request) {
	scope, err := handler.scope(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	snapshot, err := handler.service.Snapshot(request.Context(), scope)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, snapshot)
}

/*
GET /api/v1/team/compliance/stream.

Description: Server-Sent Events stream. Each "snapshot" event carries the
latest compliance of the caller's scope. Comment lines keep idle connections open.
*/
func (handler *Handler) streamCompliance(writer http.ResponseWriter, request *http.Request) {
	scope, err := handler.scope(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	watcher, release, err := handler.registry.Acquire(scope)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer release()

	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)
	controller := http.NewResponseController(writer)

	// The server write timeout would cut the stream.
	_ = controller.SetWriteDeadline(time.Time{})

	header := writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	writer.WriteHeader(http.StatusOK)
	if err := controller.Flush(); err != nil {
		logger.ErrorContext(ctx, "stream_flush_unsupported", slog.String("error", err.Error()))
		return
	}

	updates, leave := watcher.Join()
	defer leave()

	logger.InfoContext(ctx, "team_stream_joined", slog.String("scope", scope.Key()))

	heartbeat := time.NewTicker(handler.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-watcher.Done():
			return

		case snapshot := <-updates:
			if err := writeEvent(writer, snapshot); err != nil {
				logger.WarnContext(ctx, "team_stream_write_failed", slog.String("error", err.Error()))
				return
			}

		case <-heartbeat.C:
			if _, err := fmt.Fprint(writer, ": heartbeat\n\n"); err != nil {
				return
			}
		}

		if err := controller.Flush(); err != nil {
			return
		}
	}
}

/*
POST /api/v1/team/compliance/refresh.

Description: Refreshes the watched snapshot now and restarts its countdown.
A failed refresh still returns the last good snapshot.

Response:
  - 200: RefreshResult
*/
func (handler *Handler) refreshCompliance(writer http.ResponseWriter, request *http.Request) {
	scope, err := handler.scope(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	watcher, release, err := handler.registry.Acquire(scope)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer release()

	watcher.Refresh()

	respond.OK(writer, RefreshResult{
		Snapshot:    watcher.Latest(),
		LastUpdated: watcher.LastUpdated(),
		Polling:     watcher.IsPolling(),
	})
}

func (handler *Handler) scope(request *http.Request) (Scope, error) {
	actor, err := requestutil.Actor(request)
	if err != nil {
		return Scope{}, err
	}
	return handler.service.ScopeFor(actor, request.URL.Query().Get(FieldDepartment))
}

func writeEvent(writer http.ResponseWriter, snapshot *Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(writer, "event: snapshot\nid: %d\ndata: %s\n\n", snapshot.GeneratedAt.UnixMilli(), payload)
	return err
}
