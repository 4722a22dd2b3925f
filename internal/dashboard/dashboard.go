// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dashboard summarises the caller's editable entries.
package dashboard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/taibuivan/timekeep/internal/access"
	requestutil "github.com/taibuivan/timekeep/internal/platform/request"
	"github.com/taibuivan/timekeep/internal/platform/respond"
	"github.com/taibuivan/timekeep/internal/platform/validate"
	"github.com/taibuivan/timekeep/internal/timesheet"
)

// Summary is the dashboard payload.
type Summary struct {
	From            string                `json:"from"`
	To              string                `json:"to"`
	TotalHours      decimal.Decimal       `json:"total_hours"`
	LockingTomorrow int                   `json:"locking_tomorrow"`
	Entries         []timesheet.EntryView `json:"entries"`
}

// EntrySource is the part of the timesheet service the dashboard reads.
type EntrySource interface {
	Recent(ctx context.Context, actor access.ManagerAccess) ([]timesheet.EntryView, error)
	Window() timesheet.EditWindow
}

// Service builds dashboard summaries.
type Service struct {
	entries EntrySource
}

// NewService creates a new Service.
func NewService(entries EntrySource) *Service {
	return &Service{entries: entries}
}

// Summary returns the entries still inside the edit window with their totals.
func (service *Service) Summary(ctx context.Context, actor access.ManagerAccess) (Summary, error) {
	views, err := service.entries.Recent(ctx, actor)
	if err != nil {
		return Summary{}, err
	}

	window := service.entries.Window()
	summary := Summary{
		From:       window.Cutoff().Format(validate.DateLayout),
		To:         window.Today().Format(validate.DateLayout),
		TotalHours: decimal.Zero,
		Entries:    views,
	}
	for _, view := range views {
		summary.TotalHours = summary.TotalHours.Add(view.Hours)
		if view.DaysUntilLocked == 1 {
			summary.LockingTomorrow++
		}
	}
	return summary, nil
}

// Handler serves GET /dashboard.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the dashboard endpoint.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.getSummary)
}

func (handler *Handler) getSummary(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.Actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.service.Summary(request.Context(), actor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, summary)
}
