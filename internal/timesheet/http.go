// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package timesheet

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/timekeep/internal/platform/request"
	"github.com/taibuivan/timekeep/internal/platform/respond"
	"github.com/taibuivan/timekeep/internal/platform/validate"
	"github.com/taibuivan/timekeep/pkg/pagination"
)

// Handler serves the entry endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the entry endpoints. The caller guards them with the entry route.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listEntries)
	router.Post("/", handler.createEntry)
	router.Get("/window", handler.checkWindow)

	router.Get("/draft", handler.loadDraft)
	router.Put("/draft", handler.saveDraft)
	router.Delete("/draft", handler.discardDraft)

	router.Get("/{id}", handler.getEntry)
	router.Put("/{id}", handler.updateEntry)
	router.Delete("/{id}", handler.deleteEntry)
}

func (handler *Handler) listEntries(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.Actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	from, err := requestutil.QueryDate(request, FieldFrom)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	to, err := requestutil.QueryDate(request, FieldTo)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query()
	filter := Filter{
		UserID:    query.Get("user_id"),
		ProjectID: query.Get(FieldProjectID),
		From:      from,
		To:        to,
	}
	page := pagination.FromRequest(request)

	views, total, err := handler.service.List(request.Context(), actor, filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, views, pagination.NewMeta(page.Page, page.Limit, total))
}

func (handler *Handler) createEntry(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.Actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input EntryInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Create(request.Context(), actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, view)
}

func (handler *Handler) getEntry(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.Actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Get(request.Context(), actor, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) updateEntry(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.Actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input EntryInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Update(request.Context(), actor, requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) deleteEntry(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.Actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), actor, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// windowStatus answers "can I still edit an entry on this date?" for the entry form.
type windowStatus struct {
	Date            string `json:"entry_date"`
	CanEdit         bool   `json:"can_edit"`
	DaysUntilLocked int    `json:"days_until_locked"`
	Cutoff          string `json:"cutoff"`
}

func (handler *Handler) checkWindow(writer http.ResponseWriter, request *http.Request) {
	window := handler.service.Window()

	date, err := requestutil.QueryDate(request, "date")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if date == nil {
		today := window.Today()
		date = &today
	}

	respond.OK(writer, windowStatus{
		Date:            date.Format(validate.DateLayout),
		CanEdit:         window.CanEdit(*date),
		DaysUntilLocked: window.DaysUntilLocked(*date),
		Cutoff:          window.Cutoff().Format(validate.DateLayout),
	})
}

type draftRequest struct {
	Payload json.RawMessage `json:"payload"`
}

func (handler *Handler) saveDraft(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.Actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, MaxDraftBytes+1024)
	var body draftRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	draft, err := handler.service.SaveDraft(request.Context(), actor, body.Payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, draft)
}

func (handler *Handler) loadDraft(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.Actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	draft, err := handler.service.LoadDraft(request.Context(), actor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, draft)
}

func (handler *Handler) discardDraft(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.Actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DiscardDraft(request.Context(), actor); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
