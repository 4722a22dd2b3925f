// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package timesheet

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/platform/apperr"
	"github.com/taibuivan/timekeep/internal/platform/ctxutil"
	"github.com/taibuivan/timekeep/internal/platform/metrics"
	"github.com/taibuivan/timekeep/internal/platform/validate"
	"github.com/taibuivan/timekeep/pkg/pagination"
	"github.com/taibuivan/timekeep/pkg/pointer"
	"github.com/taibuivan/timekeep/pkg/uuid"
)

var maxHours = decimal.NewFromInt(24)

// ErrEntryLocked is returned for any mutation outside the edit window.
var ErrEntryLocked = apperr.Locked("Entry is locked: it is older than the edit window")

// Service implements the entry use cases.
type Service struct {
	repo     Repository
	drafts   DraftStore
	window   EditWindow
	draftTTL time.Duration
	metrics  *metrics.Metrics
}

// NewService creates a new Service.
func NewService(repo Repository, drafts DraftStore, window EditWindow, draftTTL time.Duration, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		drafts:   drafts,
		window:   window,
		draftTTL: draftTTL,
		metrics:  m,
	}
}

// Window exposes the edit window the service enforces.
func (service *Service) Window() EditWindow {
	return service.window
}

// # Entries

// Create logs a new entry for the actor.
func (service *Service) Create(ctx context.Context, actor access.ManagerAccess, input EntryInput) (EntryView, error) {
	entryDate, err := validateInput(input)
	if err != nil {
		return EntryView{}, err
	}

	if !service.window.CanEdit(entryDate) {
		return EntryView{}, service.reject(ctx, ActionCreate, actor.UserID, entryDate)
	}

	now := time.Now().UTC()
	entry := &Entry{
		ID:        uuid.New(),
		UserID:    actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(entry, input, entryDate)

	if err := service.repo.Create(ctx, entry); err != nil {
		return EntryView{}, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "entry_created",
		slog.String("entry_id", entry.ID),
		slog.String("entry_date", entry.EntryDate.Format(validate.DateLayout)),
	)
	return service.window.View(entry), nil
}

// Update rewrites an entry. Both the stored date and the new date must be
// inside the edit window, so an entry can never be moved in or out of it.
func (service *Service) Update(ctx context.Context, actor access.ManagerAccess, id string, input EntryInput) (EntryView, error) {
	entry, err := service.ownedEntry(ctx, actor, id)
	if err != nil {
		return EntryView{}, err
	}

	if !service.window.CanEdit(entry.EntryDate) {
		return EntryView{}, service.reject(ctx, ActionUpdate, actor.UserID, entry.EntryDate)
	}

	entryDate, err := validateInput(input)
	if err != nil {
		return EntryView{}, err
	}

	if !service.window.CanEdit(entryDate) {
		return EntryView{}, service.reject(ctx, ActionUpdate, actor.UserID, entryDate)
	}

	applyInput(entry, input, entryDate)
	entry.UpdatedAt = time.Now().UTC()

	if err := service.repo.Update(ctx, entry); err != nil {
		return EntryView{}, err
	}
	return service.window.View(entry), nil
}

// Delete removes an entry that is still inside the edit window.
func (service *Service) Delete(ctx context.Context, actor access.ManagerAccess, id string) error {
	entry, err := service.ownedEntry(ctx, actor, id)
	if err != nil {
		return err
	}

	if !service.window.CanEdit(entry.EntryDate) {
		return service.reject(ctx, ActionDelete, actor.UserID, entry.EntryDate)
	}

	if err := service.repo.Delete(ctx, entry.ID); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "entry_deleted", slog.String("entry_id", entry.ID))
	return nil
}

// Get returns an entry to its owner or to a manager.
func (service *Service) Get(ctx context.Context, actor access.ManagerAccess, id string) (EntryView, error) {
	entry, err := service.repo.GetByID(ctx, id)
	if err != nil {
		return EntryView{}, err
	}

	if entry.UserID != actor.UserID && !actor.CanAccess {
		return EntryView{}, apperr.NotFound("Entry")
	}
	return service.window.View(entry), nil
}

// List returns the actor's entries. Managers may list another user's entries.
func (service *Service) List(ctx context.Context, actor access.ManagerAccess, filter Filter, page pagination.Params) ([]EntryView, int, error) {
	if filter.UserID == "" {
		filter.UserID = actor.UserID
	}
	if filter.UserID != actor.UserID && !actor.CanAccess {
		return nil, 0, apperr.Forbidden("Only managers can list other users' entries")
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, validate.RequiredError(FieldFrom, "Must not be after 'to'")
	}

	entries, total, err := service.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}

	views := make([]EntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, service.window.View(entry))
	}
	return views, total, nil
}

// Recent returns every entry of the actor that is still inside the edit window.
//
// It walks the pages until the reported total is reached.
func (service *Service) Recent(ctx context.Context, actor access.ManagerAccess) ([]EntryView, error) {
	from := service.window.Cutoff()
	filter := Filter{From: &from}

	var recent []EntryView
	for page := (pagination.Params{Page: 1, Limit: pagination.MaxLimit}); ; page.Page++ {
		views, total, err := service.List(ctx, actor, filter, page)
		if err != nil {
			return nil, err
		}
		if recent == nil {
			recent = make([]EntryView, 0, total)
		}
		recent = append(recent, views...)
		if len(views) == 0 || len(recent) >= total {
			return recent, nil
		}
	}
}

// # Drafts

// SaveDraft stores the actor's unsaved form and restarts its expiry.
func (service *Service) SaveDraft(ctx context.Context, actor access.ManagerAccess, payload json.RawMessage) (*Draft, error) {
	if len(payload) == 0 || !json.Valid(payload) {
		return nil, validate.RequiredError(FieldPayload, "Must be a JSON document")
	}
	if len(payload) > MaxDraftBytes {
		return nil, validate.RequiredError(FieldPayload, "Draft is too large")
	}

	now := time.Now().UTC()
	draft := Draft{
		UserID:    actor.UserID,
		Payload:   payload,
		SavedAt:   now,
		ExpiresAt: now.Add(service.draftTTL),
	}
	if err := service.drafts.Save(ctx, draft, service.draftTTL); err != nil {
		return nil, err
	}
	return &draft, nil
}

// LoadDraft returns the actor's draft, or NotFound once it has expired.
func (service *Service) LoadDraft(ctx context.Context, actor access.ManagerAccess) (*Draft, error) {
	return service.drafts.Load(ctx, actor.UserID)
}

// DiscardDraft drops the actor's draft.
func (service *Service) DiscardDraft(ctx context.Context, actor access.ManagerAccess) error {
	return service.drafts.Discard(ctx, actor.UserID)
}

// # Helpers

func (service *Service) ownedEntry(ctx context.Context, actor access.ManagerAccess, id string) (*Entry, error) {
	entry, err := service.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != actor.UserID {
		return nil, apperr.Forbidden("Only the owner can change an entry")
	}
	return entry, nil
}

func (service *Service) reject(ctx context.Context, action, userID string, entryDate time.Time) error {
	service.metrics.EntryMutationRejected(action)
	ctxutil.GetLogger(ctx).InfoContext(ctx, "entry_mutation_locked",
		slog.String("action", action),
		slog.String("user_id", userID),
		slog.String("entry_date", entryDate.Format(validate.DateLayout)),
	)
	return ErrEntryLocked
}

func validateInput(input EntryInput) (time.Time, error) {
	v := &validate.Validator{}
	v.Required(FieldProjectID, input.ProjectID).
		UUID(FieldProjectID, input.ProjectID).
		Date(FieldEntryDate, input.EntryDate).
		MaxLen(FieldNotes, input.Notes, MaxNotesLength).
		Custom(FieldHours, !input.Hours.IsPositive() || input.Hours.GreaterThan(maxHours), "Must be greater than 0 and at most 24").
		Custom(FieldHours, !input.Hours.Equal(input.Hours.Round(2)), "At most two decimal places")

	optional := []struct {
		field string
		value *string
	}{
		{FieldClientID, input.ClientID},
		{FieldJobID, input.JobID},
		{FieldServiceID, input.ServiceID},
		{FieldTaskID, input.TaskID},
	}
	for _, reference := range optional {
		if id := pointer.Val(reference.value); id != "" {
			v.UUID(reference.field, id)
		}
	}

	if err := v.Err(); err != nil {
		return time.Time{}, err
	}

	entryDate, _ := time.Parse(validate.DateLayout, input.EntryDate)
	return entryDate, nil
}

func applyInput(entry *Entry, input EntryInput, entryDate time.Time) {
	entry.ClientID = normalizeID(input.ClientID)
	entry.ProjectID = strings.ToLower(input.ProjectID)
	entry.JobID = normalizeID(input.JobID)
	entry.ServiceID = normalizeID(input.ServiceID)
	entry.TaskID = normalizeID(input.TaskID)
	entry.EntryDate = entryDate
	entry.Hours = input.Hours
	entry.Notes = strings.TrimSpace(input.Notes)
}

// normalizeID lower-cases an optional reference; an empty one is stored as NULL.
func normalizeID(id *string) *string {
	if pointer.Val(id) == "" {
		return nil
	}
	return pointer.To(strings.ToLower(*id))
}
