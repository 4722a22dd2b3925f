// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package timesheet implements time entries and their edit window.

Employees log hours against a client / project / job / service / task
reference. An entry stays mutable by its owner for the entry date plus
[DefaultEditDays] additional days; after that every change is rejected with
[apperr.Locked].
*/
package timesheet

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/timekeep/internal/platform/validate"
)

// # Domain Entities

// Entry is one block of logged time.
type Entry struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	ClientID  *string         `json:"client_id,omitempty"`
	ProjectID string          `json:"project_id"`
	JobID     *string         `json:"job_id,omitempty"`
	ServiceID *string         `json:"service_id,omitempty"`
	TaskID    *string         `json:"task_id,omitempty"`
	EntryDate time.Time       `json:"-"`
	Hours     decimal.Decimal `json:"hours"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// EntryView is an entry annotated with its edit window state.
type EntryView struct {
	*Entry
	Date            string `json:"entry_date"`
	CanEdit         bool   `json:"can_edit"`
	DaysUntilLocked int    `json:"days_until_locked"`
}

// View annotates e against window.
func (window EditWindow) View(e *Entry) EntryView {
	return EntryView{
		Entry:           e,
		Date:            e.EntryDate.Format(validate.DateLayout),
		CanEdit:         window.CanEdit(e.EntryDate),
		DaysUntilLocked: window.DaysUntilLocked(e.EntryDate),
	}
}

// EntryInput is the writable part of an entry.
type EntryInput struct {
	ClientID  *string         `json:"client_id"`
	ProjectID string          `json:"project_id"`
	JobID     *string         `json:"job_id"`
	ServiceID *string         `json:"service_id"`
	TaskID    *string         `json:"task_id"`
	EntryDate string          `json:"entry_date"`
	Hours     decimal.Decimal `json:"hours"`
	Notes     string          `json:"notes"`
}

// Filter narrows an entry listing.
type Filter struct {
	UserID    string
	ProjectID string
	From      *time.Time
	To        *time.Time
}

// Draft is an unsaved entry form kept for a limited time.
type Draft struct {
	UserID    string          `json:"user_id"`
	Payload   json.RawMessage `json:"payload"`
	SavedAt   time.Time       `json:"saved_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// # Field Identifiers

const (
	FieldClientID  = "client_id"
	FieldProjectID = "project_id"
	FieldJobID     = "job_id"
	FieldServiceID = "service_id"
	FieldTaskID    = "task_id"
	FieldEntryDate = "entry_date"
	FieldHours     = "hours"
	FieldNotes     = "notes"
	FieldPayload   = "payload"
	FieldFrom      = "from"
	FieldTo        = "to"
)

// MaxNotesLength caps the free text of an entry.
const MaxNotesLength = 2000

// MaxDraftBytes caps the size of a stored draft payload.
const MaxDraftBytes = 16 << 10

// # Mutation Actions

// Labels used for rejected-mutation metrics and logs.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)
