// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package team serves the manager view of timesheet compliance.

A snapshot covers the last seven calendar days of a scope (one department or
the whole company). Watched scopes are refreshed by a [poll.Session] that
only ticks while at least one stream viewer is connected.
*/
package team

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/timekeep/internal/access"
)

// ComplianceDays is the number of calendar days a snapshot covers, today included.
const ComplianceDays = 7

// MemberCompliance is one row of a compliance snapshot.
type MemberCompliance struct {
	UserID       string          `json:"user_id"`
	DisplayName  string          `json:"display_name"`
	Role         access.Role     `json:"role"`
	HoursLogged  decimal.Decimal `json:"hours_logged"`
	DaysLogged   int             `json:"days_logged"`
	ExpectedDays int             `json:"expected_days"`
	Compliant    bool            `json:"compliant"`
}

// Snapshot is the compliance state of a scope at GeneratedAt.
type Snapshot struct {
	Scope       Scope              `json:"scope"`
	GeneratedAt time.Time          `json:"generated_at"`
	From        string             `json:"from"`
	To          string             `json:"to"`
	TotalHours  decimal.Decimal    `json:"total_hours"`
	Members     []MemberCompliance `json:"members"`
}

// Scope selects the profiles included in a snapshot. An empty department means everyone.
type Scope struct {
	DepartmentID string `json:"department_id,omitempty"`
}

// Key identifies the scope in logs, metrics and the watcher registry.
func (s Scope) Key() string {
	if s.DepartmentID == "" {
		return "all"
	}
	return s.DepartmentID
}

// MemberActivity is the raw per-profile aggregate read from storage.
type MemberActivity struct {
	UserID      string
	DisplayName string
	Role        access.Role
	HoursLogged decimal.Decimal
	DaysLogged  int
}

// Store reads per-profile activity for a date range, inclusive on both ends.
type Store interface {
	Activity(ctx context.Context, scope Scope, from, to time.Time) ([]MemberActivity, error)
}

// ExpectedDays counts the weekdays between from and to, inclusive.
func ExpectedDays(from, to time.Time) int {
	days := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if weekday := day.Weekday(); weekday != time.Saturday && weekday != time.Sunday {
			days++
		}
	}
	return days
}
