// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package team

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/platform/apperr"
	"github.com/taibuivan/timekeep/internal/platform/validate"
	"github.com/taibuivan/timekeep/internal/timesheet"
	"github.com/taibuivan/timekeep/pkg/slice"
)

// FieldDepartment is the query parameter admins use to narrow the scope.
const FieldDepartment = "department"

// ErrNoDepartment is returned to a manager whose profile has no department.
var ErrNoDepartment = apperr.Forbidden("Your profile is not linked to a department")

// Service builds compliance snapshots.
type Service struct {
	store  Store
	window timesheet.EditWindow
}

// NewService creates a new Service. The window supplies the timezone that decides "today".
func NewService(store Store, window timesheet.EditWindow) *Service {
	return &Service{store: store, window: window}
}

/*
ScopeFor decides which profiles the actor may review.

Description: Managers are pinned to their own department. Admins see everyone
unless they ask for a single department.

Returns:
  - Scope: The allowed scope
  - error: Forbidden or ValidationError
*/
func (service *Service) ScopeFor(actor access.ManagerAccess, department string) (Scope, error) {
	if !actor.CanAccess {
		return Scope{}, apperr.Forbidden("Team compliance requires a manager role")
	}

	if department != "" {
		v := &validate.Validator{}
		if err := v.UUID(FieldDepartment, department).Err(); err != nil {
			return Scope{}, err
		}
	}

	if actor.IsAdmin {
		return Scope{DepartmentID: department}, nil
	}

	if actor.DepartmentID == "" {
		return Scope{}, ErrNoDepartment
	}
	if department != "" && department != actor.DepartmentID {
		return Scope{}, apperr.Forbidden("You can only review your own department")
	}
	return Scope{DepartmentID: actor.DepartmentID}, nil
}

// Snapshot reads the compliance of scope over the last [ComplianceDays] days.
func (service *Service) Snapshot(ctx context.Context, scope Scope) (*Snapshot, error) {
	to := service.window.Today()
	from := to.AddDate(0, 0, -(ComplianceDays - 1))

	activity, err := service.store.Activity(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}

	expected := ExpectedDays(from, to)
	snapshot := &Snapshot{
		Scope:       scope,
		GeneratedAt: service.now().UTC(),
		From:        from.Format(validate.DateLayout),
		To:          to.Format(validate.DateLayout),
		TotalHours: slice.Reduce(activity, decimal.Zero, func(total decimal.Decimal, member MemberActivity) decimal.Decimal {
			return total.Add(member.HoursLogged)
		}),
		Members: slice.Map(activity, func(member MemberActivity) MemberCompliance {
			return MemberCompliance{
				UserID:       member.UserID,
				DisplayName:  member.DisplayName,
				Role:         member.Role,
				HoursLogged:  member.HoursLogged,
				DaysLogged:   member.DaysLogged,
				ExpectedDays: expected,
				Compliant:    member.DaysLogged >= expected,
			}
		}),
	}
	if snapshot.Members == nil {
		snapshot.Members = []MemberCompliance{}
	}
	return snapshot, nil
}

func (service *Service) now() time.Time {
	if service.window.Now != nil {
		return service.window.Now()
	}
	return time.Now()
}
