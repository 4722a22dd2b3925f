// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"log/slog"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/platform/apperr"
	"github.com/taibuivan/timekeep/internal/platform/ctxutil"
	"github.com/taibuivan/timekeep/internal/platform/validate"
	"github.com/taibuivan/timekeep/pkg/pagination"
	"github.com/taibuivan/timekeep/pkg/slice"
)

// adminSections lists the admin navigation in display order.
var adminSections = []NavItem{
	{Href: access.DefaultAdminSection, Label: "Master Data"},
	{Href: "/admin/users", Label: "Users"},
	{Href: "/admin/departments", Label: "Departments"},
}

// Service implements profile and role administration use cases.
type Service struct {
	repo Repository
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

/*
Me returns the caller's profile together with the resolved access result.

Description: The role in the response is the resolved one, which may be staff
when the lookup failed even though the stored role is higher.

Returns:
  - *Me: Profile, access flags and the routes the role may open
  - error: NotFound if the profile row is missing
*/
func (service *Service) Me(ctx context.Context, actor access.ManagerAccess) (*Me, error) {
	profile, err := service.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	role := actor.Role
	routes := make(map[string]bool, len(access.Routes()))
	for _, route := range access.Routes() {
		routes[string(route)] = access.CanAccessRoute(&role, string(route))
	}

	return &Me{Profile: profile, Access: actor, Routes: routes}, nil
}

/*
ListProfiles returns a page of profiles for the admin user list.
*/
func (service *Service) ListProfiles(ctx context.Context, filter Filter, page pagination.Params) ([]*Profile, int, error) {
	v := &validate.Validator{}
	if filter.Role != "" {
		v.OneOf(FieldRole, string(filter.Role), slice.Map(access.Roles(), func(role access.Role) string { return string(role) })...)
	}
	if filter.DepartmentID != "" {
		v.UUID(FieldDepartmentID, filter.DepartmentID)
	}
	if err := v.Err(); err != nil {
		return nil, 0, err
	}
	return service.repo.List(ctx, filter, page)
}

// Departments lists the departments available for team scoping.
func (service *Service) Departments(ctx context.Context) ([]*Department, error) {
	return service.repo.ListDepartments(ctx)
}

// RoleOptions returns the roles the actor may hand out.
func (service *Service) RoleOptions(actor access.ManagerAccess) []access.RoleOption {
	return access.RoleOptions(actor.Role)
}

/*
AssignRole changes the role of a profile.

Description: The actor must be allowed to assign the target role, and only a
super admin may change the role of an existing super admin.

Returns:
  - *Profile: The updated profile
  - error: ValidationError, Forbidden, NotFound or storage failures
*/
func (service *Service) AssignRole(ctx context.Context, actor access.ManagerAccess, targetID, rawRole string) (*Profile, error) {
	v := &validate.Validator{}
	if err := v.UUID("id", targetID).Required(FieldRole, rawRole).Err(); err != nil {
		return nil, err
	}

	role, err := access.ParseRole(rawRole)
	if err != nil {
		return nil, validate.RequiredError(FieldRole, "Unknown role")
	}

	if !actor.IsAdmin || !access.CanAssignRole(actor.Role, role) {
		return nil, apperr.Forbidden("You are not allowed to assign this role")
	}

	target, err := service.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if target.Role == access.RoleSuperAdmin && actor.Role != access.RoleSuperAdmin {
		return nil, apperr.Forbidden("Only a super admin can change a super admin")
	}

	if target.Role == role {
		return target, nil
	}

	if err := service.repo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "role_assigned",
		slog.String("actor_id", actor.UserID),
		slog.String("target_id", targetID),
		slog.String("from", string(target.Role)),
		slog.String("to", string(role)),
	)

	target.Role = role
	return target, nil
}

// AdminNav returns the admin sections with the one matching pathname marked active.
func (service *Service) AdminNav(pathname string) []NavItem {
	items := make([]NavItem, len(adminSections))
	for i, section := range adminSections {
		section.Active = access.IsActiveAdminRoute(pathname, section.Href)
		items[i] = section
	}
	return items
}
