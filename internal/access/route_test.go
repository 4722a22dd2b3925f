// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/timekeep/internal/access"
)

func rolePtr(role access.Role) *access.Role { return &role }

/*
TestCanAccessRoute_Admin verifies that only admins reach the admin area.
*/
func TestCanAccessRoute_Admin(t *testing.T) {
	for _, role := range access.Roles() {
		want := role == access.RoleAdmin || role == access.RoleSuperAdmin
		assert.Equal(t, want, access.CanAccessRoute(rolePtr(role), "/admin"), role)
		assert.Equal(t, want, access.CanAccessRoute(rolePtr(role), "/admin/users"), role)
	}
}

func TestCanAccessRoute_Anonymous(t *testing.T) {
	for _, route := range []string{"/entry", "/dashboard", "/team", "/admin", "/admin/master-data"} {
		assert.False(t, access.CanAccessRoute(nil, route), route)
	}
}

func TestCanAccessRoute_Table(t *testing.T) {
	tests := []struct {
		name  string
		role  access.Role
		route string
		want  bool
	}{
		{"staff_entry", access.RoleStaff, "/entry", true},
		{"staff_dashboard", access.RoleStaff, "/dashboard", true},
		{"staff_team", access.RoleStaff, "/team", false},
		{"manager_team", access.RoleManager, "/team", true},
		{"manager_admin", access.RoleManager, "/admin", false},
		{"super_admin_team", access.RoleSuperAdmin, "/team", true},
		{"unknown_route", access.RoleSuperAdmin, "/reports", false},
		{"entry_subpath", access.RoleStaff, "/entry/new", false},
		{"admin_lookalike", access.RoleAdmin, "/administrator", false},
		{"unknown_role", access.Role("intern"), "/entry", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.CanAccessRoute(rolePtr(tt.role), tt.route))
		})
	}
}

func TestAllowedRoles(t *testing.T) {
	assert.Equal(t, []access.Role{access.RoleManager, access.RoleAdmin, access.RoleSuperAdmin}, access.AllowedRoles(access.RouteTeam))
	assert.Len(t, access.AllowedRoles(access.RouteEntry), 4)
	assert.Nil(t, access.AllowedRoles("/reports"))
}

/*
TestIsActiveAdminRoute verifies navigation highlighting, including the landing page special case.
*/
func TestIsActiveAdminRoute(t *testing.T) {
	tests := []struct {
		pathname string
		href     string
		want     bool
	}{
		{"/admin", "/admin/master-data", true},
		{"/admin", "/admin/users", false},
		{"/admin/users", "/admin/users", true},
		{"/admin/users/42", "/admin/users", true},
		{"/admin/master-data/clients", "/admin/master-data", true},
		{"/admin/users", "/admin/master-data", false},
		{"/admin/users", "", false},
		{"/dashboard", "", false},
		{"/dashboard", "/dashboard", false},
	}

	for _, tt := range tests {
		t.Run(tt.pathname+"|"+tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, access.IsActiveAdminRoute(tt.pathname, tt.href))
		})
	}
}
