// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/timekeep/internal/access"
)

/*
TestRoles_Hierarchy verifies the fixed total order of roles.
*/
func TestRoles_Hierarchy(t *testing.T) {
	roles := access.Roles()
	require.Len(t, roles, 4)
	assert.Equal(t, []access.Role{access.RoleStaff, access.RoleManager, access.RoleAdmin, access.RoleSuperAdmin}, roles)

	for i, role := range roles {
		assert.Equal(t, i+1, access.RoleLevel(role), role)
	}

	// Mutating the returned slice must not leak into the table.
	roles[0] = access.RoleSuperAdmin
	assert.Equal(t, access.RoleStaff, access.Roles()[0])
}

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, access.RoleSuperAdmin.AtLeast(access.RoleAdmin))
	assert.True(t, access.RoleManager.AtLeast(access.RoleManager))
	assert.False(t, access.RoleStaff.AtLeast(access.RoleManager))
	assert.False(t, access.Role("intern").AtLeast(access.RoleStaff))
}

func TestParseRole(t *testing.T) {
	role, err := access.ParseRole(" Super_Admin ")
	require.NoError(t, err)
	assert.Equal(t, access.RoleSuperAdmin, role)

	_, err = access.ParseRole("owner")
	assert.Error(t, err)
	assert.Equal(t, 0, access.RoleLevel("owner"))
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "Staff", access.RoleLabel(access.RoleStaff))
	assert.Equal(t, "Super Admin", access.RoleLabel(access.RoleSuperAdmin))
}

/*
TestRoleOptions verifies that only a super admin is offered the top role.
*/
func TestRoleOptions(t *testing.T) {
	values := func(options []access.RoleOption) []access.Role {
		out := make([]access.Role, 0, len(options))
		for _, option := range options {
			out = append(out, option.Value)
		}
		return out
	}

	for _, acting := range []access.Role{access.RoleStaff, access.RoleManager, access.RoleAdmin} {
		assert.Equal(t,
			[]access.Role{access.RoleStaff, access.RoleManager, access.RoleAdmin},
			values(access.RoleOptions(acting)), acting)
	}

	options := access.RoleOptions(access.RoleSuperAdmin)
	assert.Equal(t, access.Roles(), values(options))
	assert.Equal(t, "Super Admin", options[3].Label)
}

func TestCanAssignRole(t *testing.T) {
	tests := []struct {
		acting access.Role
		target access.Role
		want   bool
	}{
		{access.RoleAdmin, access.RoleSuperAdmin, false},
		{access.RoleManager, access.RoleSuperAdmin, false},
		{access.RoleSuperAdmin, access.RoleSuperAdmin, true},
		{access.RoleAdmin, access.RoleStaff, true},
		{access.RoleAdmin, access.RoleManager, true},
		{access.RoleAdmin, access.RoleAdmin, true},
		// Caller privilege is enforced by the admin route guard.
		{access.RoleStaff, access.RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.acting)+"->"+string(tt.target), func(t *testing.T) {
			assert.Equal(t, tt.want, access.CanAssignRole(tt.acting, tt.target))
		})
	}
}
