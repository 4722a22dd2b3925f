// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/platform/apperr"
	"github.com/taibuivan/timekeep/internal/users/profile"
	"github.com/taibuivan/timekeep/pkg/pagination"
)

const (
	staffID      = "0192a0b4-0000-7000-8000-000000000001"
	managerID    = "0192a0b4-0000-7000-8000-000000000002"
	adminID      = "0192a0b4-0000-7000-8000-000000000003"
	superAdminID = "0192a0b4-0000-7000-8000-000000000004"
	missingID    = "0192a0b4-0000-7000-8000-0000000000ff"
	departmentID = "0192a0b4-0000-7000-8000-0000000000d1"
)

type memoryRepository struct {
	mu       sync.Mutex
	profiles map[string]*profile.Profile
}

func newMemoryRepository() *memoryRepository {
	dept := departmentID
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := &memoryRepository{profiles: map[string]*profile.Profile{}}
	for _, p := range []*profile.Profile{
		{ID: staffID, Email: "sam@timekeep.app", DisplayName: "Sam", Role: access.RoleStaff, DepartmentID: &dept},
		{ID: managerID, Email: "mia@timekeep.app", DisplayName: "Mia", Role: access.RoleManager, DepartmentID: &dept},
		{ID: adminID, Email: "ada@timekeep.app", DisplayName: "Ada", Role: access.RoleAdmin},
		{ID: superAdminID, Email: "root@timekeep.app", DisplayName: "Root", Role: access.RoleSuperAdmin},
	} {
		p.CreatedAt, p.UpdatedAt = now, now
		repo.profiles[p.ID] = p
	}
	return repo
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, apperr.NotFound("Profile")
	}
	copied := *p
	return &copied, nil
}

func (r *memoryRepository) List(_ context.Context, filter profile.Filter, page pagination.Params) ([]*profile.Profile, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*profile.Profile
	for _, p := range r.profiles {
		if filter.Role != "" && p.Role != filter.Role {
			continue
		}
		if filter.DepartmentID != "" && (p.DepartmentID == nil || *p.DepartmentID != filter.DepartmentID) {
			continue
		}
		copied := *p
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].DisplayName < matched[j].DisplayName })

	total := len(matched)
	start := min(page.Offset(), total)
	end := min(start+page.Limit, total)
	return matched[start:end], total, nil
}

func (r *memoryRepository) UpdateRole(_ context.Context, id string, role access.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return apperr.NotFound("Profile")
	}
	p.Role = role
	return nil
}

func (r *memoryRepository) ListDepartments(context.Context) ([]*profile.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	department := &profile.Department{ID: departmentID, Name: "Delivery"}
	for _, p := range r.profiles {
		if p.DepartmentID != nil && *p.DepartmentID == departmentID {
			department.Members++
		}
	}
	return []*profile.Department{department}, nil
}

func actorFor(id string, role access.Role) access.ManagerAccess {
	return access.NewManagerAccess(id, role)
}

/*
TestService_Me verifies that route flags follow the resolved role.
*/
func TestService_Me(t *testing.T) {
	service := profile.NewService(newMemoryRepository())

	me, err := service.Me(context.Background(), actorFor(managerID, access.RoleManager))
	require.NoError(t, err)
	assert.Equal(t, "Mia", me.Profile.DisplayName)
	assert.Equal(t, map[string]bool{"/entry": true, "/dashboard": true, "/team": true, "/admin": false}, me.Routes)

	// A failed lookup resolves to staff even though the stored role is manager.
	me, err = service.Me(context.Background(), actorFor(managerID, access.RoleStaff))
	require.NoError(t, err)
	assert.False(t, me.Routes["/team"])
	assert.False(t, me.Access.CanAccess)

	_, err = service.Me(context.Background(), actorFor(missingID, access.RoleStaff))
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_ListProfiles(t *testing.T) {
	service := profile.NewService(newMemoryRepository())
	page := pagination.Params{Page: 1, Limit: 10}

	all, total, err := service.ListProfiles(context.Background(), profile.Filter{}, page)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, all, 4)

	dept, total, err := service.ListProfiles(context.Background(), profile.Filter{DepartmentID: departmentID}, page)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Mia", dept[0].DisplayName)

	_, _, err = service.ListProfiles(context.Background(), profile.Filter{Role: "owner"}, page)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, _, err = service.ListProfiles(context.Background(), profile.Filter{DepartmentID: "sales"}, page)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestService_AssignRole covers the privilege rules around role changes.
*/
func TestService_AssignRole(t *testing.T) {
	tests := []struct {
		name     string
		actor    access.ManagerAccess
		target   string
		role     string
		wantCode string
		wantRole access.Role
	}{
		{"admin_promotes_staff", actorFor(adminID, access.RoleAdmin), staffID, "manager", "", access.RoleManager},
		{"admin_grants_admin", actorFor(adminID, access.RoleAdmin), staffID, "admin", "", access.RoleAdmin},
		{"role_is_normalised", actorFor(adminID, access.RoleAdmin), staffID, " Manager ", "", access.RoleManager},
		{"admin_cannot_grant_super_admin", actorFor(adminID, access.RoleAdmin), staffID, "super_admin", "FORBIDDEN", ""},
		{"admin_cannot_demote_super_admin", actorFor(adminID, access.RoleAdmin), superAdminID, "staff", "FORBIDDEN", ""},
		{"super_admin_grants_super_admin", actorFor(superAdminID, access.RoleSuperAdmin), adminID, "super_admin", "", access.RoleSuperAdmin},
		{"manager_is_not_admin", actorFor(managerID, access.RoleManager), staffID, "staff", "FORBIDDEN", ""},
		{"unknown_role", actorFor(adminID, access.RoleAdmin), staffID, "owner", "VALIDATION_ERROR", ""},
		{"bad_target_id", actorFor(adminID, access.RoleAdmin), "sam", "staff", "VALIDATION_ERROR", ""},
		{"missing_target", actorFor(adminID, access.RoleAdmin), missingID, "staff", "NOT_FOUND", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepository()
			service := profile.NewService(repo)

			updated, err := service.AssignRole(context.Background(), tt.actor, tt.target, tt.role)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperr.As(err).Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, updated.Role)

			stored, err := repo.FindByID(context.Background(), tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, stored.Role)
		})
	}
}

func TestService_RoleOptions(t *testing.T) {
	service := profile.NewService(newMemoryRepository())

	assert.Len(t, service.RoleOptions(actorFor(adminID, access.RoleAdmin)), 3)
	assert.Len(t, service.RoleOptions(actorFor(superAdminID, access.RoleSuperAdmin)), 4)
}

/*
TestService_AdminNav verifies that the landing page highlights the default section.
*/
func TestService_AdminNav(t *testing.T) {
	service := profile.NewService(newMemoryRepository())

	active := func(items []profile.NavItem) []string {
		var hrefs []string
		for _, item := range items {
			if item.Active {
				hrefs = append(hrefs, item.Href)
			}
		}
		return hrefs
	}

	assert.Equal(t, []string{"/admin/master-data"}, active(service.AdminNav("/admin")))
	assert.Equal(t, []string{"/admin/users"}, active(service.AdminNav("/admin/users/42")))
	assert.Empty(t, active(service.AdminNav("/dashboard")))
}

func TestService_Departments(t *testing.T) {
	service := profile.NewService(newMemoryRepository())

	departments, err := service.Departments(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "Delivery", departments[0].Name)
	assert.Equal(t, 2, departments[0].Members)
}
