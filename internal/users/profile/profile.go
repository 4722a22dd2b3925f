// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package profile handles employee profiles and role administration.

Profiles mirror the users of the external identity provider. They carry the
authoritative role and the department linkage used by the access resolver.

# Architecture

  - Entities: Profile, Department, NavItem.
  - Lookup: the Postgres repository doubles as [access.RoleLookup] and
    [access.DepartmentLookup].
  - Security: role changes go through [access.CanAssignRole] and never
    touch an existing super admin unless the actor is one.
*/
package profile

import (
	"context"
	"time"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/pkg/pagination"
)

// # Domain Entities

// Profile is an employee known to Timekeep.
type Profile struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	DisplayName  string      `json:"display_name"`
	Role         access.Role `json:"role"`
	DepartmentID *string     `json:"department_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Me is the caller's own profile with the routes it may open.
type Me struct {
	Profile *Profile             `json:"profile"`
	Access  access.ManagerAccess `json:"access"`
	Routes  map[string]bool      `json:"routes"`
}

// Department groups profiles for team compliance scoping.
type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   int       `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// NavItem is one admin navigation link.
type NavItem struct {
	Href   string `json:"href"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Filter narrows a profile listing.
type Filter struct {
	Role         access.Role
	DepartmentID string
}

// # Field Identifiers

const (
	FieldRole         = "role"
	FieldDepartmentID = "department_id"
	FieldPath         = "path"
)

// # Repository Contracts

// Repository defines the persistence contract for profiles.
type Repository interface {
	/*
		FindByID retrieves a profile by its unique ID.

		Returns:
		  - *Profile: Loaded profile
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(ctx context.Context, id string) (*Profile, error)

	/*
		List returns one page of profiles ordered by display name.

		Returns:
		  - []*Profile: The page
		  - int: Total matching rows
		  - error: Storage failures
	*/
	List(ctx context.Context, filter Filter, page pagination.Params) ([]*Profile, int, error)

	/*
		UpdateRole stores a new role for a profile.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdateRole(ctx context.Context, id string, role access.Role) error

	// ListDepartments returns every department with its member count, ordered by name.
	ListDepartments(ctx context.Context) ([]*Department, error)
}
