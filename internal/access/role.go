// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access implements the role-based access rules of Timekeep.

It owns the role hierarchy, the route permission table, the role-assignment
guard and the manager-access resolver. Everything except the resolver is a pure
function over immutable package-level tables.

# Architecture

The tables are built once at package initialisation and are never mutated.
Accessors hand out copies so callers cannot alter them.
*/
package access

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// # User Roles

// Role represents the authorization level granted to a profile.
type Role string

const (
	// Default role for every employee logging time
	RoleStaff Role = "staff"

	// Reviews the compliance of their department
	RoleManager Role = "manager"

	// Maintains reference data and user roles
	RoleAdmin Role = "admin"

	// Unrestricted access, the only role that may grant itself
	RoleSuperAdmin Role = "super_admin"
)

// # Role Hierarchy

// roleLevels is the fixed total order of roles. Every role has an entry.
var roleLevels = map[Role]int{
	RoleStaff:      1,
	RoleManager:    2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// orderedRoles lists the roles in ascending privilege order.
var orderedRoles = [...]Role{RoleStaff, RoleManager, RoleAdmin, RoleSuperAdmin}

// Roles returns every role in ascending privilege order.
func Roles() []Role {
	roles := make([]Role, len(orderedRoles))
	copy(roles, orderedRoles[:])
	return roles
}

// ParseRole converts a stored or user-supplied string into a [Role].
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("access: unknown role %q", raw)
	}
	return role, nil
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return RoleLevel(r) >= RoleLevel(target)
}

// RoleLevel returns the numeric level of a role (1..4), or 0 for unknown values.
func RoleLevel(role Role) int {
	return roleLevels[role]
}

// String implements [fmt.Stringer].
func (r Role) String() string {
	return string(r)
}

// roleLabels is filled once at init. A [cases.Caser] keeps state and must not
// be shared between goroutines.
var roleLabels = func() map[Role]string {
	caser := cases.Title(language.English)
	labels := make(map[Role]string, len(orderedRoles))
	for _, role := range orderedRoles {
		labels[role] = caser.String(strings.ReplaceAll(string(role), "_", " "))
	}
	return labels
}()

// RoleLabel returns the human readable label of a role, e.g. "Super Admin".
// Unknown roles are returned as is.
func RoleLabel(role Role) string {
	if label, ok := roleLabels[role]; ok {
		return label
	}
	return string(role)
}
