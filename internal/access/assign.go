// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

// # Role Assignment

// RoleOption is one entry of the role picker shown to administrators.
type RoleOption struct {
	Value Role   `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// RoleOptions returns the roles an actor may pick from, in ascending order.
//
// The top role is only offered to an actor who already holds it.
func RoleOptions(acting Role) []RoleOption {
	options := []RoleOption{
		{Value: RoleStaff, Label: RoleLabel(RoleStaff)},
		{Value: RoleManager, Label: RoleLabel(RoleManager)},
		{Value: RoleAdmin, Label: RoleLabel(RoleAdmin)},
	}
	if acting == RoleSuperAdmin {
		options = append(options, RoleOption{Value: RoleSuperAdmin, Label: RoleLabel(RoleSuperAdmin)})
	}
	return options
}

// CanAssignRole reports whether acting may grant target.
//
// It only guards elevation to the top role. Whether the actor may manage roles
// at all is decided by the admin route guard.
func CanAssignRole(acting, target Role) bool {
	return target != RoleSuperAdmin || acting == RoleSuperAdmin
}
