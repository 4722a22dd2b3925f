// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import "strings"

// # Protected Routes

// Route identifies a protected area of the application.
type Route string

const (
	RouteEntry     Route = "/entry"
	RouteDashboard Route = "/dashboard"
	RouteTeam      Route = "/team"
	RouteAdmin     Route = "/admin"
)

// DefaultAdminSection is where the admin landing page redirects to.
const DefaultAdminSection = "/admin/master-data"

// Routes returns every protected route in navigation order.
func Routes() []Route {
	return []Route{RouteEntry, RouteDashboard, RouteTeam, RouteAdmin}
}

// routePermissions maps each route to the roles allowed on it.
// Every route has a non-empty set.
var routePermissions = map[Route]map[Role]struct{}{
	RouteEntry:     roleSet(RoleStaff, RoleManager, RoleAdmin, RoleSuperAdmin),
	RouteDashboard: roleSet(RoleStaff, RoleManager, RoleAdmin, RoleSuperAdmin),
	RouteTeam:      roleSet(RoleManager, RoleAdmin, RoleSuperAdmin),
	RouteAdmin:     roleSet(RoleAdmin, RoleSuperAdmin),
}

func roleSet(roles ...Role) map[Role]struct{} {
	set := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// AllowedRoles returns the roles permitted on a route in ascending order.
// Unknown routes return nil.
func AllowedRoles(route Route) []Role {
	set, ok := routePermissions[route]
	if !ok {
		return nil
	}
	var roles []Role
	for _, role := range orderedRoles {
		if _, ok := set[role]; ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// MatchRoute resolves a request path to the protected route that covers it.
//
// Only "/admin" owns its sub-paths; the other routes must match exactly.
func MatchRoute(path string) (Route, bool) {
	candidate := Route(path)
	if _, ok := routePermissions[candidate]; ok {
		return candidate, true
	}
	if strings.HasPrefix(path, string(RouteAdmin)+"/") {
		return RouteAdmin, true
	}
	return "", false
}

// CanAccessRoute reports whether a role may open the given route.
//
// A nil role means the caller is not authenticated and is always denied.
// Paths outside the permission table are denied as well.
func CanAccessRoute(role *Role, route string) bool {
	if role == nil {
		return false
	}
	matched, ok := MatchRoute(route)
	if !ok {
		return false
	}
	_, allowed := routePermissions[matched][*role]
	return allowed
}

// IsActiveAdminRoute reports whether a navigation link should be highlighted
// for the current path.
//
// The admin landing page counts as active for the default section it redirects to.
// Links outside the admin area, including an empty href, are never active.
func IsActiveAdminRoute(pathname, href string) bool {
	if href != string(RouteAdmin) && !strings.HasPrefix(href, string(RouteAdmin)+"/") {
		return false
	}
	if pathname == string(RouteAdmin) && href == DefaultAdminSection {
		return true
	}
	return pathname == href || strings.HasPrefix(pathname, href)
}
