// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/timekeep/internal/access"
)

type routeDecision struct {
	Role         string        `json:"role" yaml:"role"`
	Path         string        `json:"path" yaml:"path"`
	Route        string        `json:"route,omitempty" yaml:"route,omitempty"`
	Allowed      bool          `json:"allowed" yaml:"allowed"`
	AllowedRoles []access.Role `json:"allowed_roles,omitempty" yaml:"allowed_roles,omitempty"`
}

func accessCmd(render func(any) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "access",
		Short: "Evaluate role and route rules",
	}

	cmd.AddCommand(
		accessRouteCmd(render),
		accessRolesCmd(render),
	)

	return cmd
}

func accessRouteCmd(render func(any) error) *cobra.Command {
	var rawRole, path string

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Check whether a role may open a path",
		RunE: func(cmd *cobra.Command, args []string) error {
			decision := routeDecision{Role: rawRole, Path: path}

			var role *access.Role
			if rawRole != "" {
				parsed, err := access.ParseRole(rawRole)
				if err != nil {
					return err
				}
				role = &parsed
				decision.Role = parsed.String()
			}

			if route, ok := access.MatchRoute(path); ok {
				decision.Route = string(route)
				decision.AllowedRoles = access.AllowedRoles(route)
			}
			decision.Allowed = access.CanAccessRoute(role, path)

			return render(decision)
		},
	}

	cmd.Flags().StringVar(&rawRole, "role", "", "Role to evaluate; empty means anonymous")
	cmd.Flags().StringVar(&path, "path", "", "Request path, e.g. /team or /admin/users")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func accessRolesCmd(render func(any) error) *cobra.Command {
	var acting string

	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List the roles an actor may assign",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := access.ParseRole(acting)
			if err != nil {
				return err
			}
			if !role.AtLeast(access.RoleAdmin) {
				return fmt.Errorf("%s cannot manage roles", access.RoleLabel(role))
			}
			return render(access.RoleOptions(role))
		},
	}

	cmd.Flags().StringVar(&acting, "as", "", "Acting role")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}
