// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/timekeep/internal/platform/ctxkey"
	"github.com/taibuivan/timekeep/internal/platform/ctxutil"
	"github.com/taibuivan/timekeep/internal/platform/metrics"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.0 -source=resolver.go -destination=mocks/resolver.go -package=mocks

// # Errors

var (
	// ErrUnauthenticated is returned when the request carries no session.
	ErrUnauthenticated = errors.New("access: no authenticated session")

	// ErrProfileNotFound is returned by lookups when the profile row does not exist.
	ErrProfileNotFound = errors.New("access: profile not found")
)

// # Collaborators

// SessionProvider exposes the identity of the current request.
type SessionProvider interface {
	CurrentUser(ctx context.Context) (userID string, ok bool)
}

// RoleLookup reads the stored role of a profile by primary key.
type RoleLookup interface {
	RoleByID(ctx context.Context, userID string) (Role, error)
}

// DepartmentLookup reads the department linkage of a profile.
type DepartmentLookup interface {
	DepartmentByID(ctx context.Context, userID string) (string, error)
}

// # Manager Access

// ManagerAccess is the capability set derived for one request.
type ManagerAccess struct {
	CanAccess    bool   `json:"can_access"`
	UserID       string `json:"user_id"`
	Role         Role   `json:"role"`
	IsAdmin      bool   `json:"is_admin"`
	DepartmentID string `json:"department_id,omitempty"`
}

// NewManagerAccess derives the capability flags for a user holding role.
func NewManagerAccess(userID string, role Role) ManagerAccess {
	return ManagerAccess{
		CanAccess: role.AtLeast(RoleManager),
		UserID:    userID,
		Role:      role,
		IsAdmin:   role.AtLeast(RoleAdmin),
	}
}

// WithManagerAccess stores a resolved result on the context.
func WithManagerAccess(ctx context.Context, result ManagerAccess) context.Context {
	return context.WithValue(ctx, ctxkey.KeyManagerAccess, result)
}

// ManagerAccessFrom returns the result stored by [WithManagerAccess].
func ManagerAccessFrom(ctx context.Context) (ManagerAccess, bool) {
	result, ok := ctx.Value(ctxkey.KeyManagerAccess).(ManagerAccess)
	return result, ok
}

// # Resolver

// Resolver turns the current session into a [ManagerAccess] result.
type Resolver struct {
	sessions    SessionProvider
	roles       RoleLookup
	departments DepartmentLookup
	timeout     time.Duration
	metrics     *metrics.Metrics
}

// ResolverOption customises a [Resolver].
type ResolverOption func(*Resolver)

// WithDepartments attaches the department linkage lookup.
func WithDepartments(departments DepartmentLookup) ResolverOption {
	return func(resolver *Resolver) { resolver.departments = departments }
}

// WithLookupTimeout bounds each profile query.
func WithLookupTimeout(timeout time.Duration) ResolverOption {
	return func(resolver *Resolver) { resolver.timeout = timeout }
}

// WithMetrics records fail-closed lookups.
func WithMetrics(m *metrics.Metrics) ResolverOption {
	return func(resolver *Resolver) { resolver.metrics = m }
}

// NewResolver creates a new Resolver.
func NewResolver(sessions SessionProvider, roles RoleLookup, opts ...ResolverOption) *Resolver {
	resolver := &Resolver{sessions: sessions, roles: roles}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver
}

// CheckManagerAccess resolves the capabilities of the current user.
//
// # Flow
//  1. No session short-circuits with [ErrUnauthenticated].
//  2. The stored role is read by primary key.
//  3. Any lookup failure degrades the role to staff. Privilege is never raised on failure.
//  4. The capability flags are derived from the role.
func (r *Resolver) CheckManagerAccess(ctx context.Context) (ManagerAccess, error) {
	userID, ok := r.sessions.CurrentUser(ctx)
	if !ok || userID == "" {
		return ManagerAccess{}, ErrUnauthenticated
	}

	logger := ctxutil.GetLogger(ctx)

	lookupCtx, cancel := r.lookupContext(ctx)
	defer cancel()

	role, err := r.roles.RoleByID(lookupCtx, userID)
	if err == nil && !role.Valid() {
		err = fmt.Errorf("access: stored role %q is not recognised", role)
	}
	if err != nil {
		reason := failureReason(err)
		logger.WarnContext(ctx, "role_lookup_failed",
			slog.String("user_id", userID),
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		r.metrics.RoleLookupFailed(reason)
		role = RoleStaff
	}

	result := NewManagerAccess(userID, role)

	if r.departments != nil && result.CanAccess {
		departmentID, err := r.departments.DepartmentByID(lookupCtx, userID)
		if err != nil {
			logger.WarnContext(ctx, "department_lookup_failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		} else {
			result.DepartmentID = departmentID
		}
	}

	return result, nil
}

func (r *Resolver) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// failureReason maps a lookup error to a low-cardinality metric label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return "not_found"
	case errors.Is(err, ErrLookupUnavailable):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
