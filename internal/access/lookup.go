// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
)

// ErrLookupUnavailable is returned while the role lookup circuit is open.
var ErrLookupUnavailable = errors.New("access: role lookup unavailable")

// # Guarded Lookup

// GuardedLookup protects a [RoleLookup] with a circuit breaker and collapses
// concurrent lookups for the same user into one query.
//
// The shared query runs on a context detached from the callers, bounded by
// CallTimeout. A caller that goes away only abandons its own wait.
type GuardedLookup struct {
	next    RoleLookup
	breaker *gobreaker.CircuitBreaker
	group   singleflight.Group
	timeout time.Duration
}

// BreakerSettings tunes the circuit breaker of a [GuardedLookup].
type BreakerSettings struct {
	Name                string
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration

	// CallTimeout bounds one shared query.
	CallTimeout time.Duration

	Logger *slog.Logger
}

// DefaultCallTimeout bounds a shared role query when no CallTimeout is set.
const DefaultCallTimeout = 3 * time.Second

// DefaultBreakerSettings opens after three consecutive failures and probes again after ten seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:                "role-lookup",
		ConsecutiveFailures: 3,
		OpenTimeout:         10 * time.Second,
		CallTimeout:         DefaultCallTimeout,
	}
}

// NewGuardedLookup wraps next.
func NewGuardedLookup(next RoleLookup, settings BreakerSettings) *GuardedLookup {
	logger := settings.Logger
	if logger == nil {
		logger = slog.Default()
	}
	threshold := settings.ConsecutiveFailures
	if threshold == 0 {
		threshold = 3
	}
	timeout := settings.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A missing profile is an answer, not an outage. Cancellation says
		// nothing about the store either.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrProfileNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit_breaker_state_changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &GuardedLookup{next: next, breaker: breaker, timeout: timeout}
}

// RoleByID implements [RoleLookup].
func (g *GuardedLookup) RoleByID(ctx context.Context, userID string) (Role, error) {
	shared := context.WithoutCancel(ctx)
	resultChan := g.group.DoChan(userID, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(shared, g.timeout)
		defer cancel()

		return g.breaker.Execute(func() (interface{}, error) {
			return g.next.RoleByID(callCtx, userID)
		})
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			if errors.Is(res.Err, gobreaker.ErrOpenState) || errors.Is(res.Err, gobreaker.ErrTooManyRequests) {
				return "", ErrLookupUnavailable
			}
			return "", res.Err
		}
		return res.Val.(Role), nil
	}
}

// State reports the current breaker state, used by the readiness probe.
func (g *GuardedLookup) State() gobreaker.State {
	return g.breaker.State()
}
