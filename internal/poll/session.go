// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package poll implements a visibility-aware polling session.

A [Session] calls a refresh callback on a fixed interval while its data is
being watched, and stops the timer while nobody is looking.

# State Machine

  - Active: the timer is armed. The first callback fires one full interval
    after construction, never immediately.
  - Paused: no timer. Entered when the visibility source turns hidden.
  - Paused to Active: the callback runs at once, then a fresh interval starts.
  - Reset: from either state, the callback runs at once and the session
    restarts its countdown as Active.

Time and visibility are injected through [Clock] and [Visibility] so the
schedule can be driven by a manual clock in tests.
*/
package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/taibuivan/timekeep/internal/platform/metrics"
)

// OnPoll is the refresh callback. Returned errors are logged and do not stop the schedule.
type OnPoll func(ctx context.Context) error

// Options configures a [Session].
type Options struct {
	// Name identifies the session in logs and metrics.
	Name string

	// Interval between two automatic callbacks. Must be positive.
	Interval time.Duration

	// OnPoll is invoked on every tick, on resume and on reset.
	OnPoll OnPoll

	// Clock defaults to [SystemClock].
	Clock Clock

	// Visibility defaults to always visible.
	Visibility Visibility

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

type state int

const (
	stateActive state = iota
	statePaused
)

// Session is a running polling schedule. It is safe for concurrent use.
type Session struct {
	name     string
	interval time.Duration
	onPoll   OnPoll
	clock    Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics

	ctx    context.Context
	cancel context.CancelFunc

	// pollMu serialises callbacks; mu guards the schedule.
	pollMu sync.Mutex

	mu          sync.Mutex
	state       state
	closed      bool
	timer       Timer
	generation  uint64
	lastUpdated time.Time
	unsubscribe func()
}

// NewSession arms a new polling session.
//
// When the visibility source is hidden at construction the session starts Paused.
func NewSession(opts Options) (*Session, error) {
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("poll: interval must be positive, got %s", opts.Interval)
	}
	if opts.OnPoll == nil {
		return nil, errors.New("poll: OnPoll callback is required")
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Name == "" {
		opts.Name = "poll"
	}

	ctx, cancel := context.WithCancel(context.Background())
	session := &Session{
		name:     opts.Name,
		interval: opts.Interval,
		onPoll:   opts.OnPoll,
		clock:    opts.Clock,
		logger:   opts.Logger.With(slog.String("session", opts.Name)),
		metrics:  opts.Metrics,
		ctx:      ctx,
		cancel:   cancel,
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if opts.Visibility != nil {
		session.unsubscribe = opts.Visibility.Subscribe(session.onVisibilityChange)
		if !opts.Visibility.Visible() {
			session.state = statePaused
			return session, nil
		}
	}

	session.state = stateActive
	session.armLocked()
	return session, nil
}

// IsPolling reports whether the session is Active.
func (s *Session) IsPolling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.state == stateActive
}

// LastUpdated returns the time of the last completed callback, or the zero time.
func (s *Session) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdated
}

// Reset runs the callback now and restarts the countdown from either state.
//
// A Paused session becomes Active. A later hidden signal pauses it again.
func (s *Session) Reset() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopLocked()
	s.state = stateActive
	generation := s.generation
	s.mu.Unlock()

	s.poll("reset")
	s.rearm(generation)
}

// Close cancels the timer and detaches the visibility listener. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopLocked()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	s.cancel()
}

// # Transitions

func (s *Session) onVisibilityChange(visible bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	if !visible {
		if s.state == stateActive {
			s.state = statePaused
			s.stopLocked()
			s.logger.Debug("poll_paused")
		}
		s.mu.Unlock()
		return
	}

	if s.state == stateActive {
		s.mu.Unlock()
		return
	}
	s.state = stateActive
	s.stopLocked()
	generation := s.generation
	s.mu.Unlock()

	s.logger.Debug("poll_resumed")
	s.poll("resume")
	s.rearm(generation)
}

func (s *Session) fire(generation uint64) {
	s.mu.Lock()
	if s.closed || s.state != stateActive || s.generation != generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.poll("tick")
	s.rearm(generation)
}

// rearm starts a fresh interval unless the schedule moved on while the callback ran.
func (s *Session) rearm(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != stateActive || s.generation != generation {
		return
	}
	s.armLocked()
}

// armLocked must be called with mu held.
func (s *Session) armLocked() {
	s.generation++
	generation := s.generation
	s.timer = s.clock.AfterFunc(s.interval, func() { s.fire(generation) })
}

// stopLocked cancels the pending timer and invalidates in-flight fires. Must be called with mu held.
func (s *Session) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
}

// # Callback Execution

func (s *Session) poll(trigger string) {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	outcome := metrics.OutcomeOK
	defer func() {
		if r := recover(); r != nil {
			outcome = metrics.OutcomePanic
			s.logger.Error("poll_panic_recovered",
				slog.String("trigger", trigger),
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
		s.metrics.PollTick(s.name, outcome)

		s.mu.Lock()
		s.lastUpdated = s.clock.Now()
		s.mu.Unlock()
	}()

	if err := s.onPoll(s.ctx); err != nil {
		outcome = metrics.OutcomeFailed
		s.logger.Warn("poll_tick_failed",
			slog.String("trigger", trigger),
			slog.String("error", err.Error()),
		)
	}
}
