// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package polltest provides a manually advanced [poll.Clock] for tests.
package polltest

import (
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/timekeep/internal/poll"
)

// Clock is a virtual clock. Time only moves when [Clock.Advance] is called.
type Clock struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	pending []*timer
}

type timer struct {
	clock *Clock
	due   time.Time
	seq   int
	f     func()
	done  bool
}

// NewClock creates a Clock that starts at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now implements [poll.Clock].
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc implements [poll.Clock].
func (c *Clock) AfterFunc(d time.Duration, f func()) poll.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &timer{clock: c, due: c.now.Add(d), seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

// Stop implements [poll.Timer].
func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	t.clock.removeLocked(t)
	return true
}

// Advance moves time forward by d and fires every timer that falls due, in
// order. Timers armed by a callback fire too if they fall inside the window.
//
// Callbacks run on the caller's goroutine without the clock's lock held.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDueLocked(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.due
		next.done = true
		c.removeLocked(next)
		c.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of armed timers.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Clock) nextDueLocked(target time.Time) *timer {
	if len(c.pending) == 0 {
		return nil
	}
	sort.Slice(c.pending, func(i, j int) bool {
		if c.pending[i].due.Equal(c.pending[j].due) {
			return c.pending[i].seq < c.pending[j].seq
		}
		return c.pending[i].due.Before(c.pending[j].due)
	})
	if c.pending[0].due.After(target) {
		return nil
	}
	return c.pending[0]
}

func (c *Clock) removeLocked(t *timer) {
	for i, candidate := range c.pending {
		if candidate == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}
