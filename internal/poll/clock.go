// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poll

import (
	"sync"
	"time"
)

// # Time Source

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call stopped the timer.
	Stop() bool
}

// Clock is the time source of a [Session].
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// SystemClock is the wall clock backed by the runtime timers.
var SystemClock Clock = systemClock{}

// # Visibility Source

// Visibility reports whether anybody is looking at the polled data.
type Visibility interface {
	Visible() bool

	// Subscribe registers a listener for visibility changes and returns a
	// function that detaches it.
	Subscribe(listener func(visible bool)) (unsubscribe func())
}

// Signal is an in-process [Visibility] source toggled with [Signal.Set].
type Signal struct {
	mu        sync.Mutex
	visible   bool
	nextID    int
	listeners map[int]func(bool)
}

// NewSignal creates a Signal in the given initial state.
func NewSignal(visible bool) *Signal {
	return &Signal{visible: visible, listeners: make(map[int]func(bool))}
}

// Visible implements [Visibility].
func (s *Signal) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Set changes the state and notifies listeners. Setting the current state is a no-op.
//
// Listeners run on the caller's goroutine, outside the signal's lock.
func (s *Signal) Set(visible bool) {
	s.mu.Lock()
	if s.visible == visible {
		s.mu.Unlock()
		return
	}
	s.visible = visible
	listeners := make([]func(bool), 0, len(s.listeners))
	for _, listener := range s.listeners {
		listeners = append(listeners, listener)
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(visible)
	}
}

// Notify replays the current state to every listener without changing it.
func (s *Signal) Notify() {
	s.mu.Lock()
	visible := s.visible
	listeners := make([]func(bool), 0, len(s.listeners))
	for _, listener := range s.listeners {
		listeners = append(listeners, listener)
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(visible)
	}
}

// Subscribe implements [Visibility].
func (s *Signal) Subscribe(listener func(visible bool)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}
