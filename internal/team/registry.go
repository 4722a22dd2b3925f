// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package team

import (
	"sync"

	"github.com/taibuivan/timekeep/internal/platform/apperr"
)

// ErrRegistryClosed is returned once the registry has shut down.
var ErrRegistryClosed = apperr.ServiceUnavailable("Team watchers are shutting down")

// Registry lazily creates one [Watcher] per scope and shares it between viewers.
//
// Watchers are leased. The last release closes the watcher and forgets it, so
// scopes nobody holds cost nothing.
type Registry struct {
	service *Service
	opts    WatcherOptions

	mu       sync.Mutex
	closed   bool
	watchers map[string]*lease
}

type lease struct {
	watcher *Watcher
	holders int
}

// NewRegistry creates an empty registry.
func NewRegistry(service *Service, opts WatcherOptions) *Registry {
	return &Registry{
		service:  service,
		opts:     opts,
		watchers: make(map[string]*lease),
	}
}

// Acquire returns the watcher of scope, creating it on first use, and a
// release function that must be called once the caller is done with it.
func (r *Registry) Acquire(scope Scope) (*Watcher, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, nil, ErrRegistryClosed
	}

	key := scope.Key()
	held, ok := r.watchers[key]
	if !ok {
		watcher, err := NewWatcher(r.service, scope, r.opts)
		if err != nil {
			return nil, nil, err
		}
		held = &lease{watcher: watcher}
		r.watchers[key] = held
	}
	held.holders++

	var once sync.Once
	release := func() {
		once.Do(func() { r.release(key, held) })
	}
	return held.watcher, release, nil
}

func (r *Registry) release(key string, held *lease) {
	r.mu.Lock()
	held.holders--
	idle := held.holders == 0 && r.watchers[key] == held
	if idle {
		delete(r.watchers, key)
	}
	r.mu.Unlock()

	if idle {
		held.watcher.Close()
	}
}

// Len returns the number of live watchers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.watchers)
}

// Polling returns the number of watchers currently ticking.
func (r *Registry) Polling() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, held := range r.watchers {
		if held.watcher.IsPolling() {
			count++
		}
	}
	return count
}

// Close stops every watcher. It is idempotent.
func (r *Registry) Close() {
	r.mu.Lock()
	watchers := r.watchers
	r.watchers = make(map[string]*lease)
	r.closed = true
	r.mu.Unlock()

	for _, held := range watchers {
		held.watcher.Close()
	}
}
