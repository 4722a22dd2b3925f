// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package team

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/timekeep/internal/platform/metrics"
	"github.com/taibuivan/timekeep/internal/poll"
)

// WatcherOptions configures the watchers created by a [Registry].
type WatcherOptions struct {
	Interval time.Duration
	Clock    poll.Clock
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

// Watcher keeps the latest snapshot of one scope fresh while it has viewers.
//
// Visibility is derived from the viewer count: the first viewer resumes
// polling with an immediate refresh and the last one to leave pauses it.
type Watcher struct {
	scope   Scope
	service *Service
	signal  *poll.Signal
	session *poll.Session
	logger  *slog.Logger
	done    chan struct{}
	once    sync.Once

	// transition serialises viewer count changes with the visibility flip they cause.
	transition sync.Mutex

	mu          sync.Mutex
	latest      *Snapshot
	viewers     int
	nextID      int
	subscribers map[int]chan *Snapshot
}

// NewWatcher creates a paused watcher for scope.
func NewWatcher(service *Service, scope Scope, opts WatcherOptions) (*Watcher, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	watcher := &Watcher{
		scope:       scope,
		service:     service,
		signal:      poll.NewSignal(false),
		logger:      opts.Logger.With(slog.String("scope", scope.Key())),
		subscribers: make(map[int]chan *Snapshot),
		done:        make(chan struct{}),
	}

	session, err := poll.NewSession(poll.Options{
		Name:       "team_compliance",
		Interval:   opts.Interval,
		OnPoll:     watcher.refresh,
		Clock:      opts.Clock,
		Visibility: watcher.signal,
		Logger:     watcher.logger,
		Metrics:    opts.Metrics,
	})
	if err != nil {
		return nil, err
	}
	watcher.session = session
	return watcher, nil
}

// Join registers a stream viewer. The channel carries the latest snapshot on
// join and every refresh after it; only the newest undelivered one is kept.
func (w *Watcher) Join() (<-chan *Snapshot, func()) {
	w.transition.Lock()
	defer w.transition.Unlock()

	updates := make(chan *Snapshot, 1)

	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subscribers[id] = updates
	w.viewers++
	first := w.viewers == 1
	w.mu.Unlock()

	if first {
		w.signal.Set(true)
	}

	w.mu.Lock()
	if w.latest != nil && len(updates) == 0 {
		updates <- w.latest
	}
	w.mu.Unlock()

	var once sync.Once
	leave := func() {
		once.Do(func() { w.leave(id) })
	}
	return updates, leave
}

func (w *Watcher) leave(id int) {
	w.transition.Lock()
	defer w.transition.Unlock()

	w.mu.Lock()
	delete(w.subscribers, id)
	w.viewers--
	last := w.viewers == 0
	w.mu.Unlock()

	if last {
		w.signal.Set(false)
	}
}

// Latest returns the last good snapshot, or nil before the first successful refresh.
func (w *Watcher) Latest() *Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest
}

// Viewers returns the number of connected viewers.
func (w *Watcher) Viewers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewers
}

// IsPolling reports whether the underlying session is ticking.
func (w *Watcher) IsPolling() bool {
	return w.session.IsPolling()
}

// LastUpdated returns when the last refresh attempt completed.
func (w *Watcher) LastUpdated() time.Time {
	return w.session.LastUpdated()
}

// Refresh runs a refresh now and restarts the countdown.
//
// The session re-arms on reset, so the viewer-derived visibility is replayed
// afterwards and a watcher without viewers goes back to Paused.
func (w *Watcher) Refresh() {
	w.transition.Lock()
	defer w.transition.Unlock()

	w.session.Reset()
	w.signal.Notify()
}

// Close stops polling and signals [Watcher.Done] so open streams can end. It is idempotent.
func (w *Watcher) Close() {
	w.once.Do(func() {
		w.session.Close()
		close(w.done)
	})
}

// Done is closed once the watcher shuts down.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// refresh is the poll callback. A failure keeps the previous snapshot.
func (w *Watcher) refresh(ctx context.Context) error {
	snapshot, err := w.service.Snapshot(ctx, w.scope)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.latest = snapshot
	for _, updates := range w.subscribers {
		offer(updates, snapshot)
	}
	return nil
}

// offer replaces any undelivered snapshot with the newer one. Must be called with mu held.
func offer(updates chan *Snapshot, snapshot *Snapshot) {
	select {
	case updates <- snapshot:
		return
	default:
	}
	select {
	case <-updates:
	default:
	}
	updates <- snapshot
}
