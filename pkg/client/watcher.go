package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// CollectionSource is the read surface a Watcher pulls from. *Client
// implements it.
type CollectionSource interface {
	FetchCollection(ctx context.Context, name string) (json.RawMessage, error)
	WatchEvents(ctx context.Context, name string) (<-chan struct{}, func(), error)
}

// Watcher mirrors one server collection. In pull mode the caller invokes
// Refresh when it wants fresh data; Start switches to push mode, where every
// server change event triggers a refresh. A failed refresh keeps the last
// good snapshot and marks it stale rather than blanking the UI. An empty
// snapshot from the server is real data and replaces whatever was held.
type Watcher struct {
	source CollectionSource
	name   string

	mu      sync.RWMutex
	data    json.RawMessage
	loaded  bool
	settled bool
	stale   bool
	lastErr error

	closeOnce    sync.Once
	started      bool
	cancelStream func()
	done         chan struct{}
}

// ErrWatcherStarted is returned by Start when the watcher already runs a
// change stream.
var ErrWatcherStarted = errors.New("client: watcher already started")

func NewWatcher(source CollectionSource, name string) *Watcher {
	return &Watcher{
		source: source,
		name:   name,
		done:   make(chan struct{}),
	}
}

// Data returns the current snapshot and whether it is stale. Before the
// first successful refresh the snapshot is nil.
func (w *Watcher) Data() (json.RawMessage, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.data, w.stale
}

func (w *Watcher) LastErr() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastErr
}

// Loading is true only until the first refresh settles, successfully or
// not. Later refreshes never flip it back.
func (w *Watcher) Loading() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return !w.settled
}

// Refresh pulls a new snapshot. On failure the previous snapshot survives
// and is flagged stale; the error is also returned.
func (w *Watcher) Refresh(ctx context.Context) error {
	data, err := w.source.FetchCollection(ctx, w.name)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.settled = true
	if err != nil {
		if w.loaded {
			w.stale = true
		}
		w.lastErr = err
		return err
	}

	w.data = data
	w.loaded = true
	w.stale = false
	w.lastErr = nil
	return nil
}

// Start opens the change stream and refreshes on every event. The server
// sends one event immediately, so starting also loads the first snapshot.
// A watcher runs at most one stream; a second Start returns
// ErrWatcherStarted. A failed Start may be retried.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return ErrWatcherStarted
	}
	w.started = true
	w.mu.Unlock()

	events, cancel, err := w.source.WatchEvents(ctx, w.name)
	if err != nil {
		w.mu.Lock()
		w.started = false
		w.mu.Unlock()
		return err
	}

	w.mu.Lock()
	w.cancelStream = cancel
	w.mu.Unlock()

	go func() {
		defer close(w.done)
		for range events {
			_ = w.Refresh(ctx)
		}
	}()

	return nil
}

// Close stops push mode. Safe to call repeatedly.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		cancel := w.cancelStream
		w.mu.Unlock()
		if cancel != nil {
			cancel()
			<-w.done
		}
	})
}
