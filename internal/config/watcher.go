package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fem/sPof-sub000/internal/observability"
)

// RoutesCallback is called with each successfully reloaded route set.
type RoutesCallback func(*RouteSet)

// ErrorCallback is called when a reload fails. The previous route set
// stays in effect.
type ErrorCallback func(error)

// RouteWatcher watches a routes file and reloads it on change.
type RouteWatcher struct {
	path          string
	watcher       *fsnotify.Watcher
	callback      RoutesCallback
	errorCallback ErrorCallback
	logger        observability.Logger
	debounceDelay time.Duration
	lastRoutes    *RouteSet
	mu            sync.RWMutex
	stopCh        chan struct{}
	stoppedCh     chan struct{}
	running       bool
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*RouteWatcher)

// WithDebounceDelay sets the debounce delay for file changes.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *RouteWatcher) {
		if delay > 0 {
			w.debounceDelay = delay
		}
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(w *RouteWatcher) {
		w.logger = logger
	}
}

// WithErrorCallback sets the error callback for the watcher.
func WithErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *RouteWatcher) {
		w.errorCallback = callback
	}
}

// NewRouteWatcher creates a watcher for the routes file at path.
func NewRouteWatcher(path string, callback RoutesCallback, opts ...WatcherOption) (*RouteWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &RouteWatcher{
		path:          absPath,
		watcher:       fsWatcher,
		callback:      callback,
		debounceDelay: DefaultWatchDebounce,
		logger:        observability.NopLogger(),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start loads the routes file once and begins watching its directory.
// Editors that replace the file by rename are covered because the
// directory, not the file, is watched.
func (w *RouteWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	routes, err := LoadRoutes(w.path)
	if err != nil {
		return err
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.mu.Lock()
	w.lastRoutes = routes
	w.running = true
	w.mu.Unlock()

	w.logger.Info("started watching routes file",
		observability.String("path", w.path),
	)

	go w.watch(ctx)

	return nil
}

// Stop stops watching and releases the fsnotify watcher.
func (w *RouteWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.watcher.Close()
}

// LastRoutes returns the last successfully loaded route set.
func (w *RouteWatcher) LastRoutes() *RouteSet {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastRoutes
}

// Path returns the absolute path of the watched file.
func (w *RouteWatcher) Path() string {
	return w.path
}

func (w *RouteWatcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("routes watcher stopped due to context cancellation")
			return

		case <-w.stopCh:
			w.logger.Info("routes watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			debounceTimer, debounceCh = w.handleFileEvent(event, debounceTimer, debounceCh)

		case <-debounceCh:
			debounceCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("routes watcher error", observability.Error(err))
			if w.errorCallback != nil {
				w.errorCallback(err)
			}
		}
	}
}

// handleFileEvent restarts the debounce timer on writes to the routes file.
func (w *RouteWatcher) handleFileEvent(
	event fsnotify.Event,
	debounceTimer *time.Timer,
	debounceCh <-chan time.Time,
) (timer *time.Timer, ch <-chan time.Time) {
	if filepath.Clean(event.Name) != w.path {
		return debounceTimer, debounceCh
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return debounceTimer, debounceCh
	}

	w.logger.Debug("routes file changed",
		observability.String("path", event.Name),
		observability.String("op", event.Op.String()),
	)

	if debounceTimer != nil {
		debounceTimer.Stop()
	}
	debounceTimer = time.NewTimer(w.debounceDelay)
	return debounceTimer, debounceTimer.C
}

func (w *RouteWatcher) reload() {
	if err := w.ForceReload(); err != nil {
		w.logger.Error("failed to reload routes, keeping previous table",
			observability.String("path", w.path),
			observability.Error(err),
		)
		if w.errorCallback != nil {
			w.errorCallback(err)
		}
		return
	}
	w.logger.Info("routes file reloaded", observability.String("path", w.path))
}

// ForceReload re-reads the routes file immediately and invokes the callback.
func (w *RouteWatcher) ForceReload() error {
	routes, err := LoadRoutes(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.lastRoutes = routes
	w.mu.Unlock()

	if w.callback != nil {
		w.callback(routes)
	}
	return nil
}
