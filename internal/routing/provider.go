package routing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fem/sPof-sub000/internal/cache"
	"github.com/fem/sPof-sub000/internal/config"
	"github.com/fem/sPof-sub000/internal/observability"
	"github.com/fem/sPof-sub000/internal/router"
)

const tracerName = "routectl/routing"

// Reload results used as metric labels.
const (
	reloadUnchanged = "unchanged"
	reloadApplied   = "applied"
	reloadFailed    = "failed"
)

// ErrNotLoaded is returned by accessors before the first successful Load.
var ErrNotLoaded = errors.New("route table not loaded")

// state is one published table with the readers built on it.
type state struct {
	table    *router.Table
	matcher  *router.Matcher
	reverser *router.Reverser
	token    config.SourceToken
	source   string
}

// Provider owns the route table of one routes file. It builds the table
// or restores it from the table cache, and swaps in a new table when
// the file changes. Published tables are never mutated.
type Provider struct {
	path     string
	store    *TableStore
	key      string
	logger   observability.Logger
	debounce time.Duration

	current atomic.Pointer[state]
	loadMu  sync.Mutex

	watchMu sync.Mutex
	watcher *config.RouteWatcher
}

// Option configures a Provider.
type Option func(*Provider)

// WithStore enables the table cache. Entries are stored under the key
// derived from keyPrefix and the routes file path.
func WithStore(store *TableStore, keyPrefix string) Option {
	return func(p *Provider) {
		p.store = store
		p.key = cache.TableKey(keyPrefix, p.path)
	}
}

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithDebounce sets the debounce delay used by Watch.
func WithDebounce(d time.Duration) Option {
	return func(p *Provider) {
		p.debounce = d
	}
}

// NewProvider creates a provider for the routes file at path. Nothing
// is read until Load.
func NewProvider(path string, opts ...Option) *Provider {
	p := &Provider{
		path:     path,
		logger:   observability.NopLogger(),
		debounce: config.DefaultWatchDebounce,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load publishes the table of the current routes file, restoring it from
// the table cache when an entry for the same source token exists. Cache
// failures fall back to a build. Errors reading or compiling the routes
// file are returned and leave the previous table in place.
func (p *Provider) Load(ctx context.Context) error {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "routing.Load",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("routing.source_path", p.path)),
	)
	defer span.End()

	if err := p.load(ctx, span); err != nil {
		GetMetrics().loadErrorsTotal.Inc()
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return err
	}
	return nil
}

// Reload loads the routes file again if its source token changed since
// the last published table. It reports whether a new table was published.
func (p *Provider) Reload(ctx context.Context) (bool, error) {
	token, err := config.StatSource(p.path)
	if err != nil {
		GetMetrics().reloadsTotal.WithLabelValues(reloadFailed).Inc()
		return false, err
	}

	if st := p.current.Load(); st != nil && st.token == token {
		GetMetrics().reloadsTotal.WithLabelValues(reloadUnchanged).Inc()
		return false, nil
	}

	if err := p.Load(ctx); err != nil {
		GetMetrics().reloadsTotal.WithLabelValues(reloadFailed).Inc()
		p.logger.Error("route table reload failed, keeping previous table",
			observability.String("path", p.path),
			observability.Error(err))
		return false, err
	}

	GetMetrics().reloadsTotal.WithLabelValues(reloadApplied).Inc()
	return true, nil
}

func (p *Provider) load(ctx context.Context, span trace.Span) error {
	token, err := config.StatSource(p.path)
	if err != nil {
		return fmt.Errorf("routes file unavailable: %w", err)
	}
	span.SetAttributes(attribute.String("routing.source_token", token.String()))

	if table := p.restore(ctx, token); table != nil {
		span.SetAttributes(attribute.String("routing.table_source", loadFromCache))
		p.publish(table, token, loadFromCache)
		return nil
	}

	table, err := p.build(ctx)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("routing.table_source", loadFromBuild))

	p.persist(ctx, table, token)
	p.publish(table, token, loadFromBuild)
	return nil
}

// restore returns the cached table for token, or nil.
func (p *Provider) restore(ctx context.Context, token config.SourceToken) *router.Table {
	if p.store == nil {
		return nil
	}

	snap, err := p.store.Get(ctx, p.key, token.String())
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) && !errors.Is(err, cache.ErrCacheDisabled) {
			p.logger.Warn("table cache lookup failed, rebuilding",
				observability.String("key", p.key),
				observability.Error(err))
		}
		return nil
	}

	table, err := router.RestoreTable(snap)
	if err != nil {
		p.logger.Warn("cached route table rejected, rebuilding",
			observability.String("key", p.key),
			observability.Error(err))
		return nil
	}
	return table
}

func (p *Provider) build(ctx context.Context) (*router.Table, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "routing.Build",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	table, err := Build(p.path)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("routing.definitions", len(table.Definitions())),
		attribute.Int("routing.variants", table.Len()),
	)
	return table, nil
}

// persist stores the table unless the file changed while it was built.
func (p *Provider) persist(ctx context.Context, table *router.Table, token config.SourceToken) {
	if p.store == nil {
		return
	}

	if now, err := config.StatSource(p.path); err != nil || now != token {
		p.logger.Debug("routes file changed during build, not caching table",
			observability.String("path", p.path))
		return
	}

	if err := p.store.Set(ctx, p.key, token.String(), table.Snapshot()); err != nil &&
		!errors.Is(err, cache.ErrCacheDisabled) {
		p.logger.Warn("failed to cache route table",
			observability.String("key", p.key),
			observability.Error(err))
	}
}

func (p *Provider) publish(table *router.Table, token config.SourceToken, source string) {
	p.current.Store(&state{
		table:    table,
		matcher:  router.NewMatcher(table, p.logger),
		reverser: router.NewReverser(table, p.logger),
		token:    token,
		source:   source,
	})

	m := GetMetrics()
	m.loadsTotal.WithLabelValues(source).Inc()
	m.definitions.Set(float64(len(table.Definitions())))
	m.lastLoad.SetToCurrentTime()

	p.logger.Info("route table published",
		observability.String("path", p.path),
		observability.String("source", source),
		observability.String("token", token.String()),
		observability.Int("variants", table.Len()))
}

// Build reads the routes file at path and compiles its table without
// any caching.
func Build(path string) (*router.Table, error) {
	set, err := config.LoadRoutes(path)
	if err != nil {
		return nil, err
	}
	reg, err := router.Flatten(set)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return router.NewTable(reg)
}

// Watch reloads the table whenever the routes file changes until ctx is
// done or Close is called. Load must have succeeded first.
func (p *Provider) Watch(ctx context.Context) error {
	if !p.Ready() {
		return ErrNotLoaded
	}

	p.watchMu.Lock()
	defer p.watchMu.Unlock()
	if p.watcher != nil {
		return nil
	}

	w, err := config.NewRouteWatcher(p.path,
		func(*config.RouteSet) {
			// Reload logs its own failures
			_, _ = p.Reload(ctx)
		},
		config.WithDebounceDelay(p.debounce),
		config.WithLogger(p.logger),
		config.WithErrorCallback(func(error) {
			GetMetrics().reloadsTotal.WithLabelValues(reloadFailed).Inc()
		}),
	)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return err
	}

	p.watcher = w
	return nil
}

// Close stops the watcher started by Watch.
func (p *Provider) Close() error {
	p.watchMu.Lock()
	defer p.watchMu.Unlock()
	if p.watcher == nil {
		return nil
	}
	err := p.watcher.Stop()
	p.watcher = nil
	return err
}

// Ready reports whether a table has been published.
func (p *Provider) Ready() bool {
	return p.current.Load() != nil
}

// Table returns the published table, or nil before the first Load.
func (p *Provider) Table() *router.Table {
	if st := p.current.Load(); st != nil {
		return st.table
	}
	return nil
}

// Matcher returns a matcher over the published table.
func (p *Provider) Matcher() (*router.Matcher, error) {
	st := p.current.Load()
	if st == nil {
		return nil, ErrNotLoaded
	}
	return st.matcher, nil
}

// Reverser returns a reverser over the published table.
func (p *Provider) Reverser() (*router.Reverser, error) {
	st := p.current.Load()
	if st == nil {
		return nil, ErrNotLoaded
	}
	return st.reverser, nil
}

// Token returns the source token of the published table.
func (p *Provider) Token() config.SourceToken {
	if st := p.current.Load(); st != nil {
		return st.token
	}
	return config.SourceToken{}
}

// Source returns how the published table was obtained: "cache" or
// "build". It is empty before the first Load.
func (p *Provider) Source() string {
	if st := p.current.Load(); st != nil {
		return st.source
	}
	return ""
}
