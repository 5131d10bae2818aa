package marquee

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/marquee/internal/backend"
	"github.com/agentstation/marquee/internal/catalog"
	"github.com/agentstation/marquee/internal/submission"
	"github.com/agentstation/marquee/pkg/movies"
	"github.com/agentstation/marquee/pkg/store"
)

// Marquee is the dashboard core: a memoized catalog snapshot, queries over
// it, and record submission.
type Marquee interface {
	// Catalog returns the memoized snapshot table ("show all").
	Catalog(ctx context.Context) movies.Table

	// Snapshot returns the memoized snapshot with its diagnostics.
	Snapshot(ctx context.Context) catalog.Snapshot

	// Search returns snapshot rows whose title contains query.
	Search(ctx context.Context, query string) movies.Table

	// Directors returns the director option set of the snapshot.
	Directors(ctx context.Context) []string

	// FilterByDirector returns snapshot rows with exactly this director.
	FilterByDirector(ctx context.Context, director string) movies.Table

	// Submit validates and appends a new movie.
	Submit(ctx context.Context, sub movies.Submission) (submission.Result, error)

	// Invalidate ends the catalog cache epoch.
	Invalidate()

	// Diagnostics returns the notes recorded by the current epoch's load.
	Diagnostics() []catalog.Diagnostic

	// Stats reports loader and cache activity.
	Stats() catalog.Stats

	// OnMovieAdded registers a callback for accepted submissions.
	OnMovieAdded(MovieAddedHook)

	// OnCatalogInvalidated registers a callback for ended epochs.
	OnCatalogInvalidated(CatalogInvalidatedHook)

	// Close releases the record store when this instance opened it.
	Close() error
}

// marquee is the internal implementation of the Marquee interface
type marquee struct {
	config    *config
	store     store.RecordStore
	ownsStore bool
	loader    *catalog.Loader
	submitter *submission.Submitter
	hooks     *hooks
	logger    *zerolog.Logger
}

// New creates a Marquee with the given options. Without WithStore it opens
// the backend described by the store configuration.
func New(ctx context.Context, opts ...Option) (Marquee, error) {
	m := &marquee{
		config: defaultConfig(),
		hooks:  newHooks(),
	}
	if err := m.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}
	m.logger = m.config.logger

	m.store = m.config.store
	if m.store == nil {
		st, err := backend.Open(ctx, m.config.storeConfig)
		if err != nil {
			return nil, fmt.Errorf("opening record store: %w", err)
		}
		m.store = st
		m.ownsStore = true
	}

	cfg := m.config.storeConfig
	loaderOpts := []catalog.Option{
		catalog.WithCollection(cfg.Collection),
		catalog.WithLimit(cfg.SnapshotLimit),
		catalog.WithLogger(m.logger),
	}
	if m.config.cache != nil {
		loaderOpts = append(loaderOpts, catalog.WithCache(m.config.cache))
	}
	m.loader = catalog.NewLoader(m.store, loaderOpts...)

	subOpts := []submission.Option{
		submission.WithCollection(cfg.Collection),
		submission.WithLogger(m.logger),
	}
	if m.config.refreshOnSubmit {
		subOpts = append(subOpts, submission.WithRefreshOnSubmit(m))
	}
	m.submitter = submission.New(m.store, subOpts...)

	return m, nil
}

// options applies the given options to the configuration
func (m *marquee) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(m.config); err != nil {
			return err
		}
	}
	return nil
}

func (m *marquee) Catalog(ctx context.Context) movies.Table {
	return m.loader.Load(ctx)
}

func (m *marquee) Snapshot(ctx context.Context) catalog.Snapshot {
	return m.loader.Snapshot(ctx)
}

func (m *marquee) Search(ctx context.Context, query string) movies.Table {
	return movies.Search(m.loader.Load(ctx), query)
}

func (m *marquee) Directors(ctx context.Context) []string {
	return movies.Directors(m.loader.Load(ctx))
}

func (m *marquee) FilterByDirector(ctx context.Context, director string) movies.Table {
	return movies.FilterByDirector(m.loader.Load(ctx), director)
}

func (m *marquee) Submit(ctx context.Context, sub movies.Submission) (submission.Result, error) {
	res, err := m.submitter.Submit(ctx, sub)
	if err != nil {
		return res, err
	}
	m.hooks.triggerMovieAdded(res)
	return res, nil
}

func (m *marquee) Invalidate() {
	m.loader.Invalidate()
	m.hooks.triggerCatalogInvalidated(m.loader.Stats().Epoch)
}

func (m *marquee) Diagnostics() []catalog.Diagnostic {
	return m.loader.Diagnostics()
}

func (m *marquee) Stats() catalog.Stats {
	return m.loader.Stats()
}

func (m *marquee) OnMovieAdded(fn MovieAddedHook) {
	m.hooks.OnMovieAdded(fn)
}

func (m *marquee) OnCatalogInvalidated(fn CatalogInvalidatedHook) {
	m.hooks.OnCatalogInvalidated(fn)
}

func (m *marquee) Close() error {
	if !m.ownsStore {
		return nil
	}
	return m.store.Close()
}
