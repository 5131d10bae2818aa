// Package app provides the application context and dependency management
// for the marquee CLI. It centralizes configuration, logging and the
// lifecycle of the record store and the dashboard core.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/marquee"
	"github.com/agentstation/marquee/internal/backend"
	"github.com/agentstation/marquee/pkg/store"
)

// BuildInfo identifies the binary. Release builds stamp it through ldflags.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	BuiltBy string `json:"built_by"`
}

// App holds the configuration of one CLI process and the store and
// dashboard core its commands share.
type App struct {
	build  BuildInfo
	config *Config
	logger *zerolog.Logger

	// Lazily opened, shared by every command in the process
	mu      sync.RWMutex
	store   store.RecordStore
	marquee marquee.Marquee
}

// New loads configuration from the environment and config files, then
// applies opts.
func New(build BuildInfo, opts ...Option) (*App, error) {
	app := &App{build: build}

	config, err := LoadConfig("")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Build returns what the binary was stamped with.
func (a *App) Build() BuildInfo { return a.build }

// Config returns the resolved configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the process logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string { return a.config.Format }

// StoreConfig returns the resolved store configuration.
func (a *App) StoreConfig() store.Config { return a.config.Store }

// RecordStore returns the configured record store, opening it on first use.
func (a *App) RecordStore() (store.RecordStore, error) {
	a.mu.RLock()
	if a.store != nil {
		st := a.store
		a.mu.RUnlock()
		return st, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.openStoreLocked()
}

func (a *App) openStoreLocked() (store.RecordStore, error) {
	if a.store != nil {
		return a.store, nil
	}

	ctx := a.logger.WithContext(context.Background())
	st, err := backend.Open(ctx, a.config.Store)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", a.config.Store.Backend, err)
	}
	a.store = st
	return st, nil
}

// Marquee returns the dashboard core, creating it lazily on top of the
// shared record store. Concurrent callers get the same instance.
func (a *App) Marquee() (marquee.Marquee, error) {
	a.mu.RLock()
	if a.marquee != nil {
		mq := a.marquee
		a.mu.RUnlock()
		return mq, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.marquee != nil {
		return a.marquee, nil
	}

	st, err := a.openStoreLocked()
	if err != nil {
		return nil, err
	}

	mq, err := marquee.New(context.Background(), a.marqueeOptions(st)...)
	if err != nil {
		return nil, fmt.Errorf("creating marquee: %w", err)
	}
	a.marquee = mq
	return mq, nil
}

// marqueeOptions constructs marquee options from the app configuration.
func (a *App) marqueeOptions(st store.RecordStore) []marquee.Option {
	return []marquee.Option{
		marquee.WithStoreConfig(a.config.Store),
		marquee.WithStore(st),
		marquee.WithRefreshOnSubmit(a.config.RefreshOnSubmit),
		marquee.WithLogger(a.logger),
	}
}

// Shutdown releases the record store. It is safe to call more than once.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var err error
	if a.marquee != nil {
		err = a.marquee.Close()
		a.marquee = nil
	}
	if a.store != nil {
		if cerr := a.store.Close(); cerr != nil && err == nil {
			err = cerr
		}
		a.store = nil
	}
	return err
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithRecordStore uses an already open record store. Shutdown closes it.
func WithRecordStore(st store.RecordStore) Option {
	return func(a *App) error {
		a.store = st
		return nil
	}
}
