package marquee

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/marquee/internal/cache"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/logging"
	"github.com/agentstation/marquee/pkg/store"
)

// config holds the settings a Marquee is built from
type config struct {
	storeConfig     store.Config
	store           store.RecordStore
	cache           *cache.Cache
	refreshOnSubmit bool
	logger          *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		storeConfig: store.DefaultConfig(),
		logger:      logging.Default(),
	}
}

// Option is a function that configures a Marquee instance
type Option func(*config) error

// WithStoreConfig selects the backend to open. Zero-valued collection and
// limit fall back to the defaults.
func WithStoreConfig(cfg store.Config) Option {
	return func(c *config) error {
		def := store.DefaultConfig()
		if cfg.Backend == "" {
			cfg.Backend = def.Backend
		}
		if cfg.Collection == "" {
			cfg.Collection = def.Collection
		}
		if cfg.SnapshotLimit == 0 {
			cfg.SnapshotLimit = def.SnapshotLimit
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.storeConfig = cfg
		return nil
	}
}

// WithStore uses an already open record store. The caller keeps ownership
// and closes it.
func WithStore(s store.RecordStore) Option {
	return func(c *config) error {
		if s == nil {
			return errors.NewConfigError("store", "record store must not be nil", errors.ErrInvalidInput)
		}
		c.store = s
		return nil
	}
}

// WithCollection sets the collection holding movie records
func WithCollection(name string) Option {
	return func(c *config) error {
		if name == "" {
			return errors.NewConfigError("store", "collection must not be empty", errors.ErrInvalidInput)
		}
		c.storeConfig.Collection = name
		return nil
	}
}

// WithSnapshotLimit sets how many records each catalog load reads
func WithSnapshotLimit(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return errors.NewConfigError("store", fmt.Sprintf("snapshot limit must be positive, got %d", n), errors.ErrInvalidInput)
		}
		c.storeConfig.SnapshotLimit = n
		return nil
	}
}

// WithRefreshOnSubmit invalidates the catalog after each accepted submission
func WithRefreshOnSubmit(enabled bool) Option {
	return func(c *config) error {
		c.refreshOnSubmit = enabled
		return nil
	}
}

// WithCache shares a cache with the catalog loader
func WithCache(ch *cache.Cache) Option {
	return func(c *config) error {
		c.cache = ch
		return nil
	}
}

// WithLogger sets the logger used by the loader and submitter
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}
