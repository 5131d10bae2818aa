// Package catalog loads the bounded movie snapshot from the record store and
// memoizes it until the cache epoch ends.
package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/agentstation/marquee/internal/cache"
	"github.com/agentstation/marquee/pkg/constants"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/logging"
	"github.com/agentstation/marquee/pkg/movies"
	"github.com/agentstation/marquee/pkg/store"
)

// Loader reads at most Limit records from a collection and keeps the
// resulting table until Invalidate is called. Store failures never escape:
// they become an empty table plus an error diagnostic.
type Loader struct {
	store      store.RecordStore
	collection string
	limit      int
	cache      *cache.Cache
	group      singleflight.Group
	reads      atomic.Int64
	logger     *zerolog.Logger
	now        func() time.Time
}

// Option configures a Loader.
type Option func(*Loader)

// WithCollection sets the collection to read.
func WithCollection(name string) Option {
	return func(l *Loader) {
		l.collection = name
	}
}

// WithLimit sets the snapshot size. Non-positive values are ignored.
func WithLimit(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.limit = n
		}
	}
}

// WithCache shares an existing cache with the loader.
func WithCache(c *cache.Cache) Option {
	return func(l *Loader) {
		l.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithClock overrides the time source used for diagnostics.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		l.now = now
	}
}

// NewLoader creates a loader over s.
func NewLoader(s store.RecordStore, opts ...Option) *Loader {
	l := &Loader{
		store:      s,
		collection: constants.DefaultCollection,
		limit:      constants.DefaultSnapshotLimit,
		logger:     logging.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = cache.New(cache.NoExpiration, 0)
	}
	return l
}

// Load returns the memoized table, reading the store on the first call of
// each epoch.
func (l *Loader) Load(ctx context.Context) movies.Table {
	return l.Snapshot(ctx).Table
}

// Snapshot returns the memoized snapshot with its diagnostics.
func (l *Loader) Snapshot(ctx context.Context) Snapshot {
	key := l.key()
	for {
		if v, ok := l.cache.Get(key); ok {
			return v.(Snapshot)
		}

		epoch := l.cache.Epoch()
		v, _, _ := l.group.Do(key, func() (any, error) {
			if v, ok := l.cache.Get(key); ok {
				return flight{snap: v.(Snapshot)}, nil
			}
			snap := l.read(ctx, epoch)
			// a canceled caller is not a store failure
			if ctx.Err() != nil {
				return flight{snap: snap, canceled: true}, nil
			}
			// an epoch that ended mid-read must not be filled with the stale result
			if l.cache.Epoch() == epoch {
				l.cache.Set(key, snap)
			}
			return flight{snap: snap}, nil
		})

		f := v.(flight)
		if f.canceled && ctx.Err() == nil {
			// joined a read owned by a caller that went away
			continue
		}
		return f.snap
	}
}

// flight is the shared result of one store read.
type flight struct {
	snap     Snapshot
	canceled bool
}

// Cached returns the memoized snapshot without touching the store.
func (l *Loader) Cached() (Snapshot, bool) {
	v, ok := l.cache.Get(l.key())
	if !ok {
		return Snapshot{}, false
	}
	return v.(Snapshot), true
}

// Diagnostics returns the diagnostics recorded for the current epoch.
func (l *Loader) Diagnostics() []Diagnostic {
	snap, ok := l.Cached()
	if !ok {
		return nil
	}
	return snap.Diagnostics
}

// Invalidate ends the current epoch. The next Load reads the store again.
func (l *Loader) Invalidate() {
	l.cache.Clear()
	l.logger.Debug().
		Str("collection", l.collection).
		Uint64("epoch", l.cache.Epoch()).
		Msg("Catalog invalidated")
}

// Collection returns the collection the loader reads.
func (l *Loader) Collection() string {
	return l.collection
}

// Limit returns the snapshot size.
func (l *Loader) Limit() int {
	return l.limit
}

// Stats reports loader activity.
func (l *Loader) Stats() Stats {
	st := Stats{
		Collection: l.collection,
		Limit:      l.limit,
		Reads:      l.reads.Load(),
		Epoch:      l.cache.Epoch(),
		Cache:      l.cache.GetStats(),
	}
	if snap, ok := l.Cached(); ok {
		st.Cached = true
		st.Rows = snap.Table.Len()
		st.LoadedAt = snap.LoadedAt
	}
	return st
}

func (l *Loader) key() string {
	return fmt.Sprintf("catalog:%s:%d", l.collection, l.limit)
}

func (l *Loader) read(ctx context.Context, epoch uint64) Snapshot {
	l.reads.Add(1)
	snap := Snapshot{
		Collection: l.collection,
		Limit:      l.limit,
		Epoch:      epoch,
		LoadedAt:   l.now(),
	}
	log := l.logger.With().Str("collection", l.collection).Int("limit", l.limit).Logger()

	records, err := l.store.List(ctx, l.collection, l.limit)
	if err != nil {
		loadErr := errors.NewLoadError(l.collection, err)
		log.Error().Err(err).Msg("Catalog load failed")
		snap.Diagnostics = append(snap.Diagnostics, Diagnostic{
			Level:   LevelError,
			Message: loadErr.Error(),
			Trace:   errors.Trace(loadErr),
			Time:    snap.LoadedAt,
			Err:     loadErr,
		})
		return snap
	}

	snap.Table = movies.FromRecords(records)
	if snap.Table.IsEmpty() {
		log.Warn().Msg("Catalog is empty")
		snap.Diagnostics = append(snap.Diagnostics, Diagnostic{
			Level:   LevelWarning,
			Message: fmt.Sprintf("collection %q is empty or not readable", l.collection),
			Time:    snap.LoadedAt,
		})
		return snap
	}

	log.Info().Int("rows", snap.Table.Len()).Strs("columns", snap.Table.Columns).Msg("Catalog loaded")
	return snap
}
