// Package submission validates the add-movie form and appends the record to
// the store.
package submission

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/marquee/pkg/constants"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/logging"
	"github.com/agentstation/marquee/pkg/movies"
	"github.com/agentstation/marquee/pkg/store"
)

// Invalidator ends a cached catalog epoch.
type Invalidator interface {
	Invalidate()
}

// Result describes an accepted submission.
type Result struct {
	ID        string            `json:"id" yaml:"id"`
	Movie     movies.Submission `json:"movie" yaml:"movie"`
	Refreshed bool              `json:"refreshed" yaml:"refreshed"` // catalog invalidated after the write
}

// Submitter appends validated submissions. By default it leaves the catalog
// snapshot untouched, so a new record stays invisible to queries until the
// catalog is invalidated.
type Submitter struct {
	store      store.RecordStore
	collection string
	refresh    Invalidator
	logger     *zerolog.Logger
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithCollection sets the target collection.
func WithCollection(name string) Option {
	return func(s *Submitter) {
		s.collection = name
	}
}

// WithRefreshOnSubmit invalidates inv after every successful write.
func WithRefreshOnSubmit(inv Invalidator) Option {
	return func(s *Submitter) {
		s.refresh = inv
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Submitter) {
		s.logger = logger
	}
}

// New creates a Submitter writing to st.
func New(st store.RecordStore, opts ...Option) *Submitter {
	s := &Submitter{
		store:      st,
		collection: constants.DefaultCollection,
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates sub and appends it as a new document. A validation
// failure returns *errors.ValidationError without touching the store; a
// failed append returns *errors.StoreWriteError. Neither is retried.
func (s *Submitter) Submit(ctx context.Context, sub movies.Submission) (Result, error) {
	if err := sub.Validate(); err != nil {
		s.logger.Debug().Err(err).Msg("Submission rejected")
		return Result{}, err
	}

	id, err := s.store.Add(ctx, s.collection, sub.Document())
	if err != nil {
		s.logger.Error().Err(err).
			Str("collection", s.collection).
			Str("title", sub.Title).
			Msg("Store write failed")
		return Result{}, errors.NewStoreWriteError(s.collection, sub.Title, err)
	}

	res := Result{ID: id, Movie: sub}
	if s.refresh != nil {
		s.refresh.Invalidate()
		res.Refreshed = true
	}

	s.logger.Info().
		Str("collection", s.collection).
		Str("id", id).
		Str("title", sub.Title).
		Bool("refreshed", res.Refreshed).
		Msg("Movie added")
	return res, nil
}
