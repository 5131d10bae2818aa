// Package memory provides an in-process record store. It backs tests, demos
// and the default configuration.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/store"
)

var _ store.RecordStore = (*Store)(nil)

// Store keeps collections as insertion-ordered slices.
type Store struct {
	sync.RWMutex
	data   map[string][]store.Record
	closed bool
}

// Option configures a Store.
type Option func(*Store)

// WithDocuments seeds collection with docs in order.
func WithDocuments(collection string, docs ...store.Document) Option {
	return func(s *Store) {
		for _, doc := range docs {
			s.data[collection] = append(s.data[collection], store.Record{
				ID:     newID(),
				Fields: maps.Clone(doc),
			})
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{data: map[string][]store.Record{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns up to limit records from collection in insertion order.
func (s *Store) List(ctx context.Context, collection string, limit int) ([]store.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.RLock()
	defer s.RUnlock()
	if s.closed {
		return nil, errors.ErrClosed
	}

	recs := s.data[collection]
	if limit <= 0 {
		return nil, nil
	}
	if limit < len(recs) {
		recs = recs[:limit]
	}
	out := make([]store.Record, len(recs))
	for i, r := range recs {
		out[i] = store.Record{ID: r.ID, Fields: maps.Clone(r.Fields)}
	}
	return out, nil
}

// Add appends a copy of doc and returns its new identifier.
func (s *Store) Add(ctx context.Context, collection string, doc store.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.Lock()
	defer s.Unlock()
	if s.closed {
		return "", errors.ErrClosed
	}

	id := newID()
	s.data[collection] = append(s.data[collection], store.Record{ID: id, Fields: maps.Clone(doc)})
	return id, nil
}

// Count returns the number of records held in collection.
func (s *Store) Count(collection string) int {
	s.RLock()
	defer s.RUnlock()
	return len(s.data[collection])
}

// Close marks the store closed. Later calls fail with errors.ErrClosed.
func (s *Store) Close() error {
	s.Lock()
	defer s.Unlock()
	s.closed = true
	return nil
}

// newID returns a time-ordered UUIDv7, falling back to v4 if the clock
// source fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
