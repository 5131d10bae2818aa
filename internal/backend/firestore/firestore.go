// Package firestore implements the record store on a Cloud Firestore
// collection.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/store"
)

var _ store.RecordStore = (*Store)(nil)

// Store wraps a firestore client.
type Store struct {
	client *firestore.Client
}

// Open connects to the project and database named in cfg. Credentials come
// from cfg when set, otherwise from the environment
// (GOOGLE_APPLICATION_CREDENTIALS or FIRESTORE_EMULATOR_HOST).
func Open(ctx context.Context, cfg store.Config) (*Store, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var (
		client *firestore.Client
		err    error
	)
	if cfg.Database != "" {
		client, err = firestore.NewClientWithDatabase(ctx, cfg.Project, cfg.Database, opts...)
	} else {
		client, err = firestore.NewClient(ctx, cfg.Project, opts...)
	}
	if err != nil {
		return nil, errors.NewConfigError("firestore", fmt.Sprintf("connecting to project %s", cfg.Project), err)
	}
	return &Store{client: client}, nil
}

// New wraps an existing client.
func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

// List streams at most limit documents of collection.
func (s *Store) List(ctx context.Context, collection string, limit int) ([]store.Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	snaps, err := s.client.Collection(collection).Limit(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, mapError(err)
	}

	out := make([]store.Record, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, store.Record{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return out, nil
}

// Add creates a document with an auto-generated ID.
func (s *Store) Add(ctx context.Context, collection string, doc store.Document) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, doc)
	if err != nil {
		return "", mapError(err)
	}
	return ref.ID, nil
}

// Close closes the client connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// mapError tags gRPC status codes the dashboard reports distinctly.
func mapError(err error) error {
	switch status.Code(err) {
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %w", errors.ErrPermissionDenied, err)
	case codes.NotFound:
		return fmt.Errorf("%w: %w", errors.ErrNotFound, err)
	default:
		return err
	}
}
