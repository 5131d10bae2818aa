// Package store defines the record store contract the dashboard reads from
// and appends to. Backends live under internal/store.
package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/marquee/pkg/constants"
	"github.com/agentstation/marquee/pkg/errors"
)

// Document is a flat mapping of field name to value as held by the store.
type Document = map[string]any

// Record is one document read back from a collection along with the
// identifier the store assigned to it.
type Record struct {
	ID     string   `json:"id" yaml:"id"`
	Fields Document `json:"fields" yaml:"fields"`
}

// RecordStore is a thin client over a document collection.
type RecordStore interface {
	// List returns at most limit documents from collection in the
	// store's natural order. A non-positive limit returns nothing.
	List(ctx context.Context, collection string, limit int) ([]Record, error)

	// Add appends doc as a new document and returns the identifier the
	// store assigned to it.
	Add(ctx context.Context, collection string, doc Document) (string, error)

	// Close releases the underlying connection.
	Close() error
}

// Backend names.
const (
	BackendMemory    = "memory"
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

var knownBackends = []string{BackendMemory, BackendSQLite, BackendFirestore}

// Backends returns the supported backend names.
func Backends() []string {
	return slices.Clone(knownBackends)
}

// Config selects and configures a backend.
type Config struct {
	// Backend is one of memory, sqlite or firestore.
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Path is the sqlite database file.
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`

	// Project and Database address a firestore database. An empty
	// Database selects the default one.
	Project  string `json:"project,omitempty" yaml:"project,omitempty" mapstructure:"project"`
	Database string `json:"database,omitempty" yaml:"database,omitempty" mapstructure:"database"`

	// CredentialsFile or CredentialsJSON hold a service account key.
	// Both empty means application default credentials.
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty" mapstructure:"credentials_file"`
	CredentialsJSON string `json:"-" yaml:"-" mapstructure:"credentials_json"`

	// Collection holds the movie records.
	Collection string `json:"collection" yaml:"collection" mapstructure:"collection"`

	// SnapshotLimit is the number of records read per catalog load.
	SnapshotLimit int `json:"snapshot_limit" yaml:"snapshot_limit" mapstructure:"snapshot_limit"`
}

// DefaultConfig returns the in-memory configuration.
func DefaultConfig() Config {
	return Config{
		Backend:       constants.DefaultBackend,
		Path:          constants.DefaultDatabaseFile,
		Collection:    constants.DefaultCollection,
		SnapshotLimit: constants.DefaultSnapshotLimit,
	}
}

// Validate checks the configuration for a usable backend.
func (c Config) Validate() error {
	backend := strings.ToLower(c.Backend)
	if !slices.Contains(knownBackends, backend) {
		return errors.NewConfigError("store",
			fmt.Sprintf("backend %q is not one of %s", c.Backend, strings.Join(knownBackends, ", ")),
			errors.ErrUnknownBackend)
	}
	if strings.TrimSpace(c.Collection) == "" {
		return errors.NewConfigError("store", "collection must not be empty", errors.ErrInvalidInput)
	}
	if c.SnapshotLimit <= 0 {
		return errors.NewConfigError("store",
			fmt.Sprintf("snapshot limit must be positive, got %d", c.SnapshotLimit), errors.ErrInvalidInput)
	}
	switch backend {
	case BackendSQLite:
		if c.Path == "" {
			return errors.NewConfigError("store", "sqlite backend requires a database path", errors.ErrInvalidInput)
		}
	case BackendFirestore:
		if c.Project == "" {
			return errors.NewConfigError("store", "firestore backend requires a project ID", errors.ErrInvalidInput)
		}
	}
	return nil
}
