package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/marquee/pkg/constants"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/store"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.NotEmpty(t, config.LogFormat)
	assert.NotEmpty(t, config.LogOutput)
	assert.NotEmpty(t, config.Store.Collection)
	assert.Positive(t, config.Store.SnapshotLimit)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("MARQUEE_STORE_BACKEND", "memory")
	t.Setenv("MARQUEE_STORE_COLLECTION", "films")
	t.Setenv("MARQUEE_STORE_SNAPSHOT_LIMIT", "7")
	t.Setenv("MARQUEE_REFRESH_ON_SUBMIT", "true")
	t.Setenv("MARQUEE_OUTPUT", "json")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, store.BackendMemory, config.Store.Backend)
	assert.Equal(t, "films", config.Store.Collection)
	assert.Equal(t, 7, config.Store.SnapshotLimit)
	assert.True(t, config.RefreshOnSubmit)
	assert.Equal(t, "json", config.Format)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marquee.yaml")
	content := `store:
  backend: sqlite
  path: /tmp/films.db
  collection: classics
  snapshot_limit: 5
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, config.ConfigFile)
	assert.Equal(t, store.BackendSQLite, config.Store.Backend)
	assert.Equal(t, "/tmp/films.db", config.Store.Path)
	assert.Equal(t, "classics", config.Store.Collection)
	assert.Equal(t, 5, config.Store.SnapshotLimit)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadConfigDefaultsToSQLite(t *testing.T) {
	t.Setenv("MARQUEE_STORE_BACKEND", "")
	t.Setenv("MARQUEE_STORE_PATH", "")

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, store.BackendSQLite, config.Store.Backend)
	assert.Equal(t, constants.DefaultDatabaseFile, config.Store.Path)
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{
		Format: "table",
		Store:  store.DefaultConfig(),
	}

	config.UpdateFromFlags(Flags{
		Verbose:    true,
		Format:     "yaml",
		Backend:    "sqlite",
		DBPath:     "movies.db",
		Collection: "films",
		Limit:      10,
	})

	assert.True(t, config.Verbose)
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, "sqlite", config.Store.Backend)
	assert.Equal(t, "movies.db", config.Store.Path)
	assert.Equal(t, "films", config.Store.Collection)
	assert.Equal(t, 10, config.Store.SnapshotLimit)
}

func TestUpdateFromFlagsKeepsLoadedValues(t *testing.T) {
	config := &Config{
		Verbose: true,
		Format:  "json",
		Store:   store.DefaultConfig(),
	}

	config.UpdateFromFlags(Flags{})

	assert.True(t, config.Verbose)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, store.DefaultConfig(), config.Store)
}
