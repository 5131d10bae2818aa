package sqlite_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/marquee/internal/backend/sqlite"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/store"
)

func openTemp(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "data", "marquee.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAddAndList(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	for _, title := range []string{"Alien", "Brazil", "Cure", "Dune"} {
		_, err := s.Add(ctx, "movies", store.Document{"title": title, "year": "1980"})
		require.NoError(t, err)
	}
	_, err := s.Add(ctx, "shows", store.Document{"title": "Twin Peaks"})
	require.NoError(t, err)

	recs, err := s.List(ctx, "movies", 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Alien", recs[0].Fields["title"])
	assert.Equal(t, "Brazil", recs[1].Fields["title"])
	assert.Equal(t, "Cure", recs[2].Fields["title"])
	assert.NotEmpty(t, recs[0].ID)

	n, err := s.Count(ctx, "movies")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestNumbersSurviveRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	_, err := s.Add(ctx, "movies", store.Document{"title": "Alien", "year": 1979, "director": nil})
	require.NoError(t, err)

	recs, err := s.List(ctx, "movies", 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, json.Number("1979"), recs[0].Fields["year"])
	assert.Contains(t, recs[0].Fields, "director")
	assert.Nil(t, recs[0].Fields["director"])
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "marquee.db")

	s, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	id, err := s.Add(ctx, "movies", store.Document{"title": "Heat"})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	s, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	recs, err := s.List(ctx, "movies", 3)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, id, recs[0].ID)
}

func TestInMemoryDatabase(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Add(ctx, "movies", store.Document{"title": "Ran"})
	require.NoError(t, err)
	recs, err := s.List(ctx, "movies", 3)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestClosed(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.List(ctx, "movies", 3)
	assert.ErrorIs(t, err, errors.ErrClosed)
	_, err = s.Add(ctx, "movies", store.Document{})
	assert.ErrorIs(t, err, errors.ErrClosed)
}
