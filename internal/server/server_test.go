package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/marquee"
	"github.com/agentstation/marquee/internal/backend/memory"
	appmock "github.com/agentstation/marquee/internal/cmd/application"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/logging"
	"github.com/agentstation/marquee/pkg/store"
)

// brokenStore fails every call.
type brokenStore struct{}

func (brokenStore) List(context.Context, string, int) ([]store.Record, error) {
	return nil, errors.ErrPermissionDenied
}

func (brokenStore) Add(context.Context, string, store.Document) (string, error) {
	return "", errors.ErrPermissionDenied
}

func (brokenStore) Close() error { return nil }

// writeFailStore reads from an inner store and fails every append.
type writeFailStore struct {
	store.RecordStore
}

func (writeFailStore) Add(context.Context, string, store.Document) (string, error) {
	return "", errors.New("quota exceeded")
}

func seededStore() *memory.Store {
	return memory.New(memory.WithDocuments("movies",
		store.Document{"title": "Amelie", "year": "2001", "director": "Jeunet", "genre": "Romance"},
		store.Document{"title": "Brazil", "year": "1985", "director": "Gilliam", "genre": "Satire"},
		store.Document{"title": "Delicatessen", "year": "1991", "director": "Jeunet", "genre": "Comedy"},
	))
}

func newTestServer(t *testing.T, st store.RecordStore, cfg Config, opts ...marquee.Option) *Server {
	t.Helper()
	opts = append([]marquee.Option{
		marquee.WithStore(st),
		marquee.WithLogger(logging.NewNopLogger()),
	}, opts...)
	mq, err := marquee.New(context.Background(), opts...)
	require.NoError(t, err)

	app := &appmock.Mock{
		MarqueeFunc: func() (marquee.Marquee, error) { return mq, nil },
	}
	srv, err := New(app, cfg)
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RateLimit = 0
	return cfg
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

type moviesPayload struct {
	Columns []string         `json:"columns"`
	Movies  []map[string]any `json:"movies"`
	Count   int              `json:"count"`
	Limit   int              `json:"limit"`
}

func listTitles(t *testing.T, h http.Handler, target string) []string {
	t.Helper()
	w, env := do(t, h, http.MethodGet, target, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var p moviesPayload
	require.NoError(t, json.Unmarshal(env.Data, &p))
	titles := []string{}
	for _, m := range p.Movies {
		titles = append(titles, m["title"].(string))
	}
	assert.Equal(t, len(titles), p.Count)
	return titles
}

func TestServer_NewStartShutdown(t *testing.T) {
	srv := newTestServer(t, seededStore(), testConfig())
	assert.Equal(t, "localhost:8080", srv.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.Equal(t, 0, srv.broker.Stats().Subscribers)

	_, ok := srv.wsHub.Attach(1)
	assert.False(t, ok, "live-update clients are refused after shutdown")
}

func TestServer_AuthRequiresKey(t *testing.T) {
	cfg := testConfig()
	cfg.AuthEnabled = true

	app := &appmock.Mock{
		MarqueeFunc: func() (marquee.Marquee, error) {
			return marquee.New(context.Background(), marquee.WithStore(seededStore()))
		},
	}
	_, err := New(app, cfg)
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestServer_ListMovies(t *testing.T) {
	h := newTestServer(t, seededStore(), testConfig()).Handler()

	w, env := do(t, h, http.MethodGet, "/api/v1/movies", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var p moviesPayload
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, []string{"title", "year", "director", "genre"}, p.Columns)
	assert.Equal(t, 3, p.Limit)
	assert.Equal(t, 3, p.Count)

	assert.Equal(t, []string{"Amelie"}, listTitles(t, h, "/api/v1/movies?title=AMEL"))
	assert.Equal(t, []string{"Amelie", "Delicatessen"}, listTitles(t, h, "/api/v1/movies?director=Jeunet"))
	assert.Equal(t, []string{}, listTitles(t, h, "/api/v1/movies?director=jeunet"))
}

func TestServer_CanceledRequestIsNotCached(t *testing.T) {
	srv := newTestServer(t, seededStore(), testConfig())
	h := srv.Handler()

	for _, target := range []string{"/api/v1/movies", "/api/v1/directors"} {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest(http.MethodGet, target, nil).WithContext(ctx)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, []string{"Amelie", "Brazil", "Delicatessen"}, listTitles(t, h, "/api/v1/movies"))

	w, env := do(t, h, http.MethodGet, "/api/v1/directors", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var p struct {
		Directors []string `json:"directors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, []string{"Gilliam", "Jeunet"}, p.Directors)
}

func TestServer_Directors(t *testing.T) {
	h := newTestServer(t, seededStore(), testConfig()).Handler()

	w, env := do(t, h, http.MethodGet, "/api/v1/directors", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var p struct {
		Directors []string `json:"directors"`
		Count     int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, []string{"Gilliam", "Jeunet"}, p.Directors)
	assert.Equal(t, 2, p.Count)
}

func TestServer_CreateMovieStaysInvisibleUntilInvalidate(t *testing.T) {
	st := seededStore()
	h := newTestServer(t, st, testConfig(), marquee.WithSnapshotLimit(10)).Handler()

	before := listTitles(t, h, "/api/v1/movies")
	require.Len(t, before, 3)

	w, env := do(t, h, http.MethodPost, "/api/v1/movies", "application/json",
		`{"title":"Heat","year":"1995","director":"Mann","genre":"Crime"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Added 'Heat'", created.Message)
	assert.Equal(t, 4, st.Count("movies"))

	// The snapshot is not refreshed by a write.
	assert.Equal(t, before, listTitles(t, h, "/api/v1/movies"))

	w, _ = do(t, h, http.MethodPost, "/api/v1/catalog/invalidate", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, listTitles(t, h, "/api/v1/movies"), "Heat")
}

func TestServer_CreateMovieFromForm(t *testing.T) {
	st := seededStore()
	h := newTestServer(t, st, testConfig()).Handler()

	form := url.Values{"title": {"Heat"}, "year": {"1995"}, "director": {"Mann"}, "genre": {"Crime"}}
	w, _ := do(t, h, http.MethodPost, "/api/v1/movies", "application/x-www-form-urlencoded", form.Encode())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 4, st.Count("movies"))
}

func TestServer_CreateMovieValidation(t *testing.T) {
	st := seededStore()
	h := newTestServer(t, st, testConfig()).Handler()

	w, env := do(t, h, http.MethodPost, "/api/v1/movies", "application/json",
		`{"title":"Heat","year":"1995","director":"   ","genre":"Crime"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "director", env.Error.Field)
	assert.Equal(t, 3, st.Count("movies"), "no store call on validation failure")

	w, env = do(t, h, http.MethodPost, "/api/v1/movies", "application/json", `{"title":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestServer_CreateMovieTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 16
	h := newTestServer(t, seededStore(), cfg).Handler()

	w, env := do(t, h, http.MethodPost, "/api/v1/movies", "application/json",
		`{"title":"A very long title indeed","year":"1","director":"d","genre":"g"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "REQUEST_TOO_LARGE", env.Error.Code)
}

func TestServer_CreateMovieStoreFailure(t *testing.T) {
	h := newTestServer(t, writeFailStore{seededStore()}, testConfig()).Handler()

	w, env := do(t, h, http.MethodPost, "/api/v1/movies", "application/json",
		`{"title":"Heat","year":"1995","director":"Mann","genre":"Crime"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "STORE_UNAVAILABLE", env.Error.Code)

	// The server keeps serving reads.
	assert.Len(t, listTitles(t, h, "/api/v1/movies"), 3)
}

func TestServer_LoadFailure(t *testing.T) {
	h := newTestServer(t, brokenStore{}, testConfig()).Handler()

	assert.Equal(t, []string{}, listTitles(t, h, "/api/v1/movies"))

	w, env := do(t, h, http.MethodGet, "/api/v1/diagnostics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var p struct {
		Diagnostics []struct {
			Level   string `json:"level"`
			Message string `json:"message"`
			Trace   string `json:"trace"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Len(t, p.Diagnostics, 1)
	assert.Equal(t, "error", p.Diagnostics[0].Level)
	assert.Contains(t, p.Diagnostics[0].Trace, "permission denied")

	w, _ = do(t, h, http.MethodGet, "/api/v1/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = do(t, h, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "permission denied")
}

func TestServer_HealthAndStats(t *testing.T) {
	h := newTestServer(t, seededStore(), testConfig()).Handler()

	w, _ := do(t, h, http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, h, http.MethodGet, "/api/v1/ready", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, h, http.MethodGet, "/api/v1/stats", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var p struct {
		Catalog struct {
			Reads int64 `json:"reads"`
			Rows  int   `json:"rows"`
		} `json:"catalog"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, int64(1), p.Catalog.Reads)
	assert.Equal(t, 3, p.Catalog.Rows)
}

func TestServer_Dashboard(t *testing.T) {
	st := seededStore()
	h := newTestServer(t, st, testConfig()).Handler()

	w, _ := do(t, h, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Snapshot of the first 3 records.")
	assert.Contains(t, body, "Brazil")
	assert.Contains(t, body, `<option value="Gilliam">Gilliam</option>`)

	w, _ = do(t, h, http.MethodGet, "/?title=braz", "", "")
	assert.Contains(t, w.Body.String(), "1 result(s)")

	w, _ = do(t, h, http.MethodGet, "/?director=Jeunet", "", "")
	assert.Contains(t, w.Body.String(), "2 movie(s)")

	form := url.Values{"title": {"Heat"}, "year": {"1995"}, "director": {"Mann"}, "genre": {"Crime"}}
	w, _ = do(t, h, http.MethodPost, "/", "application/x-www-form-urlencoded", form.Encode())
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?added=Heat", w.Header().Get("Location"))

	w, _ = do(t, h, http.MethodGet, "/?added=Heat", "", "")
	assert.Contains(t, w.Body.String(), "Added &#39;Heat&#39;")

	form.Set("genre", "")
	w, _ = do(t, h, http.MethodPost, "/", "application/x-www-form-urlencoded", form.Encode())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "genre is required")
	assert.Contains(t, w.Body.String(), `value="Heat"`, "form values are kept")
	assert.Equal(t, 4, st.Count("movies"))
}

func TestServer_AuthGuardsAPIOnly(t *testing.T) {
	cfg := testConfig()
	cfg.AuthEnabled = true
	cfg.APIKey = "secret"
	h := newTestServer(t, seededStore(), cfg).Handler()

	w, _ := do(t, h, http.MethodGet, "/api/v1/movies", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, h, http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, h, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_StreamsMovieAdded(t *testing.T) {
	srv := newTestServer(t, seededStore(), testConfig())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/updates/stream", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Eventually(t, func() bool { return srv.sseBroadcaster.ClientCount() == 1 },
		2*time.Second, 5*time.Millisecond)

	post, err := ts.Client().Post(ts.URL+"/api/v1/movies", "application/json",
		strings.NewReader(`{"title":"Heat","year":"1995","director":"Mann","genre":"Crime"}`))
	require.NoError(t, err)
	_ = post.Body.Close()
	require.Equal(t, http.StatusCreated, post.StatusCode)

	found := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if scanner.Text() == "event: movie.added" && scanner.Scan() {
				found <- scanner.Text()
				return
			}
		}
	}()

	select {
	case data := <-found:
		assert.Contains(t, data, `"title":"Heat"`)
		assert.Contains(t, data, `"director":"Mann"`)
	case <-time.After(3 * time.Second):
		t.Fatal("movie.added event not streamed")
	}
}
