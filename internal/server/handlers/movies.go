package handlers

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/agentstation/marquee/internal/catalog"
	"github.com/agentstation/marquee/internal/server/filter"
	"github.com/agentstation/marquee/internal/server/response"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/logging"
	"github.com/agentstation/marquee/pkg/movies"
)

// MoviesResponse is the payload of GET /api/v1/movies.
type MoviesResponse struct {
	Columns     []string             `json:"columns"`
	Movies      []movies.Movie       `json:"movies"`
	Count       int                  `json:"count"`
	Limit       int                  `json:"limit"`
	Epoch       uint64               `json:"epoch"`
	Diagnostics []catalog.Diagnostic `json:"diagnostics,omitempty"`
}

// CreatedResponse is the payload of a successful POST /api/v1/movies.
type CreatedResponse struct {
	ID        string            `json:"id"`
	Movie     movies.Submission `json:"movie"`
	Refreshed bool              `json:"refreshed"`
	Message   string            `json:"message"`
}

// HandleListMovies handles GET /api/v1/movies. Optional ?title= runs a
// title search and ?director= an exact director filter over the snapshot.
func (h *Handlers) HandleListMovies(w http.ResponseWriter, r *http.Request) {
	q := filter.ParseMovieQuery(r)
	key := "movies:" + q.Key()

	if cached, found := h.cache.Get(key); found {
		response.OK(w, cached)
		return
	}

	snap := h.marquee.Snapshot(r.Context())
	table := q.Apply(snap.Table)

	resp := MoviesResponse{
		Columns:     table.Columns,
		Movies:      table.Rows,
		Count:       table.Len(),
		Limit:       snap.Limit,
		Epoch:       snap.Epoch,
		Diagnostics: snap.Diagnostics,
	}
	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	if resp.Movies == nil {
		resp.Movies = []movies.Movie{}
	}

	h.cacheUnlessCanceled(r, key, resp)
	response.OK(w, resp)
}

// HandleDirectors handles GET /api/v1/directors.
func (h *Handlers) HandleDirectors(w http.ResponseWriter, r *http.Request) {
	const key = "directors"
	if cached, found := h.cache.Get(key); found {
		response.OK(w, cached)
		return
	}

	directors := h.marquee.Directors(r.Context())
	data := map[string]any{
		"directors": directors,
		"count":     len(directors),
	}
	h.cacheUnlessCanceled(r, key, data)
	response.OK(w, data)
}

// cacheUnlessCanceled stores a response unless the request was canceled
// while the snapshot loaded. Such a snapshot is empty and not memoized.
func (h *Handlers) cacheUnlessCanceled(r *http.Request, key string, value any) {
	if r.Context().Err() != nil {
		return
	}
	h.cache.Set(key, value)
}

// HandleCreateMovie handles POST /api/v1/movies with a JSON or form body.
func (h *Handlers) HandleCreateMovie(w http.ResponseWriter, r *http.Request) {
	sub, err := h.decodeSubmission(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RequestTooLarge(w, tooLarge.Limit)
			return
		}
		response.ErrorFromType(w, err)
		return
	}

	res, err := h.marquee.Submit(r.Context(), sub)
	if err != nil {
		h.logSubmitError(r, err)
		response.ErrorFromType(w, err)
		return
	}

	response.Created(w, CreatedResponse{
		ID:        res.ID,
		Movie:     res.Movie,
		Refreshed: res.Refreshed,
		Message:   addedMessage(res.Movie.Title),
	})
}

// decodeSubmission reads a Submission from a JSON or form body.
func (h *Handlers) decodeSubmission(w http.ResponseWriter, r *http.Request) (movies.Submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var sub movies.Submission
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return sub, err
			}
			return sub, errors.WrapParse("json", "", 0, err)
		}
		return sub, nil
	}

	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return sub, err
		}
		return sub, errors.WrapParse("form", "", 0, err)
	}
	return submissionFromForm(r), nil
}

func submissionFromForm(r *http.Request) movies.Submission {
	return movies.Submission{
		Title:    r.PostForm.Get(movies.FieldTitle),
		Year:     r.PostForm.Get(movies.FieldYear),
		Director: r.PostForm.Get(movies.FieldDirector),
		Genre:    r.PostForm.Get(movies.FieldGenre),
	}
}

func (h *Handlers) logSubmitError(r *http.Request, err error) {
	logger := logging.FromContext(r.Context())
	if errors.IsValidationError(err) {
		logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Submission rejected")
		return
	}
	logger.Error().Err(err).Str("path", r.URL.Path).Msg("Submission failed")
}

func addedMessage(title string) string {
	return fmt.Sprintf("Added '%s'", title)
}
