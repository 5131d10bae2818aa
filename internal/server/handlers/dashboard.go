package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/agentstation/marquee/internal/catalog"
	"github.com/agentstation/marquee/internal/server/filter"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/logging"
	"github.com/agentstation/marquee/pkg/movies"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// dashboardView is the data rendered by the dashboard template.
type dashboardView struct {
	APIPrefix   string
	All         tableView
	Limit       int
	Query       string
	Results     *tableView
	Directors   []string
	Director    string
	ByDirector  *tableView
	Diagnostics []catalog.Diagnostic
	Flash       string
	FormError   string
	Form        movies.Submission
}

// tableView is a table flattened to display strings.
type tableView struct {
	Columns []string
	Rows    [][]string
	Count   int
}

func newTableView(t movies.Table) tableView {
	v := tableView{Columns: t.Columns, Count: t.Len()}
	for _, m := range t.Rows {
		row := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			row[i], _ = m.Value(col)
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// HandleDashboard handles GET /. It renders the snapshot, the optional
// title search and director filter, and the add-movie form.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	view := h.buildView(r, filter.ParseMovieQuery(r))
	if added := r.URL.Query().Get("added"); added != "" {
		view.Flash = addedMessage(added)
	}
	h.render(w, r, http.StatusOK, view)
}

// HandleDashboardSubmit handles POST / from the add-movie form. Success
// redirects back to the dashboard; failures re-render the form.
func (h *Handlers) HandleDashboardSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		view := h.buildView(r, filter.MovieQuery{})
		view.FormError = "Could not read the form."
		h.render(w, r, http.StatusBadRequest, view)
		return
	}

	sub := submissionFromForm(r)
	res, err := h.marquee.Submit(r.Context(), sub)
	if err == nil {
		http.Redirect(w, r, "/?added="+url.QueryEscape(res.Movie.Title), http.StatusSeeOther)
		return
	}

	h.logSubmitError(r, err)
	status := http.StatusBadGateway
	view := h.buildView(r, filter.MovieQuery{})
	view.Form = sub

	var validation *errors.ValidationError
	if errors.As(err, &validation) {
		status = http.StatusBadRequest
		view.FormError = "Please fill in all fields: " + validation.Field + " " + validation.Message + "."
	} else {
		view.FormError = "Could not save the movie: " + err.Error()
	}
	h.render(w, r, status, view)
}

func (h *Handlers) buildView(r *http.Request, q filter.MovieQuery) dashboardView {
	snap := h.marquee.Snapshot(r.Context())

	view := dashboardView{
		APIPrefix:   h.apiPrefix,
		All:         newTableView(snap.Table),
		Limit:       snap.Limit,
		Query:       q.Title,
		Directors:   movies.Directors(snap.Table),
		Director:    q.Director,
		Diagnostics: snap.Diagnostics,
	}
	if q.HasTitle() {
		res := newTableView(movies.Search(snap.Table, q.Title))
		view.Results = &res
	}
	if q.Director != "" {
		res := newTableView(movies.FilterByDirector(snap.Table, q.Director))
		view.ByDirector = &res
	}
	return view
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, view dashboardView) {
	var buf bytes.Buffer
	if err := h.dashboard.Execute(&buf, view); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("Failed to render dashboard")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
