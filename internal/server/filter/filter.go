// Package filter parses movie query parameters and applies them to a
// catalog snapshot.
package filter

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/marquee/pkg/movies"
)

// MovieQuery holds the criteria accepted by the movie list endpoints.
type MovieQuery struct {
	// Title is a case-insensitive substring matched against titles, kept
	// as sent. A blank title selects every row.
	Title string

	// Director selects rows whose director equals it exactly.
	Director string
}

// ParseMovieQuery extracts the movie query from an HTTP request.
func ParseMovieQuery(r *http.Request) MovieQuery {
	return FromValues(r.URL.Query())
}

// FromValues builds a MovieQuery from URL or form values.
func FromValues(v url.Values) MovieQuery {
	return MovieQuery{
		Title:    v.Get("title"),
		Director: v.Get("director"),
	}
}

// IsZero reports whether the query selects the whole snapshot.
func (q MovieQuery) IsZero() bool {
	return !q.HasTitle() && q.Director == ""
}

// HasTitle reports whether the title criterion is set. Blank titles are not.
func (q MovieQuery) HasTitle() bool {
	return strings.TrimSpace(q.Title) != ""
}

// Key returns a stable cache key for the query.
func (q MovieQuery) Key() string {
	return "title=" + url.QueryEscape(q.Title) + "&director=" + url.QueryEscape(q.Director)
}

// Apply runs the title search and then the director filter. Criteria that
// are empty are skipped.
func (q MovieQuery) Apply(t movies.Table) movies.Table {
	if q.HasTitle() {
		t = movies.Search(t, q.Title)
	}
	if q.Director != "" {
		t = movies.FilterByDirector(t, q.Director)
	}
	return t
}
