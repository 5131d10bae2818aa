package movies_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/marquee/internal/utils/ptr"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/movies"
	"github.com/agentstation/marquee/pkg/store"
)

// sampleTable is the three-record snapshot used across the query tests.
func sampleTable() movies.Table {
	return movies.FromRecords([]store.Record{
		{ID: "1", Fields: store.Document{"title": "Amelie", "director": "Jeunet"}},
		{ID: "2", Fields: store.Document{"title": "Amélie 2", "director": "Jeunet"}},
		{ID: "3", Fields: store.Document{"title": "Brazil", "director": "Gilliam"}},
	})
}

func titles(t movies.Table) []string {
	out := []string{}
	for _, m := range t.Rows {
		out = append(out, m.TitleText())
	}
	return out
}

func TestFromRecords(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		table := movies.FromRecords(nil)
		assert.Nil(t, table.Columns)
		assert.True(t, table.IsEmpty())
		assert.Equal(t, 0, table.Len())
	})

	t.Run("column union in first-seen order", func(t *testing.T) {
		table := movies.FromRecords([]store.Record{
			{ID: "a", Fields: store.Document{"genre": "Drama", "title": "Heat"}},
			{ID: "b", Fields: store.Document{"title": "Ran", "rating": 8.2, "director": "Kurosawa", "awards": 1}},
		})
		want := []string{"title", "genre", "director", "awards", "rating"}
		if diff := cmp.Diff(want, table.Columns); diff != "" {
			t.Errorf("columns mismatch (-want +got):\n%s", diff)
		}
		require.Equal(t, 2, table.Len())
		assert.Nil(t, table.Rows[0].Director)
		assert.Equal(t, "Kurosawa", table.Rows[1].DirectorText())
		assert.Equal(t, 8.2, table.Rows[1].Extra["rating"])
	})

	t.Run("values rendered as text", func(t *testing.T) {
		table := movies.FromRecords([]store.Record{
			{Fields: store.Document{"title": "Alien", "year": int64(1979), "director": nil}},
		})
		m := table.Rows[0]
		assert.Equal(t, "1979", m.Year)
		assert.Nil(t, m.Director)
		assert.True(t, table.HasColumn("director"))
	})
}

func TestMovieValue(t *testing.T) {
	m := movies.Movie{Title: ptr.String("Brazil"), Year: "1985", Extra: map[string]any{"runtime": 142, "note": nil}}

	v, ok := m.Value("title")
	assert.True(t, ok)
	assert.Equal(t, "Brazil", v)

	_, ok = m.Value("director")
	assert.False(t, ok)

	_, ok = m.Value("genre")
	assert.False(t, ok)

	v, ok = m.Value("runtime")
	assert.True(t, ok)
	assert.Equal(t, "142", v)

	_, ok = m.Value("note")
	assert.False(t, ok)
}

func TestMovieMarshalJSON(t *testing.T) {
	m := movies.Movie{ID: "x1", Title: ptr.String("Brazil"), Year: "1985", Extra: map[string]any{"runtime": 142}}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "x1", got["id"])
	assert.Equal(t, "Brazil", got["title"])
	assert.Nil(t, got["director"])
	assert.Contains(t, got, "director")
	assert.Equal(t, float64(142), got["runtime"])
}

func TestSearch(t *testing.T) {
	table := sampleTable()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "plain case fold does not fold accents", query: "amelie", want: []string{"Amelie"}},
		{name: "accented query", query: "AMÉLIE", want: []string{"Amélie 2"}},
		{name: "upper case", query: "BRAZ", want: []string{"Brazil"}},
		{name: "substring in the middle", query: "eli", want: []string{"Amelie"}},
		{name: "no match", query: "zardoz", want: []string{}},
		{name: "empty query returns all", query: "", want: []string{"Amelie", "Amélie 2", "Brazil"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := movies.Search(table, tt.query)
			assert.Equal(t, tt.want, titles(got))
			assert.Equal(t, len(tt.want), got.Len())
		})
	}
}

func TestSearchNullTitlesNeverMatch(t *testing.T) {
	table := movies.FromRecords([]store.Record{
		{Fields: store.Document{"title": nil, "director": "Lynch"}},
		{Fields: store.Document{"director": "Lynch"}},
		{Fields: store.Document{"title": "Dune", "director": "Lynch"}},
	})

	got := movies.Search(table, "u")
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "Dune", got.Rows[0].TitleText())
	assert.Equal(t, table.Columns, got.Columns)
}

func TestSearchWithoutTitleColumn(t *testing.T) {
	assert.True(t, movies.Search(movies.Table{}, "x").IsEmpty())

	table := movies.FromRecords([]store.Record{{Fields: store.Document{"director": "Lynch"}}})
	got := movies.Search(table, "lynch")
	assert.True(t, got.IsEmpty())
	assert.Nil(t, got.Columns)
}

func TestSearchProperties(t *testing.T) {
	table := movies.FromRecords([]store.Record{
		{Fields: store.Document{"title": "The Thing"}},
		{Fields: store.Document{"title": "Things to Come"}},
		{Fields: store.Document{"title": "STRASSE"}},
		{Fields: store.Document{"title": nil}},
		{Fields: store.Document{"title": "Nothing Hill"}},
	})

	for _, q := range []string{"thing", "THING", "s", "straße", "hill"} {
		got := movies.Search(table, q)
		prev := -1
		for _, m := range got.Rows {
			require.NotNil(t, m.Title, "query %q matched a null title", q)
			idx := indexOf(table, m)
			assert.Greater(t, idx, prev, "query %q broke row order", q)
			prev = idx
		}
	}
	assert.Equal(t, []string{"STRASSE"}, titles(movies.Search(table, "straße")))
	assert.Equal(t, []string{"The Thing", "Things to Come", "Nothing Hill"}, titles(movies.Search(table, "thing")))
}

func indexOf(t movies.Table, m movies.Movie) int {
	for i, r := range t.Rows {
		if r.Title == m.Title {
			return i
		}
	}
	return -1
}

func TestDirectors(t *testing.T) {
	assert.Equal(t, []string{"Gilliam", "Jeunet"}, movies.Directors(sampleTable()))

	t.Run("empty table", func(t *testing.T) {
		got := movies.Directors(movies.Table{})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("all null", func(t *testing.T) {
		table := movies.FromRecords([]store.Record{
			{Fields: store.Document{"title": "A", "director": nil}},
			{Fields: store.Document{"title": "B", "director": nil}},
		})
		assert.Empty(t, movies.Directors(table))
	})

	t.Run("sorted byte-wise and deduplicated", func(t *testing.T) {
		table := movies.FromRecords([]store.Record{
			{Fields: store.Document{"director": "lynch"}},
			{Fields: store.Document{"director": "Lynch"}},
			{Fields: store.Document{"director": "Akerman"}},
			{Fields: store.Document{"director": "Lynch"}},
			{Fields: store.Document{"director": nil}},
		})
		assert.Equal(t, []string{"Akerman", "Lynch", "lynch"}, movies.Directors(table))
	})
}

func TestFilterByDirector(t *testing.T) {
	table := sampleTable()

	got := movies.FilterByDirector(table, "Jeunet")
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, []string{"Amelie", "Amélie 2"}, titles(got))

	t.Run("exact match only", func(t *testing.T) {
		assert.True(t, movies.FilterByDirector(table, "Jeu").IsEmpty())
		assert.True(t, movies.FilterByDirector(table, "jeunet").IsEmpty())
	})

	t.Run("no valid selection", func(t *testing.T) {
		assert.True(t, movies.FilterByDirector(table, "").IsEmpty())
		assert.True(t, movies.FilterByDirector(movies.Table{}, "Jeunet").IsEmpty())
	})

	t.Run("option set of filtered view", func(t *testing.T) {
		for _, d := range movies.Directors(table) {
			assert.Equal(t, []string{d}, movies.Directors(movies.FilterByDirector(table, d)))
		}
	})
}

func TestSubmissionValidate(t *testing.T) {
	valid := movies.Submission{Title: "X", Year: "1999", Director: "Y", Genre: "Z"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		sub   movies.Submission
		field string
	}{
		{name: "empty year", sub: movies.Submission{Title: "X", Year: "", Director: "Y", Genre: "Z"}, field: "year"},
		{name: "blank title", sub: movies.Submission{Title: "  ", Year: "1999", Director: "Y", Genre: "Z"}, field: "title"},
		{name: "missing genre", sub: movies.Submission{Title: "X", Year: "1999", Director: "Y"}, field: "genre"},
		{name: "first missing reported", sub: movies.Submission{Genre: "Z"}, field: "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			require.Error(t, err)
			var ve *errors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSubmissionDocument(t *testing.T) {
	sub := movies.Submission{Title: " Heat ", Year: "nineteen ninety-five", Director: "Mann", Genre: "Crime"}
	doc := sub.Document()
	assert.Equal(t, store.Document{
		"title":    " Heat ",
		"year":     "nineteen ninety-five",
		"director": "Mann",
		"genre":    "Crime",
	}, doc)
}
