package movies

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Search returns the rows whose title contains query, compared under
// Unicode case folding. Accents are not folded. Rows with a null title
// never match. A table without a title column yields an empty table, and
// an empty query returns t unchanged.
func Search(t Table, query string) Table {
	if !t.HasColumn(FieldTitle) {
		return Table{}
	}
	if query == "" {
		return t
	}

	// cases.Caser keeps state, so each search gets its own.
	caser := cases.Fold()
	needle := caser.String(query)

	var rows []Movie
	for _, m := range t.Rows {
		if m.Title == nil {
			continue
		}
		if strings.Contains(caser.String(*m.Title), needle) {
			rows = append(rows, m)
		}
	}
	return t.withRows(rows)
}

// Directors returns the distinct non-null directors in t, sorted ascending.
func Directors(t Table) []string {
	out := []string{}
	if !t.HasColumn(FieldDirector) {
		return out
	}
	for _, m := range t.Rows {
		if m.Director != nil {
			out = append(out, *m.Director)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// FilterByDirector returns the rows whose director equals director exactly.
// An empty selection or a table without a director column yields an empty
// table.
func FilterByDirector(t Table, director string) Table {
	if director == "" || !t.HasColumn(FieldDirector) {
		return Table{}
	}

	var rows []Movie
	for _, m := range t.Rows {
		if m.Director != nil && *m.Director == director {
			rows = append(rows, m)
		}
	}
	return t.withRows(rows)
}
