// Package movies holds the movie record type, the tabular catalog snapshot
// and the in-memory queries run over it.
package movies

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/agentstation/marquee/internal/utils/ptr"
	"github.com/agentstation/marquee/pkg/store"
)

// Field names as stored in the collection.
const (
	FieldTitle    = "title"
	FieldYear     = "year"
	FieldDirector = "director"
	FieldGenre    = "genre"
)

// knownFields fixes the column order for the typed attributes.
var knownFields = []string{FieldTitle, FieldYear, FieldDirector, FieldGenre}

// Movie is one record of the catalog. Title and Director are nil when the
// document lacks them or holds null. Year stays text.
type Movie struct {
	ID       string         `json:"id,omitempty" yaml:"id,omitempty"`       // Store-assigned identifier
	Title    *string        `json:"title" yaml:"title"`                     // Display title
	Year     string         `json:"year" yaml:"year"`                       // Release year as entered
	Director *string        `json:"director" yaml:"director"`               // Director, may be null
	Genre    string         `json:"genre" yaml:"genre"`                     // Free-text genre
	Extra    map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"` // Untyped fields the store returned
}

// FromRecord converts a stored document into a Movie. Non-string values in
// the typed attributes are rendered as text.
func FromRecord(rec store.Record) Movie {
	m := Movie{ID: rec.ID}
	for key, value := range rec.Fields {
		switch key {
		case FieldTitle:
			m.Title = optionalText(value)
		case FieldDirector:
			m.Director = optionalText(value)
		case FieldYear:
			m.Year = text(value)
		case FieldGenre:
			m.Genre = text(value)
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]any)
			}
			m.Extra[key] = value
		}
	}
	return m
}

// Value returns the column value rendered as text, and false when the
// record has no value for it.
func (m Movie) Value(column string) (string, bool) {
	switch column {
	case FieldTitle:
		return ptr.Value(m.Title)
	case FieldDirector:
		return ptr.Value(m.Director)
	case FieldYear:
		return m.Year, m.Year != ""
	case FieldGenre:
		return m.Genre, m.Genre != ""
	}
	v, ok := m.Extra[column]
	if !ok || v == nil {
		return "", false
	}
	return text(v), true
}

// TitleText returns the title or the empty string when it is null.
func (m Movie) TitleText() string {
	s, _ := ptr.Value(m.Title)
	return s
}

// DirectorText returns the director or the empty string when it is null.
func (m Movie) DirectorText() string {
	s, _ := ptr.Value(m.Director)
	return s
}

// MarshalJSON flattens Extra next to the typed fields.
func (m Movie) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+5)
	maps.Copy(out, m.Extra)
	if m.ID != "" {
		out["id"] = m.ID
	}
	out[FieldTitle] = m.Title
	out[FieldYear] = m.Year
	out[FieldDirector] = m.Director
	out[FieldGenre] = m.Genre
	return json.Marshal(out)
}

// Table is the catalog snapshot: ordered rows plus the union of field names
// observed across them. An empty table has no columns.
type Table struct {
	Columns []string `json:"columns" yaml:"columns"`
	Rows    []Movie  `json:"rows" yaml:"rows"`
}

// FromRecords builds a table from documents in the order given. Columns
// follow first-seen order; within a document the typed attributes come
// first, then the remaining keys sorted.
func FromRecords(records []store.Record) Table {
	if len(records) == 0 {
		return Table{}
	}
	t := Table{Rows: make([]Movie, 0, len(records))}
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, key := range orderedKeys(rec.Fields) {
			if !seen[key] {
				seen[key] = true
				t.Columns = append(t.Columns, key)
			}
		}
		t.Rows = append(t.Rows, FromRecord(rec))
	}
	return t
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// HasColumn reports whether any row carried the field.
func (t Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// withRows returns a table sharing t's columns with the given rows.
func (t Table) withRows(rows []Movie) Table {
	return Table{Columns: t.Columns, Rows: rows}
}

func orderedKeys(doc store.Document) []string {
	keys := make([]string, 0, len(doc))
	for _, k := range knownFields {
		if _, ok := doc[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range doc {
		if !slices.Contains(knownFields, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

func optionalText(v any) *string {
	if v == nil {
		return nil
	}
	return ptr.To(text(v))
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
