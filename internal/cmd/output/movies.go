package output

import (
	"io"

	"github.com/olekukonko/tablewriter/tw"

	"github.com/agentstation/marquee/pkg/movies"
)

// MoviesToData renders a catalog table with one column per observed field,
// in table order. Missing values render empty and years align right.
func MoviesToData(t movies.Table) Data {
	caser := titleCaser()
	headers := make([]string, len(t.Columns))
	align := make([]tw.Align, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = caser.String(col)
		align[i] = tw.AlignLeft
		if col == movies.FieldYear {
			align[i] = tw.AlignRight
		}
	}

	rows := make([][]string, len(t.Rows))
	for i, m := range t.Rows {
		row := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			row[j], _ = m.Value(col)
		}
		rows[i] = row
	}
	return Data{Headers: headers, Rows: rows, Align: align}
}

// MovieRecords flattens rows into plain documents for structured formats.
// Null titles and directors stay null; columns a row lacks are omitted.
func MovieRecords(t movies.Table) []map[string]any {
	out := make([]map[string]any, len(t.Rows))
	for i, m := range t.Rows {
		rec := make(map[string]any, len(t.Columns)+1)
		if m.ID != "" {
			rec["id"] = m.ID
		}
		for _, col := range t.Columns {
			switch col {
			case movies.FieldTitle:
				rec[col] = m.Title
			case movies.FieldDirector:
				rec[col] = m.Director
			default:
				if v, ok := m.Value(col); ok {
					rec[col] = v
				}
			}
		}
		out[i] = rec
	}
	return out
}

// DirectorsToData renders the director option set as a single column.
func DirectorsToData(directors []string) Data {
	rows := make([][]string, len(directors))
	for i, d := range directors {
		rows[i] = []string{d}
	}
	return Data{Headers: []string{"Director"}, Rows: rows}
}

// WriteMovies writes t in format: a table for tabular formats, flattened
// records otherwise.
func WriteMovies(w io.Writer, format Format, t movies.Table) error {
	if IsTabular(format) {
		return WriteTable(w, format, MoviesToData(t))
	}
	return WriteDocument(w, format, MovieRecords(t))
}

// WriteDirectors writes the director option set in format.
func WriteDirectors(w io.Writer, format Format, directors []string) error {
	if IsTabular(format) {
		return WriteTable(w, format, DirectorsToData(directors))
	}
	if directors == nil {
		directors = []string{}
	}
	return WriteDocument(w, format, directors)
}
