// Package output renders catalog rows and command results for the CLI.
// Tabular formats draw rows and columns; JSON and YAML write documents.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	md "github.com/nao1215/markdown"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format names an output format.
type Format string

// Output formats.
const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates s. "md" is accepted for markdown and the empty
// string is left for DetectFormat.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, FormatMarkdown, "":
		return format, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, markdown", s)
}

// DetectFormat returns explicit when set, a table on a terminal and JSON
// when stdout is piped.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// IsTabular reports whether format draws rows and columns.
func IsTabular(format Format) bool {
	return format == FormatTable || format == FormatMarkdown || format == ""
}

// Data is a table ready to draw. Align, when set, has one entry per column.
type Data struct {
	Headers []string
	Rows    [][]string
	Align   []tw.Align
}

// WriteTable draws d as a terminal table, or as a GitHub flavored markdown
// table for FormatMarkdown. A table without headers writes nothing.
func WriteTable(w io.Writer, format Format, d Data) error {
	if len(d.Headers) == 0 {
		return nil
	}
	if format == FormatMarkdown {
		rows := d.Rows
		if rows == nil {
			rows = [][]string{}
		}
		return md.NewMarkdown(w).Table(md.TableSet{Header: d.Headers, Rows: rows}).Build()
	}

	config := tablewriter.Config{}
	if len(d.Align) > 0 {
		config.Header.Alignment = tw.CellAlignment{PerColumn: d.Align}
		config.Row.Alignment = tw.CellAlignment{PerColumn: d.Align}
	}
	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	table.Header(cells(d.Headers)...)
	for _, row := range d.Rows {
		if err := table.Append(cells(row)...); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteDocument writes v as YAML for FormatYAML and as indented JSON
// otherwise, fenced in a code block for FormatMarkdown.
func WriteDocument(w io.Writer, format Format, v any) error {
	switch format {
	case FormatYAML:
		out, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case FormatMarkdown:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		return md.NewMarkdown(w).CodeBlocks(md.SyntaxHighlight("json"), string(out)).Build()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cells(row []string) []any {
	out := make([]any, len(row))
	for i, c := range row {
		out[i] = c
	}
	return out
}

func titleCaser() cases.Caser {
	return cases.Title(language.English)
}
