// Package query provides the read commands: list, search, directors and
// filter. Each works on the memoized catalog snapshot.
package query

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/marquee/cmd/application"
	"github.com/agentstation/marquee/internal/catalog"
	"github.com/agentstation/marquee/internal/cmd/cmdutil"
	"github.com/agentstation/marquee/internal/cmd/output"
	"github.com/agentstation/marquee/pkg/movies"
)

// NewListCommand creates the list command.
func NewListCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		GroupID: "core",
		Short:   "Show the catalog snapshot",
		Long: `List shows every movie in the catalog snapshot.

The snapshot holds only the first records of the collection (see --limit),
so it is not a complete listing.`,
		Example: `  marquee list
  marquee list --limit 10 -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, func(snap catalog.Snapshot) movies.Table {
				return snap.Table
			})
		},
	}
}

// NewSearchCommand creates the search command.
func NewSearchCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "search <title>",
		GroupID: "core",
		Short:   "Search the snapshot by title",
		Long: `Search lists snapshot rows whose title contains the query,
ignoring case. An empty query lists the whole snapshot.`,
		Example: `  marquee search godfather
  marquee search "the dark"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCounted(cmd, app, "result", func(snap catalog.Snapshot) movies.Table {
				return movies.Search(snap.Table, args[0])
			})
		},
	}
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "filter <director>",
		GroupID: "core",
		Short:   "Show snapshot rows by one director",
		Long: `Filter lists snapshot rows whose director equals the argument
exactly. Run "marquee directors" to see the available values.`,
		Example: `  marquee filter "Christopher Nolan"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCounted(cmd, app, "movie", func(snap catalog.Snapshot) movies.Table {
				return movies.FilterByDirector(snap.Table, args[0])
			})
		},
	}
}

// NewDirectorsCommand creates the directors command.
func NewDirectorsCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "directors",
		GroupID: "core",
		Short:   "List the directors in the snapshot",
		Long:    `Directors prints the distinct non-empty directors of the snapshot, sorted.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmdutil.ResolveFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			mq, err := app.Marquee()
			if err != nil {
				return err
			}

			snap := mq.Snapshot(cmd.Context())
			cmdutil.WriteSnapshotDiagnostics(cmd.ErrOrStderr(), snap)
			return output.WriteDirectors(cmd.OutOrStdout(), format, movies.Directors(snap.Table))
		},
	}
}

// run loads the snapshot, reports its diagnostics and writes the selected rows.
func run(cmd *cobra.Command, app application.Application, selectRows func(catalog.Snapshot) movies.Table) error {
	_, _, err := render(cmd, app, selectRows)
	return err
}

// runCounted is run followed by a count line in tabular formats.
func runCounted(cmd *cobra.Command, app application.Application, noun string, selectRows func(catalog.Snapshot) movies.Table) error {
	rows, format, err := render(cmd, app, selectRows)
	if err != nil {
		return err
	}
	if output.IsTabular(format) {
		cmd.PrintErrln(cmdutil.Plural(rows.Len(), noun))
	}
	return nil
}

func render(cmd *cobra.Command, app application.Application, selectRows func(catalog.Snapshot) movies.Table) (movies.Table, output.Format, error) {
	format, err := cmdutil.ResolveFormat(app.OutputFormat())
	if err != nil {
		return movies.Table{}, "", err
	}
	mq, err := app.Marquee()
	if err != nil {
		return movies.Table{}, "", err
	}

	snap := mq.Snapshot(cmd.Context())
	cmdutil.WriteSnapshotDiagnostics(cmd.ErrOrStderr(), snap)

	rows := selectRows(snap)
	if err := output.WriteMovies(cmd.OutOrStdout(), format, rows); err != nil {
		return rows, format, err
	}
	if output.IsTabular(format) {
		cmdutil.WriteSnapshotNote(cmd.ErrOrStderr(), snap.Limit)
	}
	return rows, format, nil
}
