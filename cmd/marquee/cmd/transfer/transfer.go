// Package transfer provides bulk import and export of movie documents as
// JSON Lines.
package transfer

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/marquee/cmd/application"
	"github.com/agentstation/marquee/internal/backend/jsonl"
	"github.com/agentstation/marquee/internal/cmd/cmdutil"
	"github.com/agentstation/marquee/internal/cmd/emoji"
	"github.com/agentstation/marquee/pkg/constants"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/logging"
)

// stdio names standard input or output in place of a file.
const stdio = "-"

// NewImportCommand creates the import command.
func NewImportCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "import <file.jsonl>",
		GroupID: "management",
		Short:   "Append movies from a JSON Lines file",
		Long: `Import appends one document per line of a JSON Lines file to the
collection. Lines that are not JSON objects are skipped and reported.
Use "-" to read standard input.`,
		Example: `  marquee import movies.jsonl
  cat movies.jsonl | marquee import -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, app, args[0])
		},
	}
}

func runImport(cmd *cobra.Command, app application.Application, path string) error {
	var (
		res jsonl.Result
		err error
	)
	if path == stdio {
		res, err = jsonl.Read(cmd.InOrStdin())
	} else {
		res, err = jsonl.ReadFile(path)
	}
	if err != nil {
		return err
	}

	st, err := app.RecordStore()
	if err != nil {
		return err
	}
	collection := app.StoreConfig().Collection
	logger := app.Logger().With().Str("collection", collection).Str("file", path).Logger()
	ctx := logging.WithLogger(cmd.Context(), &logger)

	for i, doc := range res.Documents {
		if _, err := st.Add(ctx, collection, doc); err != nil {
			logger.Error().Err(err).Int("imported", i).Msg("Import stopped")
			return fmt.Errorf("%s imported %d of %d: %w", emoji.Error, i, len(res.Documents),
				errors.NewStoreWriteError(collection, "", err))
		}
	}

	logger.Info().Int("imported", len(res.Documents)).Ints("skipped_lines", res.Skipped).Msg("Import finished")
	fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %s into %q\n",
		emoji.Success, cmdutil.Plural(len(res.Documents), "record"), collection)
	for _, line := range res.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s skipped line %d: not a JSON object\n", emoji.Warning, line)
	}
	return nil
}

// NewExportCommand creates the export command.
func NewExportCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export [file.jsonl]",
		GroupID: "management",
		Short:   "Write the collection as JSON Lines",
		Long: `Export writes the documents of the collection, oldest first, one per
line. Without a file, or with "-", documents go to standard output. Files
are replaced atomically.`,
		Example: `  marquee export movies.jsonl
  marquee export --max 100 | jq .title`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := stdio
			if len(args) == 1 {
				path = args[0]
			}
			return runExport(cmd, app, path, cmdutil.MustGetInt(cmd, "max"))
		},
	}

	cmd.Flags().Int("max", constants.ExportLimit, "Maximum number of records to export")

	return cmd
}

func runExport(cmd *cobra.Command, app application.Application, path string, maxRecords int) error {
	if maxRecords <= 0 {
		return errors.NewValidationError("max", maxRecords, "must be positive")
	}

	st, err := app.RecordStore()
	if err != nil {
		return err
	}
	collection := app.StoreConfig().Collection

	recs, err := st.List(cmd.Context(), collection, maxRecords)
	if err != nil {
		return errors.NewLoadError(collection, err)
	}
	docs := jsonl.Documents(recs)

	if path == stdio {
		return jsonl.Write(cmd.OutOrStdout(), docs)
	}
	if err := jsonl.WriteFile(path, docs); err != nil {
		return err
	}

	app.Logger().Info().Str("collection", collection).Str("file", path).Int("exported", len(docs)).Msg("Export finished")
	fmt.Fprintf(cmd.ErrOrStderr(), "%s Exported %s to %s\n", emoji.Success, cmdutil.Plural(len(docs), "record"), path)
	return nil
}
