// Package add provides the command that submits one new movie.
package add

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/marquee/cmd/application"
	"github.com/agentstation/marquee/internal/cmd/cmdutil"
	"github.com/agentstation/marquee/internal/cmd/emoji"
	"github.com/agentstation/marquee/internal/cmd/output"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/movies"
)

// NewCommand creates the add command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		GroupID: "core",
		Short:   "Add a movie to the collection",
		Long: `Add appends one movie with a title, year, director and genre.
All four are required.

The catalog snapshot is not refreshed, so the new movie may not show up in
list or search until the snapshot is reloaded.`,
		Example: `  marquee add --title "Alien" --year 1979 --director "Ridley Scott" --genre Sci-Fi`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdd(cmd, app)
		},
	}

	cmd.Flags().String("title", "", "Movie title")
	cmd.Flags().String("year", "", "Release year")
	cmd.Flags().String("director", "", "Director")
	cmd.Flags().String("genre", "", "Genre")

	return cmd
}

func runAdd(cmd *cobra.Command, app application.Application) error {
	format, err := cmdutil.ResolveFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	sub := movies.Submission{
		Title:    cmdutil.MustGetString(cmd, "title"),
		Year:     cmdutil.MustGetString(cmd, "year"),
		Director: cmdutil.MustGetString(cmd, "director"),
		Genre:    cmdutil.MustGetString(cmd, "genre"),
	}

	mq, err := app.Marquee()
	if err != nil {
		return err
	}

	res, err := mq.Submit(cmd.Context(), sub)
	if err != nil {
		var ve *errors.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%s please fill in all fields: --%s is required", emoji.Error, ve.Field)
		}
		return fmt.Errorf("%s could not add %q: %w", emoji.Error, sub.Title, err)
	}

	if !output.IsTabular(format) {
		return output.WriteDocument(cmd.OutOrStdout(), format, res)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Added '%s'\n", emoji.Success, res.Movie.Title)
	return nil
}
