package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/marquee/cmd/marquee/cmd/add"
	"github.com/agentstation/marquee/cmd/marquee/cmd/query"
	"github.com/agentstation/marquee/cmd/marquee/cmd/serve"
	"github.com/agentstation/marquee/cmd/marquee/cmd/transfer"
	"github.com/agentstation/marquee/internal/cmd/output"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(query.NewListCommand(a))
	rootCmd.AddCommand(query.NewSearchCommand(a))
	rootCmd.AddCommand(query.NewDirectorsCommand(a))
	rootCmd.AddCommand(query.NewFilterCommand(a))
	rootCmd.AddCommand(add.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(transfer.NewImportCommand(a))
	rootCmd.AddCommand(transfer.NewExportCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand prints the build stamp, as a document when an explicit
// json or yaml format is set.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(a.config.Format)
			if err != nil {
				return err
			}
			if !output.IsTabular(format) {
				return output.WriteDocument(cmd.OutOrStdout(), format, a.build)
			}
			cmd.Printf("marquee %s\n", a.build.Version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.build.Commit)
				cmd.Printf("  built:    %s\n", a.build.Date)
				cmd.Printf("  built by: %s\n", a.build.BuiltBy)
			}
			return nil
		},
	}
}
