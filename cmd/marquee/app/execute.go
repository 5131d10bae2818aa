package app

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/marquee/pkg/logging"
	"github.com/agentstation/marquee/pkg/store"
)

// Execute runs the marquee CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "marquee",
		Short:   "Movie dashboard",
		Version: a.build.Version,
		Long: `Marquee browses, searches and extends a collection of movie records.

Reads work on a snapshot of the first records of the collection, loaded once
and reused until it is refreshed. New movies are appended to the store and
show up in the snapshot after the next reload.

Records live in an in-memory store, a local sqlite file or a Firestore
collection (see --backend).`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.marquee.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "f", "", "output format: table, json, yaml, markdown")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	// Store flags
	flags.String("backend", "", "record store: "+strings.Join(store.Backends(), ", "))
	flags.String("db", "", "sqlite database file")
	flags.String("collection", "", "collection holding the movie records")
	flags.Int("limit", 0, "number of records in the catalog snapshot")

	rootCmd.SetVersionTemplate("marquee {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand reloads an explicit config file, applies flag overrides and
// installs the logger before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if configFile := flag(flags.GetString, "config"); configFile != "" {
		config, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(Flags{
		Verbose:    flag(flags.GetBool, "verbose"),
		Quiet:      flag(flags.GetBool, "quiet"),
		NoColor:    flag(flags.GetBool, "no-color"),
		Format:     flag(flags.GetString, "format"),
		LogLevel:   flag(flags.GetString, "log-level"),
		Backend:    flag(flags.GetString, "backend"),
		DBPath:     flag(flags.GetString, "db"),
		Collection: flag(flags.GetString, "collection"),
		Limit:      flag(flags.GetInt, "limit"),
	})

	logger := logging.Configure(loggerConfig(a.config))
	a.logger = &logger

	return nil
}

// ExitOnError prints a non-nil error and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// flag reads a persistent flag declared by createRootCommand. A lookup
// error means the flag was renamed without updating setupCommand.
func flag[T any](get func(string) (T, error), name string) T {
	v, err := get(name)
	if err != nil {
		panic("flag " + name + ": " + err.Error())
	}
	return v
}
