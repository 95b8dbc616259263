package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/renamerc/cmd/renamerc/commands"
	"github.com/walteh/renamerc/cmd/renamerc/opts"
	"github.com/walteh/renamerc/cmd/renamerc/ui"
	"github.com/walteh/renamerc/pkg/fsys"
	"github.com/walteh/renamerc/pkg/log"
	"github.com/walteh/renamerc/pkg/operation"
)

// newRootCmd builds the command tree around o. The dependencies in o are
// filled in once the flags are parsed.
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	root := &cobra.Command{
		Use:   "renamerc",
		Short: "Batch rename files with find and replace",
		Long: `renamerc renames many files at once. Each name is matched against a
literal or regular expression pattern, rewritten with a $-template and
optionally numbered. Every rename is previewed and checked for collisions
before any file is touched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(o)
			return nil
		},
	}

	addRootFlags(root, o)

	root.AddCommand(
		commands.NewPreviewCmd(o),
		commands.NewApplyCmd(o),
		commands.NewSearchCmd(o),
		commands.NewDeleteCmd(o),
		newVersionCmd(),
	)

	return root
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path, .renamerc when present")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags and wires the
// dependencies that log
func setupLogging(o *opts.RootOpts) {
	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	if o.Logger == nil {
		o.Logger = log.New(os.Stdout, level)
	}
	if o.UserLogger == nil {
		o.UserLogger = ui.NewUserLogger(logger)
	}
	if o.Provider == nil {
		o.Provider = fsys.NewLocal()
	}
	if o.Runner == nil {
		o.Runner = operation.NewRunner(&logger, operation.NewRegistry(), false)
	}
}
