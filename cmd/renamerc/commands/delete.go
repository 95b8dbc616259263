package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/renamerc/cmd/renamerc/opts"
	"github.com/walteh/renamerc/cmd/renamerc/ui"
	"github.com/walteh/renamerc/pkg/fsys"
	"github.com/walteh/renamerc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// ErrDeletesFailed is returned when at least one path could not be deleted
var ErrDeletesFailed = errors.Base("some paths could not be deleted")

// NewDeleteCmd creates the delete command
func NewDeleteCmd(o *opts.RootOpts) *cobra.Command {
	var (
		flags     searchFlags
		yes       bool
		emptyDirs bool
	)

	cmd := &cobra.Command{
		Use:   "delete [dir]",
		Short: "Delete the files and directories a search matches",
		Long: `Delete runs the same search as the search command. Without --yes it
only lists what would be deleted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dir, err := dirArg(args)
			if err != nil {
				return err
			}
			matches, err := flags.search(ctx, o, dir)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				o.Logger.Infof("no matches for %q in %s", flags.query, dir)
				return nil
			}

			table, err := renderMatches(dir, matches)
			if err != nil {
				return errors.Errorf("rendering matches: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)

			if !yes {
				o.Logger.Warningf("%d entries would be deleted, run again with --yes", len(matches))
				return nil
			}

			paths := make([]string, len(matches))
			for i, m := range matches {
				paths[i] = m.Path
			}

			var res *fsys.DeleteResult
			err = o.Runner.Run(ctx, "delete:"+dir, operation.Func(func(ctx context.Context) error {
				var err error
				res, err = o.Provider.Delete(ctx, paths, fsys.DeleteOptions{DeleteEmptyDirs: emptyDirs})
				return err
			}))
			if err != nil {
				return errors.Errorf("deleting: %w", err)
			}

			for _, p := range res.Deleted {
				o.UserLogger.LogFileChange(ui.FileChange{Type: ui.FileDeleted, Path: p})
			}
			for _, d := range res.DeletedDirs {
				o.UserLogger.LogFileChange(ui.FileChange{Type: ui.FileDeleted, Path: d, Description: "empty directory"})
			}
			for _, f := range res.Failed {
				o.UserLogger.LogFileChange(ui.FileChange{Type: ui.FileError, Path: f.Path, Error: errors.New(f.Error)})
			}

			if len(res.Failed) > 0 {
				return errors.Errorf("%w: %d of %d", ErrDeletesFailed, len(res.Failed), len(paths))
			}
			o.Logger.Successf("deleted %d entries", len(res.Deleted))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	cmd.Flags().BoolVar(&emptyDirs, "delete-empty-dirs", false, "remove directories left empty")
	return cmd
}
