package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/renamerc/cmd/renamerc/opts"
	"github.com/walteh/renamerc/pkg/fsys"
	"github.com/walteh/renamerc/pkg/operation"
	"github.com/walteh/renamerc/pkg/rename"
	"gitlab.com/tozd/go/errors"
)

// ErrMovesFailed is returned when at least one file could not be renamed
var ErrMovesFailed = errors.Base("some files could not be renamed")

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var flags renameFlags

	cmd := &cobra.Command{
		Use:   "apply [dir]",
		Short: "Rename the files below dir",
		Long: `Apply computes the same preview as the preview command and then renames
every changed file. Nothing is renamed while any two files would collide.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := flags.resolve(ctx, cmd, o)
			if err != nil {
				return err
			}
			dir, err := dirArg(args)
			if err != nil {
				return err
			}

			batch, err := buildBatch(ctx, o, dir, cfg)
			if err != nil {
				return err
			}

			if batch.HasCollisions() {
				for _, item := range batch.Collisions() {
					o.Logger.PreviewItem(ctx, item, false)
				}
			}

			changed := len(batch.Changed())
			if changed == 0 && batch.Err == nil && !batch.HasCollisions() {
				o.Logger.Info("nothing to rename")
				return nil
			}

			var res *fsys.MoveResult
			report, stop := o.UserLogger.RenameBar(changed)
			err = o.Runner.Run(ctx, "rename:"+dir, operation.Func(func(ctx context.Context) error {
				var err error
				res, err = rename.Execute(ctx, o.Provider, batch, report)
				return err
			}))
			stop()
			if err != nil {
				return errors.Errorf("renaming files: %w", err)
			}

			o.Logger.MoveResult(ctx, res)
			if len(res.Failed) > 0 {
				return errors.Errorf("%w: %d of %d", ErrMovesFailed, len(res.Failed), changed)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
