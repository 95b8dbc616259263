package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/renamerc/cmd/renamerc/opts"
	"github.com/walteh/renamerc/pkg/rename"
	"gitlab.com/tozd/go/errors"
)

// NewPreviewCmd creates the preview command
func NewPreviewCmd(o *opts.RootOpts) *cobra.Command {
	var (
		flags    renameFlags
		diffMode string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "preview [dir]",
		Short: "Show what a rename would do without touching any file",
		Long: `Preview lists every file below dir, computes its new name and marks
collisions, where two files would end up with the same path.`,
		Example: `  renamerc preview --find IMG_ --replace holiday_ ./photos
  renamerc preview -x -f '(\d+)' -r 'n$1' --number --number-position end
  renamerc preview -f draft -r final --diff=semantic`,
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

			mode, err := rename.ParseDiffMode(diffMode)
			if err != nil {
				return err
			}
			showDiff := cmd.Flags().Changed("diff")

			batch, err := buildBatch(ctx, o, dir, cfg, rename.WithDiff(mode))
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(batch.Items); err != nil {
					return errors.Errorf("encoding preview: %w", err)
				}
				return nil
			}

			o.Logger.Header(fmt.Sprintf("preview of %s", cfg))
			for _, item := range batch.Items {
				o.Logger.PreviewItem(ctx, item, showDiff)
			}
			o.Logger.LogNewline()
			o.Logger.PreviewSummary(ctx, batch)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&diffMode, "diff", "", "show a diff instead of the new name: char, or semantic to diff whole words")
	cmd.Flags().Lookup("diff").NoOptDefVal = string(rename.DiffChar)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the preview as JSON")

	return cmd
}
