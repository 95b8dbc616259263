package commands

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/renamerc/cmd/renamerc/opts"
	"github.com/walteh/renamerc/pkg/config"
	"github.com/walteh/renamerc/pkg/numbering"
	"github.com/walteh/renamerc/pkg/rename"
	"gitlab.com/tozd/go/errors"
)

// renameFlags mirror config.Config. A flag only overrides the config file
// when it is set on the command line.
type renameFlags struct {
	find          string
	replace       string
	regex         bool
	caseSensitive bool
	firstOnly     bool

	number          bool
	numberStart     int
	numberIncrement int
	numberPadding   int
	numberSeparator string
	numberPosition  string
	numberIndex     int

	include     string
	ignore      []string
	caseFold    bool
	concurrency int
}

func (f *renameFlags) register(cmd *cobra.Command) {
	def := numbering.Default()
	fl := cmd.Flags()

	fl.StringVarP(&f.find, "find", "f", "", "text or pattern to find in each file name")
	fl.StringVarP(&f.replace, "replace", "r", "", "replacement, $1 $& $` $' and $$ are expanded")
	fl.BoolVarP(&f.regex, "regex", "x", false, "treat --find as a regular expression")
	fl.BoolVar(&f.caseSensitive, "case-sensitive", false, "match case exactly")
	fl.BoolVar(&f.firstOnly, "first-only", false, "replace only the first match")

	fl.BoolVarP(&f.number, "number", "n", false, "add a sequence number to each name")
	fl.IntVar(&f.numberStart, "number-start", def.StartNumber, "first sequence number")
	fl.IntVar(&f.numberIncrement, "number-increment", def.Increment, "step between sequence numbers")
	fl.IntVar(&f.numberPadding, "number-padding", def.Padding, "minimum digits, zero padded")
	fl.StringVar(&f.numberSeparator, "number-separator", def.Separator, "text between the number and the name")
	fl.StringVar(&f.numberPosition, "number-position", string(def.Position), "where the number goes: start, end or index")
	fl.IntVar(&f.numberIndex, "number-index", 0, "rune offset in the base name for --number-position=index")

	fl.StringVar(&f.include, "include", "", "glob of files to rename, relative to the directory")
	fl.StringSliceVar(&f.ignore, "ignore", nil, "globs of files to skip")
	fl.BoolVar(&f.caseFold, "case-fold", false, "treat names differing only in case as collisions")
	fl.IntVar(&f.concurrency, "concurrency", 0, "preview workers, 0 means one per CPU")
}

// resolve loads the config and applies the flags set on cmd over it
func (f *renameFlags) resolve(ctx context.Context, cmd *cobra.Command, o *opts.RootOpts) (*config.Config, error) {
	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	fl := cmd.Flags()
	set := func(name string, apply func()) {
		if fl.Changed(name) {
			apply()
		}
	}

	set("find", func() { cfg.Find = f.find })
	set("replace", func() { cfg.Replace = f.replace })
	set("regex", func() { cfg.Regex = f.regex })
	set("case-sensitive", func() { cfg.CaseSensitive = f.caseSensitive })
	set("first-only", func() { cfg.FirstOnly = f.firstOnly })

	set("number", func() { cfg.Numbering.Enabled = f.number })
	set("number-start", func() { cfg.Numbering.StartNumber = f.numberStart })
	set("number-increment", func() { cfg.Numbering.Increment = f.numberIncrement })
	set("number-padding", func() { cfg.Numbering.Padding = f.numberPadding })
	set("number-separator", func() { cfg.Numbering.Separator = f.numberSeparator })
	set("number-position", func() { cfg.Numbering.Position = numbering.Position(f.numberPosition) })
	set("number-index", func() { cfg.Numbering.InsertIndex = f.numberIndex })

	set("include", func() { cfg.Include = f.include })
	set("ignore", func() { cfg.Ignore = f.ignore })
	set("case-fold", func() { cfg.CaseFold = f.caseFold })
	set("concurrency", func() { cfg.Concurrency = f.concurrency })

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid rename: %w", err)
	}
	return cfg, nil
}

// dirArg returns the absolute directory named by args, the working
// directory when there is none
func dirArg(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", dir, err)
	}
	return abs, nil
}

// buildBatch lists dir and previews every file in it
func buildBatch(ctx context.Context, o *opts.RootOpts, dir string, cfg *config.Config, extra ...rename.Option) (*rename.Batch, error) {
	listOpts := cfg.ListOptions()
	report, stop := o.UserLogger.ScanSpinner(dir)
	listOpts.Progress = report

	files, err := o.Provider.List(ctx, dir, listOpts)
	stop()
	if err != nil {
		return nil, errors.Errorf("listing files: %w", err)
	}

	batch, err := rename.Preview(ctx, files, cfg.Rename(), append(cfg.PreviewOptions(), extra...)...)
	if err != nil {
		return nil, errors.Errorf("previewing rename: %w", err)
	}
	return batch, nil
}
