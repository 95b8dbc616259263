package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/renamerc/cmd/renamerc/opts"
	"github.com/walteh/renamerc/pkg/fsys"
	"github.com/walteh/renamerc/pkg/log"
	"github.com/walteh/renamerc/pkg/pattern"
	"gitlab.com/tozd/go/errors"
)

// searchFlags select entries for the search and delete commands
type searchFlags struct {
	query         string
	mode          string
	recursive     bool
	caseSensitive bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.query, "query", "q", "", "text, extension list or pattern to search for")
	fl.StringVarP(&f.mode, "mode", "m", string(pattern.SearchSimple), "how the query is read: simple, extension or regex")
	fl.BoolVarP(&f.recursive, "recursive", "R", false, "search subdirectories too")
	fl.BoolVar(&f.caseSensitive, "case-sensitive", false, "match case exactly")
	_ = cmd.MarkFlagRequired("query")
}

func (f *searchFlags) search(ctx context.Context, o *opts.RootOpts, dir string) ([]fsys.Match, error) {
	mode, err := pattern.ParseSearchMode(f.mode)
	if err != nil {
		return nil, err
	}
	matches, err := o.Provider.Search(ctx, dir, fsys.SearchOptions{
		Query:         f.query,
		Mode:          mode,
		Recursive:     f.recursive,
		CaseSensitive: f.caseSensitive,
	})
	if err != nil {
		return nil, errors.Errorf("searching %s: %w", dir, err)
	}
	return matches, nil
}

// renderMatches formats matches as a table with the matched text highlighted
func renderMatches(dir string, matches []fsys.Match) (string, error) {
	data := pterm.TableData{{"Name", "Kind", "Size", "Location"}}
	for _, m := range matches {
		kind, size := "file", formatSize(m.Size)
		if m.IsDir {
			kind, size = "dir", "-"
		}
		rel, err := filepath.Rel(dir, filepath.Dir(m.Path))
		if err != nil {
			rel = filepath.Dir(m.Path)
		}
		data = append(data, []string{log.HighlightRanges(m.Name, m.Ranges), kind, size, rel})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// NewSearchCmd creates the search command
func NewSearchCmd(o *opts.RootOpts) *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "search [dir]",
		Short: "Find files and directories by name",
		Example: `  renamerc search -q tmp -m extension -R
  renamerc search -q '^IMG_\d+' -m regex ./photos`,
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
			o.Logger.Infof("%d matches", len(matches))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
