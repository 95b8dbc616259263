// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fsys

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/renamerc/pkg/operation"
	"github.com/walteh/renamerc/pkg/pattern"
	"gitlab.com/tozd/go/errors"
)

// progressInterval is how many files List finds between scanning events
const progressInterval = 50

var _ Provider = (*Local)(nil)

// 💾 Local is a Provider backed by the local disk
type Local struct{}

// 🏭 NewLocal creates a local provider
func NewLocal() *Local {
	return &Local{}
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.Errorf("%w: %s", ErrNotExist, dir)
		}
		return errors.Errorf("checking %s: %w", dir, err)
	}
	if !info.IsDir() {
		return errors.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	return nil
}

// 📂 List walks dir and returns the full path of every file, sorted.
// Paths matching any ignore pattern are skipped.
func (l *Local) List(ctx context.Context, dir string, opts ListOptions) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	if err := checkDir(dir); err != nil {
		return nil, err
	}

	include := opts.Include
	if include == "" {
		include = "**"
	}
	if !doublestar.ValidatePattern(include) {
		return nil, errors.Errorf("invalid include pattern %q", include)
	}
	for _, ig := range opts.Ignore {
		if !doublestar.ValidatePattern(ig) {
			return nil, errors.Errorf("invalid ignore pattern %q", ig)
		}
	}

	opts.Progress.Report(operation.ListStarted(dir))
	logger.Debug().Str("dir", dir).Str("include", include).Strs("ignore", opts.Ignore).Msg("listing files")

	var (
		files   []string
		lastDir string
	)
	err := doublestar.GlobWalk(os.DirFS(dir), include, func(rel string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, ig := range opts.Ignore {
			if ok, _ := doublestar.Match(ig, rel); ok {
				return nil
			}
		}

		full := filepath.Join(dir, filepath.FromSlash(rel))
		files = append(files, full)

		if len(files)%progressInterval == 0 {
			if parent := filepath.Dir(full); parent != lastDir {
				lastDir = parent
				opts.Progress.Report(operation.ListScanning(parent, len(files)))
			}
		}
		return nil
	}, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", dir, err)
	}

	sort.Strings(files)
	opts.Progress.Report(operation.ListCompleted(len(files)))
	logger.Debug().Int("files", len(files)).Msg("listing complete")

	return files, nil
}

// 🚚 Move renames files one at a time, in the order given. A failed move is
// recorded and the rest still run. The context is checked between files.
//
// Existing targets are never replaced. Renaming a file onto itself, as a
// case-only rename does on a case-insensitive disk, is allowed.
func (l *Local) Move(ctx context.Context, moves []Move, progress operation.RenameReporter) (*MoveResult, error) {
	logger := zerolog.Ctx(ctx)
	result := &MoveResult{}

	progress.Report(operation.RenameStarted(len(moves)))
	for i, m := range moves {
		if err := ctx.Err(); err != nil {
			return result, errors.Errorf("moving files: %w", err)
		}

		err := checkTarget(m)
		if err == nil {
			err = os.Rename(m.From, m.To)
		}
		if err != nil {
			logger.Debug().Err(err).Str("from", m.From).Str("to", m.To).Msg("move failed")
			result.Failed = append(result.Failed, Failure{Path: m.From, Error: err.Error()})
		} else {
			logger.Debug().Str("from", m.From).Str("to", m.To).Msg("moved file")
			result.Moved = append(result.Moved, m.To)
		}
		progress.Report(operation.RenameStep(i+1, len(moves), m.To))
	}
	progress.Report(operation.RenameCompleted(len(result.Moved), len(result.Failed)))

	return result, nil
}

func checkTarget(m Move) error {
	to, err := os.Lstat(m.To)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Errorf("checking %s: %w", m.To, err)
	}
	if from, err := os.Lstat(m.From); err == nil && os.SameFile(from, to) {
		return nil
	}
	return errors.Errorf("%w: %s", ErrTargetExists, m.To)
}

// 🗑️ Delete removes files and directories. With DeleteEmptyDirs, parent
// directories of deleted paths that end up empty are removed too, deepest
// first so nested empty directories collapse in one pass.
func (l *Local) Delete(ctx context.Context, paths []string, opts DeleteOptions) (*DeleteResult, error) {
	logger := zerolog.Ctx(ctx)
	result := &DeleteResult{}
	parents := map[string]struct{}{}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return result, errors.Errorf("deleting files: %w", err)
		}

		if opts.DeleteEmptyDirs {
			parents[filepath.Dir(p)] = struct{}{}
		}

		var err error
		if info, statErr := os.Lstat(p); statErr == nil && info.IsDir() {
			err = os.RemoveAll(p)
		} else {
			err = os.Remove(p)
		}

		if err != nil {
			logger.Debug().Err(err).Str("path", p).Msg("delete failed")
			result.Failed = append(result.Failed, Failure{Path: p, Error: err.Error()})
			continue
		}
		result.Deleted = append(result.Deleted, p)
	}

	if !opts.DeleteEmptyDirs {
		return result, nil
	}

	dirs := make([]string, 0, len(parents))
	for d := range parents {
		dirs = append(dirs, d)
	}
	sort.Slice(dirs, func(i, j int) bool {
		di := strings.Count(dirs[i], string(filepath.Separator))
		dj := strings.Count(dirs[j], string(filepath.Separator))
		if di != dj {
			return di > dj
		}
		return dirs[i] < dirs[j]
	})

	for _, d := range dirs {
		entries, err := os.ReadDir(d)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(d); err == nil {
			logger.Debug().Str("dir", d).Msg("removed empty directory")
			result.DeletedDirs = append(result.DeletedDirs, d)
		}
	}

	return result, nil
}

// 🔍 Search matches entry names below dir against a query. Directories are
// reported too. Without Recursive only the direct children of dir are
// searched.
func (l *Local) Search(ctx context.Context, dir string, opts SearchOptions) ([]Match, error) {
	logger := zerolog.Ctx(ctx)

	searcher, err := pattern.NewSearcher(opts.Query, opts.Mode, opts.CaseSensitive)
	if err != nil {
		return nil, errors.Errorf("preparing search: %w", err)
	}
	if err := checkDir(dir); err != nil {
		return nil, err
	}

	glob := "*"
	if opts.Recursive {
		glob = "**"
	}

	logger.Debug().Str("dir", dir).Str("query", opts.Query).Str("mode", string(opts.Mode)).Msg("searching")

	var matches []Match
	err = doublestar.GlobWalk(os.DirFS(dir), glob, func(rel string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rel == "." || rel == "" {
			return nil
		}

		ranges, err := searcher.Ranges(d.Name())
		if err != nil {
			return err
		}
		if len(ranges) == 0 {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return errors.Errorf("reading info for %s: %w", rel, err)
		}
		matches = append(matches, Match{
			Path:   filepath.Join(dir, filepath.FromSlash(rel)),
			Name:   d.Name(),
			Ranges: ranges,
			Size:   info.Size(),
			IsDir:  d.IsDir(),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("searching %s: %w", dir, err)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Path < matches[j].Path })
	return matches, nil
}
