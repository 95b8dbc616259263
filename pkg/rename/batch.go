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

package rename

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/walteh/renamerc/pkg/collision"
	"github.com/walteh/renamerc/pkg/diff"
	"github.com/walteh/renamerc/pkg/fsys"
	"github.com/walteh/renamerc/pkg/operation"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

const defaultChunkSize = 256

var (
	// ErrCollisions blocks Execute while two items share a target path
	ErrCollisions = errors.Base("rename would cause collisions")
)

type previewOptions struct {
	chunkSize   int
	concurrency int
	caseFold    bool
	differ      differ
}

// 🔀 DiffMode picks how Item.Diff is computed
type DiffMode string

const (
	// DiffChar is a minimal character diff
	DiffChar DiffMode = "char"
	// DiffSemantic merges short unchanged runs into the edits around them,
	// so the diff reads as whole words replaced
	DiffSemantic DiffMode = "semantic"
)

// ErrDiffMode is returned for an unknown diff mode
var ErrDiffMode = errors.Base("unknown diff mode")

// ParseDiffMode parses a diff mode name. The empty string is DiffChar.
func ParseDiffMode(s string) (DiffMode, error) {
	switch DiffMode(s) {
	case "", DiffChar:
		return DiffChar, nil
	case DiffSemantic:
		return DiffSemantic, nil
	}
	return "", errors.Errorf("%w: %q (want %s or %s)", ErrDiffMode, s, DiffChar, DiffSemantic)
}

func (m DiffMode) differ() differ {
	if m == DiffSemantic {
		return diff.Semantic
	}
	return diff.Compute
}

// WithDiff sets how each item's diff is computed, DiffChar by default
func WithDiff(mode DiffMode) Option {
	return func(o *previewOptions) {
		o.differ = mode.differ()
	}
}

// Option configures Preview
type Option func(*previewOptions)

// WithChunkSize sets how many files one worker computes at a time
func WithChunkSize(n int) Option {
	return func(o *previewOptions) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithConcurrency caps the number of chunks computed at once
func WithConcurrency(n int) Option {
	return func(o *previewOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithCaseFold treats target paths that differ only in case as collisions
func WithCaseFold() Option {
	return func(o *previewOptions) {
		o.caseFold = true
	}
}

// 📦 Batch is a full preview. Items keep the order of the input paths.
type Batch struct {
	Config Config
	Items  []Item
	// Err is the pattern error shared by every item, if Find did not compile
	Err error
}

// Collisions returns the items that share a target path with another item
func (b *Batch) Collisions() []Item {
	var out []Item
	for _, it := range b.Items {
		if it.HasCollision {
			out = append(out, it)
		}
	}
	return out
}

// HasCollisions reports whether any item collides
func (b *Batch) HasCollisions() bool {
	for _, it := range b.Items {
		if it.HasCollision {
			return true
		}
	}
	return false
}

// Changed returns the items that would be renamed
func (b *Batch) Changed() []Item {
	var out []Item
	for _, it := range b.Items {
		if it.Changed() {
			out = append(out, it)
		}
	}
	return out
}

// Moves returns the moves that carry out the batch
func (b *Batch) Moves() []fsys.Move {
	var out []fsys.Move
	for _, it := range b.Changed() {
		out = append(out, fsys.Move{From: it.Path, To: it.TargetPath()})
	}
	return out
}

// 🔍 Preview computes the rename of every path. Find is compiled once and
// the files are computed concurrently in chunks; collisions are detected
// over the whole batch afterwards.
//
// A pattern that does not compile is not an error here: every item keeps
// its name and carries the PatternError, and Batch.Err is set. Preview only
// fails on an invalid numbering spec or a cancelled context.
func Preview(ctx context.Context, paths []string, cfg Config, opts ...Option) (*Batch, error) {
	logger := zerolog.Ctx(ctx)

	o := previewOptions{
		chunkSize:   defaultChunkSize,
		concurrency: runtime.GOMAXPROCS(0),
		differ:      diff.Compute,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Numbering.Validate(); err != nil {
		return nil, errors.Errorf("validating numbering: %w", err)
	}

	batch := &Batch{Config: cfg, Items: make([]Item, len(paths))}

	p, perr := cfg.Compile()
	if perr != nil {
		logger.Debug().Err(perr).Str("find", cfg.Find).Msg("pattern did not compile")
		batch.Err = perr
	}

	logger.Debug().
		Int("files", len(paths)).
		Int("chunk_size", o.chunkSize).
		Int("concurrency", o.concurrency).
		Stringer("config", cfg).
		Msg("computing preview")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for start := 0; start < len(paths); start += o.chunkSize {
		if err := gctx.Err(); err != nil {
			break
		}
		start, end := start, min(start+o.chunkSize, len(paths))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				if perr != nil {
					batch.Items[i] = failed(paths[i], perr)
					continue
				}
				batch.Items[i] = compute(paths[i], i, cfg, p, o.differ)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("computing preview: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("computing preview: %w", err)
	}

	detect(batch, o.caseFold)
	return batch, nil
}

// detect sets HasCollision on every item from a fresh whole-batch pass
func detect(batch *Batch, caseFold bool) {
	items := make([]collision.Item, len(batch.Items))
	for i, it := range batch.Items {
		items[i] = it.collisionItem()
	}

	var opts []collision.Option
	if caseFold {
		opts = append(opts, collision.WithCaseFold())
	}

	flags := collision.Detect(items, opts...)
	for i := range batch.Items {
		batch.Items[i].HasCollision = flags[batch.Items[i].Path]
	}
}

// 🚀 Execute moves every changed item through provider. It refuses to run
// while the batch has a pattern error or any collision. Renames that chain
// onto each other's names are ordered so that no file is lost.
func Execute(ctx context.Context, provider fsys.Provider, batch *Batch, progress operation.RenameReporter) (*fsys.MoveResult, error) {
	logger := zerolog.Ctx(ctx)

	if batch.Err != nil {
		return nil, errors.Errorf("refusing to rename: %w", batch.Err)
	}
	if n := len(batch.Collisions()); n > 0 {
		return nil, errors.Errorf("%w: %d files share a target path", ErrCollisions, n)
	}

	moves := batch.Moves()
	if len(moves) == 0 {
		logger.Debug().Msg("nothing to rename")
		return &fsys.MoveResult{}, nil
	}

	pl := newPlan(moves)
	logger.Debug().Int("moves", len(moves)).Int("parked", len(pl.parked)).Msg("executing rename")
	res, err := provider.Move(ctx, pl.moves, progress)
	if err != nil {
		return pl.settle(res), errors.Errorf("moving files: %w", err)
	}
	return pl.settle(res), nil
}
