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
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/walteh/renamerc/pkg/collision"
	"github.com/walteh/renamerc/pkg/diff"
	"github.com/walteh/renamerc/pkg/numbering"
	"github.com/walteh/renamerc/pkg/pattern"
	"github.com/walteh/renamerc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidName marks a file name that is not valid UTF-8. Such names are
// left alone rather than rewritten.
var ErrInvalidName = errors.Base("file name is not valid UTF-8")

// 🔧 Config is one rename configuration. It is a value: every preview gets
// its own copy and nothing in this package changes it.
type Config struct {
	Find          string
	Replace       string
	Regex         bool
	CaseSensitive bool
	FirstOnly     bool
	Numbering     numbering.Spec
}

// PatternOptions returns the options Find is compiled with
func (c Config) PatternOptions() pattern.Options {
	return pattern.Options{Regex: c.Regex, CaseSensitive: c.CaseSensitive}
}

// Compile compiles Find
func (c Config) Compile() (*pattern.Pattern, error) {
	return pattern.Compile(c.Find, c.PatternOptions())
}

// String returns a short description for logs
func (c Config) String() string {
	mode := "literal"
	if c.Regex {
		mode = "regex"
	}
	s := fmt.Sprintf("%q -> %q (%s", c.Find, c.Replace, mode)
	if c.CaseSensitive {
		s += ", case-sensitive"
	}
	if c.FirstOnly {
		s += ", first only"
	}
	if c.Numbering.Enabled {
		s += ", numbered"
	}
	return s + ")"
}

// 📄 Item is the preview of one file
type Item struct {
	Path         string          `json:"path"`
	Name         string          `json:"name"`
	NewName      string          `json:"new_name"`
	HasCollision bool            `json:"has_collision"`
	Segments     []text.Segment  `json:"segments,omitempty"`
	Source       []pattern.Piece `json:"source,omitempty"` // Name cut at the matches of Find
	Diff         []diff.Segment  `json:"diff,omitempty"`
	Err          error           `json:"-"`
}

// Changed reports whether the item would be renamed
func (i Item) Changed() bool {
	return i.Err == nil && i.NewName != i.Name
}

// TargetPath returns the path the item would be renamed to
func (i Item) TargetPath() string {
	return collision.TargetPath(i.collisionItem())
}

func (i Item) collisionItem() collision.Item {
	return collision.Item{Path: i.Path, Name: i.Name, NewName: i.NewName}
}

// 🎯 CalculateNewName returns name with every match of find replaced. An
// invalid pattern returns name unchanged.
func CalculateNewName(name, find, replace string, useRegex, caseSensitive bool) string {
	return text.Replace(name, find, replace, pattern.Options{Regex: useRegex, CaseSensitive: caseSensitive}, false).Text
}

// 🧮 Compute previews one file. index is the file's position in the batch
// and drives numbering. p is cfg.Find compiled ahead of time, so a batch
// compiles once; a nil p is compiled here.
func Compute(path string, index int, cfg Config, p *pattern.Pattern) Item {
	return compute(path, index, cfg, p, diff.Compute)
}

type differ func(original, modified string) []diff.Segment

func compute(path string, index int, cfg Config, p *pattern.Pattern, d differ) Item {
	if name := filepath.Base(path); !utf8.ValidString(name) {
		return failed(path, errors.Errorf("%w: %q", ErrInvalidName, name))
	}

	if p == nil {
		var err error
		if p, err = cfg.Compile(); err != nil {
			return failed(path, err)
		}
	}

	name := filepath.Base(path)
	res := text.Apply(name, p, cfg.Replace, cfg.FirstOnly)
	if res.Err != nil {
		return failed(path, res.Err)
	}

	newName, segs := res.Text, res.Segments
	if cfg.Numbering.Enabled {
		var ins numbering.Insertion
		newName, ins = numbering.Apply(newName, index, cfg.Numbering)
		segs = text.Insert(segs, ins.Start, ins.Text, text.GroupNumber)
	}

	return Item{
		Path:     path,
		Name:     name,
		NewName:  newName,
		Segments: segs,
		Source:   pattern.Segments(name, res.Spans),
		Diff:     d(name, newName),
	}
}

// failed is the preview of a file whose rename could not be computed: the
// name stays as it is and err is attached.
func failed(path string, err error) Item {
	name := filepath.Base(path)
	return Item{
		Path:    path,
		Name:    name,
		NewName: name,
		Diff:    diff.Compute(name, name),
		Err:     err,
	}
}
