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

package pattern

import (
	"strconv"
	"time"

	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options controls how a find string is compiled
type Options struct {
	Regex         bool          // treat the find string as a regular expression
	CaseSensitive bool          // case folding is applied to the pattern, never the input
	MatchTimeout  time.Duration // zero means no timeout
}

// 🎯 Pattern is a compiled find specification.
//
// A Pattern is immutable once compiled and safe for concurrent use.
type Pattern struct {
	source string
	opts   Options
	re     *regexp2.Regexp
	groups []int
	order  map[string]int // regexp2 group name to left-to-right number
}

// 🚨 PatternError reports an invalid regular expression
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return "invalid pattern " + strconv.Quote(e.Pattern) + ": " + e.Err.Error()
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Diagnostic returns the underlying syntax message
func (e *PatternError) Diagnostic() string {
	return e.Err.Error()
}

// 🏭 Compile builds a Pattern from a find string.
//
// In literal mode every metacharacter is escaped first. An empty find string
// compiles successfully; callers treat it as a no-op.
func Compile(find string, opts Options) (*Pattern, error) {
	expr := find
	flags := regexp2.None
	if opts.Regex {
		flags |= regexp2.ECMAScript
	} else {
		expr = regexp2.Escape(find)
	}
	if !opts.CaseSensitive {
		flags |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(expr, flags)
	if err != nil {
		return nil, errors.WithStack(&PatternError{Pattern: find, Err: err})
	}
	if opts.MatchTimeout > 0 {
		re.MatchTimeout = opts.MatchTimeout
	}

	p := &Pattern{
		source: find,
		opts:   opts,
		re:     re,
		groups: re.GetGroupNumbers(),
	}
	if opts.Regex {
		p.order = groupOrder(expr, re)
	}
	return p, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// package level patterns.
func MustCompile(find string, opts Options) *Pattern {
	p, err := Compile(find, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the find string the pattern was compiled from
func (p *Pattern) String() string {
	return p.source
}

// Options returns the options the pattern was compiled with
func (p *Pattern) Options() Options {
	return p.opts
}

// Empty reports whether the find string was empty
func (p *Pattern) Empty() bool {
	return p.source == ""
}

// GroupCount returns the number of capture groups, not counting group 0
func (p *Pattern) GroupCount() int {
	return len(p.groups) - 1
}

// HasGroup reports whether n names a capture group of the pattern
func (p *Pattern) HasGroup(n int) bool {
	if n <= 0 {
		return false
	}
	if p.order != nil {
		return n <= p.GroupCount()
	}
	for _, g := range p.groups {
		if g == n {
			return true
		}
	}
	return false
}
