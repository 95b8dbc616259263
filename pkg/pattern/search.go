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
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// 🔎 SearchMode selects how a search query is interpreted
type SearchMode string

const (
	SearchSimple    SearchMode = "simple"    // substring match
	SearchExtension SearchMode = "extension" // comma-separated extension list
	SearchRegex     SearchMode = "regex"     // regular expression
)

// ErrEmptyQuery is returned when a search query is blank
var ErrEmptyQuery = errors.Base("pattern cannot be empty")

// ParseSearchMode validates a mode name
func ParseSearchMode(s string) (SearchMode, error) {
	switch m := SearchMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SearchSimple, SearchExtension, SearchRegex:
		return m, nil
	case "":
		return SearchSimple, nil
	default:
		return "", errors.Errorf("unknown search mode %q", s)
	}
}

// 🔧 Searcher matches file names against a prepared search query. It is
// built once per search and reused for every name.
type Searcher struct {
	mode          SearchMode
	caseSensitive bool
	pattern       *Pattern
	extensions    []string
}

// NewSearcher prepares query for repeated matching
func NewSearcher(query string, mode SearchMode, caseSensitive bool) (*Searcher, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	s := &Searcher{mode: mode, caseSensitive: caseSensitive}
	switch mode {
	case SearchSimple, SearchRegex:
		p, err := Compile(query, Options{Regex: mode == SearchRegex, CaseSensitive: caseSensitive})
		if err != nil {
			return nil, err
		}
		s.pattern = p
	case SearchExtension:
		for _, ext := range strings.Split(query, ",") {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			s.extensions = append(s.extensions, ext)
		}
		if len(s.extensions) == 0 {
			return nil, ErrEmptyQuery
		}
	default:
		return nil, errors.Errorf("unknown search mode %q", mode)
	}
	return s, nil
}

// Ranges returns the rune ranges of name matched by the query, or nil when
// the name does not match.
func (s *Searcher) Ranges(name string) ([]Range, error) {
	if s.mode == SearchExtension {
		return s.extensionRanges(name), nil
	}

	spans, err := s.pattern.Match(name)
	if err != nil {
		return nil, err
	}
	var out []Range
	for _, sp := range spans {
		if sp.Group != 0 {
			continue
		}
		out = append(out, Range{Start: sp.Start, End: sp.End, Group: 0, Match: sp.Match})
	}
	return out, nil
}

func (s *Searcher) extensionRanges(name string) []Range {
	runes := []rune(name)
	for _, ext := range s.extensions {
		n := utf8.RuneCountInString(ext)
		if n > len(runes) {
			continue
		}
		tail := string(runes[len(runes)-n:])
		if tail == ext || (!s.caseSensitive && strings.EqualFold(tail, ext)) {
			return []Range{{Start: len(runes) - n, End: len(runes), Group: 0}}
		}
	}
	return nil
}

// MatchRanges is a one-shot convenience around NewSearcher
func MatchRanges(name, query string, mode SearchMode, caseSensitive bool) ([]Range, error) {
	s, err := NewSearcher(query, mode, caseSensitive)
	if err != nil {
		return nil, err
	}
	return s.Ranges(name)
}
