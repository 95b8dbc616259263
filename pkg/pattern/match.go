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
	"sort"

	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// 📍 MatchSpan is one group of one match attempt.
//
// Start and End are rune offsets into the matched text. Group 0 is the whole
// match, 1..N are capture groups. Match is the ordinal of the match attempt
// the span belongs to.
type MatchSpan struct {
	Start   int
	End     int
	Group   int
	Content string
	Match   int
}

// Len returns the span length in runes
func (s MatchSpan) Len() int {
	return s.End - s.Start
}

// 🧩 Submatch is a single match attempt with its participating groups.
// Groups[0] is always the whole match.
type Submatch struct {
	Groups []MatchSpan
}

// Whole returns the group 0 span
func (m Submatch) Whole() MatchSpan {
	return m.Groups[0]
}

// Group returns the span for group n and whether it participated
func (m Submatch) Group(n int) (MatchSpan, bool) {
	for _, g := range m.Groups {
		if g.Group == n {
			return g, true
		}
	}
	return MatchSpan{}, false
}

// 🔍 Match returns every span of every non-overlapping match, left to right.
// Spans of one attempt are emitted group 0 first, then groups in increasing
// index order; groups that did not participate are absent.
func (p *Pattern) Match(text string) ([]MatchSpan, error) {
	subs, err := p.Submatches([]rune(text), -1)
	if err != nil {
		return nil, err
	}
	var spans []MatchSpan
	for _, s := range subs {
		spans = append(spans, s.Groups...)
	}
	return spans, nil
}

// Submatches scans runes for at most limit matches (limit < 0 means all).
func (p *Pattern) Submatches(runes []rune, limit int) ([]Submatch, error) {
	if p.Empty() {
		return nil, nil
	}

	var out []Submatch
	pos := 0
	for pos <= len(runes) {
		if limit >= 0 && len(out) >= limit {
			break
		}
		m, err := p.re.FindRunesMatchStartingAt(runes, pos)
		if err != nil {
			return out, errors.Errorf("matching %q: %w", p.source, err)
		}
		if m == nil {
			break
		}

		out = append(out, p.submatchOf(m, len(out)))

		end := m.Index + m.Length
		if m.Length == 0 {
			// an empty match must move the cursor or the scan never ends
			end++
		}
		pos = end
	}
	return out, nil
}

func (p *Pattern) submatchOf(m *regexp2.Match, ordinal int) Submatch {
	groups := m.Groups()
	sub := Submatch{Groups: make([]MatchSpan, 0, len(groups))}
	for i := range groups {
		g := &groups[i]
		if i > 0 && len(g.Captures) == 0 {
			continue
		}
		sub.Groups = append(sub.Groups, MatchSpan{
			Start:   g.Index,
			End:     g.Index + g.Length,
			Group:   p.groupNumber(i, g),
			Content: g.String(),
			Match:   ordinal,
		})
	}
	sort.SliceStable(sub.Groups, func(a, b int) bool {
		return sub.Groups[a].Group < sub.Groups[b].Group
	})
	return sub
}

func (p *Pattern) groupNumber(i int, g *regexp2.Group) int {
	if i == 0 {
		return 0
	}
	if n, ok := p.order[g.Name]; ok {
		return n
	}
	// named groups report their name; numbered groups report the number
	if n, ok := atoi(g.Name); ok {
		return n
	}
	return i
}

func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// IsMatch reports whether the pattern matches anywhere in text
func (p *Pattern) IsMatch(text string) (bool, error) {
	if p.Empty() {
		return false, nil
	}
	ok, err := p.re.MatchString(text)
	if err != nil {
		return false, errors.Errorf("matching %q: %w", p.source, err)
	}
	return ok, nil
}
