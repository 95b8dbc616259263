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
)

// NoGroup marks a highlight piece that is not covered by any span
const NoGroup = -1

// 🎨 Range is a half-open rune range owned by a single group
type Range struct {
	Start int
	End   int
	Group int
	Match int
}

// Highlight flattens possibly nested spans into sorted, non-overlapping
// ranges. Where spans overlap, the span registered last wins, so inner
// groups override the groups that contain them.
func Highlight(spans []MatchSpan) []Range {
	if len(spans) == 0 {
		return nil
	}

	bounds := make([]int, 0, len(spans)*2)
	for _, s := range spans {
		if s.End > s.Start {
			bounds = append(bounds, s.Start, s.End)
		}
	}
	sort.Ints(bounds)
	bounds = uniqueInts(bounds)

	var out []Range
	for i := 0; i+1 < len(bounds); i++ {
		lo, hi := bounds[i], bounds[i+1]
		winner := -1
		for j := len(spans) - 1; j >= 0; j-- {
			if spans[j].Start <= lo && hi <= spans[j].End {
				winner = j
				break
			}
		}
		if winner < 0 {
			continue
		}
		w := spans[winner]
		if n := len(out); n > 0 && out[n-1].End == lo && out[n-1].Group == w.Group && out[n-1].Match == w.Match {
			out[n-1].End = hi
			continue
		}
		out = append(out, Range{Start: lo, End: hi, Group: w.Group, Match: w.Match})
	}
	return out
}

// 🖍️ Piece is a slice of the input text tagged with the group that owns it.
// Group is NoGroup for text outside every match.
type Piece struct {
	Text  string `json:"text"`
	Group int    `json:"group"`
}

// Segments cuts text into consecutive pieces following the highlight
// ranges of spans. Joining every piece's text yields text again.
func Segments(text string, spans []MatchSpan) []Piece {
	runes := []rune(text)
	ranges := Highlight(spans)

	var out []Piece
	last := 0
	for _, r := range ranges {
		if r.Start > len(runes) {
			break
		}
		end := min(r.End, len(runes))
		if r.Start > last {
			out = append(out, Piece{Text: string(runes[last:r.Start]), Group: NoGroup})
		}
		out = append(out, Piece{Text: string(runes[r.Start:end]), Group: r.Group})
		last = end
	}
	if last < len(runes) {
		out = append(out, Piece{Text: string(runes[last:]), Group: NoGroup})
	}
	return out
}

func uniqueInts(in []int) []int {
	if len(in) == 0 {
		return in
	}
	out := in[:1]
	for _, v := range in[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
