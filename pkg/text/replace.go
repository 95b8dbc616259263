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

package text

import (
	"github.com/walteh/renamerc/pkg/pattern"
)

const (
	// GroupLiteral marks literal template text in a Segment
	GroupLiteral = -1
	// GroupNumber marks an inserted sequence number in a Segment
	GroupNumber = -2
)

// 🖍️ Segment is a marked run of replacement output. Start and End are rune
// offsets into the output text. Group is a capture group number, 0 for the
// whole match, GroupLiteral for template text or GroupNumber for numbering.
//
// Output runes that no segment covers were copied from the input unchanged.
type Segment struct {
	Start   int
	End     int
	Group   int
	Content string
	Match   int
}

// 📦 Result is the outcome of applying a template
type Result struct {
	Text     string    // output text, the input unchanged on error
	Segments []Segment // marked output runs, ascending and non-overlapping
	Count    int       // number of matches replaced
	Err      error     // pattern error, if any

	// Spans are the match spans in the input text, one submatch after another
	Spans []pattern.MatchSpan
}

// Changed reports whether the output differs from the input
func (r Result) Changed(input string) bool {
	return r.Text != input
}

// 🔄 Apply replaces matches of p in text according to tpl. With firstOnly
// only the first match is replaced, otherwise all non-overlapping matches.
func Apply(text string, p *pattern.Pattern, tpl string, firstOnly bool) Result {
	return ApplyTemplate(text, p, ParseTemplate(tpl, p), firstOnly)
}

// ApplyTemplate is Apply with a template parsed ahead of time, for callers
// that reuse one template across many inputs.
func ApplyTemplate(text string, p *pattern.Pattern, t Template, firstOnly bool) Result {
	if p == nil || p.Empty() {
		return Result{Text: text}
	}

	limit := -1
	if firstOnly {
		limit = 1
	}

	runes := []rune(text)
	subs, err := p.Submatches(runes, limit)
	if err != nil {
		return Result{Text: text, Err: err}
	}
	if len(subs) == 0 {
		return Result{Text: text}
	}

	b := &builder{out: make([]rune, 0, len(runes))}
	var spans []pattern.MatchSpan
	last := 0
	for ordinal, m := range subs {
		spans = append(spans, m.Groups...)
		whole := m.Whole()
		b.copy(runes[last:whole.Start])

		for _, tok := range t.tokens {
			switch tok.Kind {
			case TokenLiteral:
				b.mark([]rune(tok.Text), GroupLiteral, ordinal)
			case TokenGroup:
				if g, ok := m.Group(tok.Group); ok {
					b.mark([]rune(g.Content), tok.Group, ordinal)
				}
			case TokenPrefix:
				b.copy(runes[:whole.Start])
			case TokenSuffix:
				b.copy(runes[whole.End:])
			}
		}
		last = whole.End
	}
	b.copy(runes[last:])

	return Result{
		Text:     string(b.out),
		Segments: b.segs,
		Count:    len(subs),
		Spans:    spans,
	}
}

type builder struct {
	out  []rune
	segs []Segment
}

func (b *builder) copy(r []rune) {
	b.out = append(b.out, r...)
}

func (b *builder) mark(r []rune, group, ordinal int) {
	if len(r) == 0 {
		return
	}
	start := len(b.out)
	b.out = append(b.out, r...)

	if n := len(b.segs); n > 0 && group == GroupLiteral {
		prev := &b.segs[n-1]
		if prev.Group == GroupLiteral && prev.Match == ordinal && prev.End == start {
			prev.End = len(b.out)
			prev.Content += string(r)
			return
		}
	}
	b.segs = append(b.segs, Segment{
		Start:   start,
		End:     len(b.out),
		Group:   group,
		Content: string(r),
		Match:   ordinal,
	})
}

// 📐 Shift re-bases segments after length runes were inserted at rune offset
// at. A segment that straddles the insertion point is split around it.
func Shift(segs []Segment, at, length int) []Segment {
	if length == 0 || len(segs) == 0 {
		return segs
	}
	out := make([]Segment, 0, len(segs)+1)
	for _, s := range segs {
		switch {
		case s.End <= at:
			out = append(out, s)
		case s.Start >= at:
			s.Start += length
			s.End += length
			out = append(out, s)
		default:
			content := []rune(s.Content)
			cut := at - s.Start
			out = append(out,
				Segment{Start: s.Start, End: at, Group: s.Group, Content: string(content[:cut]), Match: s.Match},
				Segment{Start: at + length, End: s.End + length, Group: s.Group, Content: string(content[cut:]), Match: s.Match},
			)
		}
	}
	return out
}

// Insert records length runes of inserted text at offset at as a segment of
// the given group, shifting the existing segments around it.
func Insert(segs []Segment, at int, inserted string, group int) []Segment {
	r := []rune(inserted)
	if len(r) == 0 {
		return segs
	}
	shifted := Shift(segs, at, len(r))
	seg := Segment{Start: at, End: at + len(r), Group: group, Content: inserted, Match: -1}

	out := make([]Segment, 0, len(shifted)+1)
	placed := false
	for _, s := range shifted {
		if !placed && s.Start >= seg.End {
			out = append(out, seg)
			placed = true
		}
		out = append(out, s)
	}
	if !placed {
		out = append(out, seg)
	}
	return out
}

// Replace compiles find with opts and applies tpl. An invalid pattern leaves
// text unchanged and reports the error in the result.
func Replace(text, find, tpl string, opts pattern.Options, firstOnly bool) Result {
	p, err := pattern.Compile(find, opts)
	if err != nil {
		return Result{Text: text, Err: err}
	}
	return Apply(text, p, tpl, firstOnly)
}
