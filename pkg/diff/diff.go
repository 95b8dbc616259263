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

package diff

import (
	"strings"
	"unicode/utf8"
)

// DefaultThreshold is the combined rune length above which Compute skips the
// full LCS and falls back to a common prefix and suffix split.
const DefaultThreshold = 500

// 🏷️ Type classifies a diff segment
type Type string

const (
	Unchanged Type = "unchanged"
	Removed   Type = "removed"
	Added     Type = "added"
)

// 📦 Segment is one run of a diff. Unchanged and Removed segments rebuild the
// original text, Unchanged and Added segments rebuild the modified text.
type Segment struct {
	Type Type   `json:"type"`
	Text string `json:"text"`
}

// 🔄 Compute diffs two strings with DefaultThreshold
func Compute(original, modified string) []Segment {
	return ComputeWithThreshold(original, modified, DefaultThreshold)
}

// ComputeWithThreshold diffs two strings rune by rune. Inputs whose combined
// rune length exceeds threshold use the prefix/suffix fallback.
//
// The result never holds two consecutive segments of the same type, and
// inside a change block removed text always precedes added text. Two empty
// inputs produce a single empty unchanged segment.
func ComputeWithThreshold(original, modified string, threshold int) []Segment {
	if original == modified {
		return []Segment{{Type: Unchanged, Text: original}}
	}

	a := split(original)
	b := split(modified)

	var ops []op
	if len(a)+len(b) > threshold {
		ops = prefixSuffix(a, b)
	} else {
		ops = lcs(a, b)
	}
	return coalesce(ops)
}

type op struct {
	typ Type
	r   string
}

// split cuts s into runes, keeping each rune's bytes as they are. An invalid
// byte becomes a unit of its own instead of U+FFFD, so segments always
// rebuild the exact input.
func split(s string) []string {
	out := make([]string, 0, len(s))
	for len(s) > 0 {
		_, size := utf8.DecodeRuneInString(s)
		out = append(out, s[:size])
		s = s[size:]
	}
	return out
}

// lcs builds a minimal edit script from a longest common subsequence table.
// Ties prefer removals so the output is stable for a given input pair.
func lcs(a, b []string) []op {
	n, m := len(a), len(b)

	// table[i][j] is the LCS length of a[i:] and b[j:]
	table := make([][]int, n+1)
	for i := range table {
		table[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	ops := make([]op, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			ops = append(ops, op{Unchanged, a[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			ops = append(ops, op{Removed, a[i]})
			i++
		default:
			ops = append(ops, op{Added, b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, op{Removed, a[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, op{Added, b[j]})
	}
	return ops
}

// prefixSuffix keeps the longest common prefix and the longest common suffix
// that does not overlap it, and treats everything between as replaced.
func prefixSuffix(a, b []string) []op {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	ops := make([]op, 0, len(a)+len(b))
	for _, r := range a[:prefix] {
		ops = append(ops, op{Unchanged, r})
	}
	for _, r := range a[prefix : len(a)-suffix] {
		ops = append(ops, op{Removed, r})
	}
	for _, r := range b[prefix : len(b)-suffix] {
		ops = append(ops, op{Added, r})
	}
	for _, r := range a[len(a)-suffix:] {
		ops = append(ops, op{Unchanged, r})
	}
	return ops
}

// coalesce folds an edit script into segments. Each run of edits between two
// unchanged runs becomes at most one removed and one added segment.
func coalesce(ops []op) []Segment {
	var (
		out              []Segment
		same, rem, added strings.Builder
	)

	flushChange := func() {
		if rem.Len() > 0 {
			out = append(out, Segment{Type: Removed, Text: rem.String()})
			rem.Reset()
		}
		if added.Len() > 0 {
			out = append(out, Segment{Type: Added, Text: added.String()})
			added.Reset()
		}
	}
	flushSame := func() {
		if same.Len() > 0 {
			out = append(out, Segment{Type: Unchanged, Text: same.String()})
			same.Reset()
		}
	}

	for _, o := range ops {
		switch o.typ {
		case Unchanged:
			flushChange()
			same.WriteString(o.r)
		case Removed:
			flushSame()
			rem.WriteString(o.r)
		case Added:
			flushSame()
			added.WriteString(o.r)
		}
	}
	flushSame()
	flushChange()

	if len(out) == 0 {
		return []Segment{{Type: Unchanged}}
	}
	return out
}

// Original rebuilds the original text from unchanged and removed segments
func Original(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Type != Added {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// Modified rebuilds the modified text from unchanged and added segments
func Modified(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Type != Removed {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// Changed reports whether any segment is an addition or a removal
func Changed(segs []Segment) bool {
	for _, s := range segs {
		if s.Type != Unchanged {
			return true
		}
	}
	return false
}
