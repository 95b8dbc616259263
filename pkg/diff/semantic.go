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
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// 🧠 Semantic diffs two strings character by character and then merges small
// equalities into the surrounding edits so the result reads as whole words
// rather than scattered letters. The output keeps the same invariants as
// Compute.
//
// diffmatchpatch works on decoded runes, so inputs that are not valid UTF-8
// are diffed with Compute instead.
func Semantic(original, modified string) []Segment {
	if original == modified {
		return []Segment{{Type: Unchanged, Text: original}}
	}
	if !utf8.ValidString(original) || !utf8.ValidString(modified) {
		return Compute(original, modified)
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, modified, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	ops := make([]op, 0, len(original)+len(modified))
	for _, d := range diffs {
		var typ Type
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			typ = Unchanged
		case diffmatchpatch.DiffDelete:
			typ = Removed
		case diffmatchpatch.DiffInsert:
			typ = Added
		}
		for _, r := range split(d.Text) {
			ops = append(ops, op{typ, r})
		}
	}
	return coalesce(ops)
}
