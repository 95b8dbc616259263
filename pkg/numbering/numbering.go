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

package numbering

import (
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📍 Position says where a sequence number goes in the base name
type Position string

const (
	PositionStart Position = "start"
	PositionEnd   Position = "end"
	PositionIndex Position = "index"
)

var (
	ErrUnknownPosition   = errors.Base("unknown numbering position")
	ErrNegativeInsertIdx = errors.Base("insert index cannot be negative")
)

// 🔢 Spec configures sequence numbering for one batch. It is built once and
// only read afterwards.
type Spec struct {
	Enabled     bool     `json:"enabled" yaml:"enabled"`
	StartNumber int      `json:"start_number" yaml:"start_number"`
	Increment   int      `json:"increment" yaml:"increment"`
	Padding     int      `json:"padding" yaml:"padding"`
	Separator   string   `json:"separator" yaml:"separator"`
	Position    Position `json:"position" yaml:"position"`
	InsertIndex int      `json:"insert_index" yaml:"insert_index"`
}

// Default returns the numbering used when only Enabled is set: 1, 2, 3 with
// no padding, placed at the start and separated by "_".
func Default() Spec {
	return Spec{
		StartNumber: 1,
		Increment:   1,
		Padding:     1,
		Separator:   "_",
		Position:    PositionStart,
	}
}

// Validate checks an enabled spec. A disabled spec is always valid.
func (s Spec) Validate() error {
	if !s.Enabled {
		return nil
	}
	switch s.Position {
	case PositionStart, PositionEnd, PositionIndex:
	case "":
		return errors.Errorf("%w: empty", ErrUnknownPosition)
	default:
		return errors.Errorf("%w: %q", ErrUnknownPosition, s.Position)
	}
	if s.Position == PositionIndex && s.InsertIndex < 0 {
		return errors.Errorf("%w: %d", ErrNegativeInsertIdx, s.InsertIndex)
	}
	return nil
}

// 📦 Placement is a formatted number and the rune offset where it goes
type Placement struct {
	Formatted string
	Index     int
}

// Number returns start + fileIndex * increment
func (s Spec) Number(fileIndex int) int {
	return s.StartNumber + fileIndex*s.Increment
}

// Format zero-pads n to at least padding digits. Longer numbers are never
// truncated and a minus sign goes in front of the padding.
func Format(n, padding int) string {
	if padding < 1 {
		padding = 1
	}
	digits := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}
	if pad := padding - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return sign + digits
}

// 🎯 NumberFor computes the number for fileIndex and where it is inserted
// into a base name of baseNameLength runes.
func NumberFor(fileIndex int, spec Spec, baseNameLength int) Placement {
	if baseNameLength < 0 {
		baseNameLength = 0
	}
	p := Placement{Formatted: Format(spec.Number(fileIndex), spec.Padding)}

	switch spec.Position {
	case PositionEnd:
		p.Index = baseNameLength
	case PositionIndex:
		p.Index = min(max(spec.InsertIndex, 0), baseNameLength)
	default:
		p.Index = 0
	}
	return p
}

// Insertion is the rune range a number took up in the numbered name
type Insertion struct {
	Start int
	End   int
	Text  string
}

// Len returns the inserted rune count
func (i Insertion) Len() int {
	return i.End - i.Start
}

// 🏷️ Apply inserts the sequence number for fileIndex into name. The number
// goes into the base name only, so "a.txt" stays a ".txt" file. The returned
// Insertion covers the number and the separators added with it.
func Apply(name string, fileIndex int, spec Spec) (string, Insertion) {
	if !spec.Enabled {
		return name, Insertion{}
	}

	base, ext := SplitExtension(name)
	baseRunes := []rune(base)
	p := NumberFor(fileIndex, spec, len(baseRunes))

	var inserted string
	switch {
	case len(baseRunes) == 0:
		inserted = p.Formatted
	case p.Index == 0:
		inserted = p.Formatted + spec.Separator
	case p.Index == len(baseRunes):
		inserted = spec.Separator + p.Formatted
	default:
		inserted = spec.Separator + p.Formatted + spec.Separator
	}

	out := string(baseRunes[:p.Index]) + inserted + string(baseRunes[p.Index:]) + ext
	return out, Insertion{
		Start: p.Index,
		End:   p.Index + len([]rune(inserted)),
		Text:  inserted,
	}
}

// ✂️ SplitExtension splits name at its last dot. The extension keeps the
// dot. A name whose only dot is its first character is a dotfile with no
// extension.
func SplitExtension(name string) (base, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}
