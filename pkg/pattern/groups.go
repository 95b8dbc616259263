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
	"strings"

	"github.com/dlclark/regexp2"
)

// groupOrder maps regexp2 group names to the position of the group's opening
// parenthesis, counted left to right from 1.
//
// regexp2 numbers unnamed groups before named ones, so in (?<y>a)(b) it
// calls (b) group 1 and y group 2. Renames address groups by where they
// appear in the expression, which makes y group 1 here.
//
// A nil map means the source could not be reconciled with what regexp2
// compiled, and regexp2's own numbering is used.
func groupOrder(expr string, re *regexp2.Regexp) map[string]int {
	names := captureNames(expr)

	order := make(map[string]int, len(names))
	unnamed := 0
	for i, name := range names {
		if name == "" {
			unnamed++
			name = strconv.Itoa(unnamed)
		}
		if re.GroupNumberFromName(name) < 0 {
			return nil
		}
		order[name] = i + 1
	}

	// every group regexp2 knows about must be accounted for exactly once
	if len(order) != len(names) || len(order) != len(re.GetGroupNumbers())-1 {
		return nil
	}
	for _, n := range re.GetGroupNumbers()[1:] {
		if _, ok := order[re.GroupNameFromNumber(n)]; !ok {
			return nil
		}
	}
	return order
}

// captureNames lists the capturing groups of expr in the order their opening
// parentheses appear. Unnamed groups are listed as "".
func captureNames(expr string) []string {
	var names []string
	rs := []rune(expr)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			i++
		case '[':
			i = skipClass(rs, i)
		case '(':
			if i+1 >= len(rs) || rs[i+1] != '?' {
				names = append(names, "")
				continue
			}
			if name, ok := groupName(rs[i+2:]); ok {
				names = append(names, name)
				continue
			}
			if i+2 < len(rs) && rs[i+2] == '#' {
				for i < len(rs) && rs[i] != ')' {
					i++
				}
			}
		}
	}
	return names
}

// skipClass returns the index of the bracket closing the class opened at i
func skipClass(rs []rune, i int) int {
	for i++; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			i++
		case ']':
			return i
		}
	}
	return i
}

// groupName reads the name of a named group from the runes following "(?".
// Lookbehinds and other (? constructs report false.
func groupName(rs []rune) (string, bool) {
	var closer rune
	switch {
	case len(rs) >= 2 && rs[0] == 'P' && rs[1] == '<':
		rs, closer = rs[2:], '>'
	case len(rs) >= 1 && rs[0] == '<':
		rs, closer = rs[1:], '>'
	case len(rs) >= 1 && rs[0] == '\'':
		rs, closer = rs[1:], '\''
	default:
		return "", false
	}
	if len(rs) == 0 || rs[0] == '=' || rs[0] == '!' {
		return "", false
	}

	end := -1
	for j, r := range rs {
		if r == closer {
			end = j
			break
		}
	}
	if end < 0 {
		return "", false
	}

	name := string(rs[:end])
	// balancing groups (?<a-b>) capture under a; (?<-b>) captures nothing
	if k := strings.IndexByte(name, '-'); k >= 0 {
		name = name[:k]
		if name == "" {
			return "", false
		}
	}
	return name, true
}
