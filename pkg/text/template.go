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
	"strings"

	"github.com/walteh/renamerc/pkg/pattern"
)

// 🏷️ TokenKind classifies a parsed template token
type TokenKind int

const (
	TokenLiteral TokenKind = iota // literal template text
	TokenGroup                    // $& or $n / $nn
	TokenPrefix                   // $` text before the match
	TokenSuffix                   // $' text after the match
)

// Token is one piece of a replacement template
type Token struct {
	Kind  TokenKind
	Text  string // literal text, set for TokenLiteral
	Group int    // group number, set for TokenGroup
}

// 📝 Template is a parsed replacement template. Tokens are resolved against
// the group layout of the pattern the template was parsed for.
type Template struct {
	source string
	tokens []Token
}

// String returns the template source
func (t Template) String() string {
	return t.source
}

// Tokens returns the parsed tokens
func (t Template) Tokens() []Token {
	return t.tokens
}

// 🏭 ParseTemplate tokenizes tpl.
//
//	$$       literal "$"
//	$&       whole match
//	$`       text before the match
//	$'       text after the match
//	$n, $nn  capture group n when the pattern has it, literal text otherwise
//
// Two digit references win when that group exists, otherwise the first digit
// is tried alone and the second digit stays literal.
func ParseTemplate(tpl string, p *pattern.Pattern) Template {
	hasGroup := func(n int) bool {
		return p != nil && p.HasGroup(n)
	}

	runes := []rune(tpl)
	t := Template{source: tpl}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.tokens = append(t.tokens, Token{Kind: TokenLiteral, Text: lit.String()})
			lit.Reset()
		}
	}
	emit := func(tok Token) {
		flush()
		t.tokens = append(t.tokens, tok)
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '$' || i+1 >= len(runes) {
			lit.WriteRune(r)
			continue
		}

		next := runes[i+1]
		switch {
		case next == '$':
			lit.WriteRune('$')
			i++
		case next == '&':
			emit(Token{Kind: TokenGroup, Group: 0})
			i++
		case next == '`':
			emit(Token{Kind: TokenPrefix})
			i++
		case next == '\'':
			emit(Token{Kind: TokenSuffix})
			i++
		case isDigit(next):
			if i+2 < len(runes) && isDigit(runes[i+2]) {
				nn := int(next-'0')*10 + int(runes[i+2]-'0')
				if hasGroup(nn) {
					emit(Token{Kind: TokenGroup, Group: nn})
					i += 2
					continue
				}
			}
			n := int(next - '0')
			if hasGroup(n) {
				emit(Token{Kind: TokenGroup, Group: n})
			} else {
				lit.WriteRune('$')
				lit.WriteRune(next)
			}
			i++
		default:
			lit.WriteRune('$')
		}
	}
	flush()
	return t
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
