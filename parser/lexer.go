// Package parser tokenizes and parses Eva source text into ast.Node values.
// Its grammar is deliberately small: parenthesized lists of numbers,
// strings, symbols and the boolean literals `true`/`false`.
package parser

import (
	"strings"

	"github.com/pkg/errors"
)

// token is a single lexical token of Eva source text.
type token struct {
	text string
}

// tokenize splits src into tokens, honoring quoted strings and `;`-prefixed
// line comments. Parens are always their own token.
func tokenize(src string) ([]token, error) {
	var toks []token
	for pos := 0; pos < len(src); {
		c := src[pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			pos++

		case c == ';':
			for pos < len(src) && src[pos] != '\n' {
				pos++
			}

		case c == '(' || c == ')':
			toks = append(toks, token{text: string(c)})
			pos++

		case c == '"':
			end := pos + 1
			escaped := false
			closed := false
			for end < len(src) {
				if escaped {
					escaped = false
					end++
					continue
				}
				switch src[end] {
				case '\\':
					escaped = true
				case '"':
					closed = true
				}
				end++
				if closed {
					break
				}
			}
			if !closed {
				return nil, errors.Errorf("unterminated string literal starting at byte %d", pos)
			}
			toks = append(toks, token{text: src[pos:end]})
			pos = end

		default:
			end := pos
			for end < len(src) && !isDelim(src[end]) {
				end++
			}
			toks = append(toks, token{text: src[pos:end]})
			pos = end
		}
	}
	return toks, nil
}

// isDelim reports whether b terminates an unquoted atom.
func isDelim(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '(', ')', ';':
		return true
	default:
		return false
	}
}

// isQuoted reports whether t is a double-quoted string token.
func (t token) isQuoted() bool {
	return strings.HasPrefix(t.text, `"`) && strings.HasSuffix(t.text, `"`) && len(t.text) >= 2
}
