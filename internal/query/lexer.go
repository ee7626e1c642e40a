package query

import "strings"

type tokenKind int

const (
	tokTerm tokenKind = iota
	tokPhrase
	tokField // Text is the field name; the lexer has already consumed the ':'
	tokMinus
	tokBoost // Text is the numeric literal, e.g. "2" or "0.5"
	tokLParen
	tokRParen
	tokOr
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int // byte offset in the original input
}

// lex tokenizes a query string, or returns a *LexError for malformed
// input (unclosed quote, a '^' not followed by a number).
func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	n := len(input)

	for i < n {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '(':
			toks = append(toks, token{kind: tokLParen, pos: i})
			i++

		case c == ')':
			toks = append(toks, token{kind: tokRParen, pos: i})
			i++

		case c == '-':
			toks = append(toks, token{kind: tokMinus, pos: i})
			i++

		case c == '"':
			start := i
			j := i + 1
			for j < n && input[j] != '"' {
				j++
			}
			if j >= n {
				return nil, &LexError{Position: start, Message: "unclosed quote"}
			}
			toks = append(toks, token{kind: tokPhrase, text: input[start+1 : j], pos: start})
			i = j + 1

		case c == '^':
			start := i
			j := i + 1
			numStart := j
			for j < n && (isDigit(input[j]) || input[j] == '.') {
				j++
			}
			if j == numStart {
				return nil, &LexError{Position: start, Message: "boost marker '^' not followed by a number"}
			}
			toks = append(toks, token{kind: tokBoost, text: input[numStart:j], pos: start})
			i = j

		default:
			start := i
			j := i
			for j < n && !isWordBoundary(input[j]) {
				j++
			}
			word := input[start:j]
			i = j

			if i < n && input[i] == ':' {
				toks = append(toks, token{kind: tokField, text: word, pos: start})
				i++
				continue
			}
			if strings.EqualFold(word, "OR") {
				toks = append(toks, token{kind: tokOr, text: word, pos: start})
				continue
			}
			toks = append(toks, token{kind: tokTerm, text: word, pos: start})
		}
	}

	toks = append(toks, token{kind: tokEOF, pos: n})
	return toks, nil
}

func isWordBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '"', '^', ':':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
