package query

import "fmt"

// LexError reports a malformed token, carrying the byte offset in the
// original query string where the problem starts.
type LexError struct {
	Position int
	Message  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d: %s", e.Position, e.Message)
}

// ParseError reports a malformed token sequence: a legal token in an
// illegal place. Position is the offending token's byte offset.
type ParseError struct {
	Position int
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Position, e.Message)
}
