// Package query implements the small query algebra: terms, phrases,
// boolean combinators, field prefixes and boosts, plus the lexer and
// recursive-descent parser that build it from a query string.
package query

import (
	"strconv"
	"strings"
)

// Expr is any node of the query AST. The concrete types are Term, Phrase,
// Not, And, Or, Field and Boost.
type Expr interface {
	expr()
}

// Term is a single bare word.
type Term struct {
	Text string
}

// Phrase is a sequence of words that must match adjacently, lexically
// preserved from the input (stemming happens at compile time).
type Phrase struct {
	Words []string
}

// Not negates its inner expression.
type Not struct {
	Inner Expr
}

// And is a conjunction of two or more clauses, flattened of any nested
// And of the same kind.
type And struct {
	Clauses []Expr
}

// Or is a disjunction of two or more clauses, flattened of any nested Or
// of the same kind.
type Or struct {
	Clauses []Expr
}

// Field restricts its inner expression's fan-out to a single field.
type Field struct {
	Name  string
	Inner Expr
}

// Boost multiplies the score contribution of its inner expression.
type Boost struct {
	Inner  Expr
	Factor float64
}

func (*Term) expr()   {}
func (*Phrase) expr() {}
func (*Not) expr()    {}
func (*And) expr()    {}
func (*Or) expr()     {}
func (*Field) expr()  {}
func (*Boost) expr()  {}

// flattenAnd appends clauses to acc, inlining any nested *And so adjacent
// conjunctions collapse into a single And node.
func flattenAnd(acc []Expr, e Expr) []Expr {
	if a, ok := e.(*And); ok {
		for _, c := range a.Clauses {
			acc = flattenAnd(acc, c)
		}
		return acc
	}
	return append(acc, e)
}

// flattenOr appends clauses to acc, inlining any nested *Or so adjacent
// disjunctions collapse into a single Or node.
func flattenOr(acc []Expr, e Expr) []Expr {
	if o, ok := e.(*Or); ok {
		for _, c := range o.Clauses {
			acc = flattenOr(acc, c)
		}
		return acc
	}
	return append(acc, e)
}

// newAnd builds an And node from clauses, flattening nested Ands. A
// single clause is returned unwrapped.
func newAnd(clauses []Expr) Expr {
	var flat []Expr
	for _, c := range clauses {
		flat = flattenAnd(flat, c)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &And{Clauses: flat}
}

// newOr builds an Or node from clauses, flattening nested Ors. A single
// clause is returned unwrapped.
func newOr(clauses []Expr) Expr {
	var flat []Expr
	for _, c := range clauses {
		flat = flattenOr(flat, c)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Or{Clauses: flat}
}

// ExtractTerms returns every leaf term string in e, in left-to-right
// order, ignoring field-name overlays, phrase grouping (each word of a
// Phrase is returned individually) and boost factors.
func ExtractTerms(e Expr) []string {
	var out []string
	var walk func(Expr)
	walk = func(e Expr) {
		switch v := e.(type) {
		case *Term:
			out = append(out, v.Text)
		case *Phrase:
			out = append(out, v.Words...)
		case *Not:
			walk(v.Inner)
		case *Field:
			walk(v.Inner)
		case *Boost:
			walk(v.Inner)
		case *And:
			for _, c := range v.Clauses {
				walk(c)
			}
		case *Or:
			for _, c := range v.Clauses {
				walk(c)
			}
		}
	}
	walk(e)
	return out
}

// Equal reports whether a and b are structurally equal (modulo the
// And/Or flattening every construction path already performs).
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case *Term:
		bv, ok := b.(*Term)
		return ok && av.Text == bv.Text
	case *Phrase:
		bv, ok := b.(*Phrase)
		if !ok || len(av.Words) != len(bv.Words) {
			return false
		}
		for i := range av.Words {
			if av.Words[i] != bv.Words[i] {
				return false
			}
		}
		return true
	case *Not:
		bv, ok := b.(*Not)
		return ok && Equal(av.Inner, bv.Inner)
	case *Field:
		bv, ok := b.(*Field)
		return ok && av.Name == bv.Name && Equal(av.Inner, bv.Inner)
	case *Boost:
		bv, ok := b.(*Boost)
		return ok && av.Factor == bv.Factor && Equal(av.Inner, bv.Inner)
	case *And:
		bv, ok := b.(*And)
		return ok && equalClauseSets(av.Clauses, bv.Clauses)
	case *Or:
		bv, ok := b.(*Or)
		return ok && equalClauseSets(av.Clauses, bv.Clauses)
	default:
		return false
	}
}

// equalClauseSets compares two And/Or clause lists order-insensitively,
// matching each clause in a by structural equality against an unused
// clause in b.
func equalClauseSets(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ca := range a {
		matched := false
		for i, cb := range b {
			if used[i] {
				continue
			}
			if Equal(ca, cb) {
				used[i] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// writeCtx tracks which grammar position writeExpr is filling, since that
// determines whether a multi-clause And/Or needs wrapping parens to stay
// a valid primary.
type writeCtx int

const (
	// ctxOrExpr accepts a bare or_expr: only the outermost call.
	ctxOrExpr writeCtx = iota
	// ctxAndItem accepts a bare and_expr: an Or's clauses.
	ctxAndItem
	// ctxPrimary requires a primary: Not/Field/Boost's inner expr, and an
	// And's clauses (each a "unary" slot per the grammar).
	ctxPrimary
)

// ToQueryString renders e back into query syntax such that parsing the
// result yields a structurally equal AST (modulo And/Or flattening).
func ToQueryString(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e, ctxOrExpr)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr, ctx writeCtx) {
	switch v := e.(type) {
	case *Term:
		b.WriteString(quoteIfNeeded(v.Text))
	case *Phrase:
		b.WriteByte('"')
		b.WriteString(strings.Join(v.Words, " "))
		b.WriteByte('"')
	case *Not:
		b.WriteByte('-')
		writeExpr(b, v.Inner, ctxPrimary)
	case *Field:
		b.WriteString(v.Name)
		b.WriteByte(':')
		writeExpr(b, v.Inner, ctxPrimary)
	case *Boost:
		writeExpr(b, v.Inner, ctxPrimary)
		b.WriteByte('^')
		b.WriteString(formatBoost(v.Factor))
	case *And:
		// Each clause of an And is a unary slot: always primary.
		needParens := ctx == ctxPrimary
		writeJoined(b, v.Clauses, " ", ctxPrimary, needParens)
	case *Or:
		// Each clause of an Or is an and_expr slot.
		needParens := ctx != ctxOrExpr
		writeJoined(b, v.Clauses, " OR ", ctxAndItem, needParens)
	}
}

func writeJoined(b *strings.Builder, clauses []Expr, sep string, childCtx writeCtx, parens bool) {
	if parens {
		b.WriteByte('(')
	}
	for i, c := range clauses {
		if i > 0 {
			b.WriteString(sep)
		}
		writeExpr(b, c, childCtx)
	}
	if parens {
		b.WriteByte(')')
	}
}

// quoteIfNeeded wraps a synthesized term's text in double quotes if it
// contains a character that would otherwise break re-lexing (this
// package's lexer does not support backslash escapes within a quoted
// phrase, so a term already containing a '"' cannot round-trip exactly).
func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	needsQuote := s[0] == '-'
	for _, r := range s {
		if r == ' ' || r == '(' || r == ')' || r == ':' || r == '^' || r == '"' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	return `"` + s + `"`
}

func formatBoost(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}
