package query

import "strconv"

// Parse lexes and parses a query string into an Expr tree per the
// grammar in spec.md §4.3 (precedence low to high: OR, implicit AND,
// unary minus/boost, primary).
func Parse(input string) (Expr, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, &ParseError{Position: p.peek().pos, Message: "unexpected trailing input"}
	}
	return e, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// parseOr = and_expr ("OR" and_expr)*
func (p *parser) parseOr() (Expr, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	clauses := []Expr{first}
	for p.peek().kind == tokOr {
		orTok := p.advance()
		if isTerminator(p.peek().kind) {
			return nil, &ParseError{Position: orTok.pos, Message: "trailing OR with no right-hand expression"}
		}
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, next)
	}
	return newOr(clauses), nil
}

// parseAnd = unary+, implicit conjunction of consecutive units.
func (p *parser) parseAnd() (Expr, error) {
	var clauses []Expr
	for !isTerminator(p.peek().kind) && p.peek().kind != tokOr {
		u, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, u)
	}
	if len(clauses) == 0 {
		return nil, &ParseError{Position: p.peek().pos, Message: "expected a term, phrase, field or group"}
	}
	return newAnd(clauses), nil
}

// parseUnary = "-" unary | primary ("^" NUMBER)?
func (p *parser) parseUnary() (Expr, error) {
	if p.peek().kind == tokMinus {
		p.advance()
		if isTerminator(p.peek().kind) || p.peek().kind == tokOr {
			return nil, &ParseError{Position: p.peek().pos, Message: "negation with no following expression"}
		}
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Not{Inner: inner}, nil
	}

	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.peek().kind == tokBoost {
		b := p.advance()
		factor, parseErr := strconv.ParseFloat(b.text, 64)
		if parseErr != nil {
			return nil, &ParseError{Position: b.pos, Message: "invalid boost factor"}
		}
		return &Boost{Inner: primary, Factor: factor}, nil
	}
	return primary, nil
}

// primary = TERM | PHRASE | FIELD ":" (TERM | PHRASE | "(" or_expr ")") | "(" or_expr ")"
func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()
	switch t.kind {
	case tokTerm:
		p.advance()
		return &Term{Text: t.text}, nil

	case tokPhrase:
		p.advance()
		return &Phrase{Words: splitPhraseWords(t.text)}, nil

	case tokLParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, &ParseError{Position: p.peek().pos, Message: "expected ')'"}
		}
		p.advance()
		return inner, nil

	case tokField:
		p.advance()
		if isTerminator(p.peek().kind) || p.peek().kind == tokOr {
			return nil, &ParseError{Position: t.pos, Message: "field prefix '" + t.text + ":' without a value"}
		}
		switch p.peek().kind {
		case tokTerm, tokPhrase, tokLParen:
			inner, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			return &Field{Name: t.text, Inner: inner}, nil
		default:
			return nil, &ParseError{Position: p.peek().pos, Message: "expected a term, phrase or group after field prefix"}
		}

	case tokRParen:
		return nil, &ParseError{Position: t.pos, Message: "unexpected ')'"}

	case tokBoost:
		return nil, &ParseError{Position: t.pos, Message: "boost marker '^' with no preceding expression"}

	case tokMinus:
		return nil, &ParseError{Position: t.pos, Message: "unexpected '-'"}

	default:
		return nil, &ParseError{Position: t.pos, Message: "expected a term, phrase, field or group"}
	}
}

func isTerminator(k tokenKind) bool {
	return k == tokEOF || k == tokRParen
}

func splitPhraseWords(s string) []string {
	var words []string
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ' ' && s[i] != '\t' {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			words = append(words, s[start:i])
			start = -1
		}
	}
	return words
}
