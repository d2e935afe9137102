package formula

import (
	"fmt"
	"unicode"
)

// ParseError reports malformed surface syntax: unbalanced parentheses,
// unknown tokens or a leaf name absent from the declared variable list.
type ParseError struct {
	Pos int // rune offset in the normalized input
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
}

// Parse parses the formula from its normalized surface syntax and returns
// the corresponding AST. Operators bind, from tightest to loosest:
// "!" then "&&" then "||"; parentheses override precedence.
//
// declared is the set of legal variable names. A leaf outside it is a
// ParseError: an unparseable fragment is never papered over with a
// tautology or contradiction.
func Parse(s string, declared []string) (Formula, error) {
	toks := tokenize(Normalize(s))
	if len(toks) == 0 {
		return nil, &ParseError{Pos: 0, Msg: "empty formula"}
	}
	names := make(map[string]bool, len(declared))
	for _, v := range declared {
		names[v] = true
	}
	p := &parser{toks: toks, names: names}
	f, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		t := p.peek()
		if t.kind == tokRParen {
			return nil, &ParseError{Pos: t.pos, Msg: "unbalanced parentheses"}
		}
		return nil, &ParseError{Pos: t.pos, Msg: fmt.Sprintf("unexpected token %q", t.text)}
	}
	return f, nil
}

type parser struct {
	toks  []token
	cur   int
	names map[string]bool
}

func (p *parser) eof() bool { return p.cur >= len(p.toks) }

func (p *parser) peek() token { return p.toks[p.cur] }

func (p *parser) next() token {
	t := p.toks[p.cur]
	p.cur++
	return t
}

func (p *parser) errEOF() error {
	pos := 0
	if n := len(p.toks); n > 0 {
		last := p.toks[n-1]
		pos = last.pos + len(last.text)
	}
	return &ParseError{Pos: pos, Msg: "unexpected end of formula"}
}

func (p *parser) parseOr() (Formula, error) {
	f, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for !p.eof() && p.peek().kind == tokOr {
		p.next()
		f2, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		f = Disj(f, f2)
	}
	return f, nil
}

func (p *parser) parseAnd() (Formula, error) {
	f, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for !p.eof() && p.peek().kind == tokAnd {
		p.next()
		f2, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		f = Conj(f, f2)
	}
	return f, nil
}

func (p *parser) parseNot() (Formula, error) {
	if p.eof() {
		return nil, p.errEOF()
	}
	if p.peek().kind == tokNot {
		p.next()
		f, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return Negation(f), nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (Formula, error) {
	if p.eof() {
		return nil, p.errEOF()
	}
	t := p.next()
	switch t.kind {
	case tokLParen:
		f, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, &ParseError{Pos: t.pos, Msg: "unbalanced parentheses"}
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &ParseError{Pos: closing.pos, Msg: fmt.Sprintf("expected closing parenthesis, found %q", closing.text)}
		}
		return f, nil
	case tokName:
		if !isIdentifier(t.text) {
			return nil, &ParseError{Pos: t.pos, Msg: fmt.Sprintf("unknown token %q", t.text)}
		}
		if !p.names[t.text] {
			return nil, &ParseError{Pos: t.pos, Msg: fmt.Sprintf("undeclared variable %q", t.text)}
		}
		return Var(t.text), nil
	default:
		return nil, &ParseError{Pos: t.pos, Msg: fmt.Sprintf("unexpected token %q", t.text)}
	}
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return s != ""
}
