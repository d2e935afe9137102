package formula

import "strings"

// Accepted surface syntaxes: negation may be written "~", "¬" or "!",
// conjunction "&" or "&&", disjunction "|" or "||". Normalize rewrites all
// of them to the canonical "!", "&&" and "||" tokens, with single spaces
// between tokens and no space adjacent to parentheses or after a negation.
//
// Normalize is idempotent: normalizing an already canonical string is a
// no-op. It never fails; emptiness and unknown tokens are the parser's
// concern.
func Normalize(s string) string {
	toks := tokenize(s)
	var b strings.Builder
	for i, t := range toks {
		if i > 0 && spaceBetween(toks[i-1], t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.text)
	}
	return b.String()
}

func spaceBetween(prev, cur token) bool {
	if prev.kind == tokLParen || prev.kind == tokNot {
		return false
	}
	if cur.kind == tokRParen {
		return false
	}
	return true
}

type tokenKind int

const (
	tokName tokenKind = iota
	tokNot
	tokAnd
	tokOr
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int // rune offset in the input
}

// tokenize splits s into canonical tokens. Anything that is not an
// operator, a parenthesis or whitespace is accumulated into a name token;
// validity of names is checked by the parser, not here.
func tokenize(s string) []token {
	var toks []token
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '~' || r == '¬' || r == '!':
			toks = append(toks, token{tokNot, "!", i})
			i++
		case r == '&':
			toks = append(toks, token{tokAnd, "&&", i})
			i++
			if i < len(runes) && runes[i] == '&' {
				i++
			}
		case r == '|':
			toks = append(toks, token{tokOr, "||", i})
			i++
			if i < len(runes) && runes[i] == '|' {
				i++
			}
		case r == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			i++
		default:
			start := i
			for i < len(runes) && !isDelimiter(runes[i]) {
				i++
			}
			toks = append(toks, token{tokName, string(runes[start:i]), start})
		}
	}
	return toks
}

func isDelimiter(r rune) bool {
	switch r {
	case '~', '¬', '!', '&', '|', '(', ')', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
