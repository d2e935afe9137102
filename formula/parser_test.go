package formula

import (
	"testing"

	"github.com/cockroachdb/errors"
)

var declared = []string{"a", "b", "c", "x", "y", "z"}

// To each expression, associate its expected AST representation.
var exprToFormula = map[string]string{
	"x":             "x",
	"!x":            "not(x)",
	"!!x":           "not(not(x))",
	"(x)":           "x",
	"x && y":        "and(x, y)",
	"x || y":        "or(x, y)",
	"x || !x":       "or(x, not(x))",
	"a && b && c":   "and(and(a, b), c)",
	"a || b || c":   "or(or(a, b), c)",
	"!(x && y)":     "not(and(x, y))",
	"(x || y) && z": "and(or(x, y), z)",
	"x && (y || z)": "and(x, or(y, z))",
	// Precedence: AND binds tighter than OR, with no parentheses.
	"a && b || c":  "or(and(a, b), c)",
	"a || b && c":  "or(a, and(b, c))",
	"!a && b || c": "or(and(not(a), b), c)",
	// Raw surface syntaxes are normalized before parsing.
	"a & ~b | c":       "or(and(a, not(b)), c)",
	"(x&&!y)||(!x&&y)": "or(and(x, not(y)), and(not(x), y))",
	"¬x | ¬y":          "or(not(x), not(y))",
}

func TestParse(t *testing.T) {
	for expr, expected := range exprToFormula {
		f, err := Parse(expr, declared)
		if err != nil {
			t.Errorf("could not parse expression %q: %v", expr, err)
		} else if f.String() != expected {
			t.Errorf("for expression %q, expected formula %q, got %q", expr, expected, f.String())
		}
	}
}

var badExprs = []string{
	"",
	"((x || y", // unbalanced parentheses
	"x || y)",  // unbalanced the other way
	"x &&",     // dangling operator
	"&& x",     // leading operator
	"x y",      // adjacent leaves
	"x || w",   // undeclared variable
	"x $ y",    // unknown token
	"()",       // empty group
	"!",        // negation of nothing
}

func TestParseErrors(t *testing.T) {
	for _, expr := range badExprs {
		f, err := Parse(expr, declared)
		if err == nil {
			t.Errorf("expression %q parsed to %q, expected an error", expr, f.String())
			continue
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("expression %q: error %v is not a ParseError", expr, err)
		}
	}
}

func TestInfix(t *testing.T) {
	cases := map[string]string{
		"x || !x":       "(x || !x)",
		"x && !y || !x": "((x && !y) || !x)",
		"!(x && y)":     "!((x && y))",
		"x":             "x",
	}
	for expr, expected := range cases {
		f, err := Parse(expr, declared)
		if err != nil {
			t.Fatalf("could not parse %q: %v", expr, err)
		}
		if got := f.Infix(); got != expected {
			t.Errorf("for %q, expected surface form %q, got %q", expr, expected, got)
		}
	}
}

func TestEval(t *testing.T) {
	f, err := Parse("(x && !y) || (!x && y)", declared)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		x, y, want bool
	}{
		{false, false, false},
		{false, true, true},
		{true, false, true},
		{true, true, false},
	}
	for _, c := range cases {
		if got := f.Eval(map[string]bool{"x": c.x, "y": c.y}); got != c.want {
			t.Errorf("xor(%t, %t): expected %t, got %t", c.x, c.y, c.want, got)
		}
	}
}
