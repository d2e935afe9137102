// Package formula deals with the propositional matrix of a quantified
// boolean formula: canonicalizing its surface syntax, parsing it into an
// abstract syntax tree and evaluating it under a given assignment.
package formula

import "fmt"

// A Formula is a propositional formula over named boolean variables.
// It is not necessarily in any normal form.
type Formula interface {
	// String returns a debug representation, e.g. "or(a, not(b))".
	String() string
	// Infix returns the canonical surface syntax, fully parenthesized,
	// e.g. "(a || !b)". It is what the bridge back-end consumes.
	Infix() string
	// Eval evaluates the formula under the given assignment.
	// It panics if the model lacks a binding for one of its variables.
	Eval(model map[string]bool) bool
}

// Lit is a variable occurrence.
type Lit struct {
	Name string
}

// Var generates a named boolean variable in a formula.
func Var(name string) Formula {
	return Lit{Name: name}
}

func (l Lit) String() string { return l.Name }

func (l Lit) Infix() string { return l.Name }

func (l Lit) Eval(model map[string]bool) bool {
	b, ok := model[l.Name]
	if !ok {
		panic(fmt.Errorf("model lacks binding for variable %s", l.Name))
	}
	return b
}

// Not is the negation of its subformula.
type Not struct {
	X Formula
}

// Negation negates the given subformula.
func Negation(f Formula) Formula {
	return Not{X: f}
}

func (n Not) String() string { return "not(" + n.X.String() + ")" }

func (n Not) Infix() string {
	if _, ok := n.X.(Lit); ok {
		return "!" + n.X.Infix()
	}
	return "!(" + n.X.Infix() + ")"
}

func (n Not) Eval(model map[string]bool) bool { return !n.X.Eval(model) }

// And is the conjunction of its two subformulas.
type And struct {
	L, R Formula
}

// Conj generates a conjunction of two subformulas.
func Conj(l, r Formula) Formula {
	return And{L: l, R: r}
}

func (a And) String() string { return "and(" + a.L.String() + ", " + a.R.String() + ")" }

func (a And) Infix() string { return "(" + a.L.Infix() + " && " + a.R.Infix() + ")" }

func (a And) Eval(model map[string]bool) bool { return a.L.Eval(model) && a.R.Eval(model) }

// Or is the disjunction of its two subformulas.
type Or struct {
	L, R Formula
}

// Disj generates a disjunction of two subformulas.
func Disj(l, r Formula) Formula {
	return Or{L: l, R: r}
}

func (o Or) String() string { return "or(" + o.L.String() + ", " + o.R.String() + ")" }

func (o Or) Infix() string { return "(" + o.L.Infix() + " || " + o.R.Infix() + ")" }

func (o Or) Eval(model map[string]bool) bool { return o.L.Eval(model) || o.R.Eval(model) }

// Vars returns the set of variable names occurring in f.
func Vars(f Formula) map[string]bool {
	res := make(map[string]bool)
	collectVars(f, res)
	return res
}

func collectVars(f Formula, res map[string]bool) {
	switch f := f.(type) {
	case Lit:
		res[f.Name] = true
	case Not:
		collectVars(f.X, res)
	case And:
		collectVars(f.L, res)
		collectVars(f.R, res)
	case Or:
		collectVars(f.L, res)
		collectVars(f.R, res)
	}
}
