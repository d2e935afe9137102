// Package qbf defines the quantified boolean formula problem record and
// the compilation pipeline shared by the solving back-ends.
package qbf

import (
	"fmt"

	"github.com/qbflab/gopherqbf/cnf"
	"github.com/qbflab/gopherqbf/formula"
	"github.com/qbflab/gopherqbf/qdimacs"
)

// A Problem is one satisfiability question: a propositional matrix in
// surface syntax, the declared variable list and the ordered quantifier
// prefix binding it.
type Problem struct {
	Formula     string
	Variables   []string
	Quantifiers qdimacs.Prefix
	Description string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s over %v", p.Formula, p.Variables)
}

// Compile runs the front half of the pipeline: normalize, parse, compile
// to CNF and encode the quantifier prefix. The variable map it creates is
// local to this call; concurrent compilations share nothing.
func (p Problem) Compile(mode cnf.Mode) (*qdimacs.Instance, error) {
	ast, err := formula.Parse(p.Formula, p.Variables)
	if err != nil {
		return nil, err
	}
	vars, err := cnf.NewVarMap(p.Variables)
	if err != nil {
		return nil, err
	}
	clauses, err := cnf.Compile(ast, vars, mode)
	if err != nil {
		return nil, err
	}
	return qdimacs.NewInstance(p.Quantifiers, vars, clauses)
}

// Annotated renders the problem as a quantifier-annotated formula string
// for the bridge back-end, wrapping the canonical surface syntax with
// nested prefixes in prefix order:
//
//	forall x: (exists y: ((x || !y)))
//
// The matrix is parsed first so that malformed input surfaces as a
// ParseError here instead of as an opaque bridge failure.
func (p Problem) Annotated() (string, error) {
	ast, err := formula.Parse(p.Formula, p.Variables)
	if err != nil {
		return "", err
	}
	if err := p.checkPrefix(ast); err != nil {
		return "", err
	}
	s := ast.Infix()
	for i := len(p.Quantifiers) - 1; i >= 0; i-- {
		q := p.Quantifiers[i]
		s = fmt.Sprintf("%s %s: (%s)", q.Kind, q.Var, s)
	}
	return s, nil
}

// checkPrefix enforces the prefix invariants for the path that skips the
// QDIMACS encoder: no variable bound twice, no used variable unbound.
func (p Problem) checkPrefix(ast formula.Formula) error {
	bound := make(map[string]bool, len(p.Quantifiers))
	for _, q := range p.Quantifiers {
		if bound[q.Var] {
			return &qdimacs.DuplicateQuantifierError{Var: q.Var}
		}
		bound[q.Var] = true
	}
	for name := range formula.Vars(ast) {
		if !bound[name] {
			return &qdimacs.UnquantifiedVariableError{Var: name}
		}
	}
	return nil
}
