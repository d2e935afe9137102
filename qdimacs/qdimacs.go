// Package qdimacs encodes a compiled matrix and its quantifier prefix in
// the QDIMACS wire format consumed by external QBF solvers.
package qdimacs

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/qbflab/gopherqbf/cnf"
)

// Kind is the kind of a quantifier.
type Kind int

const (
	Exists Kind = iota
	Forall
)

func (k Kind) String() string {
	if k == Forall {
		return "forall"
	}
	return "exists"
}

// Marker returns the one-character QDIMACS block marker.
func (k Kind) Marker() string {
	if k == Forall {
		return "a"
	}
	return "e"
}

// ParseKind maps the textual quantifier names to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "exists":
		return Exists, nil
	case "forall":
		return Forall, nil
	}
	return Exists, errors.Newf("unknown quantifier kind %q", s)
}

// A Quantified binds one variable with one quantifier.
type Quantified struct {
	Kind Kind
	Var  string
}

// A Prefix is the ordered quantifier sequence of a QBF, outermost first.
type Prefix []Quantified

// A Block groups consecutive same-kind quantifiers over their variable
// indices, in declaration order.
type Block struct {
	Kind Kind
	Vars []int
}

// DuplicateQuantifierError reports a variable bound twice in the prefix.
// The encoder fails instead of silently keeping either occurrence.
type DuplicateQuantifierError struct {
	Var string
}

func (e *DuplicateQuantifierError) Error() string {
	return fmt.Sprintf("variable %q is quantified twice", e.Var)
}

// UnquantifiedVariableError reports a variable used by a clause but
// missing from the prefix.
type UnquantifiedVariableError struct {
	Var string
}

func (e *UnquantifiedVariableError) Error() string {
	return fmt.Sprintf("variable %q is used but not quantified", e.Var)
}

// Blocks walks the prefix in its given order and merges consecutive
// entries of identical kind into one block. Relative order across a kind
// change is preserved, even when reordering would produce fewer blocks.
//
// Every declared variable used by a clause must appear in the prefix
// exactly once; quantified-but-unused variables are permitted. Tseitin
// auxiliaries, if any, are appended as an innermost existential block.
func Blocks(prefix Prefix, vars *cnf.VarMap, clauses cnf.CNF) ([]Block, error) {
	seen := make(map[string]bool, len(prefix))
	quantified := make(map[int]bool, len(prefix))
	var blocks []Block
	for _, q := range prefix {
		if seen[q.Var] {
			return nil, &DuplicateQuantifierError{Var: q.Var}
		}
		seen[q.Var] = true
		idx, ok := vars.Index(q.Var)
		if !ok {
			return nil, errors.Newf("quantified variable %q is not declared", q.Var)
		}
		quantified[idx] = true
		if n := len(blocks); n > 0 && blocks[n-1].Kind == q.Kind {
			blocks[n-1].Vars = append(blocks[n-1].Vars, idx)
		} else {
			blocks = append(blocks, Block{Kind: q.Kind, Vars: []int{idx}})
		}
	}
	var aux []int
	for idx := vars.Declared() + 1; idx <= vars.Len(); idx++ {
		aux = append(aux, idx)
	}
	for _, clause := range clauses {
		for _, lit := range clause {
			idx := int(lit)
			if idx < 0 {
				idx = -idx
			}
			if idx > vars.Declared() {
				continue // auxiliary, quantified below
			}
			if !quantified[idx] {
				return nil, &UnquantifiedVariableError{Var: vars.Name(idx)}
			}
		}
	}
	if len(aux) > 0 {
		if n := len(blocks); n > 0 && blocks[n-1].Kind == Exists {
			blocks[n-1].Vars = append(blocks[n-1].Vars, aux...)
		} else {
			blocks = append(blocks, Block{Kind: Exists, Vars: aux})
		}
	}
	return blocks, nil
}
