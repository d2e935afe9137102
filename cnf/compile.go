package cnf

import (
	"github.com/cockroachdb/errors"

	"github.com/qbflab/gopherqbf/formula"
)

// Mode selects the CNF construction strategy.
type Mode int

const (
	// Distribute applies the textbook distributive expansion. The clause
	// count of a disjunction is the product of its operands' clause
	// counts, so the output can grow exponentially on nested
	// disjunctions of conjunctions. It is the default because it keeps
	// the clause set logically equivalent to the input, with no
	// auxiliary variables.
	Distribute Mode = iota
	// Tseitin introduces auxiliary variables for conjunctions under a
	// disjunction, keeping the output linear in the input size. The
	// result is equisatisfiable, not equivalent; auxiliaries must be
	// existentially quantified innermost.
	Tseitin
)

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "distribute":
		return Distribute, nil
	case "tseitin":
		return Tseitin, nil
	}
	return Distribute, errors.Newf("unknown CNF mode %q", s)
}

// Compile transforms the AST into CNF over the variable indices of vars.
// With Mode Distribute the result is logically equivalent to f; with
// Tseitin it is equisatisfiable and vars grows by the auxiliaries.
//
// A node kind outside {Lit, Not, And, Or} is a compiler bug and fails
// loudly; it is never masked with a placeholder clause, which would
// silently corrupt the satisfiability answer.
func Compile(f formula.Formula, vars *VarMap, mode Mode) (CNF, error) {
	c := &compiler{vars: vars}
	switch mode {
	case Distribute:
		return c.distribute(f)
	case Tseitin:
		nf, err := c.nnf(f, false)
		if err != nil {
			return nil, err
		}
		return c.tseitin(nf)
	}
	return nil, errors.AssertionFailedf("unknown CNF mode %d", mode)
}

type compiler struct {
	vars *VarMap
}

func (c *compiler) lit(name string, negated bool) (Literal, error) {
	idx, ok := c.vars.Index(name)
	if !ok {
		// The parser only accepts declared leaves, so this is a
		// pipeline bug, not a formula-input error.
		return 0, errors.AssertionFailedf("variable %q missing from the compile-time map", name)
	}
	if negated {
		return Literal(-idx), nil
	}
	return Literal(idx), nil
}

// distribute implements the direct AND-of-ORs construction:
//
//	lit        -> {{+v}}
//	!lit       -> {{-v}}
//	!!x        -> distribute(x)
//	!(a && b)  -> distribute(!a || !b)
//	!(a || b)  -> distribute(!a && !b)
//	a && b     -> clauses(a) ++ clauses(b)
//	a || b     -> {c1 ∪ c2 : c1 ∈ clauses(a), c2 ∈ clauses(b)}
func (c *compiler) distribute(f formula.Formula) (CNF, error) {
	switch f := f.(type) {
	case formula.Lit:
		l, err := c.lit(f.Name, false)
		if err != nil {
			return nil, err
		}
		return CNF{{l}}, nil
	case formula.Not:
		switch x := f.X.(type) {
		case formula.Lit:
			l, err := c.lit(x.Name, true)
			if err != nil {
				return nil, err
			}
			return CNF{{l}}, nil
		case formula.Not:
			return c.distribute(x.X)
		case formula.And:
			return c.distribute(formula.Disj(formula.Negation(x.L), formula.Negation(x.R)))
		case formula.Or:
			return c.distribute(formula.Conj(formula.Negation(x.L), formula.Negation(x.R)))
		default:
			return nil, errors.AssertionFailedf("CNF compiler saw negation of unknown node %T", f.X)
		}
	case formula.And:
		left, err := c.distribute(f.L)
		if err != nil {
			return nil, err
		}
		right, err := c.distribute(f.R)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case formula.Or:
		left, err := c.distribute(f.L)
		if err != nil {
			return nil, err
		}
		right, err := c.distribute(f.R)
		if err != nil {
			return nil, err
		}
		res := make(CNF, 0, len(left)*len(right))
		for _, c1 := range left {
			for _, c2 := range right {
				clause := make(Clause, 0, len(c1)+len(c2))
				clause = append(clause, c1...)
				clause = append(clause, c2...)
				res = append(res, clause)
			}
		}
		return res, nil
	default:
		return nil, errors.AssertionFailedf("CNF compiler saw unknown node %T", f)
	}
}

// nnf pushes negations down to the leaves, eliminating double negations
// on the way. The result only negates literals.
func (c *compiler) nnf(f formula.Formula, negated bool) (formula.Formula, error) {
	switch f := f.(type) {
	case formula.Lit:
		if negated {
			return formula.Negation(f), nil
		}
		return f, nil
	case formula.Not:
		return c.nnf(f.X, !negated)
	case formula.And:
		l, err := c.nnf(f.L, negated)
		if err != nil {
			return nil, err
		}
		r, err := c.nnf(f.R, negated)
		if err != nil {
			return nil, err
		}
		if negated {
			return formula.Disj(l, r), nil
		}
		return formula.Conj(l, r), nil
	case formula.Or:
		l, err := c.nnf(f.L, negated)
		if err != nil {
			return nil, err
		}
		r, err := c.nnf(f.R, negated)
		if err != nil {
			return nil, err
		}
		if negated {
			return formula.Conj(l, r), nil
		}
		return formula.Disj(l, r), nil
	default:
		return nil, errors.AssertionFailedf("NNF rewrite saw unknown node %T", f)
	}
}

// tseitin compiles an NNF formula, introducing an auxiliary variable for
// each conjunction found under a disjunction.
func (c *compiler) tseitin(f formula.Formula) (CNF, error) {
	switch f := f.(type) {
	case formula.Lit, formula.Not:
		return c.nnfLeaf(f)
	case formula.And:
		left, err := c.tseitin(f.L)
		if err != nil {
			return nil, err
		}
		right, err := c.tseitin(f.R)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case formula.Or:
		var res CNF
		var lits Clause
		for _, sub := range flattenOr(f) {
			switch sub := sub.(type) {
			case formula.Lit, formula.Not:
				leaf, err := c.nnfLeaf(sub)
				if err != nil {
					return nil, err
				}
				lits = append(lits, leaf[0][0])
			case formula.And:
				d := Literal(c.vars.aux())
				lits = append(lits, d)
				for _, conjunct := range flattenAnd(sub) {
					sub, err := c.tseitin(conjunct)
					if err != nil {
						return nil, err
					}
					sub[0] = append(sub[0], -d)
					res = append(res, sub...)
				}
			default:
				return nil, errors.AssertionFailedf("Tseitin rewrite saw unknown node %T", sub)
			}
		}
		// The defining disjunction comes first: a caller guarding this
		// subformula with its own auxiliary negates into clause 0, which
		// must be the head clause, not one of the inner implications.
		return append(CNF{lits}, res...), nil
	default:
		return nil, errors.AssertionFailedf("Tseitin rewrite saw unknown node %T", f)
	}
}

// nnfLeaf compiles a literal or a negated literal. Anything else under a
// negation means the input was not in NNF.
func (c *compiler) nnfLeaf(f formula.Formula) (CNF, error) {
	switch f := f.(type) {
	case formula.Lit:
		l, err := c.lit(f.Name, false)
		if err != nil {
			return nil, err
		}
		return CNF{{l}}, nil
	case formula.Not:
		x, ok := f.X.(formula.Lit)
		if !ok {
			return nil, errors.AssertionFailedf("negation of %T in NNF formula", f.X)
		}
		l, err := c.lit(x.Name, true)
		if err != nil {
			return nil, err
		}
		return CNF{{l}}, nil
	}
	return nil, errors.AssertionFailedf("not an NNF leaf: %T", f)
}

func flattenOr(f formula.Formula) []formula.Formula {
	if o, ok := f.(formula.Or); ok {
		return append(flattenOr(o.L), flattenOr(o.R)...)
	}
	return []formula.Formula{f}
}

func flattenAnd(f formula.Formula) []formula.Formula {
	if a, ok := f.(formula.And); ok {
		return append(flattenAnd(a.L), flattenAnd(a.R)...)
	}
	return []formula.Formula{f}
}
