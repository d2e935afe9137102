package qbf

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qbflab/gopherqbf/cnf"
	"github.com/qbflab/gopherqbf/formula"
	"github.com/qbflab/gopherqbf/qdimacs"
)

// truth decides the problem by naive quantifier expansion over the AST.
// It is the test oracle; the product never decides satisfiability itself.
func truth(t *testing.T, p Problem) bool {
	t.Helper()
	ast, err := formula.Parse(p.Formula, p.Variables)
	require.NoError(t, err)
	return expand(ast, p.Quantifiers, map[string]bool{})
}

func expand(ast formula.Formula, prefix qdimacs.Prefix, model map[string]bool) bool {
	if len(prefix) == 0 {
		return ast.Eval(model)
	}
	q, rest := prefix[0], prefix[1:]
	model[q.Var] = false
	withFalse := expand(ast, rest, model)
	model[q.Var] = true
	withTrue := expand(ast, rest, model)
	delete(model, q.Var)
	if q.Kind == qdimacs.Forall {
		return withFalse && withTrue
	}
	return withFalse || withTrue
}

func TestScenarioTruths(t *testing.T) {
	cases := []struct {
		name string
		p    Problem
		want bool
	}{
		{
			name: "tautology under forall",
			p: Problem{
				Formula:     "x || !x",
				Variables:   []string{"x"},
				Quantifiers: qdimacs.Prefix{{Kind: qdimacs.Forall, Var: "x"}},
			},
			want: true,
		},
		{
			name: "contradiction under forall",
			p: Problem{
				Formula:     "x && !x",
				Variables:   []string{"x"},
				Quantifiers: qdimacs.Prefix{{Kind: qdimacs.Forall, Var: "x"}},
			},
			want: false,
		},
		{
			name: "exists then forall",
			p: Problem{
				Formula:   "x || y",
				Variables: []string{"x", "y"},
				Quantifiers: qdimacs.Prefix{
					{Kind: qdimacs.Exists, Var: "x"},
					{Kind: qdimacs.Forall, Var: "y"},
				},
			},
			want: true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, truth(t, c.p))
			// The compiled instance must agree with the AST oracle
			// clause by clause: expansion over the CNF gives the
			// same verdict.
			inst, err := c.p.Compile(cnf.Distribute)
			require.NoError(t, err)
			assert.Equal(t, c.want, expandCNF(inst.Clauses, flatten(inst.Blocks), map[int]bool{}))
		})
	}
}

type boundVar struct {
	kind qdimacs.Kind
	idx  int
}

func flatten(blocks []qdimacs.Block) []boundVar {
	var res []boundVar
	for _, b := range blocks {
		for _, v := range b.Vars {
			res = append(res, boundVar{kind: b.Kind, idx: v})
		}
	}
	return res
}

func expandCNF(clauses cnf.CNF, vars []boundVar, model map[int]bool) bool {
	if len(vars) == 0 {
		return clauses.Eval(model)
	}
	v, rest := vars[0], vars[1:]
	model[v.idx] = false
	withFalse := expandCNF(clauses, rest, model)
	model[v.idx] = true
	withTrue := expandCNF(clauses, rest, model)
	delete(model, v.idx)
	if v.kind == qdimacs.Forall {
		return withFalse && withTrue
	}
	return withFalse || withTrue
}

func TestCompileMalformedFormula(t *testing.T) {
	p := Problem{
		Formula:     "((x || y",
		Variables:   []string{"x", "y"},
		Quantifiers: qdimacs.Prefix{{Kind: qdimacs.Forall, Var: "x"}, {Kind: qdimacs.Forall, Var: "y"}},
	}
	_, err := p.Compile(cnf.Distribute)
	var parseErr *formula.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestCompileTseitinQuantifiesAuxiliaries(t *testing.T) {
	p := Problem{
		Formula:   "(x && y) || (!x && z)",
		Variables: []string{"x", "y", "z"},
		Quantifiers: qdimacs.Prefix{
			{Kind: qdimacs.Forall, Var: "x"},
			{Kind: qdimacs.Exists, Var: "y"},
			{Kind: qdimacs.Exists, Var: "z"},
		},
	}
	inst, err := p.Compile(cnf.Tseitin)
	require.NoError(t, err)
	assert.Equal(t, 5, inst.NumVars, "three declared plus two auxiliaries")
	// Auxiliaries join the trailing existential block.
	last := inst.Blocks[len(inst.Blocks)-1]
	assert.Equal(t, qdimacs.Exists, last.Kind)
	assert.Equal(t, []int{2, 3, 4, 5}, last.Vars)
}

func TestAnnotated(t *testing.T) {
	p := Problem{
		Formula:     "x || !x",
		Variables:   []string{"x"},
		Quantifiers: qdimacs.Prefix{{Kind: qdimacs.Forall, Var: "x"}},
	}
	s, err := p.Annotated()
	require.NoError(t, err)
	assert.Equal(t, "forall x: ((x || !x))", s)

	p = Problem{
		Formula:   "x || y",
		Variables: []string{"x", "y"},
		Quantifiers: qdimacs.Prefix{
			{Kind: qdimacs.Exists, Var: "x"},
			{Kind: qdimacs.Forall, Var: "y"},
		},
	}
	s, err = p.Annotated()
	require.NoError(t, err)
	assert.Equal(t, "exists x: (forall y: ((x || y)))", s)
}

func TestAnnotatedChecksPrefix(t *testing.T) {
	p := Problem{
		Formula:   "x && y",
		Variables: []string{"x", "y"},
		Quantifiers: qdimacs.Prefix{
			{Kind: qdimacs.Forall, Var: "x"},
			{Kind: qdimacs.Forall, Var: "x"},
		},
	}
	_, err := p.Annotated()
	var dup *qdimacs.DuplicateQuantifierError
	require.ErrorAs(t, err, &dup)

	p.Quantifiers = qdimacs.Prefix{{Kind: qdimacs.Forall, Var: "x"}}
	_, err = p.Annotated()
	var unq *qdimacs.UnquantifiedVariableError
	require.ErrorAs(t, err, &unq)
	assert.Equal(t, "y", unq.Var)

	p.Formula = "x || ("
	_, err = p.Annotated()
	assert.True(t, errors.HasType(err, (*formula.ParseError)(nil)))
}
