// Package cnf compiles a propositional AST into conjunctive normal form:
// an ordered list of clauses, each clause a disjunction of signed integer
// literals.
package cnf

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// A Literal is a signed variable index. The sign encodes negation, the
// magnitude is the index of a variable in the VarMap. Zero is never a
// valid literal.
type Literal int

// A Clause is a disjunction of literals. Order of insertion is preserved
// so that serialized output is deterministic.
type Clause []Literal

// A CNF is a conjunction of clauses. An empty clause inside it denotes a
// contradiction.
type CNF []Clause

// Eval evaluates the CNF under the given assignment, indexed by variable
// index. A clause with no literals is false; an empty CNF is true.
func (c CNF) Eval(model map[int]bool) bool {
	for _, clause := range c {
		sat := false
		for _, lit := range clause {
			v := model[clauseVar(lit)]
			if lit < 0 {
				v = !v
			}
			if v {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}

func clauseVar(lit Literal) int {
	if lit < 0 {
		return int(-lit)
	}
	return int(lit)
}

// A VarMap is the bijection between variable names and their 1-based
// integer indices. Declared variables get the first indices, in
// declaration order; auxiliary variables created by the Tseitin encoding
// come after them. A VarMap is local to one compilation and is never
// shared between concurrent compilations.
type VarMap struct {
	indices  map[string]int
	names    []string
	declared int
}

// NewVarMap builds the map for the given declared variable list.
// Duplicate names break the bijection and are rejected.
func NewVarMap(declared []string) (*VarMap, error) {
	m := &VarMap{indices: make(map[string]int, len(declared))}
	for _, name := range declared {
		if _, ok := m.indices[name]; ok {
			return nil, errors.Newf("variable %q declared twice", name)
		}
		m.names = append(m.names, name)
		m.indices[name] = len(m.names)
	}
	m.declared = len(m.names)
	return m, nil
}

// Index returns the index of the given variable name.
func (m *VarMap) Index(name string) (int, bool) {
	idx, ok := m.indices[name]
	return idx, ok
}

// Name returns the name associated with the given index.
func (m *VarMap) Name(idx int) string {
	return m.names[idx-1]
}

// Len returns the total number of variables, auxiliaries included.
func (m *VarMap) Len() int { return len(m.names) }

// Declared returns the number of declared (non-auxiliary) variables.
// Indices above it belong to Tseitin auxiliaries.
func (m *VarMap) Declared() int { return m.declared }

// aux creates a fresh auxiliary variable and returns its index.
func (m *VarMap) aux() int {
	name := fmt.Sprintf("aux-%d", len(m.names)+1)
	m.names = append(m.names, name)
	m.indices[name] = len(m.names)
	return len(m.names)
}
