package qdimacs

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/qbflab/gopherqbf/cnf"
)

// An Instance is one fully encoded QBF, ready to be written out. It is
// built once per evaluation, serialized to a transient file and discarded
// once the solver has read it.
type Instance struct {
	NumVars    int
	NumClauses int
	Blocks     []Block
	Clauses    cnf.CNF
}

// NewInstance encodes the prefix and clause set into an Instance.
func NewInstance(prefix Prefix, vars *cnf.VarMap, clauses cnf.CNF) (*Instance, error) {
	blocks, err := Blocks(prefix, vars, clauses)
	if err != nil {
		return nil, err
	}
	return &Instance{
		NumVars:    vars.Len(),
		NumClauses: len(clauses),
		Blocks:     blocks,
		Clauses:    clauses,
	}, nil
}

// Write emits the instance in QDIMACS: the "p cnf <vars> <clauses>"
// header, one line per quantifier block ("e" or "a" marker, variable
// indices, sentinel 0) and one line per clause (literals in insertion
// order, sentinel 0). Output bytes are identical for identical input;
// nothing here depends on map iteration order.
func (inst *Instance) Write(w io.Writer) error {
	header := "p cnf " + strconv.Itoa(inst.NumVars) + " " + strconv.Itoa(inst.NumClauses) + "\n"
	if _, err := io.WriteString(w, header); err != nil {
		return errors.Wrap(err, "could not write QDIMACS output")
	}
	for _, b := range inst.Blocks {
		fields := make([]string, 0, len(b.Vars)+2)
		fields = append(fields, b.Kind.Marker())
		for _, v := range b.Vars {
			fields = append(fields, strconv.Itoa(v))
		}
		fields = append(fields, "0")
		if _, err := io.WriteString(w, strings.Join(fields, " ")+"\n"); err != nil {
			return errors.Wrap(err, "could not write QDIMACS output")
		}
	}
	for _, clause := range inst.Clauses {
		fields := make([]string, 0, len(clause)+1)
		for _, lit := range clause {
			fields = append(fields, strconv.Itoa(int(lit)))
		}
		fields = append(fields, "0")
		if _, err := io.WriteString(w, strings.Join(fields, " ")+"\n"); err != nil {
			return errors.Wrap(err, "could not write QDIMACS output")
		}
	}
	return nil
}

// Bytes returns the serialized instance.
func (inst *Instance) Bytes() []byte {
	var buf bytes.Buffer
	inst.Write(&buf) // cannot fail on a bytes.Buffer
	return buf.Bytes()
}
