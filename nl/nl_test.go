package nl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qbflab/gopherqbf/qdimacs"
)

func TestParseResponse(t *testing.T) {
	reply := `Here is the conversion you asked for:
Formula: s & ~s
Variables: s
Quantifiers: forall s
Hope that helps!`
	p := ParseResponse(reply, "every student passes or fails")
	assert.Equal(t, "s & ~s", p.Formula)
	assert.Equal(t, []string{"s"}, p.Variables)
	assert.Equal(t, qdimacs.Prefix{{Kind: qdimacs.Forall, Var: "s"}}, p.Quantifiers)
	assert.Equal(t, "every student passes or fails", p.Description)
}

func TestParseResponseMultipleQuantifiers(t *testing.T) {
	reply := `Formula: (p && q) || r
Variables: p, q, r
Quantifiers: exists p, forall q, exists r`
	p := ParseResponse(reply, "")
	assert.Equal(t, []string{"p", "q", "r"}, p.Variables)
	assert.Equal(t, qdimacs.Prefix{
		{Kind: qdimacs.Exists, Var: "p"},
		{Kind: qdimacs.Forall, Var: "q"},
		{Kind: qdimacs.Exists, Var: "r"},
	}, p.Quantifiers)
}

// Missing or malformed labels fall back to the single-variable
// existential problem instead of failing the call.
func TestParseResponseFallbacks(t *testing.T) {
	p := ParseResponse("I could not produce a formula, sorry.", "")
	assert.Equal(t, "p", p.Formula)
	assert.Equal(t, []string{"p"}, p.Variables)
	assert.Equal(t, qdimacs.Prefix{{Kind: qdimacs.Exists, Var: "p"}}, p.Quantifiers)

	// A quantifier line that names no usable quantifier binds the first
	// variable universally.
	p = ParseResponse("Formula: q\nVariables: q\nQuantifiers: all of them", "")
	assert.Equal(t, qdimacs.Prefix{{Kind: qdimacs.Forall, Var: "q"}}, p.Quantifiers)
}

func TestParseQuantifierList(t *testing.T) {
	prefix := ParseQuantifierList("forall x,  exists  y , nonsense, forall z")
	assert.Equal(t, qdimacs.Prefix{
		{Kind: qdimacs.Forall, Var: "x"},
		{Kind: qdimacs.Exists, Var: "y"},
		{Kind: qdimacs.Forall, Var: "z"},
	}, prefix)
	assert.Empty(t, ParseQuantifierList(""))
}
