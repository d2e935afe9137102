// Package nl parses the labeled reply of the natural-language assistant
// into a problem record. The assistant itself is an external
// collaborator; the only contract here is "parse whatever comes back".
package nl

import (
	"strings"

	"github.com/qbflab/gopherqbf/qbf"
	"github.com/qbflab/gopherqbf/qdimacs"
)

// ParseResponse extracts the "Formula:", "Variables:" and "Quantifiers:"
// labeled lines from an assistant reply. Missing or malformed labels fall
// back to the single-variable existential problem "p" — a deliberate,
// documented weakness of the consumed interface, not of the compiler.
func ParseResponse(text, description string) qbf.Problem {
	p := qbf.Problem{
		Formula:     "p",
		Variables:   []string{"p"},
		Quantifiers: qdimacs.Prefix{{Kind: qdimacs.Exists, Var: "p"}},
		Description: description,
	}
	sawQuantifiers := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Formula:"):
			if f := strings.TrimSpace(strings.TrimPrefix(line, "Formula:")); f != "" {
				p.Formula = f
			}
		case strings.HasPrefix(line, "Variables:"):
			if vars := splitList(strings.TrimPrefix(line, "Variables:")); len(vars) > 0 {
				p.Variables = vars
			}
		case strings.HasPrefix(line, "Quantifiers:"):
			sawQuantifiers = true
			p.Quantifiers = ParseQuantifierList(strings.TrimPrefix(line, "Quantifiers:"))
		}
	}
	if len(p.Quantifiers) == 0 {
		// A reply that names variables but no usable quantifiers gets
		// the outermost one universally bound, like the reference
		// assistant contract.
		kind := qdimacs.Exists
		if sawQuantifiers {
			kind = qdimacs.Forall
		}
		p.Quantifiers = qdimacs.Prefix{{Kind: kind, Var: p.Variables[0]}}
	}
	return p
}

func splitList(s string) []string {
	var res []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}

// ParseQuantifierList reads an ordered, comma-separated quantifier list
// such as "exists p, forall q". Entries naming neither quantifier are
// dropped.
func ParseQuantifierList(s string) qdimacs.Prefix {
	var prefix qdimacs.Prefix
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		switch {
		case strings.Contains(part, "exists"):
			if v := strings.TrimSpace(strings.Replace(part, "exists", "", 1)); v != "" {
				prefix = append(prefix, qdimacs.Quantified{Kind: qdimacs.Exists, Var: v})
			}
		case strings.Contains(part, "forall"):
			if v := strings.TrimSpace(strings.Replace(part, "forall", "", 1)); v != "" {
				prefix = append(prefix, qdimacs.Quantified{Kind: qdimacs.Forall, Var: v})
			}
		}
	}
	return prefix
}
