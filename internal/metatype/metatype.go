// Package metatype builds the canonical "most general" type schema for a
// freshly introduced pattern-variable metavariable of given arity (C4 of the
// design, spec.md §4.2).
package metatype

import "github.com/lambdapi-go/rwcore/internal/term"

type param struct {
	name string
	dom  term.Term
}

// Build returns the closed term ∀(x1:A1)…(xk:Ak), A_{k+1} in which each Ai
// is a fresh metavariable applied to x1,…,x_{i-1}, and each of those
// metavariables itself has type ∀(x1:A1)…(x_{i-1}:A_{i-1}), TYPE. All
// introduced metavariables are uninstantiated, pairwise distinct, and their
// types reference only earlier ones.
func Build(k int) term.Term {
	params := make([]param, 0, k)
	var final term.Term
	for i := 0; i <= k; i++ {
		mType := prodChain(params, term.TypeSort{})
		mv := term.NewMetaVar(i, mType, "")
		env := make([]term.Term, i)
		for j, p := range params {
			env[j] = term.Var{Name: p.name}
		}
		ai := &term.Meta{M: mv, Env: env}
		if i < k {
			params = append(params, param{name: term.FreshName("x"), dom: ai})
			continue
		}
		final = ai
	}
	return prodChain(params, final)
}

// prodChain builds ∀(x1:A1)…(xn:An), codomain from the given parameters,
// outermost-first.
func prodChain(params []param, codomain term.Term) term.Term {
	result := codomain
	for i := len(params) - 1; i >= 0; i-- {
		result = &term.Prod{Dom: params[i].dom, VarName: params[i].name, Body: result}
	}
	return result
}
