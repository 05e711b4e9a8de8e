// Package tsubst builds a typing substitution from a list of convertibility
// constraints (C3 of the design, spec.md §4.3).
package tsubst

import (
	"github.com/lambdapi-go/rwcore/internal/basics"
	"github.com/lambdapi-go/rwcore/internal/term"
)

// Injective reports whether a *term.Sym head is a declared-injective
// symbol. Kept as a function value rather than a method on term.Symbol so
// the oracle's notion of injectivity (which may consult more than the
// symbol's own Tag, e.g. a builtin whitelist) can be substituted.
type Injective func(*term.Symbol) bool

// BuildSubst decomposes constraints in input order, maintaining the
// accumulator described by spec.md §4.3:
//
//  1. decompose both sides into head and arguments;
//  2. if the heads are the same declared-injective symbol and arities
//     match, recurse pointwise instead of recording anything for this
//     constraint;
//  3. otherwise, a side that is a bare variable (no arguments) records a
//     mapping to the other side;
//  4. otherwise the constraint is dropped, left for the unifier.
//
// The result is two parallel arrays to be applied as one simultaneous
// substitution — xs[i] ↦ ts[i] — never sequentially, so an occurrence of
// xs[i] inside any ts[j] is left untouched by the substitution itself.
func BuildSubst(injective Injective, constraints []term.Constraint) ([]term.Var, []term.Term) {
	var xs []term.Var
	var ts []term.Term

	var process func(c term.Constraint)
	process = func(c term.Constraint) {
		ha, argsA := basics.HeadAndArgs(c.A)
		hb, argsB := basics.HeadAndArgs(c.B)

		symA, okA := ha.(*term.Sym)
		symB, okB := hb.(*term.Sym)
		if okA && okB && symA.Symbol == symB.Symbol && injective(symA.Symbol) && len(argsA) == len(argsB) {
			for i := range argsA {
				process(term.Constraint{A: argsA[i], B: argsB[i]})
			}
			return
		}

		if v, ok := ha.(term.Var); ok && len(argsA) == 0 {
			xs = append(xs, v)
			ts = append(ts, c.B)
			return
		}
		if v, ok := hb.(term.Var); ok && len(argsB) == 0 {
			xs = append(xs, v)
			ts = append(ts, c.A)
			return
		}
		// Neither side decomposes further: leave it for the unifier.
	}

	for _, c := range constraints {
		process(c)
	}
	// Recorded mappings are accumulated in reverse: the last one recorded
	// comes first in the returned arrays.
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
		ts[i], ts[j] = ts[j], ts[i]
	}
	return xs, ts
}

// Apply applies the (xs, ts) substitution produced by BuildSubst to t,
// simultaneously.
func Apply(xs []term.Var, ts []term.Term, t term.Term) term.Term {
	return term.SubstSimultaneous(xs, ts, t)
}
