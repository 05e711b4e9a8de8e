package term

import (
	"fmt"
	"sync/atomic"
)

var freshCounter uint64

// FreshName returns a process-wide unique variable name with the given
// prefix. Used wherever a binder must be renamed to avoid capture, and by
// internal/metatype to name freshly introduced metavariable parameters.
func FreshName(prefix string) string {
	n := atomic.AddUint64(&freshCounter, 1)
	return fmt.Sprintf("%s%d", prefix, n)
}

// RhsBinder is a multi-variable binder: an array of pattern-variable slot
// names and a body referencing them as ordinary Var nodes. Arity is
// len(Vars); Rule.RHS and TEnv's splicing both use this shape (spec.md §3).
type RhsBinder struct {
	Vars []string
	Body Term
}

// Arity is the number of bound pattern-variable slots.
func (b *RhsBinder) Arity() int { return len(b.Vars) }

// Instantiate substitutes args[i] for Vars[i] simultaneously (never
// sequentially: an occurrence of Vars[i] inside args[j] is left untouched,
// matching spec.md §4.3's simultaneous-substitution discipline) and returns
// the resulting closed-over term.
func (b *RhsBinder) Instantiate(args []Term) Term {
	if len(args) != len(b.Vars) {
		panic("term: RhsBinder arity mismatch")
	}
	sub := make(map[string]Term, len(b.Vars))
	for i, v := range b.Vars {
		sub[v] = args[i]
	}
	return Subst(sub, b.Body)
}
