// Package oracle implements the trusted collaborators spec.md §6 leaves
// external: bidirectional type inference/checking, constraint solving,
// convertibility and injectivity. rulecheck (C5) treats Oracle as a black
// box; Reference is a working implementation so the rest of the module is
// independently testable, grounded on the teacher's unifier
// (internal/typesystem/unify.go's Bind/occurs-check/co-inductive cycle
// detection, generalized from Hindley-Milner Type to dependently-typed
// term.Term) and its bidirectional checker
// (internal/typesystem/kind_checker.go's infer/check-with-deferred-constraints
// shape).
package oracle

import "github.com/lambdapi-go/rwcore/internal/term"

// Oracle is the contract spec.md §6 describes for the external
// type-checking/convertibility collaborator.
type Oracle interface {
	// Infer synthesizes t's type under ctx, returning any constraints
	// accumulated along the way (e.g. from elaborating an application's
	// argument) and false if t has no synthesizable type.
	Infer(ctx Context, t term.Term) (ty term.Term, cs []term.Constraint, ok bool)
	// Check verifies t has type ty under ctx, possibly by inference plus a
	// deferred equality constraint rather than deciding immediately.
	Check(ctx Context, t, ty term.Term) []term.Constraint
	// Solve attempts to discharge constraints, instantiating metavariables
	// where that succeeds. It returns the residual (undischarged, but not
	// provably contradictory) constraints, and false if any constraint was
	// a provable contradiction.
	Solve(builtins Context, cs []term.Constraint) (residual []term.Constraint, ok bool)
	// EqModulo reports whether a and b are convertible (equal up to
	// reduction), the building block stage (h) of rulecheck needs.
	EqModulo(a, b term.Term) bool
	// IsInjective reports whether s's equations may be decomposed
	// argument-wise during constraint solving (tsubst's Injective).
	IsInjective(s *term.Symbol) bool
}
