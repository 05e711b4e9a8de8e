// Package rulecheck implements the subject-reduction checker (C5 of the
// design, spec.md §4.4): the nine-stage pipeline that decides whether a
// rewrite rule is accepted, accepted-with-warning, or rejected.
package rulecheck

import (
	"fmt"
	"strings"

	"github.com/lambdapi-go/rwcore/internal/basics"
	"github.com/lambdapi-go/rwcore/internal/diag"
	"github.com/lambdapi-go/rwcore/internal/metatype"
	"github.com/lambdapi-go/rwcore/internal/oracle"
	"github.com/lambdapi-go/rwcore/internal/term"
	"github.com/lambdapi-go/rwcore/internal/tsubst"
)

func toDiagPos(p term.Pos) diag.Pos {
	return diag.Pos{File: p.File, Line: p.Line, Column: p.Column}
}

// elaboratePatterns implements stage (a): replace every Patt in lhs by a
// fresh metavariable, sharing one metavariable per Some(i) index across
// occurrences and giving every None a metavariable of its own. k tracks
// the number of enclosing application nodes at the current occurrence, so
// build_meta_type sizes the metavariable's type schema to cover both its
// own environment and that nesting. Any Type/Kind/Prod/Meta/TEnv/Wild/TRef
// reachable from an LHS argument is a structural bug.
func elaboratePatterns(lhsArgs []term.Term, pos term.Pos) ([]term.Term, map[string]*term.MetaVar, map[string][]term.Term, *diag.Diagnostic) {
	metaByIdx := make(map[int]*term.MetaVar)
	envByIdx := make(map[int][]term.Term)
	nameByIdx := make(map[int]string)
	var bug *diag.Diagnostic

	var walk func(t term.Term, k int) term.Term
	walk = func(t term.Term, k int) term.Term {
		if bug != nil {
			return t
		}
		switch tt := t.(type) {
		case *term.Patt:
			arity := len(tt.Env)
			if tt.Index != nil {
				idx := *tt.Index
				if mv, ok := metaByIdx[idx]; ok {
					return &term.Meta{M: mv, Env: tt.Env}
				}
				mv := term.NewMetaVar(arity, metatype.Build(arity+k), tt.Name)
				metaByIdx[idx] = mv
				envByIdx[idx] = tt.Env
				nameByIdx[idx] = tt.Name
				return &term.Meta{M: mv, Env: tt.Env}
			}
			mv := term.NewMetaVar(arity, metatype.Build(arity+k), tt.Name)
			return &term.Meta{M: mv, Env: tt.Env}
		case *term.App:
			return &term.App{Fun: walk(tt.Fun, k+1), Arg: walk(tt.Arg, k+1)}
		case *term.Abs:
			return &term.Abs{Dom: walk(tt.Dom, k), VarName: tt.VarName, Body: walk(tt.Body, k)}
		case term.Var:
			return tt
		case *term.Sym:
			return tt
		default:
			bug = diag.New(toDiagPos(pos), diag.DisallowedLHSConstructor, fmt.Sprintf("%T", t))
			return t
		}
	}

	out := make([]term.Term, len(lhsArgs))
	for i, a := range lhsArgs {
		out[i] = walk(a, 0)
		if bug != nil {
			return nil, nil, nil, bug
		}
	}

	nameToMeta := make(map[string]*term.MetaVar, len(metaByIdx))
	nameToEnv := make(map[string][]term.Term, len(metaByIdx))
	for idx, mv := range metaByIdx {
		nameToMeta[nameByIdx[idx]] = mv
		nameToEnv[nameByIdx[idx]] = envByIdx[idx]
	}
	return out, nameToMeta, nameToEnv, nil
}

// CheckRule runs the full pipeline of spec.md §4.4 against one rule of sym,
// under the ambient builtins context and the given oracle. The caller must
// not have appended rule to sym.Rules yet (spec.md §5's happens-before
// ordering): AddRule only after Result.Accepted.
func CheckRule(builtins oracle.Context, o oracle.Oracle, sym *term.Symbol, rule *term.Rule) diag.Result {
	pos := toDiagPos(rule.Pos)

	// (a) Pattern -> metavariable rewriting.
	elaborated, nameToMeta, nameToEnv, bug := elaboratePatterns(rule.LHS, rule.Pos)
	if bug != nil {
		return diag.Reject(bug)
	}

	// (b) Reconstruct LHS.
	lhsTerm := basics.AddArgs(&term.Sym{Symbol: sym}, elaborated)

	// (c) Right-hand-side splicing. A name with no matching left-hand side
	// pattern slot can never be elaborated to a closed term (spec.md §4.4's
	// edge case: "a rule whose RHS uses a variable not introduced by the
	// LHS should be rejected ... as cannot instantiate all metavariables"),
	// so this is stage (i)'s rejection, reached slightly earlier than a
	// literal re-evaluation pass would reach it.
	args := make([]term.Term, len(rule.RHS.Vars))
	allowed := make(map[*term.MetaVar]bool, len(nameToMeta))
	for i, name := range rule.RHS.Vars {
		mv, ok := nameToMeta[name]
		if !ok {
			return diag.Reject(diag.New(pos, diag.CannotInstantiateMetas))
		}
		allowed[mv] = true
		args[i] = &term.Meta{M: mv, Env: nameToEnv[name]}
	}
	rhsTerm := rule.RHS.Instantiate(args)

	// (d) Infer.
	ty, cs, ok := o.Infer(builtins, lhsTerm)
	if !ok {
		return diag.Accept(diag.New(pos, diag.UntypableLHS))
	}

	// (e) Absorb.
	xs, ts := tsubst.BuildSubst(o.IsInjective, cs)
	rhsTerm = tsubst.Apply(xs, ts, rhsTerm)
	ty = tsubst.Apply(xs, ts, ty)

	// (f) Check.
	csPrime := o.Check(builtins, rhsTerm, ty)

	// (g) Solve.
	residual, solved := o.Solve(builtins, csPrime)
	if !solved {
		return diag.Reject(diag.New(pos, diag.DoesNotPreserveTyping))
	}

	// (h) Filter trivial residuals.
	genuine := filterTrivial(o, residual, cs)
	if len(genuine) > 0 {
		ds := make([]*diag.Diagnostic, 0, len(genuine)+1)
		for _, c := range genuine {
			ds = append(ds, diag.New(pos, diag.ResidualConstraintSummary, c.A.String(), c.B.String()))
		}
		ds = append(ds, diag.New(pos, diag.CannotSolveConstraints, summarize(genuine)))
		return diag.Reject(ds...)
	}

	// (i) Ground-ness. Every pattern-variable metavariable spliced into
	// rhsTerm in stage (c) is expected to stay uninstantiated here: the type
	// checker only ever constrains such a metavariable's *type* (stage d's
	// build_meta_type schema), never assigns it a value — that happens at
	// match time (internal/reduce), not rule-check time. So the real
	// ground-ness obligation isn't "no metavariables at all" but "no
	// metavariable other than one the left-hand side actually bound";
	// anything else could only have leaked in through a checker bug, since
	// neither tsubst.Apply nor the oracle ever substitutes a fresh
	// metavariable into rhsTerm's own structure.
	if stray := firstStrayMeta(rhsTerm, allowed); stray != nil {
		return diag.Reject(diag.New(pos, diag.CannotInstantiateMetas))
	}

	return diag.Accept()
}

// firstStrayMeta walks t the way basics.HasMetas does, returning the first
// Meta node whose metavariable is not in allowed (nil if none).
func firstStrayMeta(t term.Term, allowed map[*term.MetaVar]bool) *term.MetaVar {
	t = term.Unfold(t)
	switch tt := t.(type) {
	case *term.Meta:
		if !allowed[tt.M] {
			return tt.M
		}
		for _, e := range tt.Env {
			if mv := firstStrayMeta(e, allowed); mv != nil {
				return mv
			}
		}
		return nil
	case *term.App:
		if mv := firstStrayMeta(tt.Fun, allowed); mv != nil {
			return mv
		}
		return firstStrayMeta(tt.Arg, allowed)
	case *term.Abs:
		if mv := firstStrayMeta(tt.Dom, allowed); mv != nil {
			return mv
		}
		return firstStrayMeta(tt.Body, allowed)
	case *term.Prod:
		if mv := firstStrayMeta(tt.Dom, allowed); mv != nil {
			return mv
		}
		return firstStrayMeta(tt.Body, allowed)
	default:
		return nil
	}
}

// filterTrivial drops residual constraints that are pointwise convertible
// (modulo reduction) to some constraint already present in original, under
// commutativity, per spec.md §4.4(h).
func filterTrivial(o oracle.Oracle, residual, original []term.Constraint) []term.Constraint {
	var out []term.Constraint
	for _, r := range residual {
		trivial := false
		for _, c := range original {
			if (o.EqModulo(r.A, c.A) && o.EqModulo(r.B, c.B)) || (o.EqModulo(r.A, c.B) && o.EqModulo(r.B, c.A)) {
				trivial = true
				break
			}
		}
		if !trivial {
			out = append(out, r)
		}
	}
	return out
}

func summarize(cs []term.Constraint) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.A.String() + " ≡ " + c.B.String()
	}
	return strings.Join(parts, "; ")
}
