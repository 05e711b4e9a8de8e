package oracle

import (
	"github.com/lambdapi-go/rwcore/internal/basics"
	"github.com/lambdapi-go/rwcore/internal/term"
)

// Reference is a minimal, self-contained Oracle: a bidirectional checker
// over the core Pi-calculus sorts (TYPE, dependent products, abstractions,
// applications) plus metavariable instantiation for Solve, and a
// reduction-driven convertibility check for EqModulo.
type Reference struct{}

// NewReference constructs the reference oracle. It carries no state: every
// fact it needs (a symbol's type, a metavariable's type schema) already
// lives on the term graph itself.
func NewReference() *Reference { return &Reference{} }

func (o *Reference) IsInjective(s *term.Symbol) bool { return s.Injective() }

// Infer implements the synthesis judgment of a simple Pi-calculus PTS:
// variables and symbols look up their declared type; TYPE has kind KIND;
// application eliminates a Prod; abstraction and Prod both check their
// domain against TYPE and extend the context for their body.
func (o *Reference) Infer(ctx Context, t term.Term) (term.Term, []term.Constraint, bool) {
	t = term.Unfold(t)
	switch tt := t.(type) {
	case term.Var:
		ty, ok := ctx.Lookup(tt.Name)
		return ty, nil, ok
	case term.TypeSort:
		return term.KindSort{}, nil, true
	case term.KindSort:
		return nil, nil, false
	case *term.Sym:
		if tt.Symbol == nil {
			return nil, nil, false
		}
		return tt.Symbol.Type, nil, true
	case *term.App:
		funTy, cs1, ok := o.Infer(ctx, tt.Fun)
		if !ok {
			return nil, nil, false
		}
		prod, ok := term.Unfold(funTy).(*term.Prod)
		if !ok {
			return nil, nil, false
		}
		cs2 := o.Check(ctx, tt.Arg, prod.Dom)
		resultTy := term.Subst(map[string]term.Term{prod.VarName: tt.Arg}, prod.Body)
		return resultTy, append(cs1, cs2...), true
	case *term.Abs:
		cs1 := o.Check(ctx, tt.Dom, term.TypeSort{})
		bodyTy, cs2, ok := o.Infer(ctx.Extend(tt.VarName, tt.Dom), tt.Body)
		if !ok {
			return nil, nil, false
		}
		return &term.Prod{Dom: tt.Dom, VarName: tt.VarName, Body: bodyTy}, append(cs1, cs2...), true
	case *term.Prod:
		cs1 := o.Check(ctx, tt.Dom, term.TypeSort{})
		cs2 := o.Check(ctx.Extend(tt.VarName, tt.Dom), tt.Body, term.TypeSort{})
		return term.TypeSort{}, append(cs1, cs2...), true
	case *term.Meta:
		ty := tt.M.Type
		for _, e := range tt.Env {
			prod, ok := term.Unfold(ty).(*term.Prod)
			if !ok {
				return nil, nil, false
			}
			ty = term.Subst(map[string]term.Term{prod.VarName: e}, prod.Body)
		}
		return ty, nil, true
	default:
		return nil, nil, false
	}
}

// Check is bidirectional: an Abs against an expected Prod pushes the
// domains into a constraint and checks the body under the extended
// context; anything else falls back to inference plus a deferred equality
// constraint between the inferred and expected types.
func (o *Reference) Check(ctx Context, t, ty term.Term) []term.Constraint {
	tu := term.Unfold(t)
	if abs, ok := tu.(*term.Abs); ok {
		if prod, ok := term.Unfold(ty).(*term.Prod); ok {
			cs := []term.Constraint{{A: abs.Dom, B: prod.Dom}}
			bodyTy := term.Subst(map[string]term.Term{prod.VarName: term.Var{Name: abs.VarName}}, prod.Body)
			return append(cs, o.Check(ctx.Extend(abs.VarName, abs.Dom), abs.Body, bodyTy)...)
		}
	}
	inferred, cs, ok := o.Infer(ctx, t)
	if !ok {
		return []term.Constraint{{A: t, B: ty}}
	}
	return append(cs, term.Constraint{A: inferred, B: ty})
}

// Solve repeatedly discharges constraints it can decide, either by
// instantiating an uninstantiated metavariable occurring alone on one
// side (Bind, with an occurs check, mirroring the teacher's
// typesystem.Bind) or by convertibility (EqModulo). Anything left over is
// returned as residual; a constraint between two distinct, metavariable-free
// symbol heads is a definite contradiction and aborts with ok=false.
func (o *Reference) Solve(builtins Context, cs []term.Constraint) ([]term.Constraint, bool) {
	work := append([]term.Constraint(nil), cs...)
	for {
		progressed := false
		var next []term.Constraint
		for _, c := range work {
			if definiteMismatch(c.A, c.B) {
				return nil, false
			}
			if o.tryAssign(c.A, c.B) || o.tryAssign(c.B, c.A) {
				progressed = true
				continue
			}
			if o.EqModulo(c.A, c.B) {
				progressed = true
				continue
			}
			next = append(next, c)
		}
		work = next
		if !progressed {
			return work, true
		}
	}
}

// tryAssign instantiates a, if it is an uninstantiated, zero-environment
// metavariable that does not occur in b (occurs check, Bind's job in the
// teacher's unifier).
func (o *Reference) tryAssign(a, b term.Term) bool {
	au := term.Unfold(a)
	m, ok := au.(*term.Meta)
	if !ok || m.M.Instantiated() || len(m.Env) != 0 {
		return false
	}
	if metaOccurs(m.M, b) {
		return false
	}
	m.M.Instantiate(b)
	return true
}

func metaOccurs(mv *term.MetaVar, t term.Term) bool {
	t = term.Unfold(t)
	switch tt := t.(type) {
	case *term.Meta:
		if tt.M == mv {
			return true
		}
		for _, e := range tt.Env {
			if metaOccurs(mv, e) {
				return true
			}
		}
		return false
	case *term.App:
		return metaOccurs(mv, tt.Fun) || metaOccurs(mv, tt.Arg)
	case *term.Abs:
		return metaOccurs(mv, tt.Dom) || metaOccurs(mv, tt.Body)
	case *term.Prod:
		return metaOccurs(mv, tt.Dom) || metaOccurs(mv, tt.Body)
	default:
		return false
	}
}

// definiteMismatch reports a and b as a hard contradiction: both are
// metavariable-free and their heads are distinct declared symbols, so no
// substitution could ever make them convertible.
func definiteMismatch(a, b term.Term) bool {
	if basics.HasMetas(a) || basics.HasMetas(b) {
		return false
	}
	ha, _ := basics.HeadAndArgs(a)
	hb, _ := basics.HeadAndArgs(b)
	sa, oka := ha.(*term.Sym)
	sb, okb := hb.(*term.Sym)
	return oka && okb && sa.Symbol != sb.Symbol
}
