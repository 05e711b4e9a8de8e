package oracle

import (
	"github.com/lambdapi-go/rwcore/internal/basics"
	"github.com/lambdapi-go/rwcore/internal/reduce"
	"github.com/lambdapi-go/rwcore/internal/term"
)

// EqModulo decides convertibility by reduction to weak-head normal form
// followed by congruence on the resulting heads, recursing into arguments
// and binder bodies. whnf is the "evaluator" half of the trusted-oracle
// boundary spec.md §6 draws; it is the one caller of internal/reduce, so
// the compiled decision tree actually drives a real reduction step instead
// of only being inspected by tests.
func (o *Reference) EqModulo(a, b term.Term) bool {
	return convEq(a, b)
}

// whnf reduces t to weak-head normal form: beta-reduction at an
// abstraction applied to an argument, or one compiled-rule rewrite step at
// a definable symbol fully applied to its matched arguments, repeated
// until neither applies.
func whnf(t term.Term) term.Term {
	t = term.Unfold(t)
	app, ok := t.(*term.App)
	if !ok {
		return t
	}
	f := whnf(app.Fun)
	if abs, ok := f.(*term.Abs); ok {
		return whnf(term.Subst(map[string]term.Term{abs.VarName: app.Arg}, abs.Body))
	}
	combined := &term.App{Fun: f, Arg: app.Arg}
	head, args := basics.HeadAndArgs(combined)
	if sym, ok := head.(*term.Sym); ok && sym.Symbol != nil {
		if result, applied := reduce.Reduce(sym.Symbol, args); applied {
			return whnf(result)
		}
	}
	return combined
}

// convEq compares two terms' whnf by congruence, recursing structurally
// and aligning binder bodies by renaming.
func convEq(a, b term.Term) bool {
	wa, wb := whnf(a), whnf(b)
	switch ta := wa.(type) {
	case term.Var:
		tb, ok := wb.(term.Var)
		return ok && ta.Name == tb.Name
	case term.TypeSort:
		_, ok := wb.(term.TypeSort)
		return ok
	case term.KindSort:
		_, ok := wb.(term.KindSort)
		return ok
	case *term.Sym:
		tb, ok := wb.(*term.Sym)
		return ok && ta.Symbol == tb.Symbol
	case *term.App:
		tb, ok := wb.(*term.App)
		return ok && convEq(ta.Fun, tb.Fun) && convEq(ta.Arg, tb.Arg)
	case *term.Abs:
		tb, ok := wb.(*term.Abs)
		return ok && convEq(ta.Dom, tb.Dom) && convEqAbsBody(ta, tb)
	case *term.Prod:
		tb, ok := wb.(*term.Prod)
		return ok && convEq(ta.Dom, tb.Dom) && convEqProdBody(ta, tb)
	case *term.Meta:
		tb, ok := wb.(*term.Meta)
		if !ok || ta.M != tb.M || len(ta.Env) != len(tb.Env) {
			return false
		}
		for i := range ta.Env {
			if !convEq(ta.Env[i], tb.Env[i]) {
				return false
			}
		}
		return true
	default:
		return term.Equal(wa, wb)
	}
}

func convEqAbsBody(ta, tb *term.Abs) bool {
	renamed := term.Subst(map[string]term.Term{tb.VarName: term.Var{Name: ta.VarName}}, tb.Body)
	return convEq(ta.Body, renamed)
}

func convEqProdBody(ta, tb *term.Prod) bool {
	renamed := term.Subst(map[string]term.Term{tb.VarName: term.Var{Name: ta.VarName}}, tb.Body)
	return convEq(ta.Body, renamed)
}
