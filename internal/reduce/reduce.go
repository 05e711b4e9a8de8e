// Package reduce walks a symbol's compiled decision tree to drive a single
// top-level rewrite step (the supplemental feature described by SPEC_FULL's
// §12: the compiled tree exists to be used, not only inspected).
package reduce

import (
	"github.com/lambdapi-go/rwcore/internal/basics"
	"github.com/lambdapi-go/rwcore/internal/dtree"
	"github.com/lambdapi-go/rwcore/internal/term"
)

// Reduce attempts one rewrite step of sym applied to args. It walks
// sym.Tree to find the rule whose left-hand side args structurally
// matches (falling back to false on Fail or a non-compiled symbol), then
// rebuilds the binding between that rule's pattern-variable names and the
// matched sub-terms by matching args against the rule's own left-hand
// side directly (spec.md §4.4(c)'s environment-binder substitution),
// before instantiating the rule's right-hand side binder.
func Reduce(sym *term.Symbol, args []term.Term) (term.Term, bool) {
	tree, ok := sym.Tree.(*dtree.Tree)
	if !ok || tree == nil {
		return nil, false
	}
	leaf := dispatch(tree, args)
	if leaf == nil || leaf.Rule == nil {
		return nil, false
	}
	rule := leaf.Rule
	if len(rule.LHS) > len(args) {
		return nil, false
	}

	bindings := make(map[string]term.Term)
	for i, p := range rule.LHS {
		if !matchTerm(p, args[i], bindings) {
			return nil, false
		}
	}

	binder := leaf.Action
	vals := make([]term.Term, len(binder.Vars))
	for i, v := range binder.Vars {
		val, ok := bindings[v]
		if !ok {
			return nil, false
		}
		vals[i] = val
	}
	result := binder.Instantiate(vals)
	if extra := args[len(rule.LHS):]; len(extra) > 0 {
		result = basics.AddArgs(result, extra)
	}
	return result, true
}

// dispatch walks t with the runtime argument vector vals, mirroring the
// matrix package's Specialize/Default column transforms so the path taken
// through the tree matches the path compile() assumed (P6).
func dispatch(t *dtree.Tree, vals []term.Term) *dtree.Tree {
	switch t.Kind {
	case dtree.KindFail:
		return nil
	case dtree.KindLeaf:
		return t
	default:
		if len(vals) == 0 {
			return nil
		}
		v := append([]term.Term(nil), vals...)
		if t.Swap != nil && *t.Swap < len(v) {
			v[0], v[*t.Swap] = v[*t.Swap], v[0]
		}
		for _, c := range t.Children {
			if c.Head == nil {
				continue
			}
			if headMatches(c.Head, v[0]) {
				return dispatch(c.Sub, decompose(c.Head, v))
			}
		}
		for _, c := range t.Children {
			if c.Head == nil {
				return dispatch(c.Sub, v[1:])
			}
		}
		return nil
	}
}

// headMatches reports whether value's own head agrees with the compiled
// child's constructor label, ignoring the label's own (possibly stale)
// argument list — the actual arity comes from value itself.
func headMatches(ctorHead, value term.Term) bool {
	switch ch := ctorHead.(type) {
	case *term.Sym:
		h, _ := basics.HeadAndArgs(value)
		vs, ok := h.(*term.Sym)
		return ok && vs.Symbol == ch.Symbol
	case term.Var:
		h, args := basics.HeadAndArgs(value)
		vv, ok := h.(term.Var)
		return ok && len(args) == 0 && vv.Name == ch.Name
	case *term.Abs:
		_, ok := term.Unfold(value).(*term.Abs)
		return ok
	default:
		return false
	}
}

// decompose splices value's own sub-components in place of column 0,
// exactly as matrix.Specialize does at compile time.
func decompose(ctorHead term.Term, v []term.Term) []term.Term {
	switch ctorHead.(type) {
	case *term.Abs:
		av := term.Unfold(v[0]).(*term.Abs)
		return append([]term.Term{av.Body}, v[1:]...)
	case term.Var:
		return v[1:]
	default:
		_, args := basics.HeadAndArgs(v[0])
		out := make([]term.Term, 0, len(args)+len(v)-1)
		out = append(out, args...)
		out = append(out, v[1:]...)
		return out
	}
}

// matchTerm matches a rule's raw left-hand side pattern against a runtime
// value, recording Patt slots with a name into bindings and requiring a
// non-linear repeat occurrence to agree (by convertibility-free structural
// equality) with its first binding.
func matchTerm(pattern, value term.Term, bindings map[string]term.Term) bool {
	switch pt := pattern.(type) {
	case *term.Patt:
		if pt.Index == nil {
			return true
		}
		name := pt.Name
		if existing, ok := bindings[name]; ok {
			return term.Equal(existing, value)
		}
		bindings[name] = value
		return true
	case *term.Sym:
		vh := term.Unfold(value)
		vs, ok := vh.(*term.Sym)
		return ok && vs.Symbol == pt.Symbol
	case *term.App:
		vh := term.Unfold(value)
		va, ok := vh.(*term.App)
		if !ok {
			return false
		}
		return matchTerm(pt.Fun, va.Fun, bindings) && matchTerm(pt.Arg, va.Arg, bindings)
	case term.Var:
		vh := term.Unfold(value)
		vv, ok := vh.(term.Var)
		return ok && vv.Name == pt.Name
	case *term.Abs:
		vh := term.Unfold(value)
		va, ok := vh.(*term.Abs)
		if !ok {
			return false
		}
		if !matchTerm(pt.Dom, va.Dom, bindings) {
			return false
		}
		renamed := term.Subst(map[string]term.Term{va.VarName: term.Var{Name: pt.VarName}}, va.Body)
		return matchTerm(pt.Body, renamed, bindings)
	default:
		return false
	}
}
