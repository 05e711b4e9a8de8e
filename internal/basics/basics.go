// Package basics implements the leaf-level term primitives of spec.md §4.1:
// head/argument splitting and the metavariable-occurrence predicate. These
// never raise — they are pure, total functions over well-formed terms.
package basics

import "github.com/lambdapi-go/rwcore/internal/term"

// HeadAndArgs repeatedly unfolds and peels App constructors, producing the
// head term and the left-to-right argument list.
func HeadAndArgs(t term.Term) (term.Term, []term.Term) {
	var args []term.Term
	h := term.Unfold(t)
	for {
		app, ok := h.(*term.App)
		if !ok {
			break
		}
		args = append(args, app.Arg)
		h = term.Unfold(app.Fun)
	}
	// args were collected innermost-first (closest to the head); reverse to
	// recover left-to-right order.
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}
	return h, args
}

// AddArgs is the inverse of HeadAndArgs: it reapplies h to xs in order.
func AddArgs(h term.Term, xs []term.Term) term.Term {
	result := h
	for _, x := range xs {
		result = &term.App{Fun: result, Arg: x}
	}
	return result
}

// HasMetas is true iff any Meta node is reachable from t without crossing an
// instantiated metavariable (i.e. after Unfold at every head).
func HasMetas(t term.Term) bool {
	t = term.Unfold(t)
	switch tt := t.(type) {
	case *term.Meta:
		return true
	case *term.App:
		return HasMetas(tt.Fun) || HasMetas(tt.Arg)
	case *term.Abs:
		return HasMetas(tt.Dom) || HasMetas(tt.Body)
	case *term.Prod:
		return HasMetas(tt.Dom) || HasMetas(tt.Body)
	case *term.Patt:
		for _, e := range tt.Env {
			if HasMetas(e) {
				return true
			}
		}
		return false
	case *term.TEnv:
		for _, e := range tt.Env {
			if HasMetas(e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
