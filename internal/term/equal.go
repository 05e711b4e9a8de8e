package term

// Equal reports whether a and b are structurally equal up to alpha-renaming
// of bound variables, after unfolding both heads. It does not reduce —
// callers wanting convertibility modulo rewrite rules use the oracle's
// EqModulo instead (spec.md §6).
func Equal(a, b Term) bool {
	a, b = Unfold(a), Unfold(b)
	switch x := a.(type) {
	case Var:
		y, ok := b.(Var)
		return ok && x.Name == y.Name
	case TypeSort:
		_, ok := b.(TypeSort)
		return ok
	case KindSort:
		_, ok := b.(KindSort)
		return ok
	case Wild:
		_, ok := b.(Wild)
		return ok
	case *Sym:
		y, ok := b.(*Sym)
		return ok && x.Symbol == y.Symbol
	case *App:
		y, ok := b.(*App)
		return ok && Equal(x.Fun, y.Fun) && Equal(x.Arg, y.Arg)
	case *Abs:
		y, ok := b.(*Abs)
		return ok && Equal(x.Dom, y.Dom) && alphaEqualBody(x.VarName, x.Body, y.VarName, y.Body)
	case *Prod:
		y, ok := b.(*Prod)
		return ok && Equal(x.Dom, y.Dom) && alphaEqualBody(x.VarName, x.Body, y.VarName, y.Body)
	case *Meta:
		y, ok := b.(*Meta)
		if !ok || x.M != y.M || len(x.Env) != len(y.Env) {
			return false
		}
		for i := range x.Env {
			if !Equal(x.Env[i], y.Env[i]) {
				return false
			}
		}
		return true
	case *Patt:
		y, ok := b.(*Patt)
		if !ok || len(x.Env) != len(y.Env) {
			return false
		}
		if (x.Index == nil) != (y.Index == nil) {
			return false
		}
		if x.Index != nil && *x.Index != *y.Index {
			return false
		}
		for i := range x.Env {
			if !Equal(x.Env[i], y.Env[i]) {
				return false
			}
		}
		return true
	case *TEnv:
		y, ok := b.(*TEnv)
		if !ok || x.Ref != y.Ref || len(x.Env) != len(y.Env) {
			return false
		}
		for i := range x.Env {
			if !Equal(x.Env[i], y.Env[i]) {
				return false
			}
		}
		return true
	case *TRef:
		y, ok := b.(*TRef)
		return ok && x == y
	default:
		return false
	}
}

// alphaEqualBody compares two binder bodies under possibly different bound
// names by renaming the right-hand bound variable to the left-hand one.
func alphaEqualBody(nameA string, bodyA Term, nameB string, bodyB Term) bool {
	if nameA == nameB {
		return Equal(bodyA, bodyB)
	}
	renamed := Subst(map[string]Term{nameB: Var{Name: nameA}}, bodyB)
	return Equal(bodyA, renamed)
}
