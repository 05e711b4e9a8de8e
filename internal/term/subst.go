package term

// Subst applies a simultaneous substitution (named-variable capture-avoiding
// substitution, spec.md §9(ii)) to t: every free occurrence of a key in sub
// is replaced by its value, all at once — an occurrence of one key inside
// another key's replacement value is never itself substituted.
func Subst(sub map[string]Term, t Term) Term {
	if len(sub) == 0 {
		return t
	}
	switch tt := t.(type) {
	case Var:
		if r, ok := sub[tt.Name]; ok {
			return r
		}
		return tt
	case TypeSort, KindSort, Wild:
		return t
	case *Sym:
		return tt
	case *App:
		return &App{Fun: Subst(sub, tt.Fun), Arg: Subst(sub, tt.Arg)}
	case *Abs:
		dom := Subst(sub, tt.Dom)
		v, body := substUnderBinder(sub, tt.VarName, tt.Body)
		return &Abs{Dom: dom, VarName: v, Body: body}
	case *Prod:
		dom := Subst(sub, tt.Dom)
		v, body := substUnderBinder(sub, tt.VarName, tt.Body)
		return &Prod{Dom: dom, VarName: v, Body: body}
	case *Meta:
		if tt.M.Instantiated() {
			return Subst(sub, Unfold(t))
		}
		env := make([]Term, len(tt.Env))
		for i, e := range tt.Env {
			env[i] = Subst(sub, e)
		}
		return &Meta{M: tt.M, Env: env}
	case *Patt:
		env := make([]Term, len(tt.Env))
		for i, e := range tt.Env {
			env[i] = Subst(sub, e)
		}
		return &Patt{Index: tt.Index, Name: tt.Name, Env: env}
	case *TEnv:
		env := make([]Term, len(tt.Env))
		for i, e := range tt.Env {
			env[i] = Subst(sub, e)
		}
		return &TEnv{Ref: tt.Ref, Env: env}
	case *TRef:
		return tt
	default:
		return t
	}
}

// substUnderBinder substitutes under a single-variable binder, renaming the
// bound variable to a fresh name first whenever any replacement term has a
// free occurrence of it — the standard capture-avoidance trick for
// named-variable representations (spec.md §9(ii)).
func substUnderBinder(sub map[string]Term, boundName string, body Term) (string, Term) {
	needsRename := false
	for k, v := range sub {
		if k == boundName {
			continue
		}
		if freeIn(boundName, v) {
			needsRename = true
			break
		}
	}
	if !needsRename {
		inner := make(map[string]Term, len(sub))
		for k, v := range sub {
			if k != boundName {
				inner[k] = v
			}
		}
		return boundName, Subst(inner, body)
	}

	fresh := FreshName(boundName + "_")
	renamed := Subst(map[string]Term{boundName: Var{Name: fresh}}, body)
	inner := make(map[string]Term, len(sub))
	for k, v := range sub {
		if k != boundName {
			inner[k] = v
		}
	}
	return fresh, Subst(inner, renamed)
}

// freeIn reports whether name occurs free in t. Used only to decide whether
// a binder needs renaming during substitution.
func freeIn(name string, t Term) bool {
	switch tt := t.(type) {
	case Var:
		return tt.Name == name
	case TypeSort, KindSort, Wild:
		return false
	case *Sym:
		return false
	case *App:
		return freeIn(name, tt.Fun) || freeIn(name, tt.Arg)
	case *Abs:
		if tt.VarName == name {
			return freeIn(name, tt.Dom)
		}
		return freeIn(name, tt.Dom) || freeIn(name, tt.Body)
	case *Prod:
		if tt.VarName == name {
			return freeIn(name, tt.Dom)
		}
		return freeIn(name, tt.Dom) || freeIn(name, tt.Body)
	case *Meta:
		for _, e := range tt.Env {
			if freeIn(name, e) {
				return true
			}
		}
		return false
	case *Patt:
		for _, e := range tt.Env {
			if freeIn(name, e) {
				return true
			}
		}
		return false
	case *TEnv:
		for _, e := range tt.Env {
			if freeIn(name, e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// MSubst applies a multi-variable RhsBinder-shaped substitution: the
// `msubst(b,e)` of spec.md §4.6's spec_filter table, where b is the binder
// recorded for a previously-matched non-linear pattern variable and e is the
// current environment it is instantiated against.
func MSubst(b *RhsBinder, e []Term) Term {
	return b.Instantiate(e)
}

// SubstSimultaneous substitutes each xs[i] by ts[i] simultaneously in t —
// the entry point internal/tsubst and internal/rulecheck use after building
// a typing substitution; named to match spec.md §4.3's "applied as a
// simultaneous multi-variable substitution (never sequentially)".
func SubstSimultaneous(xs []Var, ts []Term, t Term) Term {
	sub := make(map[string]Term, len(xs))
	for i, x := range xs {
		sub[x.Name] = ts[i]
	}
	return Subst(sub, t)
}
