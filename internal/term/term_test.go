package term

import "testing"

func TestSubstCaptureAvoidance(t *testing.T) {
	// (λx, y) [y := x]  must rename the bound x, not capture the substituted
	// free x.
	abs := &Abs{Dom: TypeSort{}, VarName: "x", Body: Var{Name: "y"}}
	got := Subst(map[string]Term{"y": Var{Name: "x"}}, abs)

	gotAbs, ok := got.(*Abs)
	if !ok {
		t.Fatalf("Subst did not return an Abs: %#v", got)
	}
	if gotAbs.VarName == "x" {
		t.Fatalf("bound variable was not renamed, capture occurred: %s", got.String())
	}
	body, ok := gotAbs.Body.(Var)
	if !ok || body.Name != "x" {
		t.Fatalf("body should be the substituted free x, got %s", gotAbs.Body.String())
	}
}

func TestSubstSimultaneous(t *testing.T) {
	// x[x:=y, y:=x] applied simultaneously must swap, not chain.
	sub := map[string]Term{"x": Var{Name: "y"}, "y": Var{Name: "x"}}
	app := &App{Fun: Var{Name: "x"}, Arg: Var{Name: "y"}}
	got := Subst(sub, app).(*App)
	if got.Fun.(Var).Name != "y" || got.Arg.(Var).Name != "x" {
		t.Fatalf("simultaneous substitution did not swap: %s", got.String())
	}
}

func TestUnfoldInstantiatedMeta(t *testing.T) {
	mv := NewMetaVar(0, TypeSort{}, "m")
	mv.Instantiate(Var{Name: "resolved"})
	meta := &Meta{M: mv}
	got := Unfold(meta)
	v, ok := got.(Var)
	if !ok || v.Name != "resolved" {
		t.Fatalf("Unfold did not resolve instantiated meta: %#v", got)
	}
}

func TestUnfoldUninstantiatedMeta(t *testing.T) {
	mv := NewMetaVar(0, TypeSort{}, "m")
	meta := &Meta{M: mv}
	got := Unfold(meta)
	if got != Term(meta) {
		t.Fatalf("Unfold should return the meta itself when uninstantiated")
	}
}

func TestMetaVarInstantiateTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double instantiation")
		}
	}()
	mv := NewMetaVar(0, TypeSort{}, "m")
	mv.Instantiate(TypeSort{})
	mv.Instantiate(TypeSort{})
}

func TestEqualAlphaRenaming(t *testing.T) {
	a := &Abs{Dom: TypeSort{}, VarName: "x", Body: Var{Name: "x"}}
	b := &Abs{Dom: TypeSort{}, VarName: "y", Body: Var{Name: "y"}}
	if !Equal(a, b) {
		t.Fatal("alpha-equivalent abstractions should be Equal")
	}
}

func TestEqualDistinguishesSymbolsByIdentity(t *testing.T) {
	s1 := NewSymbol("a", TypeSort{}, Constant)
	s2 := NewSymbol("a", TypeSort{}, Constant)
	if Equal(&Sym{Symbol: s1}, &Sym{Symbol: s2}) {
		t.Fatal("two distinct symbols sharing a name must not be Equal")
	}
	if !Equal(&Sym{Symbol: s1}, &Sym{Symbol: s1}) {
		t.Fatal("a symbol must be Equal to itself")
	}
}

func TestRhsBinderInstantiate(t *testing.T) {
	b := &RhsBinder{Vars: []string{"a", "b"}, Body: &App{Fun: Var{Name: "a"}, Arg: Var{Name: "b"}}}
	got := b.Instantiate([]Term{Var{Name: "x"}, Var{Name: "y"}})
	app, ok := got.(*App)
	if !ok || app.Fun.(Var).Name != "x" || app.Arg.(Var).Name != "y" {
		t.Fatalf("Instantiate did not substitute positionally: %s", got.String())
	}
}

func TestRhsBinderInstantiateArityMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on arity mismatch")
		}
	}()
	b := &RhsBinder{Vars: []string{"a"}, Body: Var{Name: "a"}}
	b.Instantiate(nil)
}

func TestPattIndexSharedAcrossOccurrences(t *testing.T) {
	p1 := PattIndex(0, "a", nil)
	p2 := PattIndex(0, "a", nil)
	if *p1.Index != *p2.Index {
		t.Fatal("two PattIndex calls with the same index must produce the same slot")
	}
}
