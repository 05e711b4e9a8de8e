package oracle

import (
	"testing"

	"github.com/lambdapi-go/rwcore/internal/term"
)

func constSym(name string, ty term.Term) *term.Sym {
	return &term.Sym{Symbol: term.NewSymbol(name, ty, term.Constant), Hint: name}
}

func TestInferVariableLookup(t *testing.T) {
	o := NewReference()
	ctx := Context{}.Extend("x", term.TypeSort{})
	ty, _, ok := o.Infer(ctx, term.Var{Name: "x"})
	if !ok || !term.Equal(ty, term.TypeSort{}) {
		t.Fatalf("Infer(x) = %v, %v, want TYPE, true", ty, ok)
	}
}

func TestInferUnknownVariableFails(t *testing.T) {
	o := NewReference()
	_, _, ok := o.Infer(Context{}, term.Var{Name: "x"})
	if ok {
		t.Fatal("Infer of an unbound variable should fail")
	}
}

func TestInferTypeSortHasKindSort(t *testing.T) {
	o := NewReference()
	ty, _, ok := o.Infer(Context{}, term.TypeSort{})
	if !ok || !term.Equal(ty, term.KindSort{}) {
		t.Fatalf("Infer(TYPE) = %v, want KIND", ty)
	}
}

func TestInferApplication(t *testing.T) {
	o := NewReference()
	bool_ := constSym("bool", term.TypeSort{})
	f := constSym("f", &term.Prod{Dom: bool_, VarName: "_", Body: bool_})
	trueC := constSym("true", bool_)

	ty, cs, ok := o.Infer(Context{}, &term.App{Fun: f, Arg: trueC})
	if !ok {
		t.Fatal("Infer(f true) should succeed")
	}
	if !term.Equal(ty, bool_) {
		t.Fatalf("Infer(f true) = %s, want bool", ty.String())
	}
	if len(cs) != 1 || !term.Equal(cs[0].A, bool_) || !term.Equal(cs[0].B, bool_) {
		t.Fatalf("expected only the deferred bool = bool argument constraint for a fully concrete application, got %v", cs)
	}
}

func TestInferApplicationOfNonFunctionFails(t *testing.T) {
	o := NewReference()
	bool_ := constSym("bool", term.TypeSort{})
	trueC := constSym("true", bool_)
	_, _, ok := o.Infer(Context{}, &term.App{Fun: trueC, Arg: trueC})
	if ok {
		t.Fatal("applying a non-Prod-typed head should fail to infer")
	}
}

func TestCheckAbsAgainstProdPushesDomainConstraint(t *testing.T) {
	o := NewReference()
	bool_ := constSym("bool", term.TypeSort{})
	nat := constSym("nat", term.TypeSort{})
	abs := &term.Abs{Dom: bool_, VarName: "x", Body: term.Var{Name: "x"}}
	expected := &term.Prod{Dom: nat, VarName: "y", Body: nat}

	cs := o.Check(Context{}, abs, expected)
	if len(cs) == 0 {
		t.Fatal("checking an Abs of a mismatched domain against a Prod should record a constraint")
	}
	found := false
	for _, c := range cs {
		if term.Equal(c.A, bool_) && term.Equal(c.B, nat) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a domain-equality constraint bool=nat among %v", cs)
	}
}

func TestSolveInstantiatesBareMetavariable(t *testing.T) {
	o := NewReference()
	bool_ := constSym("bool", term.TypeSort{})
	mv := term.NewMetaVar(0, term.TypeSort{}, "m")
	meta := &term.Meta{M: mv}

	residual, ok := o.Solve(Context{}, []term.Constraint{{A: meta, B: bool_}})
	if !ok {
		t.Fatal("Solve should succeed assigning an unconstrained metavariable")
	}
	if len(residual) != 0 {
		t.Fatalf("expected no residual after assignment, got %v", residual)
	}
	if !mv.Instantiated() {
		t.Fatal("Solve should have instantiated the metavariable")
	}
	if !term.Equal(*mv.Inst, bool_) {
		t.Fatalf("metavariable instantiated to %s, want bool", (*mv.Inst).String())
	}
}

func TestSolveDetectsDefiniteMismatch(t *testing.T) {
	o := NewReference()
	a := constSym("a", term.TypeSort{})
	b := constSym("b", term.TypeSort{})
	_, ok := o.Solve(Context{}, []term.Constraint{{A: a, B: b}})
	if ok {
		t.Fatal("two distinct metavariable-free symbols must be a definite contradiction")
	}
}

func TestSolveOccursCheckPreventsCyclicBinding(t *testing.T) {
	o := NewReference()
	mv := term.NewMetaVar(0, term.TypeSort{}, "m")
	meta := &term.Meta{M: mv}
	f := constSym("f", term.TypeSort{})
	cyclic := &term.App{Fun: f, Arg: meta}

	residual, ok := o.Solve(Context{}, []term.Constraint{{A: meta, B: cyclic}})
	if !ok {
		t.Fatal("an occurs-check failure is not a definite mismatch, just unsolved")
	}
	if len(residual) != 1 {
		t.Fatalf("the self-referential constraint should remain residual, got %v", residual)
	}
	if mv.Instantiated() {
		t.Fatal("a metavariable must never be instantiated to a term containing itself")
	}
}

func TestSolveLeavesGenuinelyUnsolvedConstraintsResidual(t *testing.T) {
	o := NewReference()
	x := term.Var{Name: "x"}
	y := term.Var{Name: "y"}
	residual, ok := o.Solve(Context{}, []term.Constraint{{A: x, B: y}})
	if !ok {
		t.Fatal("two distinct free variables is not a definite contradiction")
	}
	if len(residual) != 1 {
		t.Fatalf("expected the variable/variable constraint to remain residual, got %v", residual)
	}
}

func TestEqModuloReflexive(t *testing.T) {
	o := NewReference()
	a := constSym("a", term.TypeSort{})
	if !o.EqModulo(a, a) {
		t.Fatal("a term should be convertible to itself")
	}
}

func TestIsInjective(t *testing.T) {
	o := NewReference()
	inj := term.NewSymbol("f", term.TypeSort{}, term.InjectiveTag)
	plain := term.NewSymbol("g", term.TypeSort{}, term.Constant)
	if !o.IsInjective(inj) {
		t.Fatal("a symbol tagged injective should report as injective")
	}
	if o.IsInjective(plain) {
		t.Fatal("a plain constant symbol should not report as injective")
	}
}

func TestContextExtendShadowsInnermostFirst(t *testing.T) {
	bool_ := constSym("bool", term.TypeSort{})
	nat := constSym("nat", term.TypeSort{})
	ctx := Context{}.Extend("x", bool_).Extend("x", nat)
	ty, ok := ctx.Lookup("x")
	if !ok || !term.Equal(ty, nat) {
		t.Fatalf("Lookup should find the innermost binding, got %v", ty)
	}
}
