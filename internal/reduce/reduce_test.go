package reduce

import (
	"testing"

	"github.com/lambdapi-go/rwcore/internal/dtree"
	"github.com/lambdapi-go/rwcore/internal/fixture"
	"github.com/lambdapi-go/rwcore/internal/matrix"
	"github.com/lambdapi-go/rwcore/internal/term"
)

const natFixture = `
symbols:
  - name: nat
    type: Type
  - name: zero
    type: nat
  - name: succ
    type: {arrow: [nat, nat]}
  - name: plus
    type: {arrow: [nat, nat, nat]}
    tag: definable
    rules:
      - lhs: [zero, "$y"]
        rhs: "y"
      - lhs: [[succ, "$x"], "$y"]
        rhs: [succ, [plus, "x", "y"]]
`

func loadAndCompile(t *testing.T, src, name string) *fixture.Doc {
	t.Helper()
	doc, err := fixture.Parse([]byte(src))
	if err != nil {
		t.Fatalf("fixture.Parse: %v", err)
	}
	sym, ok := doc.Table.Lookup(name)
	if !ok {
		t.Fatalf("symbol %q not found", name)
	}
	for _, r := range doc.Rules[name] {
		sym.AddRule(r)
	}
	sym.Tree = dtree.Compile(matrix.OfRules(sym.Rules))
	return doc
}

func mkSucc(doc *fixture.Doc, n term.Term) term.Term {
	succ, _ := doc.Table.Lookup("succ")
	return &term.App{Fun: &term.Sym{Symbol: succ, Hint: "succ"}, Arg: n}
}

func natOf(doc *fixture.Doc, n int) term.Term {
	zero, _ := doc.Table.Lookup("zero")
	t := term.Term(&term.Sym{Symbol: zero, Hint: "zero"})
	for i := 0; i < n; i++ {
		t = mkSucc(doc, t)
	}
	return t
}

func TestReduceBaseCaseRule(t *testing.T) {
	doc := loadAndCompile(t, natFixture, "plus")
	plus, _ := doc.Table.Lookup("plus")
	y := natOf(doc, 3)

	result, ok := Reduce(plus, []term.Term{natOf(doc, 0), y})
	if !ok {
		t.Fatal("Reduce(plus zero y) should fire the base-case rule")
	}
	if !term.Equal(result, y) {
		t.Fatalf("plus(zero, y) should reduce to y, got %s", result.String())
	}
}

func TestReduceRecursiveCaseRule(t *testing.T) {
	doc := loadAndCompile(t, natFixture, "plus")
	plus, _ := doc.Table.Lookup("plus")
	x, y := natOf(doc, 1), natOf(doc, 2)

	result, ok := Reduce(plus, []term.Term{x, y})
	if !ok {
		t.Fatal("Reduce(plus (succ x) y) should fire the recursive rule")
	}
	want := mkSucc(doc, &term.App{
		Fun: &term.App{Fun: &term.Sym{Symbol: plus, Hint: "plus"}, Arg: natOf(doc, 0)},
		Arg: y,
	})
	if _, ok := result.(*term.App); !ok {
		t.Fatalf("expected succ(plus(...)) application, got %T", result)
	}
	if !term.Equal(result, want) {
		t.Fatalf("plus(succ zero, y) should reduce to %s, got %s", want.String(), result.String())
	}
}

func TestReduceReappliesExtraArguments(t *testing.T) {
	doc := loadAndCompile(t, natFixture, "plus")
	plus, _ := doc.Table.Lookup("plus")
	extra := natOf(doc, 9)

	result, ok := Reduce(plus, []term.Term{natOf(doc, 0), natOf(doc, 0), extra})
	if !ok {
		t.Fatal("Reduce should still fire with trailing extra arguments")
	}
	app, ok := result.(*term.App)
	if !ok {
		t.Fatalf("expected the extra argument reapplied on top of the rewrite result, got %T", result)
	}
	if !term.Equal(app.Arg, extra) {
		t.Fatalf("expected the extra argument preserved verbatim, got %s", app.Arg.String())
	}
}

func TestReduceFailsOnUncompiledSymbol(t *testing.T) {
	doc, err := fixture.Parse([]byte(natFixture))
	if err != nil {
		t.Fatalf("fixture.Parse: %v", err)
	}
	zero, _ := doc.Table.Lookup("zero")
	_, ok := Reduce(zero, nil)
	if ok {
		t.Fatal("a symbol with no compiled tree should never reduce")
	}
}

func TestReduceFailsWhenNoRuleMatches(t *testing.T) {
	doc := loadAndCompile(t, natFixture, "plus")
	plus, _ := doc.Table.Lookup("plus")
	_, ok := Reduce(plus, []term.Term{natOf(doc, 0)})
	if ok {
		t.Fatal("Reduce should fail when fewer arguments are supplied than the rules need")
	}
}
