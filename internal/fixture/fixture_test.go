package fixture

import (
	"strings"
	"testing"

	"github.com/lambdapi-go/rwcore/internal/term"
)

const sigOnly = `
symbols:
  - name: bool
    type: Type
  - name: "true"
    type: bool
  - name: "false"
    type: bool
  - name: neg
    type: {arrow: [bool, bool]}
    tag: definable
  - name: id_inj
    type: {arrow: [bool, bool]}
    tag: injective
`

func TestParseBuildsOrderedSignature(t *testing.T) {
	doc, err := Parse([]byte(sigOnly))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Order) != 5 {
		t.Fatalf("expected 5 symbols in declaration order, got %d", len(doc.Order))
	}
	names := make([]string, len(doc.Order))
	for i, s := range doc.Order {
		names[i] = s.Name
	}
	want := []string{"bool", "true", "false", "neg", "id_inj"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Order[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestParseAssignsTags(t *testing.T) {
	doc, err := Parse([]byte(sigOnly))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	neg, _ := doc.Table.Lookup("neg")
	if neg.Tag != term.Definable {
		t.Fatalf("neg tag = %v, want Definable", neg.Tag)
	}
	idInj, _ := doc.Table.Lookup("id_inj")
	if idInj.Tag != term.InjectiveTag {
		t.Fatalf("id_inj tag = %v, want InjectiveTag", idInj.Tag)
	}
	boolSym, _ := doc.Table.Lookup("bool")
	if boolSym.Tag != term.Constant {
		t.Fatalf("bool tag = %v, want Constant (the default)", boolSym.Tag)
	}
}

func TestParseBuildsArrowAsRightAssociativeProd(t *testing.T) {
	doc, err := Parse([]byte(sigOnly))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	neg, _ := doc.Table.Lookup("neg")
	prod, ok := neg.Type.(*term.Prod)
	if !ok {
		t.Fatalf("neg's type should be a Prod, got %T", neg.Type)
	}
	boolSym, _ := doc.Table.Lookup("bool")
	if !term.Equal(prod.Dom, &term.Sym{Symbol: boolSym}) {
		t.Fatalf("neg's domain should be bool")
	}
	if !term.Equal(prod.Body, &term.Sym{Symbol: boolSym}) {
		t.Fatalf("neg's codomain should be bool")
	}
}

func TestParseRulesShareNonLinearPatternSlot(t *testing.T) {
	src := `
symbols:
  - name: bool
    type: Type
  - name: "true"
    type: bool
  - name: and
    type: {arrow: [bool, bool, bool]}
    tag: definable
    rules:
      - lhs: ["$a", "$a"]
        rhs: "a"
`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rules := doc.Rules["and"]
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	r := rules[0]
	p0 := r.LHS[0].(*term.Patt)
	p1 := r.LHS[1].(*term.Patt)
	if p0.Index == nil || p1.Index == nil || *p0.Index != *p1.Index {
		t.Fatal("both occurrences of $a must share one pattern slot index")
	}
	if len(r.RHS.Vars) != 1 || r.RHS.Vars[0] != "a" {
		t.Fatalf("RHS.Vars = %v, want [a]", r.RHS.Vars)
	}
	if v, ok := r.RHS.Body.(term.Var); !ok || v.Name != "a" {
		t.Fatalf("RHS.Body should reference a as a plain Var, got %v", r.RHS.Body)
	}
}

func TestParseApplicationList(t *testing.T) {
	src := `
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
      - lhs: [[succ, "$x"], "$y"]
        rhs: [succ, [plus, "x", "y"]]
`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := doc.Rules["plus"][0]
	app, ok := r.LHS[0].(*term.App)
	if !ok {
		t.Fatalf("lhs[0] should be succ applied to $x, got %T", r.LHS[0])
	}
	succ, _ := doc.Table.Lookup("succ")
	if !term.Equal(app.Fun, &term.Sym{Symbol: succ}) {
		t.Fatal("lhs[0]'s function should be succ")
	}
	if _, ok := app.Arg.(*term.Patt); !ok {
		t.Fatalf("lhs[0]'s argument should be a pattern placeholder, got %T", app.Arg)
	}
}

func TestParseProdAndAbsBinders(t *testing.T) {
	src := `
symbols:
  - name: bool
    type: Type
  - name: P
    type: {prod: {var: x, dom: bool, body: Type}}
  - name: const_fn
    type: {abs: {var: y, dom: bool, body: y}}
`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, _ := doc.Table.Lookup("P")
	prod, ok := p.Type.(*term.Prod)
	if !ok || prod.VarName != "x" {
		t.Fatalf("P's type should be a Prod binding x, got %+v", p.Type)
	}
	cf, _ := doc.Table.Lookup("const_fn")
	abs, ok := cf.Type.(*term.Abs)
	if !ok || abs.VarName != "y" {
		t.Fatalf("const_fn's type should be an Abs binding y, got %+v", cf.Type)
	}
	if bodyVar, ok := abs.Body.(term.Var); !ok || bodyVar.Name != "y" {
		t.Fatalf("const_fn's body should reference y, got %+v", abs.Body)
	}
}

func TestParseRejectsUnknownTag(t *testing.T) {
	src := `
symbols:
  - name: x
    type: Type
    tag: bogus
`
	_, err := Parse([]byte(src))
	if err == nil || !strings.Contains(err.Error(), "unknown tag") {
		t.Fatalf("expected an unknown-tag error, got %v", err)
	}
}

func TestParseRejectsEmptyApplication(t *testing.T) {
	src := `
symbols:
  - name: bad
    type: []
`
	_, err := Parse([]byte(src))
	if err == nil {
		t.Fatal("an empty application list is not a valid term")
	}
}

func TestParseRejectsPatternPlaceholderOutsideRulePosition(t *testing.T) {
	src := `
symbols:
  - name: bad
    type: "$x"
`
	_, err := Parse([]byte(src))
	if err == nil || !strings.Contains(err.Error(), "not allowed here") {
		t.Fatalf("expected a placeholder-not-allowed error, got %v", err)
	}
}

func TestParseRejectsUnrecognizedCompoundKeys(t *testing.T) {
	src := `
symbols:
  - name: bad
    type: {mystery: 1}
`
	_, err := Parse([]byte(src))
	if err == nil || !strings.Contains(err.Error(), "unrecognized compound term keys") {
		t.Fatalf("expected an unrecognized-compound error, got %v", err)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/path/to/fixture.yaml")
	if err == nil {
		t.Fatal("Load of a missing file should return an error")
	}
}
