// Package fixture builds toy signatures and rule sets from YAML documents,
// for tests and the cmd/rwcheck demo. It is deliberately not a surface-syntax
// parser (spec.md §1 puts that out of scope): a fixture is a structural tree
// of maps and lists mirroring term.Term directly, decoded the way the
// teacher's lib/yaml decodes an arbitrary YAML document into its own value
// model (internal/evaluator/builtins_yaml.go's inferFromYaml: a type switch
// over interface{}, recursing into []interface{} and map entries).
package fixture

import (
	"fmt"
	"os"
	"sort"

	"github.com/lambdapi-go/rwcore/internal/symbols"
	"github.com/lambdapi-go/rwcore/internal/term"
	"gopkg.in/yaml.v3"
)

// Doc is a decoded fixture: a signature plus the rules declared under each
// of its symbols (whatever the symbol's tag), in declaration order.
type Doc struct {
	Table *symbols.Table
	Order []*term.Symbol // declaration order, for deterministic iteration
	Rules map[string][]*term.Rule // symbol name -> its rules, source order
}

type symbolSpec struct {
	Name  string        `yaml:"name"`
	Type  interface{}   `yaml:"type"`
	Tag   string        `yaml:"tag"`
	Rules []ruleSpec    `yaml:"rules"`
}

type ruleSpec struct {
	LHS []interface{} `yaml:"lhs"`
	RHS interface{}   `yaml:"rhs"`
}

type fixtureFile struct {
	Symbols []symbolSpec `yaml:"symbols"`
}

// Load reads a fixture document from path.
func Load(path string) (*Doc, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: cannot read %s: %w", path, err)
	}
	return Parse(content)
}

// Parse decodes a fixture document from YAML content.
func Parse(content []byte) (*Doc, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("fixture: invalid YAML: %w", err)
	}

	table := symbols.New()
	doc := &Doc{Table: table, Rules: make(map[string][]*term.Rule)}

	for _, ss := range f.Symbols {
		tag, err := parseTag(ss.Tag)
		if err != nil {
			return nil, fmt.Errorf("fixture: symbol %q: %w", ss.Name, err)
		}
		ty, err := buildTerm(ss.Type, table, nil)
		if err != nil {
			return nil, fmt.Errorf("fixture: symbol %q type: %w", ss.Name, err)
		}
		sym := term.NewSymbol(ss.Name, ty, tag)
		table.Define(sym)
		doc.Order = append(doc.Order, sym)

		for i, rs := range ss.Rules {
			rule, err := buildRule(rs, table)
			if err != nil {
				return nil, fmt.Errorf("fixture: symbol %q rule %d: %w", ss.Name, i, err)
			}
			doc.Rules[ss.Name] = append(doc.Rules[ss.Name], rule)
		}
	}
	return doc, nil
}

func parseTag(s string) (term.Tag, error) {
	switch s {
	case "", "constant":
		return term.Constant, nil
	case "definable":
		return term.Definable, nil
	case "injective":
		return term.InjectiveTag, nil
	default:
		return 0, fmt.Errorf("unknown tag %q", s)
	}
}

// pattEnv accumulates the pattern variables seen while building one rule's
// left-hand side, assigning each distinct name the first time it is seen a
// stable index so repeated occurrences share one metavariable slot, per
// spec.md §4.4(a).
type pattEnv struct {
	order []string
	index map[string]int
}

func newPattEnv() *pattEnv { return &pattEnv{index: make(map[string]int)} }

func (p *pattEnv) slot(name string) int {
	if i, ok := p.index[name]; ok {
		return i
	}
	i := len(p.order)
	p.index[name] = i
	p.order = append(p.order, name)
	return i
}

func buildRule(rs ruleSpec, table *symbols.Table) (*term.Rule, error) {
	pv := newPattEnv()
	lhs := make([]term.Term, len(rs.LHS))
	for i, spec := range rs.LHS {
		t, err := buildTerm(spec, table, pv)
		if err != nil {
			return nil, fmt.Errorf("left-hand side argument %d: %w", i, err)
		}
		lhs[i] = t
	}

	// The right-hand side sees the same pattern names as ordinary bound
	// variables. A name pv hasn't seen is not rejected here: it stays a free
	// Var in the body and is not listed in RHS.Vars.
	rhsBody, err := buildTerm(rs.RHS, table, nil)
	if err != nil {
		return nil, fmt.Errorf("right-hand side: %w", err)
	}
	vars := append([]string(nil), pv.order...)
	sort.SliceStable(vars, func(i, j int) bool { return pv.index[vars[i]] < pv.index[vars[j]] })

	return &term.Rule{LHS: lhs, RHS: &term.RhsBinder{Vars: vars, Body: rhsBody}}, nil
}

// buildTerm recursively builds a term.Term from a decoded YAML value. When pv
// is non-nil, a "$name" string denotes a pattern placeholder slot rather
// than a variable reference; buildRule's right-hand side pass uses pv==nil
// so the same names resolve to plain Var nodes for RhsBinder.Body to close
// over.
//
// Accepted shapes:
//
//	"Type" / "Kind"        sort constants
//	"$name"                pattern placeholder (LHS only)
//	"name"                 symbol or bound-variable reference
//	[f, a, b, ...]          application, left to right
//	{arrow: [A, B, ..., R]} non-dependent product chain A -> B -> ... -> R
//	{prod: {var, dom, body}} dependent product
//	{abs: {var, dom, body}}  abstraction
func buildTerm(spec interface{}, table *symbols.Table, pv *pattEnv) (term.Term, error) {
	switch v := spec.(type) {
	case nil:
		return nil, fmt.Errorf("missing term")
	case string:
		return buildAtom(v, table, pv)
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("empty application")
		}
		fun, err := buildTerm(v[0], table, pv)
		if err != nil {
			return nil, err
		}
		result := fun
		for _, a := range v[1:] {
			arg, err := buildTerm(a, table, pv)
			if err != nil {
				return nil, err
			}
			result = &term.App{Fun: result, Arg: arg}
		}
		return result, nil
	case map[string]interface{}:
		return buildCompound(v, table, pv)
	default:
		return nil, fmt.Errorf("unsupported term shape %T", spec)
	}
}

func buildAtom(name string, table *symbols.Table, pv *pattEnv) (term.Term, error) {
	switch name {
	case "Type":
		return term.TypeSort{}, nil
	case "Kind":
		return term.KindSort{}, nil
	}
	if len(name) > 1 && name[0] == '$' {
		if pv == nil {
			return nil, fmt.Errorf("pattern placeholder %q not allowed here", name)
		}
		pname := name[1:]
		idx := pv.slot(pname)
		return term.PattIndex(idx, pname, nil), nil
	}
	if sym, ok := table.Lookup(name); ok {
		return &term.Sym{Symbol: sym, Hint: name}, nil
	}
	// Unresolved names stand for bound variables supplied by an enclosing
	// abs/prod binder, or (on a right-hand side) a pattern-variable name
	// reused as an ordinary Var for RhsBinder.Body to close over.
	return term.Var{Name: name}, nil
}

func buildCompound(v map[string]interface{}, table *symbols.Table, pv *pattEnv) (term.Term, error) {
	if arrow, ok := v["arrow"]; ok {
		list, ok := arrow.([]interface{})
		if !ok || len(list) < 2 {
			return nil, fmt.Errorf("arrow requires at least two entries")
		}
		terms := make([]term.Term, len(list))
		for i, e := range list {
			t, err := buildTerm(e, table, pv)
			if err != nil {
				return nil, err
			}
			terms[i] = t
		}
		result := terms[len(terms)-1]
		for i := len(terms) - 2; i >= 0; i-- {
			result = &term.Prod{Dom: terms[i], VarName: term.FreshName("_"), Body: result}
		}
		return result, nil
	}
	if binder, ok := v["prod"]; ok {
		return buildBinder(binder, table, pv, func(dom term.Term, name string, body term.Term) term.Term {
			return &term.Prod{Dom: dom, VarName: name, Body: body}
		})
	}
	if binder, ok := v["abs"]; ok {
		return buildBinder(binder, table, pv, func(dom term.Term, name string, body term.Term) term.Term {
			return &term.Abs{Dom: dom, VarName: name, Body: body}
		})
	}
	return nil, fmt.Errorf("unrecognized compound term keys %v", keysOf(v))
}

func buildBinder(raw interface{}, table *symbols.Table, pv *pattEnv, build func(dom term.Term, name string, body term.Term) term.Term) (term.Term, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("binder must be a mapping with var/dom/body")
	}
	name, _ := m["var"].(string)
	if name == "" {
		return nil, fmt.Errorf("binder missing var")
	}
	dom, err := buildTerm(m["dom"], table, pv)
	if err != nil {
		return nil, fmt.Errorf("binder dom: %w", err)
	}
	body, err := buildTerm(m["body"], table, pv)
	if err != nil {
		return nil, fmt.Errorf("binder body: %w", err)
	}
	return build(dom, name, body), nil
}

func keysOf(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
