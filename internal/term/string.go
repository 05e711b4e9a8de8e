package term

import (
	"fmt"
	"strings"

	"github.com/lambdapi-go/rwcore/internal/config"
)

// displayName normalizes an auto-generated name (today only an anonymous
// metavariable's uuid prefix) to a stable placeholder when
// config.NormalizeNames is set, matching the
// teacher's TVar.String()/TCon.String() test-mode normalization so golden
// output in tests doesn't depend on allocation order (P4).
func displayName(prefix, name string) string {
	if config.NormalizeNames {
		return prefix + "?"
	}
	return name
}

func (v Var) String() string { return v.Name }

func (TypeSort) String() string { return "TYPE" }

func (KindSort) String() string { return "KIND" }

func (s *Sym) String() string {
	if s.Symbol == nil {
		return "<sym:nil>"
	}
	return s.Symbol.Name
}

func (a *App) String() string {
	return fmt.Sprintf("(%s %s)", a.Fun.String(), a.Arg.String())
}

func (a *Abs) String() string {
	return fmt.Sprintf("(λ%s:%s, %s)", a.VarName, a.Dom.String(), a.Body.String())
}

func (p *Prod) String() string {
	return fmt.Sprintf("(∀%s:%s, %s)", p.VarName, p.Dom.String(), p.Body.String())
}

func (m *Meta) String() string {
	name := m.M.Name
	if name == "" {
		name = displayName("m", m.M.ID.String()[:8])
	}
	parts := make([]string, len(m.Env))
	for i, e := range m.Env {
		parts[i] = e.String()
	}
	return fmt.Sprintf("?%s[%s]", name, strings.Join(parts, ","))
}

func (p *Patt) String() string {
	idx := "_"
	if p.Index != nil {
		idx = fmt.Sprintf("%d", *p.Index)
	}
	parts := make([]string, len(p.Env))
	for i, e := range p.Env {
		parts[i] = e.String()
	}
	return fmt.Sprintf("$%s(%s)[%s]", idx, p.Name, strings.Join(parts, ","))
}

func (t *TEnv) String() string {
	parts := make([]string, len(t.Env))
	for i, e := range t.Env {
		parts[i] = e.String()
	}
	return fmt.Sprintf("tenv(%d)[%s]", t.Ref, strings.Join(parts, ","))
}

func (Wild) String() string { return "_" }

func (t *TRef) String() string {
	if t.Target != nil {
		return (*t.Target).String()
	}
	return "<tref>"
}
