// Package matrix implements the pattern matrix manipulations that drive
// decision-tree compilation (C6 of the design, spec.md §4.5-§4.6): the row
// and environment representation, the is_pattern/exhausted/discrimination
// predicates, and the specialize/default transforms a Maranget-style
// compiler iterates to a fixed point.
package matrix

import (
	"github.com/lambdapi-go/rwcore/internal/basics"
	"github.com/lambdapi-go/rwcore/internal/term"
)

// TE records, for one pattern-variable slot of a rule, whether a prior
// column of the same row has already matched something onto that slot.
// TE_None is the zero value; TE_Some carries the binder the compiler
// synthesizes to describe what was matched, so a later occurrence of the
// same slot (non-linear use) can be tested for structural agreement via
// msubst rather than by name.
type TE struct {
	bound *term.RhsBinder
}

// TENone is the "not yet matched" environment entry.
func TENone() TE { return TE{} }

// TESome records a binder for a slot that a previous column already bound.
func TESome(b *term.RhsBinder) TE { return TE{bound: b} }

// IsSome reports whether this slot was already matched.
func (e TE) IsSome() bool { return e.bound != nil }

// Binder returns the recorded binder; only meaningful when IsSome.
func (e TE) Binder() *term.RhsBinder { return e.bound }

// Row is one rule's left-hand side, reduced to an argument list, paired
// with the right-hand side binder and the per-rule pattern-slot environment
// threaded through specialization.
type Row struct {
	LHS  []term.Term
	RHS  *term.RhsBinder
	Env  []TE
	Rule *term.Rule
}

// Matrix is the pattern matrix compiled against a single symbol: one row
// per accepted rewrite rule for that symbol.
type Matrix struct {
	Rows []Row
}

// OfRules builds the initial matrix for a symbol's accepted rules: one row
// per rule, LHS copied verbatim, every pattern slot starting unmatched.
func OfRules(rules []*term.Rule) *Matrix {
	rows := make([]Row, len(rules))
	for i, r := range rules {
		lhs := make([]term.Term, len(r.LHS))
		copy(lhs, r.LHS)
		rows[i] = Row{
			LHS:  lhs,
			RHS:  r.RHS,
			Env:  make([]TE, envSize(r)),
			Rule: r,
		}
	}
	return &Matrix{Rows: rows}
}

// envSize counts the distinct pattern-variable slot indices a rule's LHS
// references, so the row's environment array is large enough to hold every
// TESome a specialization step might record for it.
func envSize(r *term.Rule) int {
	max := 0
	var walk func(t term.Term)
	walk = func(t term.Term) {
		switch tt := t.(type) {
		case *term.Patt:
			if tt.Index != nil && *tt.Index+1 > max {
				max = *tt.Index + 1
			}
			for _, e := range tt.Env {
				walk(e)
			}
		case *term.App:
			walk(tt.Fun)
			walk(tt.Arg)
		case *term.Abs:
			walk(tt.Dom)
			walk(tt.Body)
		case *term.Prod:
			walk(tt.Dom)
			walk(tt.Body)
		}
	}
	for _, l := range r.LHS {
		walk(l)
	}
	return max
}

// IsPattern reports whether t, given env, is a constructor head that
// requires an actual test rather than a pattern hole a wildcard-style
// expansion can absorb. A wildcard or an unmatched linear pattern variable
// is a hole (false); a non-linear occurrence whose slot is already bound
// resolves through msubst and is judged by what it resolves to; everything
// else is a constructor (true).
func IsPattern(env []TE, t term.Term) bool {
	t = term.Unfold(t)
	switch tt := t.(type) {
	case *term.Patt:
		if tt.Index == nil {
			return false
		}
		if !env[*tt.Index].IsSome() {
			return false
		}
		resolved := term.MSubst(env[*tt.Index].Binder(), tt.Env)
		return IsPattern(env, resolved)
	case *term.App:
		// The applicand alone decides whether the chain bottoms out on a
		// pattern hole. Every applied column (e.g. "succ $x") reaches this
		// case; its head decides.
		return IsPattern(env, tt.Fun)
	default:
		return true
	}
}

// Exhausted reports whether every column of row is a pattern hole under
// row's own environment, meaning the row matches unconditionally and
// compiles straight to a leaf.
func Exhausted(row Row) bool {
	for _, t := range row.LHS {
		if IsPattern(row.Env, t) {
			return false
		}
	}
	return true
}

// CanSwitchOn reports whether every row presenting a value in column k
// shows a constructor there (no row is still a hole at that column).
func CanSwitchOn(m *Matrix, k int) bool {
	for _, row := range m.Rows {
		if k < len(row.LHS) && !IsPattern(row.Env, row.LHS[k]) {
			return false
		}
	}
	return true
}

// columnHasConstructor reports whether some row offers a constructor at
// column k, i.e. whether testing that column could discriminate anything.
func columnHasConstructor(m *Matrix, k int) bool {
	for _, row := range m.Rows {
		if k < len(row.LHS) && IsPattern(row.Env, row.LHS[k]) {
			return true
		}
	}
	return false
}

// DiscardPattFree returns the indices of columns that offer some
// discrimination, in increasing order. A column that is all pattern holes
// (or absent from every row) is never returned.
func DiscardPattFree(m *Matrix) []int {
	maxCols := 0
	for _, row := range m.Rows {
		if len(row.LHS) > maxCols {
			maxCols = len(row.LHS)
		}
	}
	var cols []int
	for k := 0; k < maxCols; k++ {
		if columnHasConstructor(m, k) {
			cols = append(cols, k)
		}
	}
	return cols
}

// GetCol gathers column k's values across every row that has one.
func GetCol(k int, m *Matrix) []term.Term {
	var out []term.Term
	for _, row := range m.Rows {
		if k < len(row.LHS) {
			out = append(out, row.LHS[k])
		}
	}
	return out
}

// Select projects m onto the given column indices, in the given order,
// dropping any column a particular row doesn't have.
func Select(m *Matrix, indices []int) *Matrix {
	rows := make([]Row, len(m.Rows))
	for i, row := range m.Rows {
		var lhs []term.Term
		for _, idx := range indices {
			if idx < len(row.LHS) {
				lhs = append(lhs, row.LHS[idx])
			}
		}
		rows[i] = Row{LHS: lhs, RHS: row.RHS, Env: row.Env, Rule: row.Rule}
	}
	return &Matrix{Rows: rows}
}

// Swap exchanges column 0 and column i in every row that has both.
func Swap(m *Matrix, i int) *Matrix {
	rows := make([]Row, len(m.Rows))
	for idx, row := range m.Rows {
		lhs := append([]term.Term(nil), row.LHS...)
		if i < len(lhs) {
			lhs[0], lhs[i] = lhs[i], lhs[0]
		}
		rows[idx] = Row{LHS: lhs, RHS: row.RHS, Env: row.Env, Rule: row.Rule}
	}
	return &Matrix{Rows: rows}
}

// ColumnPolicy picks which retained column to switch on next. Any
// deterministic choice among the retained columns is conforming; this
// package exposes the choice as a value rather than hardwiring it so a
// caller can swap in a cheaper-fewer-rows or first-row heuristic later.
type ColumnPolicy func(*Matrix) int

// LeftmostPolicy always picks the first (lowest-index) retained column.
func LeftmostPolicy(m *Matrix) int { return 0 }

// PickBest is the default ColumnPolicy: leftmost-column selection. Callers
// needing a different heuristic call their own ColumnPolicy directly
// instead of this package-level default.
var PickBest ColumnPolicy = LeftmostPolicy

// ctorShape reports the arity a wildcard must expand to in order to stand
// in for ctor: one column per abstraction body, or one column per
// argument of a head-and-args decomposition otherwise.
func ctorShape(ctor term.Term) (isAbs bool, arity int) {
	c := term.Unfold(ctor)
	if _, ok := c.(*term.Abs); ok {
		return true, 1
	}
	_, args := basics.HeadAndArgs(c)
	return false, len(args)
}

func freshWildcards(n int) []term.Term {
	out := make([]term.Term, n)
	for i := range out {
		out[i] = term.Wildcard(term.FreshName("_"))
	}
	return out
}

// matchRow decides whether a single row's head h survives specialization
// against ctor, and what columns replace it when it does. This is
// spec_filter: wildcards and unmatched linear variables always survive,
// expanding to one fresh wildcard per sub-position ctor's shape reveals; a
// non-linear occurrence resolves through msubst and recurses; concrete
// heads survive only by agreeing with ctor's own head and arity.
func matchRow(ctor, h term.Term, env []TE) (bool, []term.Term) {
	hh := term.Unfold(h)
	if p, ok := hh.(*term.Patt); ok {
		if p.Index == nil || !env[*p.Index].IsSome() {
			isAbs, arity := ctorShape(ctor)
			if isAbs {
				return true, []term.Term{term.Wildcard(term.FreshName("_"))}
			}
			return true, freshWildcards(arity)
		}
		resolved := term.MSubst(env[*p.Index].Binder(), p.Env)
		return matchRow(ctor, resolved, env)
	}

	cc := term.Unfold(ctor)
	switch ct := cc.(type) {
	case *term.Sym:
		if ht, ok := hh.(*term.Sym); ok && ht.Symbol == ct.Symbol {
			return true, nil
		}
		return false, nil
	case term.Var:
		if ht, ok := hh.(term.Var); ok && ht.Name == ct.Name {
			return true, nil
		}
		return false, nil
	case *term.Abs:
		if ht, ok := hh.(*term.Abs); ok {
			aligned := term.Subst(map[string]term.Term{ht.VarName: term.Var{Name: ct.VarName}}, ht.Body)
			return true, []term.Term{aligned}
		}
		return false, nil
	default:
		cHead, cArgs := basics.HeadAndArgs(cc)
		hHead, hArgs := basics.HeadAndArgs(hh)
		cSym, cok := cHead.(*term.Sym)
		hSym, hok := hHead.(*term.Sym)
		if cok && hok && cSym.Symbol == hSym.Symbol && len(cArgs) == len(hArgs) {
			return true, hArgs
		}
		return false, nil
	}
}

// updateEnvForMatch records, for a row whose column-0 head was itself an
// as-yet-unmatched pattern-variable slot, what that slot resolved to: ctor
// applied to the same newCols the row was just rewritten to expect. A
// later occurrence of the same slot then resolves, via msubst, to exactly
// this term, so matchRow's Sym/App case enforces that both occurrences
// agree on the same constructor and arity.
func updateEnvForMatch(env []TE, orig term.Term, ctor term.Term, newCols []term.Term) []TE {
	o := term.Unfold(orig)
	p, ok := o.(*term.Patt)
	if !ok || p.Index == nil || env[*p.Index].IsSome() {
		return env
	}
	idx := *p.Index
	ctorHead, _ := basics.HeadAndArgs(term.Unfold(ctor))
	body := basics.AddArgs(ctorHead, newCols)
	vars := make([]string, len(p.Env))
	for i := range vars {
		vars[i] = term.FreshName("e")
	}
	out := append([]TE(nil), env...)
	out[idx] = TESome(&term.RhsBinder{Vars: vars, Body: body})
	return out
}

// Specialize restricts m to the rows whose column-0 head agrees with
// ctor, replacing that column with the sub-columns the match reveals.
func Specialize(ctor term.Term, m *Matrix) *Matrix {
	var rows []Row
	for _, row := range m.Rows {
		if len(row.LHS) == 0 {
			continue
		}
		keep, newCols := matchRow(ctor, row.LHS[0], row.Env)
		if !keep {
			continue
		}
		newLHS := make([]term.Term, 0, len(newCols)+len(row.LHS)-1)
		newLHS = append(newLHS, newCols...)
		newLHS = append(newLHS, row.LHS[1:]...)
		newEnv := updateEnvForMatch(row.Env, row.LHS[0], ctor, newCols)
		rows = append(rows, Row{LHS: newLHS, RHS: row.RHS, Env: newEnv, Rule: row.Rule})
	}
	return &Matrix{Rows: rows}
}

// Default restricts m to the rows whose column-0 head is a pattern hole,
// dropping that column. A row whose column-0 head is a genuine
// constructor is excluded: it was already routed to a Specialize branch,
// never to the default branch, at compile time.
func Default(m *Matrix) *Matrix {
	var rows []Row
	for _, row := range m.Rows {
		if len(row.LHS) == 0 {
			continue
		}
		if IsPattern(row.Env, row.LHS[0]) {
			continue
		}
		rows = append(rows, Row{LHS: row.LHS[1:], RHS: row.RHS, Env: row.Env, Rule: row.Rule})
	}
	return &Matrix{Rows: rows}
}
