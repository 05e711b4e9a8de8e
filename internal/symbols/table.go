// Package symbols implements the shared signature: a name-indexed table of
// term.Symbol entries, adapted from the teacher's layered symbol table
// (internal/symbols/symbol_table_core.go's Symbol struct and the
// outer-chain Lookup idiom visible in symbol_table_dispatch.go's
// GetTraitMethodDispatch) down to the flat signature this domain needs — a
// λΠ signature has no block/function scoping, only a single global level
// with optional nesting for local experimentation (tests build throwaway
// tables enclosing a shared prelude).
package symbols

import "github.com/lambdapi-go/rwcore/internal/term"

// Table is a name-indexed signature of symbols, optionally chained to an
// outer table so a local table can shadow/extend a shared one.
type Table struct {
	outer *Table
	syms  map[string]*term.Symbol
}

// New creates an empty top-level table.
func New() *Table {
	return &Table{syms: make(map[string]*term.Symbol)}
}

// NewEnclosed creates a table that falls back to outer on a miss.
func NewEnclosed(outer *Table) *Table {
	return &Table{outer: outer, syms: make(map[string]*term.Symbol)}
}

// Define registers s under its own name, shadowing any outer symbol of the
// same name for lookups through this table.
func (t *Table) Define(s *term.Symbol) {
	t.syms[s.Name] = s
}

// Lookup finds a symbol by name, checking outer tables on a miss.
func (t *Table) Lookup(name string) (*term.Symbol, bool) {
	if s, ok := t.syms[name]; ok {
		return s, true
	}
	if t.outer != nil {
		return t.outer.Lookup(name)
	}
	return nil, false
}

// All returns every symbol defined directly in t (not outer tables), in
// definition order is not guaranteed — callers needing a stable order should
// sort by name.
func (t *Table) All() []*term.Symbol {
	out := make([]*term.Symbol, 0, len(t.syms))
	for _, s := range t.syms {
		out = append(out, s)
	}
	return out
}
