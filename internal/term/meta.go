package term

import "github.com/google/uuid"

// MetaVar is a metavariable: a unique identity, an arity, a type of shape
// ∀(x1:A1)...(xk:Ak), A_{k+1}, an optional display name, and an
// instantiation slot filled at most once by the external unifier.
//
// Metavariable types reference earlier metavariables by identity, forming a
// DAG (spec.md §9); MetaVar is always held and compared by pointer (its ID
// field is the stable identifier spec.md asks for — two *MetaVar with equal
// ID never arise in well-formed use, but ID lets callers that do need a
// value-comparable key, e.g. a map, use one without dereferencing pointers).
type MetaVar struct {
	ID    uuid.UUID
	Arity int
	Type  Term
	Name  string
	Inst  *Term // nil until instantiated; written exactly once
}

// NewMetaVar allocates a fresh, uninstantiated metavariable.
func NewMetaVar(arity int, typ Term, name string) *MetaVar {
	return &MetaVar{ID: uuid.New(), Arity: arity, Type: typ, Name: name}
}

// Instantiate fills m's instantiation slot. Callers (the external unifier)
// must not call this more than once per metavariable.
func (m *MetaVar) Instantiate(t Term) {
	if m.Inst != nil {
		panic("term: metavariable instantiated twice")
	}
	m.Inst = &t
}

// Instantiated reports whether m has been filled.
func (m *MetaVar) Instantiated() bool { return m.Inst != nil }
