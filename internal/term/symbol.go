package term

import "github.com/google/uuid"

// Tag classifies a symbol's reduction behaviour.
type Tag int

const (
	Constant Tag = iota
	Definable
	InjectiveTag
)

func (t Tag) String() string {
	switch t {
	case Constant:
		return "constant"
	case Definable:
		return "definable"
	case InjectiveTag:
		return "injective"
	default:
		return "unknown"
	}
}

// Symbol carries a qualified name, a closed type, a tag, and — for definable
// symbols — an append-only rule list and a slot for the compiled decision
// tree (stored as interface{} so internal/term does not import internal/dtree
// and create an import cycle; cmd/rwcheck stores a *dtree.Tree there and
// internal/reduce reads it back as one).
type Symbol struct {
	ID        uuid.UUID
	Name      string
	Type      Term
	Tag       Tag
	Rules     []*Rule
	Tree      interface{}
}

// NewSymbol allocates a symbol with no rules and no compiled tree.
func NewSymbol(name string, typ Term, tag Tag) *Symbol {
	return &Symbol{ID: uuid.New(), Name: name, Type: typ, Tag: tag}
}

// Injective reports whether s was declared injective.
func (s *Symbol) Injective() bool { return s.Tag == InjectiveTag }

// AddRule appends a rule to s. Callers (internal/rulecheck's driver) must
// check the rule before appending it — the happens-before ordering of
// spec.md §5 — so that the LHS-to-metavariable rewrite of rule n never sees
// rule n itself.
func (s *Symbol) AddRule(r *Rule) {
	s.Rules = append(s.Rules, r)
}

// Rule binds a right-hand side under an array of pattern-variable slots.
type Rule struct {
	LHS []Term     // ordered list of argument patterns under the defining symbol
	RHS *RhsBinder // arity equals the number of LHS pattern variables appearing in the RHS
	Pos Pos
}

// Pos is a rule's source position, supplied by the out-of-scope upstream
// parser. Re-exported here (rather than importing internal/diag, which would
// create a cycle with internal/rulecheck) so Rule can carry it.
type Pos struct {
	File   string
	Line   int
	Column int
}

// Constraint is a convertibility constraint (a,b) produced by type
// inference, consumed by internal/tsubst and internal/oracle.
type Constraint struct {
	A, B Term
}
