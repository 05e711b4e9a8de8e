// Package diag implements the three-tier error model of the rule checker:
// warnings, located rejections, and structural bugs.
package diag

import "fmt"

// Phase tags where in the core a diagnostic originated. The core has a single
// real phase today; the enum is kept so a future caller embedding this
// package alongside other phases (inference, unification) can extend it
// without changing the Diagnostic shape.
type Phase string

const (
	PhaseRuleCheck Phase = "rulecheck"
	PhaseCompile   Phase = "dtree"
)

// Tier classifies how serious a diagnostic is, per spec.md §7.
type Tier int

const (
	TierWarning Tier = iota
	TierRejection
	TierStructuralBug
)

func (t Tier) String() string {
	switch t {
	case TierWarning:
		return "warning"
	case TierRejection:
		return "rejection"
	case TierStructuralBug:
		return "structural bug"
	default:
		return "unknown"
	}
}

// Code identifies a specific diagnostic template.
type Code string

const (
	// Warning: inference returned no type for the LHS. The rule is accepted
	// as vacuous (spec.md §7).
	UntypableLHS Code = "W001"

	// Rejections.
	DoesNotPreserveTyping     Code = "E001"
	CannotSolveConstraints    Code = "E002"
	CannotInstantiateMetas    Code = "E003"
	ResidualConstraintSummary Code = "E002a" // one line per unsolved pair, printed before E002

	// Structural bugs: should be unreachable on well-formed input.
	DisallowedLHSConstructor Code = "B001"
	MalformedDefaultRow      Code = "B002"
)

var templates = map[Code]string{
	UntypableLHS:              "untypable LHS: inference could not assign a type; rule accepted as vacuous",
	DoesNotPreserveTyping:     "rule does not preserve typing",
	CannotSolveConstraints:    "cannot solve %s",
	CannotInstantiateMetas:    "cannot instantiate all metavariables",
	ResidualConstraintSummary: "%s ≡ %s",
	DisallowedLHSConstructor:  "disallowed constructor in left-hand side: %s",
	MalformedDefaultRow:       "default-matrix row head is neither a pattern hole nor a true constructor: %s",
}

func tierOf(c Code) Tier {
	switch c {
	case UntypableLHS:
		return TierWarning
	case DisallowedLHSConstructor, MalformedDefaultRow:
		return TierStructuralBug
	default:
		return TierRejection
	}
}

// Pos is a rule's source position, supplied by the out-of-scope upstream
// parser. The core never constructs one itself; it only carries it through.
type Pos struct {
	File   string
	Line   int
	Column int
}

// Diagnostic is a located, classified error or warning produced by the core.
type Diagnostic struct {
	Code  Code
	Phase Phase
	Args  []interface{}
	Pos   Pos
}

func (d *Diagnostic) Tier() Tier { return tierOf(d.Code) }

func (d *Diagnostic) Error() string {
	template, ok := templates[d.Code]
	if !ok {
		return fmt.Sprintf("unknown diagnostic code: %s", d.Code)
	}
	message := fmt.Sprintf(template, d.Args...)

	prefix := ""
	if d.Pos.File != "" {
		prefix = fmt.Sprintf("%s: ", d.Pos.File)
	}
	phaseStr := ""
	if d.Phase != "" {
		phaseStr = fmt.Sprintf("[%s] ", d.Phase)
	}
	if d.Pos.Line > 0 {
		return fmt.Sprintf("%s%serror at %d:%d [%s] (%s): %s", prefix, phaseStr, d.Pos.Line, d.Pos.Column, d.Code, d.Tier(), message)
	}
	return fmt.Sprintf("%s%serror [%s] (%s): %s", prefix, phaseStr, d.Code, d.Tier(), message)
}

// New builds a diagnostic with just a code and a position.
func New(pos Pos, code Code, args ...interface{}) *Diagnostic {
	return &Diagnostic{Code: code, Phase: PhaseRuleCheck, Pos: pos, Args: args}
}

// NewPhase builds a diagnostic tagged with an explicit phase.
func NewPhase(phase Phase, pos Pos, code Code, args ...interface{}) *Diagnostic {
	return &Diagnostic{Code: code, Phase: phase, Pos: pos, Args: args}
}

// Result is the outcome of checking one rule: either accepted (with zero or
// one warning) or rejected (with one or more diagnostics, the last of which
// is always the final rejection code).
type Result struct {
	Accepted    bool
	Diagnostics []*Diagnostic
}

func Accept(warnings ...*Diagnostic) Result {
	return Result{Accepted: true, Diagnostics: warnings}
}

func Reject(ds ...*Diagnostic) Result {
	return Result{Accepted: false, Diagnostics: ds}
}
