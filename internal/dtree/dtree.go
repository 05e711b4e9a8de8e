// Package dtree compiles a pattern matrix into the decision tree a reducer
// walks at rewrite time (C7 of the design, spec.md §4.7 and §6).
package dtree

import (
	"fmt"
	"io"
	"strings"

	"github.com/lambdapi-go/rwcore/internal/basics"
	"github.com/lambdapi-go/rwcore/internal/matrix"
	"github.com/lambdapi-go/rwcore/internal/term"
	"gopkg.in/yaml.v3"
)

// Kind distinguishes the three shapes a Tree can take.
type Kind int

const (
	KindLeaf Kind = iota
	KindFail
	KindNode
)

// Child is one branch of a Node: Head is the constructor witness matched to
// reach Sub, or nil for the default branch.
type Child struct {
	Head term.Term
	Sub  *Tree
}

// Tree is the compiled decision tree: Leaf(action), Fail, or
// Node{swap, children} exactly as spec.md §4.6 names them.
type Tree struct {
	Kind     Kind
	Action   *term.RhsBinder // set iff Kind == KindLeaf
	Rule     *term.Rule      // set iff Kind == KindLeaf; the rule that fired
	Swap     *int            // set iff Kind == KindNode and a swap occurred
	Children []Child         // set iff Kind == KindNode
}

func newLeaf(row matrix.Row) *Tree {
	return &Tree{Kind: KindLeaf, Action: row.RHS, Rule: row.Rule}
}
func newFail() *Tree                  { return &Tree{Kind: KindFail} }
func newNode(swap *int, children []Child) *Tree {
	return &Tree{Kind: KindNode, Swap: swap, Children: children}
}

// resolveHead follows a pattern slot's msubst chain (TE_Some) down to the
// concrete constructor term it resolved to, mirroring matrix.IsPattern's
// own resolution so the witness used for Specialize and labelling agrees
// with what IsPattern judged to be a constructor.
func resolveHead(env []matrix.TE, t term.Term) term.Term {
	t = term.Unfold(t)
	if p, ok := t.(*term.Patt); ok && p.Index != nil && env[*p.Index].IsSome() {
		return resolveHead(env, term.MSubst(env[*p.Index].Binder(), p.Env))
	}
	return t
}

// headKey groups constructor witnesses that compile to the same child: same
// symbol and arity, same variable name, or "any abstraction".
func headKey(t term.Term) string {
	h, args := basics.HeadAndArgs(t)
	switch ht := h.(type) {
	case *term.Sym:
		return fmt.Sprintf("sym:%p:%d", ht.Symbol, len(args))
	case term.Var:
		return "var:" + ht.Name
	case *term.Abs:
		return "abs"
	default:
		return fmt.Sprintf("other:%T", h)
	}
}

// leftmostHead peels the full arity-witness down to the bare head used for
// a child's tag and for to_dot's edge label.
func leftmostHead(t term.Term) term.Term {
	h, _ := basics.HeadAndArgs(t)
	return h
}

type headEntry struct {
	witness term.Term
	label   term.Term
	key     string
}

// collectHeads gathers the distinct constructor heads presented by column 0
// of m, in the source order of the rows that first present each one.
func collectHeads(m *matrix.Matrix) []headEntry {
	var heads []headEntry
	seen := make(map[string]bool)
	for _, row := range m.Rows {
		if len(row.LHS) == 0 || !matrix.IsPattern(row.Env, row.LHS[0]) {
			continue
		}
		resolved := resolveHead(row.Env, row.LHS[0])
		key := headKey(resolved)
		if seen[key] {
			continue
		}
		seen[key] = true
		heads = append(heads, headEntry{witness: resolved, label: leftmostHead(resolved), key: key})
	}
	return heads
}

// Compile implements spec.md §4.7's recursive algorithm: a Leaf on the
// first exhausted row (first-match priority, P5), Fail on an empty matrix,
// otherwise pick a discriminating column, specialize on each constructor
// head that column presents (in source order), and fall through to a
// default branch unless the default matrix is empty.
func Compile(m *matrix.Matrix) *Tree {
	if len(m.Rows) == 0 {
		return newFail()
	}
	first := m.Rows[0]
	if matrix.Exhausted(first) {
		return newLeaf(first)
	}

	cols := matrix.DiscardPattFree(m)
	if len(cols) == 0 {
		// A non-exhausted, non-empty matrix always has at least one
		// discriminating column; reaching here means an earlier stage
		// accepted a malformed rule. Fail rather than loop.
		return newFail()
	}

	sel := matrix.PickBest(matrix.Select(m, cols))
	chosen := cols[sel]

	var swap *int
	mPrime := m
	if chosen != 0 {
		c := chosen
		swap = &c
		mPrime = matrix.Swap(m, chosen)
	}

	heads := collectHeads(mPrime)
	children := make([]Child, 0, len(heads)+1)
	for _, he := range heads {
		sub := Compile(matrix.Specialize(he.witness, mPrime))
		children = append(children, Child{Head: he.label, Sub: sub})
	}
	if def := matrix.Default(mPrime); len(def.Rows) > 0 {
		children = append(children, Child{Head: nil, Sub: Compile(def)})
	}
	return newNode(swap, children)
}

// Iter folds visit over every node of t in preorder, Node before Children,
// Children in the order compile() produced them.
func Iter(t *Tree, visit func(*Tree)) {
	if t == nil {
		return
	}
	visit(t)
	for _, c := range t.Children {
		Iter(c.Sub, visit)
	}
}

// ToDot writes a Graphviz visualisation of t: nodes are labelled with the
// selected column index (0 if no swap occurred) or the leaf's body; edges
// are labelled with the matched head constructor, "d" for the default
// branch, or "f" when they lead straight to a fail subtree.
func ToDot(w io.Writer, t *Tree) error {
	var buf strings.Builder
	buf.WriteString("digraph dtree {\n")
	counter := 0
	var walk func(*Tree) string
	walk = func(node *Tree) string {
		id := fmt.Sprintf("n%d", counter)
		counter++
		switch node.Kind {
		case KindFail:
			fmt.Fprintf(&buf, "  %s [label=\"fail\", shape=box];\n", id)
		case KindLeaf:
			fmt.Fprintf(&buf, "  %s [label=%q, shape=box];\n", id, node.Action.Body.String())
		case KindNode:
			col := 0
			if node.Swap != nil {
				col = *node.Swap
			}
			fmt.Fprintf(&buf, "  %s [label=\"col %d\"];\n", id, col)
			for _, c := range node.Children {
				childID := walk(c.Sub)
				label := "d"
				switch {
				case c.Sub.Kind == KindFail:
					label = "f"
				case c.Head != nil:
					label = c.Head.String()
				}
				fmt.Fprintf(&buf, "  %s -> %s [label=%q];\n", id, childID, label)
			}
		}
		return id
	}
	walk(t)
	buf.WriteString("}\n")
	_, err := io.WriteString(w, buf.String())
	return err
}

// yamlTree is ToYAML's wire shape: a debug dump, not a round-trippable
// encoding (term.Term values are flattened to their display strings).
type yamlTree struct {
	Kind     string      `yaml:"kind"`
	Column   *int        `yaml:"column,omitempty"`
	Action   string      `yaml:"action,omitempty"`
	Children []yamlChild `yaml:"children,omitempty"`
}

type yamlChild struct {
	Head    string   `yaml:"head,omitempty"`
	Default bool     `yaml:"default,omitempty"`
	Tree    yamlTree `yaml:"tree"`
}

func toYAMLTree(t *Tree) yamlTree {
	switch t.Kind {
	case KindFail:
		return yamlTree{Kind: "fail"}
	case KindLeaf:
		return yamlTree{Kind: "leaf", Action: t.Action.Body.String()}
	default:
		y := yamlTree{Kind: "node", Column: t.Swap}
		for _, c := range t.Children {
			ch := yamlChild{Default: c.Head == nil, Tree: toYAMLTree(c.Sub)}
			if c.Head != nil {
				ch.Head = c.Head.String()
			}
			y.Children = append(y.Children, ch)
		}
		return y
	}
}

// ToYAML writes a debug dump of t, an alternate to ToDot for tooling that
// prefers structured text over Graphviz.
func ToYAML(w io.Writer, t *Tree) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(toYAMLTree(t))
}
