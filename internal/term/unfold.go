package term

// Unfold resolves transient references and instantiated metavariables at the
// head of t, repeating until it reaches a node that is neither. Every
// traversal in this module applies Unfold before inspecting a term's head
// (spec.md §3's "A term-level indirection").
func Unfold(t Term) Term {
	for {
		switch tt := t.(type) {
		case *Meta:
			if tt.M.Instantiated() {
				t = *tt.M.Inst
				continue
			}
			return tt
		case *TRef:
			if tt.Target != nil {
				t = *tt.Target
				continue
			}
			return tt
		default:
			return t
		}
	}
}
