package oracle

import "github.com/lambdapi-go/rwcore/internal/term"

// Context is a typing context: an immutable association list from variable
// name to type, extended by value so callers can branch without aliasing.
type Context struct {
	head *binding
}

type binding struct {
	name string
	typ  term.Term
	next *binding
}

// Extend returns a context with name bound to typ, shadowing any existing
// binding of the same name.
func (c Context) Extend(name string, typ term.Term) Context {
	return Context{head: &binding{name: name, typ: typ, next: c.head}}
}

// Lookup finds the type bound to name, innermost binding first.
func (c Context) Lookup(name string) (term.Term, bool) {
	for b := c.head; b != nil; b = b.next {
		if b.name == name {
			return b.typ, true
		}
	}
	return nil, false
}
