package codegen

import "vslc/internal/symbol"

// target is the emission "goal" of the design notes: a single context value
// owned by the function emitter and threaded by value through recursive
// emission. Its counters and flag are shared, mutable cells (the mangle
// counter and the returned flag are pointers so sibling and nested calls
// observe each other's updates); the current node and destination are
// call-site values, not fields, per the design notes' guidance against a
// long-lived stringly-typed "goal" record.
type target struct {
	fn    *symbol.Symbol
	frame *Frame

	// mangle is the per-function label-mangle counter, incremented once per
	// control structure when it reserves its label index, before its body is
	// emitted, so nested structures get distinct indices.
	mangle *int

	// returned is nil when a return is illegal at this point in the tree
	// (inside an expression); otherwise it points at the enclosing
	// function or block's "has this path already returned" flag.
	returned *bool

	// continueLabel is the nearest enclosing loop's re-check label, or ""
	// if there is no enclosing loop.
	continueLabel string
}

// withReturned returns a copy of t whose returned flag is replaced. Used to
// pass an absent (nil) flag into expression subtrees, where return is
// illegal, and to give an if-statement's branches independent flags so a
// return on one arm doesn't silence sibling statements after the other.
func (t target) withReturned(r *bool) target {
	c := t
	c.returned = r
	return c
}

// withContinueLabel returns a copy of t whose loop continue-target is
// replaced, used when descending into a while-loop's body.
func (t target) withContinueLabel(label string) target {
	c := t
	c.continueLabel = label
	return c
}

// hasReturned reports whether a return has already been emitted on this
// path; false when returned is nil (illegal position) too, since there is
// nothing to short-circuit.
func (t target) hasReturned() bool {
	return t.returned != nil && *t.returned
}
