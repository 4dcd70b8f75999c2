// Package stringtab defines the string-interning contract the code
// generator consumes: an ordered list of already-quoted string literals,
// indexed by a StringData node's payload.
package stringtab

// Table is the ordered sequence of quoted string literals produced by the
// front end's string interner. Each entry already contains its surrounding
// double quotes and escape syntax suitable to follow ".asciz".
type Table []string

// Len returns the number of interned strings.
func (t Table) Len() int { return len(t) }

// At returns the literal at index i, already quoted and escaped.
func (t Table) At(i int) string { return t[i] }
