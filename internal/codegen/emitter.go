package codegen

import (
	"fmt"
	"strings"
)

// emitter is the line-oriented text sink every other component writes
// through. It distinguishes directives, labels, instructions and comments
// only by formatting convention; it never fails, since appending a line to
// an in-memory buffer cannot fail at this layer (an I/O failure writing the
// final string to its destination is the driver's problem, not ours).
type emitter struct {
	buf strings.Builder
}

func newEmitter() *emitter {
	return &emitter{}
}

// Directive emits an unindented assembler directive, e.g. ".section .text".
func (e *emitter) Directive(format string, args ...any) {
	fmt.Fprintf(&e.buf, format+"\n", args...)
}

// Label emits a label line ("name:"). format/args build the label's name,
// without the trailing colon.
func (e *emitter) Label(format string, args ...any) {
	fmt.Fprintf(&e.buf, format+":\n", args...)
}

// Instr emits a tab-indented instruction.
func (e *emitter) Instr(format string, args ...any) {
	e.buf.WriteByte('\t')
	fmt.Fprintf(&e.buf, format+"\n", args...)
}

// Raw emits a line verbatim, with no indentation added. Used for the fixed
// .asciz bodies of the string table, which carry their own leading tab.
func (e *emitter) Raw(line string) {
	e.buf.WriteString(line)
	e.buf.WriteByte('\n')
}

// Comment emits a tab-indented "# ..." diagnostic line, matching the
// original generator's habit of annotating stack (de)allocation.
func (e *emitter) Comment(format string, args ...any) {
	e.buf.WriteString("\t# ")
	fmt.Fprintf(&e.buf, format+"\n", args...)
}

func (e *emitter) String() string {
	return e.buf.String()
}
