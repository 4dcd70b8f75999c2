package codegen

import "fmt"

// CodegenError is one fatal condition encountered while walking the AST:
// a malformed call, an argument-count mismatch, an unsupported symbol
// kind, a return or continue in an illegal position, or an unknown
// relation operator (spec §7). The library never terminates the process
// itself; it records the condition and lets emission of the surrounding
// tree continue where it safely can, so a single bad function doesn't
// prevent inspecting errors from the rest of the program. Context, when
// set, names the function the error occurred in.
type CodegenError struct {
	Message string
	Context string
}

func (cg *CodeGen) addError(msg string) {
	cg.errors = append(cg.errors, CodegenError{Message: msg})
}

func (cg *CodeGen) addContextError(msg, context string) {
	cg.errors = append(cg.errors, CodegenError{Message: msg, Context: context})
}

// Errors returns the accumulated fatal conditions as formatted strings.
func (cg *CodeGen) Errors() []string {
	out := make([]string, 0, len(cg.errors))
	for _, e := range cg.errors {
		if e.Context == "" {
			out = append(out, e.Message)
			continue
		}
		out = append(out, fmt.Sprintf("%s (in %s)", e.Message, e.Context))
	}
	return out
}

// DetailedErrors returns a defensive copy of the accumulated errors.
func (cg *CodeGen) DetailedErrors() []CodegenError {
	out := make([]CodegenError, len(cg.errors))
	copy(out, cg.errors)
	return out
}
