package codegen

import (
	"vslc/internal/ast"
	"vslc/internal/symbol"
)

// generateFunction emits one function's label, prologue, spilled
// parameters, body, and (if the body doesn't return on every path) the
// synthetic epilogue that returns 0. fn.Node must hold the function's body
// as *ast.Node; a symbol with any other shape is a caller error and is
// reported rather than panicked on.
func (cg *CodeGen) generateFunction(fn *symbol.Symbol) {
	body, ok := fn.Node.(*ast.Node)
	if !ok || body == nil {
		cg.addContextError("function has no body", fn.Name)
		return
	}

	cg.em.Directive(".globl _func_%s", fn.Name)
	cg.em.Label("_func_%s", fn.Name)
	cg.em.Instr("pushq %%rbp")
	cg.em.Instr("movq %%rsp, %%rbp")

	frame := NewFrame(cg.em)
	locals := symbol.LocalsInOrder(fn)
	registerSlots := fn.NParms
	if registerSlots > 6 {
		registerSlots = 6
	}
	frame.AllocateStack(registerSlots + (len(locals) - fn.NParms))

	// Spill register-passed parameters into their frame slots, highest
	// index first, mirroring the reverse order the source used so that
	// %rdi (parameter 0) is the last spill and leaves the register free
	// for anything emitted between spills and body start.
	for i := registerSlots - 1; i >= 0; i-- {
		param := findParam(locals, i)
		if param == nil {
			continue
		}
		frame.MoveRegToSlot(paramRegisters[i], SlotFor(fn, param))
	}

	mangle := 0
	returned := false
	t := target{fn: fn, frame: frame, mangle: &mangle, returned: &returned}
	cg.emitNode(t, body, Destination{})

	if !returned {
		cg.em.Instr("movq $0, %%rax")
		cg.em.Instr("leave")
		cg.em.Instr("ret")
	}
}

// findParam returns the parameter with Seq == seq among locals, or nil.
func findParam(locals []*symbol.Symbol, seq int) *symbol.Symbol {
	for _, s := range locals {
		if s.Kind == symbol.Parameter && s.Seq == seq {
			return s
		}
	}
	return nil
}
