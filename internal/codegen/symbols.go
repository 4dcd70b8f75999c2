package codegen

import (
	"fmt"

	"vslc/internal/symbol"
)

// readSymbolInto emits the one instruction that moves sym's current value
// into reg. A function symbol, or any kind outside {global_var, local_var,
// parameter}, is the fatal "unsupported symbol type" condition of spec §7.
func (cg *CodeGen) readSymbolInto(t target, reg Register, sym *symbol.Symbol) bool {
	switch sym.Kind {
	case symbol.GlobalVar:
		t.frame.MoveGlobalToReg(sym.Name, reg)
		return true
	case symbol.LocalVar, symbol.Parameter:
		t.frame.MoveSlotToReg(SlotFor(t.fn, sym), reg)
		return true
	default:
		cg.addContextError(fmt.Sprintf("unsupported symbol type for identifier %q", sym.Name), t.fn.Name)
		return false
	}
}

// writeSymbolFrom emits the one instruction that stores reg into sym's
// location.
func (cg *CodeGen) writeSymbolFrom(t target, reg Register, sym *symbol.Symbol) bool {
	switch sym.Kind {
	case symbol.GlobalVar:
		t.frame.MoveRegToGlobal(reg, sym.Name)
		return true
	case symbol.LocalVar, symbol.Parameter:
		t.frame.MoveRegToSlot(reg, SlotFor(t.fn, sym))
		return true
	default:
		cg.addContextError(fmt.Sprintf("unsupported symbol type for identifier %q", sym.Name), t.fn.Name)
		return false
	}
}

// operandFor produces sym's operand string as a Destination, for callers
// that write an expression's result directly to memory without going
// through %rax (a plain assignment's l-value).
func (cg *CodeGen) operandFor(t target, sym *symbol.Symbol) (Destination, bool) {
	switch sym.Kind {
	case symbol.GlobalVar:
		return GlobalDest(sym.Name), true
	case symbol.LocalVar, symbol.Parameter:
		return SlotDest(SlotFor(t.fn, sym)), true
	default:
		cg.addContextError(fmt.Sprintf("unsupported symbol type for identifier %q", sym.Name), t.fn.Name)
		return Destination{}, false
	}
}

// emitIdentifierRead moves sym's value into dest. When dest is a register,
// this is the symbol access's one instruction directly. When dest is
// memory, a direct move would be an illegal memory-to-memory operation, so
// the value is staged through %rax first.
func (cg *CodeGen) emitIdentifierRead(t target, sym *symbol.Symbol, dest Destination) {
	if sym == nil {
		cg.addContextError("identifier node has no resolved symbol", t.fn.Name)
		return
	}
	if !dest.IsMemory() {
		cg.readSymbolInto(t, dest.Register(), sym)
		return
	}
	if !cg.readSymbolInto(t, RAX, sym) {
		return
	}
	cg.em.Instr("movq %%rax, %s", dest)
}
