package codegen

import (
	"fmt"
	"strings"

	"vslc/internal/symbol"
)

// Frame is the pure bookkeeping component of §4.2: a shadow model of the
// compile-time stack pointer for one active function (or, for main, the
// process entry point). It never reads AST or symbol state directly; it is
// only ever told "I pushed/popped/allocated N bytes" and asked to keep the
// modeled alignment counter consistent with what has actually been emitted.
type Frame struct {
	em        *emitter
	alignment int32
}

// NewFrame returns a Frame whose alignment counter starts at 0, matching
// the state immediately after a function's prologue (the return address and
// the saved frame pointer together contribute exactly one 16-byte unit).
func NewFrame(em *emitter) *Frame {
	return &Frame{em: em}
}

// Alignment returns the current modeled byte offset from the last
// 16-aligned state.
func (f *Frame) Alignment() int32 { return f.alignment }

// AllocateStack reserves slots 8-byte cells for parameters and locals at
// function entry. No padding is added here: an odd slot count leaves the
// counter off a 16-byte boundary, and the next AlignStack or
// AllocateAlignedStack before a call pads for it.
func (f *Frame) AllocateStack(slots int) {
	if slots <= 0 {
		return
	}
	n := int32(slots) * 8
	f.em.Comment("allocate %d slots", slots)
	f.em.Instr("subq $%d, %%rsp", n)
	f.alignment += n
}

// AllocateAlignedStack reserves slots 8-byte cells plus whatever padding is
// needed to restore 16-byte alignment, in one subq, and returns the padding
// so the caller can reverse it with UnalignStack. Only the padding is
// returned; the slots cells stay reserved after that UnalignStack. Used
// immediately before a call whose argument area lives above %rsp.
func (f *Frame) AllocateAlignedStack(slots int) int32 {
	n := int32(slots) * 8
	padding := paddingFor(f.alignment + n)
	if slots == 0 && padding == 0 {
		return 0
	}
	f.em.Comment("allocate %d slots with %d bytes of alignment padding", slots, padding)
	f.em.Instr("subq $%d, %%rsp", n+padding)
	f.alignment += n + padding
	return padding
}

// AlignStack pads the stack to 16-byte alignment without reserving any
// cells, returning the padding added (0 if already aligned). Used around a
// single call with no stack-resident arguments.
func (f *Frame) AlignStack() int32 {
	padding := paddingFor(f.alignment)
	if padding == 0 {
		return 0
	}
	f.em.Comment("align stack with %d bytes of padding", padding)
	f.em.Instr("subq $%d, %%rsp", padding)
	f.alignment += padding
	return padding
}

// UnalignStack releases padding bytes returned by a previous AlignStack or
// AllocateAlignedStack call. Cells reserved by AllocateAlignedStack are not
// released. A no-op when padding is 0.
func (f *Frame) UnalignStack(padding int32) {
	if padding == 0 {
		return
	}
	f.em.Comment("undo %d bytes of alignment padding", padding)
	f.em.Instr("addq $%d, %%rsp", padding)
	f.alignment -= padding
}

// NoteStackDelta adjusts the shadow alignment counter by delta bytes
// without emitting any instruction. Used when the actual stack-depth
// change was produced by assembly text that appears once but executes a
// variable number of times at runtime (a `loop`-driven argument-parsing
// pass), so the per-iteration effect can't be attributed to individual
// Push/Pop calls at generation time.
func (f *Frame) NoteStackDelta(delta int32) {
	f.alignment += delta
}

// Push emits a pushq and accounts for its effect on alignment.
func (f *Frame) Push(r Register) {
	f.em.Instr("pushq %s", r)
	f.alignment += 8
}

// Pop emits a popq and accounts for its effect on alignment.
func (f *Frame) Pop(r Register) {
	f.em.Instr("popq %s", r)
	f.alignment -= 8
}

// MoveRegToSlot spills a register into a parameter/local slot.
func (f *Frame) MoveRegToSlot(r Register, slot int) {
	f.em.Instr("movq %s, %d(%%rbp)", r, offsetForSlot(slot))
}

// MoveSlotToReg loads a parameter/local slot into a register.
func (f *Frame) MoveSlotToReg(slot int, r Register) {
	f.em.Instr("movq %d(%%rbp), %s", offsetForSlot(slot), r)
}

// MoveRegToGlobal stores a register into a global's BSS cell.
func (f *Frame) MoveRegToGlobal(r Register, name string) {
	f.em.Instr("movq %s, .%s", r, name)
}

// MoveGlobalToReg loads a global's BSS cell into a register.
func (f *Frame) MoveGlobalToReg(name string, r Register) {
	f.em.Instr("movq .%s, %s", name, r)
}

// paddingFor returns the padding needed to bring alignment up to the next
// 16-byte boundary (0 if it is already a multiple of 16).
func paddingFor(alignment int32) int32 {
	rem := alignment % 16
	if rem == 0 {
		return 0
	}
	return 16 - rem
}

// SlotFor computes a parameter's or local variable's frame slot per the
// slot formula: a parameter's slot counts down from min(5, nparms-1), so
// parameter 0 takes the highest register-parameter slot and the last
// register-passed parameter takes slot 0; parameters past the sixth get
// negative slots. A local's slot counts up starting right after the slots
// reserved for register-passed parameters.
func SlotFor(fn *symbol.Symbol, sym *symbol.Symbol) int {
	if sym.Kind == symbol.Parameter {
		m := fn.NParms - 1
		if m > 5 {
			m = 5
		}
		return m - sym.Seq
	}
	m := fn.NParms
	if m > 6 {
		m = 6
	}
	return sym.Seq + m
}

// offsetForSlot converts a slot index to its %rbp-relative byte offset.
// A negative slot is a parameter past the sixth, which stays where the
// caller placed it: slot -1 (the caller's 0(%rsp) at the call) is at
// 16(%rbp), above the return address and saved frame pointer.
func offsetForSlot(slot int) int32 {
	if slot < 0 {
		return 8 * (1 - int32(slot))
	}
	return -8 * (int32(slot) + 1)
}

// DebugSlots renders fn's parameter/local frame-slot assignment as a
// human-readable table, one line per symbol, in declaration order. This is
// the supported replacement for the source generator's disabled
// __print_slots debug helper, wired to cmd/vslc's -dump-slots flag instead
// of a commented-out call site.
func DebugSlots(fn *symbol.Symbol) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d params):\n", fn.Name, fn.NParms)
	for _, s := range symbol.LocalsInOrder(fn) {
		fmt.Fprintf(&b, "  %-12s %-10s slot=%-3d offset=%d(%%rbp)\n", s.Name, s.Kind, SlotFor(fn, s), offsetForSlot(SlotFor(fn, s)))
	}
	return b.String()
}
