package codegen

import (
	"strings"
	"testing"

	"vslc/internal/symbol"
)

func TestAllocateAlignedStackRestoresAlignment(t *testing.T) {
	em := newEmitter()
	f := NewFrame(em)
	f.Push(RAX) // alignment now 8, off a 16-byte boundary

	padding := f.AllocateAlignedStack(1)
	if f.Alignment()%16 != 0 {
		t.Fatalf("expected alignment restored to a 16-byte boundary, got %d", f.Alignment())
	}

	f.UnalignStack(padding)
	if f.Alignment() != 8 {
		t.Fatalf("expected alignment to unwind back to 8, got %d", f.Alignment())
	}
}

func TestAlignStackNoOpWhenAlreadyAligned(t *testing.T) {
	em := newEmitter()
	f := NewFrame(em)
	if padding := f.AlignStack(); padding != 0 {
		t.Fatalf("expected no padding at alignment 0, got %d", padding)
	}
	if em.String() != "" {
		t.Fatalf("expected no instructions emitted for a no-op align, got:\n%s", em.String())
	}
}

func TestPushPopBalance(t *testing.T) {
	em := newEmitter()
	f := NewFrame(em)
	f.Push(RAX)
	f.Push(R10)
	f.Pop(R10)
	f.Pop(RAX)
	if f.Alignment() != 0 {
		t.Fatalf("expected balanced push/pop to restore alignment 0, got %d", f.Alignment())
	}
}

func TestSlotForParametersCountDownFromLastRegisterParam(t *testing.T) {
	fn := &symbol.Symbol{NParms: 3}
	p0 := &symbol.Symbol{Kind: symbol.Parameter, Seq: 0}
	p1 := &symbol.Symbol{Kind: symbol.Parameter, Seq: 1}
	p2 := &symbol.Symbol{Kind: symbol.Parameter, Seq: 2}

	if got := SlotFor(fn, p0); got != 2 {
		t.Errorf("param 0 of 3: slot = %d, want 2", got)
	}
	if got := SlotFor(fn, p1); got != 1 {
		t.Errorf("param 1 of 3: slot = %d, want 1", got)
	}
	if got := SlotFor(fn, p2); got != 0 {
		t.Errorf("param 2 of 3: slot = %d, want 0", got)
	}
}

func TestSlotForSevenParametersClampsAtFive(t *testing.T) {
	fn := &symbol.Symbol{NParms: 7}
	p0 := &symbol.Symbol{Kind: symbol.Parameter, Seq: 0}
	p6 := &symbol.Symbol{Kind: symbol.Parameter, Seq: 6}

	if got := SlotFor(fn, p0); got != 5 {
		t.Errorf("param 0 of 7: slot = %d, want 5", got)
	}
	if got := SlotFor(fn, p6); got != -1 {
		t.Errorf("param 6 of 7 (7th, stack-passed): slot = %d, want -1", got)
	}
}

func TestSlotForLocalsCountUpAfterRegisterParams(t *testing.T) {
	fn := &symbol.Symbol{NParms: 2}
	l0 := &symbol.Symbol{Kind: symbol.LocalVar, Seq: 0}
	l1 := &symbol.Symbol{Kind: symbol.LocalVar, Seq: 1}

	if got := SlotFor(fn, l0); got != 2 {
		t.Errorf("local 0 of 2-param fn: slot = %d, want 2", got)
	}
	if got := SlotFor(fn, l1); got != 3 {
		t.Errorf("local 1 of 2-param fn: slot = %d, want 3", got)
	}
}

func TestSlotsAreBijectiveForManyLocals(t *testing.T) {
	fn := &symbol.Symbol{NParms: 6}
	seen := make(map[int]bool)
	for i := 0; i < 6; i++ {
		p := &symbol.Symbol{Kind: symbol.Parameter, Seq: i}
		slot := SlotFor(fn, p)
		if seen[slot] {
			t.Fatalf("duplicate slot %d for parameter %d", slot, i)
		}
		seen[slot] = true
	}
	for i := 0; i < 10; i++ {
		l := &symbol.Symbol{Kind: symbol.LocalVar, Seq: i}
		slot := SlotFor(fn, l)
		if seen[slot] {
			t.Fatalf("duplicate slot %d for local %d", slot, i)
		}
		seen[slot] = true
	}
}

func TestDestinationStringForms(t *testing.T) {
	cases := []struct {
		dest Destination
		want string
	}{
		{RegDest(RAX), "%rax"},
		{SlotDest(0), "-8(%rbp)"},
		{SlotDest(2), "-24(%rbp)"},
		{GlobalDest("counter"), ".counter"},
		{StackArgDest(6), "0(%rsp)"},
		{StackArgDest(7), "8(%rsp)"},
	}
	for _, c := range cases {
		if got := c.dest.String(); got != c.want {
			t.Errorf("Destination.String() = %q, want %q", got, c.want)
		}
	}
}

func TestDestinationIsMemory(t *testing.T) {
	if RegDest(RAX).IsMemory() {
		t.Error("a register destination must not report IsMemory")
	}
	if !SlotDest(0).IsMemory() {
		t.Error("a slot destination must report IsMemory")
	}
	if !GlobalDest("x").IsMemory() {
		t.Error("a global destination must report IsMemory")
	}
}

func TestDebugSlotsListsEverySymbolOnce(t *testing.T) {
	fn := &symbol.Symbol{
		Name:   "add",
		NParms: 2,
		Locals: map[string]*symbol.Symbol{
			"a":   {Name: "a", Kind: symbol.Parameter, Seq: 0},
			"b":   {Name: "b", Kind: symbol.Parameter, Seq: 1},
			"tmp": {Name: "tmp", Kind: symbol.LocalVar, Seq: 0},
		},
	}
	out := DebugSlots(fn)
	for _, name := range []string{"a", "b", "tmp"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected DebugSlots output to mention %q, got:\n%s", name, out)
		}
	}
}

func TestEmitterNeverProducesBareRsp(t *testing.T) {
	// Regression guard for the source generator's historical missing-"%"
	// typo: every %rsp reference this package emits goes through a
	// formatted Instr call, never a hand-assembled string literal.
	em := newEmitter()
	f := NewFrame(em)
	f.AllocateStack(2)
	f.UnalignStack(f.AlignStack())
	out := em.String()
	if strings.Contains(out, " rsp") {
		t.Fatalf("found an unprefixed rsp operand in emitted text:\n%s", out)
	}
}
