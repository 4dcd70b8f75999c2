package codegen

import (
	"strings"
	"testing"

	"vslc/internal/ast"
	"vslc/internal/symbol"
)

// identityFunction builds a one-parameter function that returns its
// argument unchanged: fn(n) { return n; }
func identityFunction(name string) *symbol.Symbol {
	n := &symbol.Symbol{Name: "n", Kind: symbol.Parameter, Seq: 0}
	fn := &symbol.Symbol{
		Name:   name,
		Kind:   symbol.Function,
		NParms: 1,
		Locals: map[string]*symbol.Symbol{"n": n},
	}
	fn.Node = &ast.Node{
		Kind: ast.NodeBlock,
		Children: []*ast.Node{
			{
				Kind:     ast.ReturnStatement,
				Children: []*ast.Node{{Kind: ast.IdentifierData, Entry: n}},
			},
		},
	}
	return fn
}

func TestGenerateFunctionEmitsPrologueAndLabel(t *testing.T) {
	fn := identityFunction("id")
	cg := New()
	cg.globals = symbol.Table{"id": fn}
	cg.em = newEmitter()
	cg.generateFunction(fn)
	asm := cg.em.String()

	for _, want := range []string{".globl _func_id", "_func_id:", "pushq %rbp", "movq %rsp, %rbp", "ret"} {
		if !strings.Contains(asm, want) {
			t.Errorf("expected generated function to contain %q, got:\n%s", want, asm)
		}
	}
}

func TestGenerateFunctionSynthesizesImplicitReturn(t *testing.T) {
	fn := &symbol.Symbol{Name: "noop", Kind: symbol.Function}
	fn.Node = &ast.Node{Kind: ast.NodeBlock}

	cg := New()
	cg.globals = symbol.Table{"noop": fn}
	cg.em = newEmitter()
	cg.generateFunction(fn)
	asm := cg.em.String()

	if !strings.Contains(asm, "movq $0, %rax") {
		t.Fatalf("expected an implicit zero return, got:\n%s", asm)
	}
	if strings.Count(asm, "ret") != 1 {
		t.Fatalf("expected exactly one ret for a function with no explicit return, got:\n%s", asm)
	}
}

func TestGenerateFunctionMissingBodyRecordsError(t *testing.T) {
	fn := &symbol.Symbol{Name: "broken", Kind: symbol.Function}
	cg := New()
	cg.globals = symbol.Table{"broken": fn}
	cg.em = newEmitter()
	cg.generateFunction(fn)

	if len(cg.Errors()) == 0 {
		t.Fatal("expected an error for a function symbol with no body")
	}
}
