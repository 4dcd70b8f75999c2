// Package codegen turns a resolved VSL program into x86-64 AT&T assembly
// text for the System V AMD64 ABI. It never inspects source text or
// performs name resolution; it consumes an already-typed, already-resolved
// ast.Node tree and symbol.Table and emits code structurally.
package codegen

import (
	"vslc/internal/stringtab"
	"vslc/internal/symbol"
)

// Program is the fully resolved input to code generation: the global
// symbol table (functions and global variables) and the interned string
// literals referenced from PRINT_STATEMENT nodes.
type Program struct {
	Globals symbol.Table
	Strings stringtab.Table
}

// CodeGen holds all state accumulated while emitting one Program. A value
// is single-use: call Generate once and read Errors/DetailedErrors
// afterward.
type CodeGen struct {
	em      *emitter
	globals symbol.Table
	strings stringtab.Table
	errors  []CodegenError
}

// New returns a ready-to-use CodeGen.
func New() *CodeGen {
	return &CodeGen{em: newEmitter()}
}

func (cg *CodeGen) reset(prog *Program) {
	cg.em = newEmitter()
	cg.globals = prog.Globals
	cg.strings = prog.Strings
	cg.errors = nil
}

// Generate emits assembly for prog and returns it as text. Fatal
// conditions encountered while walking the tree (§7) do not stop emission;
// they accumulate in cg.errors and the corresponding fragment is skipped.
// Callers should check Errors() before trusting the output is assemblable.
func (cg *CodeGen) Generate(prog *Program) string {
	cg.reset(prog)

	cg.generateStringTable()
	cg.generateGlobalVariables()
	entry := cg.generateFunctions()
	cg.generateMain(entry)

	return cg.em.String()
}
