package codegen

import (
	"fmt"

	"vslc/internal/ast"
)

// emitNode is the master dispatch of §4: every node kind the generator
// understands has one case here, and DECLARATION emits nothing; anything
// else (in particular NodeBlock) falls through to the statement-container
// walk.
func (cg *CodeGen) emitNode(t target, node *ast.Node, dest Destination) {
	if node == nil {
		return
	}
	if t.hasReturned() {
		return
	}

	switch node.Kind {
	case ast.Expression:
		cg.emitExpressionBody(t, node, dest)
	case ast.IdentifierData:
		cg.emitIdentifierRead(t, node.Entry, dest)
	case ast.NumberData:
		cg.em.Instr("movq $%d, %s", node.NumberValue(), dest)
	case ast.StringData:
		cg.addContextError("string literal used outside a print statement", t.fn.Name)
	case ast.AssignmentStatement:
		cg.emitAssignment(t, node, "")
	case ast.AddStatement:
		cg.emitAssignment(t, node, "+")
	case ast.SubtractStatement:
		cg.emitAssignment(t, node, "-")
	case ast.MultiplyStatement:
		cg.emitAssignment(t, node, "*")
	case ast.DivideStatement:
		cg.emitAssignment(t, node, "/")
	case ast.PrintStatement:
		cg.emitPrint(t, node)
	case ast.ReturnStatement:
		cg.emitReturn(t, node)
	case ast.IfStatement:
		cg.emitIf(t, node)
	case ast.WhileStatement:
		cg.emitWhile(t, node)
	case ast.NullStatement:
		cg.emitContinue(t, node)
	case ast.Declaration:
		// Declarations carry no code; only their symbol-table entries matter,
		// and those were already consumed before code generation began.
	default:
		cg.emitBlock(t, node)
	}
}

// emitBlock walks node's children in order, stopping as soon as the
// enclosing path has returned — a DECLARATION child is inert and is always
// skipped rather than dispatched.
func (cg *CodeGen) emitBlock(t target, node *ast.Node) {
	for _, child := range node.Children {
		if child.Kind == ast.Declaration {
			continue
		}
		if t.hasReturned() {
			return
		}
		cg.emitNode(t, child, Destination{})
	}
}

// emitAssignment handles both a plain assignment (op == "") and a compound
// assignment (op one of "+","-","*","/"). Children are [identifier, expr].
func (cg *CodeGen) emitAssignment(t target, node *ast.Node, op string) {
	if len(node.Children) != 2 {
		cg.addContextError("malformed assignment", t.fn.Name)
		return
	}
	sym := node.Children[0].Entry
	if sym == nil {
		cg.addContextError("assignment to unresolved identifier", t.fn.Name)
		return
	}
	lvalue, ok := cg.operandFor(t, sym)
	if !ok {
		return
	}

	sub := t.withReturned(nil)

	if op == "" {
		cg.emitNode(sub, node.Children[1], lvalue)
		return
	}

	cg.emitNode(sub, node.Children[1], RegDest(R10))
	if !cg.readSymbolInto(t, RAX, sym) {
		return
	}
	switch op {
	case "+":
		cg.em.Instr("addq %s, %s", R10, RAX)
	case "-":
		cg.em.Instr("subq %s, %s", R10, RAX)
	case "*":
		cg.em.Instr("imulq %s", R10)
	case "/":
		cg.em.Instr("cqto")
		cg.em.Instr("idivq %s", R10)
	default:
		cg.addContextError(fmt.Sprintf("unknown compound assignment operator %q", op), t.fn.Name)
		return
	}
	cg.writeSymbolFrom(t, RAX, sym)
}

// emitPrint emits one libc printf call per argument, per the format table:
// a string-table index prints with .strout and the string's own address, an
// identifier or expression prints with .intout and the computed value in
// %rsi. Each call is individually stack-aligned since the argument count
// varies per print item.
func (cg *CodeGen) emitPrint(t target, node *ast.Node) {
	for _, item := range node.Children {
		padding := t.frame.AlignStack()
		if item.Kind == ast.StringData {
			cg.em.Instr("movq $.strout, %%rdi")
			cg.em.Instr("movq $.STR%d, %%rsi", item.StringIndex())
		} else {
			cg.em.Instr("movq $.intout, %%rdi")
			cg.emitNode(t.withReturned(nil), item, RegDest(RSI))
		}
		cg.em.Instr("movq $0, %%rax")
		cg.em.Instr("call printf")
		t.frame.UnalignStack(padding)
	}
	padding := t.frame.AlignStack()
	cg.em.Instr("movq $.newline, %%rdi")
	cg.em.Instr("movq $0, %%rax")
	cg.em.Instr("call printf")
	t.frame.UnalignStack(padding)
}

// emitReturn emits the return expression into %rax followed by the
// function epilogue, and marks the enclosing path as returned so sibling
// statements after this one are silenced. A nil returned pointer means
// return appears in an illegal position (inside an expression).
func (cg *CodeGen) emitReturn(t target, node *ast.Node) {
	if t.returned == nil {
		cg.addContextError("return in illegal position", t.fn.Name)
		return
	}
	if len(node.Children) == 1 {
		cg.emitNode(t.withReturned(nil), node.Children[0], RegDest(RAX))
	} else {
		cg.em.Instr("movq $0, %%rax")
	}
	cg.em.Instr("leave")
	cg.em.Instr("ret")
	*t.returned = true
}

// emitContinue jumps to the nearest enclosing loop's re-check label. A
// continue outside any loop is the fatal "illegal position" condition.
func (cg *CodeGen) emitContinue(t target, node *ast.Node) {
	if t.continueLabel == "" {
		cg.addContextError("continue not inside loop", t.fn.Name)
		return
	}
	cg.em.Instr("jmp %s", t.continueLabel)
}

// emitIf emits an if [else] statement. Each branch gets an independent
// returned flag: a return taken on one arm must not silence statements that
// follow the if in the other arm, or after the if altogether.
func (cg *CodeGen) emitIf(t target, node *ast.Node) {
	if len(node.Children) < 2 || len(node.Children) > 3 {
		cg.addContextError("malformed if statement", t.fn.Name)
		return
	}
	k := *t.mangle
	*t.mangle++
	elseLabel := label(t.fn.Name, "ELSE", k)
	endLabel := label(t.fn.Name, "ENDIF", k)

	cg.emitRelation(t, node.Children[0])
	jump, ok := inverseJump(node.Children[0].Operator())
	if !ok {
		cg.addContextError(fmt.Sprintf("unknown relation operator %q", node.Children[0].Operator()), t.fn.Name)
		return
	}

	hasElse := len(node.Children) == 3
	if hasElse {
		cg.em.Instr("%s %s", jump, elseLabel)
	} else {
		cg.em.Instr("%s %s", jump, endLabel)
	}

	thenReturned := t.hasReturned()
	cg.emitNode(t.withReturned(&thenReturned), node.Children[1], Destination{})

	if hasElse {
		cg.em.Instr("jmp %s", endLabel)
		cg.em.Raw(elseLabel + ":")
		elseReturned := t.hasReturned()
		cg.emitNode(t.withReturned(&elseReturned), node.Children[2], Destination{})
	}

	cg.em.Raw(endLabel + ":")
}

// emitWhile emits a while loop as a check-first loop: the relation check
// and its inverse-conditional exit sit at the top of the label, the body
// follows, and the body falls through into an unconditional jump back to
// the check. continue inside the body targets the check label so a
// continuing iteration still re-evaluates the condition.
func (cg *CodeGen) emitWhile(t target, node *ast.Node) {
	if len(node.Children) != 2 {
		cg.addContextError("malformed while statement", t.fn.Name)
		return
	}
	k := *t.mangle
	*t.mangle++
	checkLabel := label(t.fn.Name, "WCHECK", k)
	endLabel := label(t.fn.Name, "WEND", k)

	cg.em.Raw(checkLabel + ":")
	cg.emitRelation(t, node.Children[0])
	jump, ok := inverseJump(node.Children[0].Operator())
	if !ok {
		cg.addContextError(fmt.Sprintf("unknown relation operator %q", node.Children[0].Operator()), t.fn.Name)
		return
	}
	cg.em.Instr("%s %s", jump, endLabel)

	bodyReturned := false
	cg.emitNode(t.withReturned(&bodyReturned).withContinueLabel(checkLabel), node.Children[1], Destination{})

	cg.em.Instr("jmp %s", checkLabel)
	cg.em.Raw(endLabel + ":")
}

// label formats a function-local, mangle-unique control-flow label.
func label(fn, prefix string, k int) string {
	return fmt.Sprintf("._%s_%s_%d", fn, prefix, k)
}
