package codegen

import (
	"fmt"

	"vslc/internal/ast"
)

// emitExpressionBody handles an EXPRESSION node: opless (identifier,
// number, or call), unary, or binary. The returned flag is always absent
// for expression subtrees — a return inside an expression is illegal — so
// every recursive call here passes a fresh nil returned pointer.
func (cg *CodeGen) emitExpressionBody(t target, node *ast.Node, dest Destination) {
	sub := t.withReturned(nil)
	op := node.Operator()

	if node.Data == nil {
		if len(node.Children) == 2 {
			cg.emitCall(sub, node, dest)
			return
		}
		if len(node.Children) != 1 {
			cg.addContextError("malformed expression node", t.fn.Name)
			return
		}
		cg.emitNode(sub, node.Children[0], dest)
		return
	}

	if len(node.Children) == 1 {
		cg.emitNode(sub, node.Children[0], dest)
		switch op {
		case "-":
			cg.em.Instr("negq %s", dest)
		case "~":
			cg.em.Instr("notq %s", dest)
		default:
			cg.addContextError(fmt.Sprintf("unknown unary operator %q", op), t.fn.Name)
		}
		return
	}

	if len(node.Children) != 2 {
		cg.addContextError("malformed expression node", t.fn.Name)
		return
	}

	cg.emitNode(sub, node.Children[1], RegDest(RAX))
	t.frame.Push(RAX)
	cg.emitNode(sub, node.Children[0], RegDest(RAX))
	t.frame.Pop(R10)

	switch op {
	case "|":
		cg.em.Instr("or %s, %s", R10, RAX)
	case "^":
		cg.em.Instr("xor %s, %s", R10, RAX)
	case "&":
		cg.em.Instr("and %s, %s", R10, RAX)
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
		cg.addContextError(fmt.Sprintf("unknown binary operator %q", op), t.fn.Name)
		return
	}

	if !dest.IsRegister(RAX) {
		cg.em.Instr("movq %%rax, %s", dest)
	}
}

// emitCall emits a call node: child[0] is the callee identifier, child[1]
// the (possibly absent) argument list.
func (cg *CodeGen) emitCall(t target, node *ast.Node, dest Destination) {
	if len(node.Children) != 2 {
		cg.addContextError("malformed function call", t.fn.Name)
		return
	}

	callee := node.Children[0].Entry
	if callee == nil {
		cg.addContextError("call to unresolved function", t.fn.Name)
		return
	}

	var args []*ast.Node
	if argList := node.Children[1]; argList != nil {
		args = argList.Children
	}
	if len(args) != callee.NParms {
		cg.addContextError(
			fmt.Sprintf("wrong number of arguments for call to %s in %s", callee.Name, t.fn.Name),
			t.fn.Name,
		)
		return
	}

	stackSlots := 0
	if callee.NParms > 6 {
		stackSlots = callee.NParms - 6
	}
	padding := t.frame.AllocateAlignedStack(stackSlots)

	for i, arg := range args {
		var argDest Destination
		if i < 6 {
			argDest = RegDest(paramRegisters[i])
		} else {
			argDest = StackArgDest(i)
		}
		cg.emitNode(t.withReturned(nil), arg, argDest)
	}

	cg.em.Instr("call _func_%s", callee.Name)
	t.frame.UnalignStack(padding)

	if !dest.IsRegister(RAX) {
		cg.em.Instr("movq %%rax, %s", dest)
	}
}

// emitRelation emits the condition of an if or while node: left into %rax,
// pushed; right into %r11; left popped into %r10; cmp %r11, %r10 (AT&T
// order, so the flags reflect left - right). The consumer follows with the
// inverse-conditional jump that skips the guarded body when the relation is
// false.
func (cg *CodeGen) emitRelation(t target, node *ast.Node) {
	if len(node.Children) != 2 {
		cg.addContextError("malformed relation", t.fn.Name)
		return
	}
	sub := t.withReturned(nil)
	cg.emitNode(sub, node.Children[0], RegDest(RAX))
	t.frame.Push(RAX)
	cg.emitNode(sub, node.Children[1], RegDest(R11))
	t.frame.Pop(R10)
	cg.em.Instr("cmp %s, %s", R11, R10)
}

// inverseJump returns the conditional jump mnemonic that skips a
// guarded body when relation op does NOT hold.
func inverseJump(op string) (string, bool) {
	switch op {
	case "=":
		return "jne", true
	case ">":
		return "jng", true
	case "<":
		return "jnl", true
	default:
		return "", false
	}
}
