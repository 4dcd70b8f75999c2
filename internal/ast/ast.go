// Package ast defines the tagged AST node type the code generator consumes.
//
// Nodes are produced by a front end (lexer, parser, name resolution) that
// lives outside this module. The shape here mirrors the contract the
// generator was written against: every node carries a kind, an optional
// opaque payload, an optional back-reference to a resolved symbol, and an
// ordered list of children. Container/list nodes (function bodies, blocks)
// carry NodeBlock and are walked structurally rather than switched on.
package ast

import (
	"fmt"

	"vslc/internal/symbol"
)

// NodeKind tags the shape of a Node's Data and Children.
type NodeKind int

const (
	// NodeBlock is the "no matched kind" container case of the generator's
	// dispatch: children are walked in declaration order, skipping
	// DECLARATION children.
	NodeBlock NodeKind = iota
	Expression
	IdentifierData
	NumberData
	StringData
	AssignmentStatement
	AddStatement
	SubtractStatement
	MultiplyStatement
	DivideStatement
	PrintStatement
	ReturnStatement
	IfStatement
	WhileStatement
	NullStatement // continue
	Declaration
	Relation
)

func (k NodeKind) String() string {
	switch k {
	case NodeBlock:
		return "BLOCK"
	case Expression:
		return "EXPRESSION"
	case IdentifierData:
		return "IDENTIFIER_DATA"
	case NumberData:
		return "NUMBER_DATA"
	case StringData:
		return "STRING_DATA"
	case AssignmentStatement:
		return "ASSIGNMENT_STATEMENT"
	case AddStatement:
		return "ADD_STATEMENT"
	case SubtractStatement:
		return "SUBTRACT_STATEMENT"
	case MultiplyStatement:
		return "MULTIPLY_STATEMENT"
	case DivideStatement:
		return "DIVIDE_STATEMENT"
	case PrintStatement:
		return "PRINT_STATEMENT"
	case ReturnStatement:
		return "RETURN_STATEMENT"
	case IfStatement:
		return "IF_STATEMENT"
	case WhileStatement:
		return "WHILE_STATEMENT"
	case NullStatement:
		return "NULL_STATEMENT"
	case Declaration:
		return "DECLARATION"
	case Relation:
		return "RELATION"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Node is a single tree node. Data's dynamic type depends on Kind:
//
//	NumberData -> int64
//	StringData -> int (index into the consumed string table)
//	unary/binary expressions and relations -> string ("-", "~", "+", "=", ...)
//	everything else -> nil
//
// Entry is non-nil only for IdentifierData nodes, and is the symbol the
// identifier resolved to.
type Node struct {
	Kind     NodeKind
	Data     any
	Entry    *symbol.Symbol
	Children []*Node
}

// NumberValue returns the 64-bit signed literal of a NumberData node.
func (n *Node) NumberValue() int64 {
	v, _ := n.Data.(int64)
	return v
}

// StringIndex returns the string-table index of a StringData node.
func (n *Node) StringIndex() int {
	v, _ := n.Data.(int)
	return v
}

// Operator returns the operator string carried by a unary, binary, or
// relation node, or "" if Data isn't a string.
func (n *Node) Operator() string {
	v, _ := n.Data.(string)
	return v
}

// IsBlock reports whether n should be walked as a plain statement container
// (no case in the dispatch switch matched its kind).
func (n *Node) IsBlock() bool {
	return n.Kind == NodeBlock
}
