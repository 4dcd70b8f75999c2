// Package program decodes a resolved VSL program from its JSON wire
// format into the ast.Node tree and symbol.Table the code generator
// consumes. The format is deliberately minimal: it exists to let
// cmd/vslc be exercised without a front end in this module, by accepting
// the output of whatever external lexer/parser/resolver produced it.
package program

import (
	"encoding/json"
	"fmt"

	"vslc/internal/ast"
	"vslc/internal/codegen"
	"vslc/internal/stringtab"
	"vslc/internal/symbol"
)

type wireSymbol struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Seq    int    `json:"seq"`
	NParms int    `json:"nparms,omitempty"`
}

type wireFunction struct {
	Name   string       `json:"name"`
	Seq    int          `json:"seq"`
	NParms int          `json:"nparms"`
	Locals []wireSymbol `json:"locals"`
	Body   *wireNode    `json:"body"`
}

type wireNode struct {
	Kind     string      `json:"kind"`
	Op       string      `json:"op,omitempty"`
	Value    int64       `json:"value,omitempty"`
	Index    int         `json:"index,omitempty"`
	Symbol   string      `json:"symbol,omitempty"`
	Children []*wireNode `json:"children,omitempty"`
}

type wireProgram struct {
	Globals   []wireSymbol   `json:"globals"`
	Functions []wireFunction `json:"functions"`
	Strings   []string       `json:"strings"`
}

var kindByName = map[string]ast.NodeKind{
	"BLOCK":                 ast.NodeBlock,
	"EXPRESSION":            ast.Expression,
	"IDENTIFIER_DATA":       ast.IdentifierData,
	"NUMBER_DATA":           ast.NumberData,
	"STRING_DATA":           ast.StringData,
	"ASSIGNMENT_STATEMENT":  ast.AssignmentStatement,
	"ADD_STATEMENT":         ast.AddStatement,
	"SUBTRACT_STATEMENT":    ast.SubtractStatement,
	"MULTIPLY_STATEMENT":    ast.MultiplyStatement,
	"DIVIDE_STATEMENT":      ast.DivideStatement,
	"PRINT_STATEMENT":       ast.PrintStatement,
	"RETURN_STATEMENT":      ast.ReturnStatement,
	"IF_STATEMENT":          ast.IfStatement,
	"WHILE_STATEMENT":       ast.WhileStatement,
	"NULL_STATEMENT":        ast.NullStatement,
	"DECLARATION":           ast.Declaration,
	"RELATION":              ast.Relation,
}

func symbolKindByName(name string) (symbol.Kind, error) {
	switch name {
	case "global_var":
		return symbol.GlobalVar, nil
	case "local_var":
		return symbol.LocalVar, nil
	case "parameter":
		return symbol.Parameter, nil
	case "function":
		return symbol.Function, nil
	default:
		return 0, fmt.Errorf("unknown symbol kind %q", name)
	}
}

// Decode parses the JSON wire format into a *codegen.Program ready for
// CodeGen.Generate.
func Decode(data []byte) (*codegen.Program, error) {
	var wp wireProgram
	if err := json.Unmarshal(data, &wp); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}

	globals := make(symbol.Table, len(wp.Globals)+len(wp.Functions))
	for _, g := range wp.Globals {
		kind, err := symbolKindByName(g.Kind)
		if err != nil {
			return nil, fmt.Errorf("global %q: %w", g.Name, err)
		}
		globals[g.Name] = &symbol.Symbol{Name: g.Name, Kind: kind, Seq: g.Seq}
	}

	fnSymbols := make(map[string]*symbol.Symbol, len(wp.Functions))
	for _, f := range wp.Functions {
		sym := &symbol.Symbol{
			Name:   f.Name,
			Kind:   symbol.Function,
			Seq:    f.Seq,
			NParms: f.NParms,
			Locals: make(map[string]*symbol.Symbol, len(f.Locals)),
		}
		for _, l := range f.Locals {
			kind, err := symbolKindByName(l.Kind)
			if err != nil {
				return nil, fmt.Errorf("function %q local %q: %w", f.Name, l.Name, err)
			}
			sym.Locals[l.Name] = &symbol.Symbol{Name: l.Name, Kind: kind, Seq: l.Seq}
		}
		globals[f.Name] = sym
		fnSymbols[f.Name] = sym
	}

	for _, f := range wp.Functions {
		fnSym := fnSymbols[f.Name]
		body, err := buildNode(f.Body, globals, fnSym)
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", f.Name, err)
		}
		fnSym.Node = body
	}

	return &codegen.Program{
		Globals: globals,
		Strings: stringtab.Table(wp.Strings),
	}, nil
}

// buildNode recursively translates a wireNode into an *ast.Node, resolving
// an IDENTIFIER_DATA node's symbol reference against fn's locals/parameters
// first, then the global table.
func buildNode(w *wireNode, globals symbol.Table, fn *symbol.Symbol) (*ast.Node, error) {
	if w == nil {
		return nil, nil
	}
	kind, ok := kindByName[w.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown node kind %q", w.Kind)
	}

	n := &ast.Node{Kind: kind}

	switch kind {
	case ast.NumberData:
		n.Data = w.Value
	case ast.StringData:
		n.Data = w.Index
	case ast.Expression, ast.Relation:
		// An EXPRESSION with no operator and two children is a function call
		// (callee, argument list); leave Data nil so ast.Node.Operator's
		// zero value doesn't get confused with a real, empty operator.
		if w.Op != "" {
			n.Data = w.Op
		}
	case ast.IdentifierData:
		sym := resolveSymbol(w.Symbol, globals, fn)
		if sym == nil {
			return nil, fmt.Errorf("unresolved identifier %q", w.Symbol)
		}
		n.Entry = sym
	}

	for _, c := range w.Children {
		if c == nil {
			return nil, fmt.Errorf("null child in %s node", w.Kind)
		}
		child, err := buildNode(c, globals, fn)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func resolveSymbol(name string, globals symbol.Table, fn *symbol.Symbol) *symbol.Symbol {
	if fn != nil {
		if sym, ok := fn.Locals[name]; ok {
			return sym
		}
	}
	return globals[name]
}
