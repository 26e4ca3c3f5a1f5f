// Package ast defines the L1 abstract syntax tree: expressions, statements,
// function declarations, and the binary operator set of spec section 3. All
// identifier references are resolved to ident.Handle values by the parser;
// nothing downstream (code generator, assembler, VM) ever looks at a raw
// identifier string again.
package ast

import (
	"fmt"

	"github.com/mna/l1vm/lang/ident"
	"github.com/mna/l1vm/lang/token"
)

// Node is implemented by every AST node, expression or statement, so that
// diagnostics can report a source position uniformly.
type Node interface {
	Pos() token.Pos
}

// Opcode is a binary operator appearing in an Op expression.
type Opcode int

//nolint:revive
const (
	Mul Opcode = iota
	Div
	Add
	Sub
	Or
	And
	Equal
	NotEqual
	LessThan
	LessEqual
	GreaterThan
	GreaterEqual
)

var opcodeNames = [...]string{
	Mul:          "*",
	Div:          "/",
	Add:          "+",
	Sub:          "-",
	Or:           "or",
	And:          "and",
	Equal:        "==",
	NotEqual:     "!=",
	LessThan:     "<",
	LessEqual:    "<=",
	GreaterThan:  ">",
	GreaterEqual: ">=",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("opcode(%d)", int(op))
}

// Declaration is a top-level Function declaration. A Program is an ordered
// sequence of Stmt and *Function nodes, matching spec section 3 ("Top-level
// program = ordered sequence of Stmt | Declaration").
type Declaration interface {
	Node
	declNode()
}

// Function is the sole Declaration kind: a named function with positional
// parameters and a single body statement (conventionally a Block in
// expression-block mode, so the function's value is the block's result).
type Function struct {
	NamePos token.Pos
	Name    ident.Handle
	Args    []ident.Handle
	Body    Stmt
}

func (f *Function) Pos() token.Pos { return f.NamePos }
func (*Function) declNode()        {}
