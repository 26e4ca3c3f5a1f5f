package ast

import (
	"github.com/mna/l1vm/lang/ident"
	"github.com/mna/l1vm/lang/token"
)

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Number is an integer literal.
type Number struct {
	ValPos token.Pos
	Value  int64
}

func (n *Number) Pos() token.Pos { return n.ValPos }
func (*Number) exprNode()        {}

// EnvLoad reads a lexically visible binding by name.
type EnvLoad struct {
	NamePos token.Pos
	Name    ident.Handle
}

func (e *EnvLoad) Pos() token.Pos { return e.NamePos }
func (*EnvLoad) exprNode()        {}

// Op is a binary operation.
type Op struct {
	OpPos       token.Pos
	Left, Right Expr
	Opcode      Opcode
}

func (o *Op) Pos() token.Pos { return o.OpPos }
func (*Op) exprNode()        {}

// Call invokes a function by name, passing args in order.
type Call struct {
	NamePos token.Pos
	Name    ident.Handle
	Args    []Expr
}

func (c *Call) Pos() token.Pos { return c.NamePos }
func (*Call) exprNode()        {}

// Error is the parse-error sentinel expression. Any Error node reaching the
// code generator is a fatal codegen error; a valid parse never retains one
// in a tree that is handed to codegen.
type Error struct {
	ErrPos token.Pos
}

func (e *Error) Pos() token.Pos { return e.ErrPos }
func (*Error) exprNode()        {}
