package ast

import (
	"github.com/mna/l1vm/lang/ident"
	"github.com/mna/l1vm/lang/token"
)

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// LetBinding introduces a new binding bound to Value's evaluated result.
type LetBinding struct {
	LetPos  token.Pos
	Name    ident.Handle
	Value   Expr
	Mutable bool
}

func (s *LetBinding) Pos() token.Pos { return s.LetPos }
func (*LetBinding) stmtNode()        {}

// Assign writes to an existing binding. CompoundOp is reserved for a future
// compound-assignment operator (e.g. "+="); spec section 3 requires it to be
// absent (nil) for now, and codegen rejects a non-nil value as a fatal
// codegen error.
type Assign struct {
	AssignPos  token.Pos
	Name       ident.Handle
	Value      Expr
	CompoundOp *Opcode
}

func (s *Assign) Pos() token.Pos { return s.AssignPos }
func (*Assign) stmtNode()        {}

// Print evaluates each expression in order and emits it on channel 0.
type Print struct {
	PrintPos token.Pos
	Exprs    []Expr
}

func (s *Print) Pos() token.Pos { return s.PrintPos }
func (*Print) stmtNode()        {}

// IfElse is a conditional. Else is nil when there is no else branch.
type IfElse struct {
	IfPos      token.Pos
	Cond       Expr
	Then, Else Stmt
}

func (s *IfElse) Pos() token.Pos { return s.IfPos }
func (*IfElse) stmtNode()        {}

// While is a pre-test loop.
type While struct {
	WhilePos token.Pos
	Cond     Expr
	Body     Stmt
}

func (s *While) Pos() token.Pos { return s.WhilePos }
func (*While) stmtNode()        {}

// Block is a lexical block. If CleanupStack is false, the block behaves as
// an expression block leaving exactly one value on the stack (used for a
// function body); otherwise every binding introduced in the block is popped
// on exit and the block leaves nothing behind.
type Block struct {
	LBracePos    token.Pos
	Stmts        []Stmt
	CleanupStack bool
}

func (s *Block) Pos() token.Pos { return s.LBracePos }
func (*Block) stmtNode()        {}

// CallStmt evaluates a Call expression and discards its result.
type CallStmt struct {
	CallPos token.Pos
	Call    *Call
}

func (s *CallStmt) Pos() token.Pos { return s.CallPos }
func (*CallStmt) stmtNode()        {}

// Return evaluates Value and leaves it on the stack. It emits no jump of
// its own: the function epilogue after the body moves the top of the stack
// into the caller's return slot and issues the return jump, so statements
// after a Return in the same body still run.
type Return struct {
	ReturnPos token.Pos
	Value     Expr
}

func (s *Return) Pos() token.Pos { return s.ReturnPos }
func (*Return) stmtNode()        {}
