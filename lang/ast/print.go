package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/mna/l1vm/lang/ident"
)

// Printer writes a human-readable dump of a parsed program to Output,
// resolving identifier handles back to their source names via Names. It is
// the AST-inspection counterpart of the teacher's ast.Printer, trimmed to a
// single s-expression-like format since L1 has no comments to interleave.
type Printer struct {
	Output io.Writer
	Names  *ident.Interner
}

// Print writes every declaration and statement in order, one top-level form
// per line.
func (p *Printer) Print(program []Node) error {
	for _, n := range program {
		if _, err := fmt.Fprintln(p.Output, p.node(n)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) name(h ident.Handle) string { return p.Names.Name(h) }

func (p *Printer) node(n Node) string {
	switch n := n.(type) {
	case *Function:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = p.name(a)
		}
		return fmt.Sprintf("(fn %s (%s) %s)", p.name(n.Name), strings.Join(args, " "), p.node(n.Body))
	case Stmt:
		return p.stmt(n)
	case Expr:
		return p.expr(n)
	default:
		return fmt.Sprintf("<unknown node %T>", n)
	}
}

func (p *Printer) stmt(s Stmt) string {
	switch s := s.(type) {
	case *LetBinding:
		kw := "let"
		if s.Mutable {
			kw = "let mut"
		}
		return fmt.Sprintf("(%s %s %s)", kw, p.name(s.Name), p.expr(s.Value))
	case *Assign:
		return fmt.Sprintf("(assign %s %s)", p.name(s.Name), p.expr(s.Value))
	case *Print:
		parts := make([]string, len(s.Exprs))
		for i, e := range s.Exprs {
			parts[i] = p.expr(e)
		}
		return fmt.Sprintf("(print %s)", strings.Join(parts, " "))
	case *IfElse:
		if s.Else == nil {
			return fmt.Sprintf("(if %s %s)", p.expr(s.Cond), p.stmt(s.Then))
		}
		return fmt.Sprintf("(if %s %s %s)", p.expr(s.Cond), p.stmt(s.Then), p.stmt(s.Else))
	case *While:
		return fmt.Sprintf("(while %s %s)", p.expr(s.Cond), p.stmt(s.Body))
	case *Block:
		parts := make([]string, len(s.Stmts))
		for i, st := range s.Stmts {
			parts[i] = p.stmt(st)
		}
		kw := "block"
		if !s.CleanupStack {
			kw = "expr-block"
		}
		return fmt.Sprintf("(%s %s)", kw, strings.Join(parts, " "))
	case *CallStmt:
		return fmt.Sprintf("(call-stmt %s)", p.expr(s.Call))
	case *Return:
		return fmt.Sprintf("(return %s)", p.expr(s.Value))
	default:
		return fmt.Sprintf("<unknown stmt %T>", s)
	}
}

func (p *Printer) expr(e Expr) string {
	switch e := e.(type) {
	case *Number:
		return fmt.Sprintf("%d", e.Value)
	case *EnvLoad:
		return p.name(e.Name)
	case *Op:
		return fmt.Sprintf("(%s %s %s)", p.expr(e.Left), e.Opcode, p.expr(e.Right))
	case *Call:
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = p.expr(a)
		}
		return fmt.Sprintf("(call %s %s)", p.name(e.Name), strings.Join(parts, " "))
	case *Error:
		return "error"
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}
