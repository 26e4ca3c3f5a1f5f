package cli

import (
	"fmt"
	"io"

	"github.com/mna/l1vm/lang/ast"
	"github.com/mna/l1vm/lang/ident"
)

// printNodes writes a simple, indented textual dump of a parsed program to
// w, resolving identifier handles back to names through names. There is no
// machine-readable contract on this format; it exists for human inspection
// (the "parse" subcommand), the same role the teacher's
// ast.Printer plays for nenuphar.
func printNodes(w io.Writer, names *ident.Interner, nodes []ast.Node) {
	for _, n := range nodes {
		printNode(w, names, n, 0)
	}
}

func indent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		fmt.Fprint(w, "  ")
	}
}

func printNode(w io.Writer, names *ident.Interner, n ast.Node, depth int) {
	indent(w, depth)
	switch n := n.(type) {
	case *ast.Function:
		fmt.Fprintf(w, "Function %s(", names.Name(n.Name))
		for i, a := range n.Args {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprint(w, names.Name(a))
		}
		fmt.Fprintln(w, ")")
		printNode(w, names, n.Body, depth+1)

	case *ast.LetBinding:
		mut := ""
		if n.Mutable {
			mut = "mut "
		}
		fmt.Fprintf(w, "Let %s%s =\n", mut, names.Name(n.Name))
		printExpr(w, names, n.Value, depth+1)

	case *ast.Assign:
		fmt.Fprintf(w, "Assign %s =\n", names.Name(n.Name))
		printExpr(w, names, n.Value, depth+1)

	case *ast.Print:
		fmt.Fprintln(w, "Print")
		for _, e := range n.Exprs {
			printExpr(w, names, e, depth+1)
		}

	case *ast.IfElse:
		fmt.Fprintln(w, "If")
		printExpr(w, names, n.Cond, depth+1)
		indent(w, depth)
		fmt.Fprintln(w, "Then")
		printNode(w, names, n.Then, depth+1)
		if n.Else != nil {
			indent(w, depth)
			fmt.Fprintln(w, "Else")
			printNode(w, names, n.Else, depth+1)
		}

	case *ast.While:
		fmt.Fprintln(w, "While")
		printExpr(w, names, n.Cond, depth+1)
		indent(w, depth)
		fmt.Fprintln(w, "Do")
		printNode(w, names, n.Body, depth+1)

	case *ast.Block:
		fmt.Fprintf(w, "Block (cleanup=%v)\n", n.CleanupStack)
		for _, s := range n.Stmts {
			printNode(w, names, s, depth+1)
		}

	case *ast.CallStmt:
		fmt.Fprintln(w, "CallStmt")
		printExpr(w, names, n.Call, depth+1)

	case *ast.Return:
		fmt.Fprintln(w, "Return")
		printExpr(w, names, n.Value, depth+1)

	default:
		fmt.Fprintf(w, "%T\n", n)
	}
}

func printExpr(w io.Writer, names *ident.Interner, e ast.Expr, depth int) {
	indent(w, depth)
	switch e := e.(type) {
	case *ast.Number:
		fmt.Fprintf(w, "Number %d\n", e.Value)
	case *ast.EnvLoad:
		fmt.Fprintf(w, "EnvLoad %s\n", names.Name(e.Name))
	case *ast.Op:
		fmt.Fprintf(w, "Op %s\n", e.Opcode)
		printExpr(w, names, e.Left, depth+1)
		printExpr(w, names, e.Right, depth+1)
	case *ast.Call:
		fmt.Fprintf(w, "Call %s\n", names.Name(e.Name))
		for _, a := range e.Args {
			printExpr(w, names, a, depth+1)
		}
	case *ast.Error:
		fmt.Fprintln(w, "Error")
	default:
		fmt.Fprintf(w, "%T\n", e)
	}
}
