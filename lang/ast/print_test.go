package ast_test

import (
	"bytes"
	"testing"

	"github.com/mna/l1vm/lang/ast"
	"github.com/mna/l1vm/lang/ident"
	"github.com/stretchr/testify/require"
)

func TestPrinter(t *testing.T) {
	names := ident.NewInterner()
	a := names.Intern("a")

	program := []ast.Node{
		&ast.LetBinding{Name: a, Value: &ast.Number{Value: 42}},
		&ast.Print{Exprs: []ast.Expr{
			&ast.Op{Left: &ast.EnvLoad{Name: a}, Opcode: ast.Add, Right: &ast.Number{Value: 1}},
		}},
	}

	var buf bytes.Buffer
	p := ast.Printer{Output: &buf, Names: names}
	require.NoError(t, p.Print(program))

	require.Equal(t, "(let a 42)\n(print (a + 1))\n", buf.String())
}
