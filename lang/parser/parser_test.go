package parser_test

import (
	"context"
	"testing"

	"github.com/mna/l1vm/lang/assembler"
	"github.com/mna/l1vm/lang/ast"
	"github.com/mna/l1vm/lang/codegen"
	"github.com/mna/l1vm/lang/ident"
	"github.com/mna/l1vm/lang/parser"
	"github.com/mna/l1vm/lang/vm"
	"github.com/stretchr/testify/require"
)

// run parses, generates, assembles, and executes src, returning the values
// written to channel 0. It fails the test on any parse error or pipeline
// fault, so it is only used for programs expected to run cleanly.
func run(t *testing.T, src string) []int64 {
	t.Helper()
	names := ident.NewInterner()
	nodes, errs := parser.Parse([]byte(src), names)
	require.Empty(t, errs)

	sections, err := codegen.New(names).Generate(nodes)
	require.NoError(t, err)

	prog, err := assembler.Assemble(sections)
	require.NoError(t, err)

	ch := make(chan int64, 64)
	m := vm.New(prog)
	m.Channels = []chan<- int64{ch}
	m.MaxOps = 100000
	_, err = m.Run(context.Background())
	require.NoError(t, err)
	close(ch)

	var out []int64
	for v := range ch {
		out = append(out, v)
	}
	return out
}

func TestParsePrintExpressions(t *testing.T) {
	out := run(t, "print 10 * 10, 123 * 5, 41 + 1;")
	require.Equal(t, []int64{100, 615, 42}, out)
}

func TestParseLetAndAssign(t *testing.T) {
	out := run(t, `
		let mut x = 1;
		x = x + 41;
		print x;
	`)
	require.Equal(t, []int64{42}, out)
}

func TestParseIfElse(t *testing.T) {
	out := run(t, `
		let x = 7;
		if x > 5 {
			print 1;
		} else {
			print 0;
		}
	`)
	require.Equal(t, []int64{1}, out)
}

func TestParseElseIfChain(t *testing.T) {
	out := run(t, `
		let x = 2;
		if x == 1 {
			print 10;
		} else if x == 2 {
			print 20;
		} else {
			print 30;
		}
	`)
	require.Equal(t, []int64{20}, out)
}

func TestParseWhileLoop(t *testing.T) {
	out := run(t, `
		let mut i = 0;
		let mut sum = 0;
		while i < 5 {
			sum = sum + i;
			i = i + 1;
		}
		print sum;
	`)
	require.Equal(t, []int64{10}, out)
}

func TestParseFunctionCall(t *testing.T) {
	out := run(t, `
		fn add(a, b) {
			return a + b;
		}
		print add(3, 4);
	`)
	require.Equal(t, []int64{7}, out)
}

func TestParseCallStmtDiscardsResult(t *testing.T) {
	out := run(t, `
		fn noop(a) {
			return a;
		}
		noop(1);
		print 99;
	`)
	require.Equal(t, []int64{99}, out)
}

func TestParseOperatorPrecedence(t *testing.T) {
	names := ident.NewInterner()
	nodes, errs := parser.Parse([]byte("print 2 + 3 * 4;"), names)
	require.Empty(t, errs)
	require.Len(t, nodes, 1)

	p := nodes[0].(*ast.Print)
	op := p.Exprs[0].(*ast.Op)
	require.Equal(t, ast.Add, op.Opcode)
	require.Equal(t, int64(2), op.Left.(*ast.Number).Value)

	right := op.Right.(*ast.Op)
	require.Equal(t, ast.Mul, right.Opcode)
	require.Equal(t, int64(3), right.Left.(*ast.Number).Value)
	require.Equal(t, int64(4), right.Right.(*ast.Number).Value)
}

func TestParseUnaryMinus(t *testing.T) {
	out := run(t, "print -5 + 10;")
	require.Equal(t, []int64{5}, out)
}

// TestParseErrorRecoveryMissingOperand mirrors original_source's
// lang1_errors case "22 * + 3": the missing right operand of '*' becomes an
// error node, and the '+' loop still sees the unconsumed '+' token and keeps
// building around it.
func TestParseErrorRecoveryMissingOperand(t *testing.T) {
	names := ident.NewInterner()
	nodes, errs := parser.Parse([]byte("print 22 * + 3;"), names)
	require.NotEmpty(t, errs)
	require.Len(t, nodes, 1)

	pr := nodes[0].(*ast.Print)
	top := pr.Exprs[0].(*ast.Op)
	require.Equal(t, ast.Add, top.Opcode)

	left := top.Left.(*ast.Op)
	require.Equal(t, ast.Mul, left.Opcode)
	require.Equal(t, int64(22), left.Left.(*ast.Number).Value)
	require.IsType(t, &ast.Error{}, left.Right)

	require.Equal(t, int64(3), top.Right.(*ast.Number).Value)
}

// TestParseErrorRecoveryBareOperator mirrors original_source's case "*":
// both operands are missing, yielding (error * error) without the parser
// getting stuck.
func TestParseErrorRecoveryBareOperator(t *testing.T) {
	names := ident.NewInterner()
	nodes, errs := parser.Parse([]byte("print *;"), names)
	require.NotEmpty(t, errs)
	require.Len(t, nodes, 1)

	pr := nodes[0].(*ast.Print)
	op := pr.Exprs[0].(*ast.Op)
	require.Equal(t, ast.Mul, op.Opcode)
	require.IsType(t, &ast.Error{}, op.Left)
	require.IsType(t, &ast.Error{}, op.Right)
}

// TestParseErrorRecoveryMultipleExprs mirrors original_source's case
// "22 * 44 + 66, *3" (a print-style comma-separated expression list): the
// first expression parses cleanly and the second recovers the same way as
// the bare-operator case.
func TestParseErrorRecoveryMultipleExprs(t *testing.T) {
	names := ident.NewInterner()
	nodes, errs := parser.Parse([]byte("print 22 * 44 + 66, *3;"), names)
	require.NotEmpty(t, errs)
	require.Len(t, nodes, 1)

	pr := nodes[0].(*ast.Print)
	require.Len(t, pr.Exprs, 2)

	first := pr.Exprs[0].(*ast.Op)
	require.Equal(t, ast.Add, first.Opcode)
	mul := first.Left.(*ast.Op)
	require.Equal(t, ast.Mul, mul.Opcode)
	require.Equal(t, int64(22), mul.Left.(*ast.Number).Value)
	require.Equal(t, int64(44), mul.Right.(*ast.Number).Value)
	require.Equal(t, int64(66), first.Right.(*ast.Number).Value)

	second := pr.Exprs[1].(*ast.Op)
	require.Equal(t, ast.Mul, second.Opcode)
	require.IsType(t, &ast.Error{}, second.Left)
	require.Equal(t, int64(3), second.Right.(*ast.Number).Value)
}

// TestEndToEndScenarios runs spec section 8's source-level end-to-end
// scenarios (all but #6, which is assembly-only and covered in
// lang/assembler) through the full parse -> codegen -> assemble -> run
// pipeline.
func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []int64
	}{
		{
			name: "scenario1_print_list",
			src:  "print 10 * 10, 123 * 5, 41 + 1;",
			want: []int64{100, 615, 42},
		},
		{
			name: "scenario2_if_else",
			src:  "let a = 41 + 1; if a { print 100; } else { print 0; }",
			want: []int64{100},
		},
		{
			name: "scenario3_while_countdown",
			src:  "let mut i = 3; while i != 0 { print i; i = i - 1; }",
			want: []int64{3, 2, 1},
		},
		{
			name: "scenario4_function_square",
			src:  "fn sq(x) { return x*x; } print sq(7);",
			want: []int64{49},
		},
		{
			name: "scenario5_nested_block_scope",
			src:  "let a = 5; { let b = 7; print a + b; } print a;",
			want: []int64{12, 5},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, run(t, c.src))
		})
	}
}

func TestParseNestedBlockDoesNotLeakBindings(t *testing.T) {
	out := run(t, `
		let x = 1;
		{
			let y = 2;
			print y;
		}
		print x;
	`)
	require.Equal(t, []int64{2, 1}, out)
}
