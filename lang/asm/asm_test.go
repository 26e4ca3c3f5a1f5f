package asm_test

import (
	"testing"

	"github.com/mna/l1vm/lang/asm"
	"github.com/stretchr/testify/require"
)

// TestParseScenario6 covers spec.md end-to-end scenario #6: a raw assembly
// program that pushes a constant and outputs it.
func TestParseScenario6(t *testing.T) {
	src := "section .const\n123\nsection .code\npush const.0\noutput #0\n"

	sections, err := asm.Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, sections, 2)

	data, ok := sections[0].(*asm.Data)
	require.True(t, ok)
	require.Equal(t, []int64{123}, data.Values)

	code, ok := sections[1].(*asm.Code)
	require.True(t, ok)
	require.Equal(t, []asm.Stmt{
		&asm.PushConst{Index: 0},
		&asm.Output{Channel: 0},
	}, code.Stmts)
}

func TestParsePrintRoundTrip(t *testing.T) {
	sections := []asm.Section{
		&asm.Data{Values: []int64{1, 2, 3}},
		&asm.Code{Stmts: []asm.Stmt{
			&asm.Label{Name: "entry"},
			&asm.PushInline{Value: 42},
			&asm.PushStack{Offset: 0},
			&asm.Arith{Op: asm.Add},
			&asm.Jmp{Cond: asm.Zero, Label: "entry"},
			&asm.Jmp{Cond: asm.Always, Label: ""},
			&asm.Output{Channel: 0},
			&asm.Pop{N: 0},
			&asm.Pop{N: 1},
			&asm.Pop{N: 3},
			&asm.Move{Offset: 2},
			&asm.Noop{},
			&asm.Call{Name: "sq"},
		}},
	}

	out, err := asm.Print(sections)
	require.NoError(t, err)

	got, err := asm.Parse(out)
	require.NoError(t, err)
	require.Equal(t, sections, got)
}

func TestParseMnemonics(t *testing.T) {
	cases := []struct {
		line string
		want asm.Stmt
	}{
		{"add", &asm.Arith{Op: asm.Add}},
		{"sub", &asm.Arith{Op: asm.Sub}},
		{"mul", &asm.Arith{Op: asm.Mul}},
		{"div", &asm.Arith{Op: asm.Div}},
		{"or", &asm.Arith{Op: asm.LogicalOr}},
		{"and", &asm.Arith{Op: asm.LogicalAnd}},
		{"eq", &asm.Arith{Op: asm.Equal}},
		{"neq", &asm.Arith{Op: asm.NotEqual}},
		{"lt", &asm.Arith{Op: asm.LessThan}},
		{"le", &asm.Arith{Op: asm.LessEqual}},
		{"noop", &asm.Noop{}},
		{"pop", &asm.Pop{N: 1}},
		{"pop 5", &asm.Pop{N: 5}},
		{"move 3", &asm.Move{Offset: 3}},
		{"output #2", &asm.Output{Channel: 2}},
	}
	for _, c := range cases {
		src := "section .code\n" + c.line + "\n"
		sections, err := asm.Parse([]byte(src))
		require.NoError(t, err, c.line)
		code := sections[0].(*asm.Code)
		require.Equal(t, c.want, code.Stmts[0], c.line)
	}
}

func TestParseInvalidMnemonic(t *testing.T) {
	_, err := asm.Parse([]byte("section .code\nbogus\n"))
	require.Error(t, err)
}
