package assembler_test

import (
	"math/rand"
	"testing"

	"github.com/mna/l1vm/lang/asm"
	"github.com/mna/l1vm/lang/assembler"
	"github.com/mna/l1vm/lang/bytecode"
	"github.com/stretchr/testify/require"
)

// TestScenario6 is spec.md end-to-end scenario #6, exercised entirely
// through the assembler without going through codegen.
func TestScenario6(t *testing.T) {
	sections, err := asm.Parse([]byte("section .const\n123\nsection .code\npush const.0\noutput #0\n"))
	require.NoError(t, err)

	prog, err := assembler.Assemble(sections)
	require.NoError(t, err)
	require.Equal(t, []int64{123}, prog.Data)
	require.Equal(t, []bytecode.Op{
		{Code: bytecode.PushImmediate, Arg: 0},
		{Code: bytecode.PushConst},
		{Code: bytecode.Output, Arg: 0},
	}, prog.Code)
}

// TestRoundTripLength checks invariant 1: |code_out| = sum of per-statement
// op counts.
func TestRoundTripLength(t *testing.T) {
	stmts := []asm.Stmt{
		&asm.PushInline{Value: 42},       // 1
		&asm.PushInline{Value: 1 << 30},  // 2 (harvested)
		&asm.PushStack{Offset: 1},        // 2
		&asm.Arith{Op: asm.Add},          // 1
		&asm.Pop{N: 0},                   // 0
		&asm.Pop{N: 1},                   // 1
		&asm.Pop{N: 5},                   // 2
		&asm.Move{Offset: 3},             // 2
		&asm.Output{Channel: 0},          // 1
		&asm.Noop{},                      // 1
		&asm.Label{Name: "l"},            // 0
		&asm.Jmp{Cond: asm.Always, Label: "l"}, // 2
		&asm.Jmp{Cond: asm.Zero, Label: ""},     // 1 (computed)
	}
	want := 1 + 2 + 2 + 1 + 0 + 1 + 2 + 2 + 1 + 1 + 0 + 2 + 1

	prog, err := assembler.Assemble([]asm.Section{&asm.Code{Stmts: stmts}})
	require.NoError(t, err)
	require.Len(t, prog.Code, want)
}

// TestLabelCorrectness checks invariant 2: after a taken Jmp(_, Some(L)),
// ip_after_taken == label_ip(L).
func TestLabelCorrectness(t *testing.T) {
	stmts := []asm.Stmt{
		&asm.Jmp{Cond: asm.Always, Label: "target"}, // ip 0-1
		&asm.Noop{},                                 // ip 2
		&asm.Label{Name: "target"},                  // ip 3
		&asm.Output{Channel: 0},                      // ip 3
	}
	prog, err := assembler.Assemble([]asm.Section{&asm.Code{Stmts: stmts}})
	require.NoError(t, err)

	// ip 0: PushImmediate(rel-1), ip 1: Jmp; dispatching Jmp advances ip to 1
	// (PushImmediate's own default advance) before applying the stored
	// displacement, so ip_after_taken = 1 + stored == label_ip (3).
	stored := int(prog.Code[0].Arg)
	require.Equal(t, 3, 1+stored)
}

// TestConstantsDedup checks invariant 7: no value appears twice in the pool.
func TestConstantsDedup(t *testing.T) {
	big := int64(1) << 40
	stmts := []asm.Stmt{
		&asm.PushInline{Value: big},
		&asm.PushInline{Value: big},
		&asm.PushInline{Value: big + 1},
	}
	prog, err := assembler.Assemble([]asm.Section{&asm.Code{Stmts: stmts}})
	require.NoError(t, err)
	require.Equal(t, []int64{big, big + 1}, prog.Data)
}

// TestPopElision checks invariant 8: Pop(0) emits nothing.
func TestPopElision(t *testing.T) {
	prog, err := assembler.Assemble([]asm.Section{&asm.Code{Stmts: []asm.Stmt{&asm.Pop{N: 0}}}})
	require.NoError(t, err)
	require.Empty(t, prog.Code)
}

func TestUndefinedLabel(t *testing.T) {
	stmts := []asm.Stmt{&asm.Jmp{Cond: asm.Always, Label: "missing"}}
	_, err := assembler.Assemble([]asm.Section{&asm.Code{Stmts: stmts}})
	require.Error(t, err)
	var aerr *assembler.Error
	require.ErrorAs(t, err, &aerr)
}

func TestPopCountOverflow(t *testing.T) {
	stmts := []asm.Stmt{&asm.Pop{N: 0x8000}}
	_, err := assembler.Assemble([]asm.Section{&asm.Code{Stmts: stmts}})
	require.Error(t, err)
}

// TestCallLowering checks that a Call statement's pushed return displacement
// and jump-to-function displacement both resolve to the correct absolute
// positions once combined with the callee's fixed "ip + displacement" Jmp
// semantics.
func TestCallLowering(t *testing.T) {
	stmts := []asm.Stmt{
		&asm.PushInline{Value: 0}, // ip 0: the return-value placeholder
		&asm.Call{Name: "sq"},     // ip 1-3
		&asm.Output{Channel: 0},   // ip 4: caller resumes here
		&asm.Label{Name: "func_sq"},
		&asm.Noop{}, // ip 5: function body stand-in
		&asm.Label{Name: "ret_sq"},
		&asm.Jmp{Cond: asm.Always, Label: ""}, // ip 6: computed return
	}
	prog, err := assembler.Assemble([]asm.Section{&asm.Code{Stmts: stmts}})
	require.NoError(t, err)
	require.Len(t, prog.Code, 7)

	retDisp := int(prog.Code[1].Arg)
	retJmpIP := 6
	resumeIP := 4
	require.Equal(t, resumeIP, retJmpIP+retDisp)

	callJmpDisp := int(prog.Code[2].Arg)
	funcIP := 5
	callJmpDispatchIP := 3 // the Jmp op is the 3rd op of the Call statement (ip 1..3)
	require.Equal(t, funcIP, callJmpDispatchIP+callJmpDisp)
}

// TestPropertyLabelsAndRoundTrip generates random statement sequences with
// injected labels and checks (a) every label resolves to its pass-1
// position and (b) re-assembling the printed form yields the same bytecode.
func TestPropertyLabelsAndRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		n := 5 + rng.Intn(10)
		var stmts []asm.Stmt
		labelNames := make([]string, 0, n)
		for i := 0; i < n; i++ {
			name := randLabelName(rng, i)
			labelNames = append(labelNames, name)
			stmts = append(stmts, &asm.Label{Name: name})
			stmts = append(stmts, randLeafStmt(rng))
		}
		// add a forward jump to the last label, guaranteed resolvable.
		stmts = append(stmts, &asm.Jmp{Cond: asm.Always, Label: labelNames[len(labelNames)-1]})

		sections := []asm.Section{&asm.Code{Stmts: stmts}}
		prog, err := assembler.Assemble(sections)
		require.NoError(t, err)

		printed, err := asm.Print(sections)
		require.NoError(t, err)
		reparsed, err := asm.Parse(printed)
		require.NoError(t, err)
		prog2, err := assembler.Assemble(reparsed)
		require.NoError(t, err)

		require.Equal(t, prog, prog2)
	}
}

func randLabelName(rng *rand.Rand, i int) string {
	return "l" + string(rune('a'+i%26))
}

func randLeafStmt(rng *rand.Rand) asm.Stmt {
	switch rng.Intn(4) {
	case 0:
		return &asm.PushInline{Value: int64(rng.Intn(1000))}
	case 1:
		return &asm.Arith{Op: asm.Add}
	case 2:
		return &asm.Output{Channel: 0}
	default:
		return &asm.Noop{}
	}
}
