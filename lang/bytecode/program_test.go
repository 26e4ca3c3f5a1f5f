package bytecode_test

import (
	"testing"

	"github.com/mna/l1vm/lang/bytecode"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestProgramYAMLRoundTrip(t *testing.T) {
	prog := bytecode.Program{
		Data: []int64{1000000, 2000000},
		Code: []bytecode.Op{
			{Code: bytecode.PushImmediate, Arg: 42},
			{Code: bytecode.PushConst, Arg: 0},
			{Code: bytecode.Arith, Arg: int32(bytecode.Add)},
			{Code: bytecode.Output, Arg: 0},
			{Code: bytecode.Jmp, Arg: int32(bytecode.Always)},
			{Code: bytecode.Pop, Arg: int32(bytecode.Top)},
			{Code: bytecode.Move},
			{Code: bytecode.Noop},
			{Code: bytecode.Break},
		},
	}

	out, err := yaml.Marshal(&prog)
	require.NoError(t, err)

	var got bytecode.Program
	require.NoError(t, yaml.Unmarshal(out, &got))
	require.Equal(t, prog, got)
}

func TestProgramYAMLHumanReadable(t *testing.T) {
	prog := bytecode.Program{
		Code: []bytecode.Op{{Code: bytecode.PushImmediate, Arg: 7}},
	}
	out, err := yaml.Marshal(&prog)
	require.NoError(t, err)
	require.Contains(t, string(out), "push_immediate: 7")
}
