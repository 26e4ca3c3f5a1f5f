package vm

import (
	"errors"
	"fmt"

	"github.com/mna/l1vm/lang/bytecode"
)

// ErrMaxOpsReached is returned when Machine.MaxOps is set and exceeded; it
// halts the machine cleanly, unlike a Fault.
var ErrMaxOpsReached = errors.New("vm: max ops reached")

// ErrDivByZero is the underlying error wrapped by a Fault for Arith(Div)
// with a zero divisor.
var ErrDivByZero = errors.New("vm: division by zero")

// Fault is a typed runtime error identifying where execution halted: the
// instruction pointer, the opcode being dispatched, and the depth of the
// operand stack at the time of the fault (spec.md section 7: "abort the VM
// with a diagnostic identifying ip, opcode, and stack depth").
type Fault struct {
	IP         int
	Opcode     bytecode.Opcode
	StackDepth int
	Err        error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("vm: fault at ip=%d opcode=%s stack_depth=%d: %v", f.IP, f.Opcode, f.StackDepth, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }
