// Package vm executes a bytecode.Program on a stack machine. The dispatch
// loop's shape — a counted loop with a switch over the opcode, returning a
// Fault directly from the failing case — is grounded in the teacher's
// lang/machine/machine.go Thread.run.
package vm

import (
	"context"

	"github.com/mna/l1vm/lang/bytecode"
)

// Machine executes a single Program. It holds no mutable state itself; each
// call to Run starts a fresh operand stack, so a Machine value may be reused
// or shared across goroutines as long as its Program and Channels are not
// mutated concurrently with a run.
type Machine struct {
	Program *bytecode.Program

	// Channels are the Output instruction's destinations, indexed by the
	// channel argument baked into the instruction. A nil or empty Channels
	// means the machine runs without any output bindings, in which case
	// Output discards its operand silently; an out-of-range index into a
	// non-empty Channels is a Fault.
	Channels []chan<- int64

	// MaxOps bounds the number of instructions dispatched before Run gives
	// up and returns ErrMaxOpsReached; zero means unbounded.
	MaxOps int
}

// New returns a Machine ready to execute prog with no output bindings and no
// op budget.
func New(prog *bytecode.Program) *Machine {
	return &Machine{Program: prog}
}

// Run executes the program from ip 0 until it falls off the end of the code
// or executes Break. It returns the final operand stack (mostly useful for
// tests) and a *Fault, ErrMaxOpsReached, or ctx.Err() on abnormal exit.
func (m *Machine) Run(ctx context.Context) ([]int64, error) {
	code := m.Program.Code
	stack := make([]int64, 0, 64)
	ip := 0
	numOps := 0

	fault := func(opcode bytecode.Opcode, err error) error {
		return &Fault{IP: ip, Opcode: opcode, StackDepth: len(stack), Err: err}
	}

	pop := func() (int64, bool) {
		if len(stack) == 0 {
			return 0, false
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, true
	}
	peekFromTop := func(offset int64) (int64, bool) {
		depth := len(stack)
		if offset < 0 || int(offset) >= depth {
			return 0, false
		}
		return stack[depth-1-int(offset)], true
	}
	setFromTop := func(offset int64, v int64) bool {
		depth := len(stack)
		if offset < 0 || int(offset) >= depth {
			return false
		}
		stack[depth-1-int(offset)] = v
		return true
	}

loop:
	for ip < len(code) {
		select {
		case <-ctx.Done():
			return stack, ctx.Err()
		default:
		}

		numOps++
		if m.MaxOps > 0 && numOps > m.MaxOps {
			return stack, ErrMaxOpsReached
		}

		op := code[ip]
		switch op.Code {
		case bytecode.Noop:
			ip++

		case bytecode.PushImmediate:
			stack = append(stack, int64(op.Arg))
			ip++

		case bytecode.PushImmediate24:
			stack = append(stack, int64(uint32(op.Arg)&bytecode.Max24))
			ip++

		case bytecode.PushConst:
			idx, ok := pop()
			if !ok {
				return stack, fault(op.Code, errStackUnderflow)
			}
			if idx < 0 || int(idx) >= len(m.Program.Data) {
				return stack, fault(op.Code, errConstIndexRange)
			}
			stack = append(stack, m.Program.Data[idx])
			ip++

		case bytecode.PushStack:
			offset, ok := pop()
			if !ok {
				return stack, fault(op.Code, errStackUnderflow)
			}
			v, ok := peekFromTop(offset)
			if !ok {
				return stack, fault(op.Code, errStackUnderflow)
			}
			stack = append(stack, v)
			ip++

		case bytecode.Arith:
			b, ok := pop()
			if !ok {
				return stack, fault(op.Code, errStackUnderflow)
			}
			a, ok := pop()
			if !ok {
				return stack, fault(op.Code, errStackUnderflow)
			}
			v, err := evalArith(bytecode.ArithOp(op.Arg), a, b)
			if err != nil {
				return stack, fault(op.Code, err)
			}
			stack = append(stack, v)
			ip++

		case bytecode.Jmp:
			d, ok := pop()
			if !ok {
				return stack, fault(op.Code, errStackUnderflow)
			}
			take := false
			switch bytecode.Cond(op.Arg) {
			case bytecode.Always:
				take = true
			case bytecode.Zero, bytecode.NonZero:
				c, ok := pop()
				if !ok {
					return stack, fault(op.Code, errStackUnderflow)
				}
				if bytecode.Cond(op.Arg) == bytecode.Zero {
					take = c == 0
				} else {
					take = c != 0
				}
			default:
				return stack, fault(op.Code, errInvalidCond)
			}
			if take {
				target := ip + int(d)
				if target < 0 || target > len(code) {
					return stack, fault(op.Code, errJumpOutOfRange)
				}
				ip = target
			} else {
				ip++
			}

		case bytecode.Output:
			v, ok := pop()
			if !ok {
				return stack, fault(op.Code, errStackUnderflow)
			}
			if len(m.Channels) > 0 {
				idx := int(op.Arg)
				if idx < 0 || idx >= len(m.Channels) || m.Channels[idx] == nil {
					return stack, fault(op.Code, errUnboundChannel)
				}
				select {
				case m.Channels[idx] <- v:
				case <-ctx.Done():
					return stack, ctx.Err()
				}
			}
			ip++

		case bytecode.Pop:
			switch bytecode.PopMode(op.Arg) {
			case bytecode.One:
				if _, ok := pop(); !ok {
					return stack, fault(op.Code, errStackUnderflow)
				}
			case bytecode.Top:
				n, ok := pop()
				if !ok {
					return stack, fault(op.Code, errStackUnderflow)
				}
				if n < 0 {
					return stack, fault(op.Code, errNegativePopCount)
				}
				if int(n) > len(stack) {
					return stack, fault(op.Code, errStackUnderflow)
				}
				stack = stack[:len(stack)-int(n)]
			default:
				return stack, fault(op.Code, errInvalidPopMode)
			}
			ip++

		case bytecode.Move:
			offset, ok := pop()
			if !ok {
				return stack, fault(op.Code, errStackUnderflow)
			}
			v, ok := pop()
			if !ok {
				return stack, fault(op.Code, errStackUnderflow)
			}
			if !setFromTop(offset, v) {
				return stack, fault(op.Code, errStackUnderflow)
			}
			ip++

		case bytecode.Break:
			break loop

		default:
			return stack, fault(op.Code, errInvalidOpcode)
		}
	}

	return stack, nil
}
