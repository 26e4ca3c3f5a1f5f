package vm

import "errors"

// The errors wrapped by a Fault's Err field, naming each of spec.md section
// 7's fault conditions that the dispatch loop can observe. They are
// unexported: callers detect these faults with errors.As against *Fault;
// only ErrDivByZero (fault.go) is exported for errors.Is.
var (
	errStackUnderflow   = errors.New("stack underflow")
	errConstIndexRange  = errors.New("push_const index out of range")
	errInvalidCond      = errors.New("invalid jmp condition")
	errJumpOutOfRange   = errors.New("jump target out of range")
	errUnboundChannel   = errors.New("output to unbound channel")
	errNegativePopCount = errors.New("negative pop count")
	errInvalidPopMode   = errors.New("invalid pop mode")
	errInvalidOpcode    = errors.New("invalid opcode")
	errInvalidArithOp   = errors.New("invalid arith op")
)
