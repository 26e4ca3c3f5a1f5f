// Package bytecode defines the VM's instruction set, the constants pool, the
// program container, and the 24-bit packed immediate encoding of spec
// section 3. Every operand-consuming opcode (PushConst, PushStack, Jmp,
// Pop(Top), Move) takes its operand from the stack rather than encoding it
// inline; the only opcodes carrying an inline operand are the two
// immediate-push forms and Output, plus the discriminant on Arith, Jmp, Pop.
package bytecode

import "fmt"

// Opcode is a VM instruction discriminant. "stack picture" comments describe
// the operand stack before and after execution, following the convention
// used throughout the teacher's own opcode tables.
type Opcode uint8

//nolint:revive
const (
	Noop            Opcode = iota //           - Noop             -
	PushImmediate                 //           - PushImmediate<v>  v     (sign-extended from 16 bits)
	PushImmediate24               //           - PushImmediate24<v> v    (zero-extended from 24 bits)
	PushConst                     //           i PushConst         data[i]
	PushStack                     //      offset PushStack         stack[top-offset]  (non-destructive)
	Arith                         //         a b Arith<op>         op(a,b)
	Jmp                           //           d Jmp<cond>          -     (cond decides whether/how many operands besides d)
	Output                        //           v Output<channel>    -
	Pop                           //      [n]     Pop<mode>          -
	Move                          //    v offset Move               -     stack[top-offset] = v
	Break                         //           - Break               -     halts the loop
)

var opcodeNames = [...]string{
	Noop:            "noop",
	PushImmediate:   "push_immediate",
	PushImmediate24: "push_immediate24",
	PushConst:       "push_const",
	PushStack:       "push_stack",
	Arith:           "arith",
	Jmp:             "jmp",
	Output:          "output",
	Pop:             "pop",
	Move:            "move",
	Break:           "break",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("opcode(%d)", uint8(op))
}

// ArithOp selects the operation performed by an Arith instruction.
type ArithOp uint8

//nolint:revive
const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	LogicalOr
	LogicalAnd
	Equal
	NotEqual
	LessThan
	LessEqual
)

var arithOpNames = [...]string{
	Add:        "add",
	Sub:        "sub",
	Mul:        "mul",
	Div:        "div",
	LogicalOr:  "or",
	LogicalAnd: "and",
	Equal:      "eq",
	NotEqual:   "neq",
	LessThan:   "lt",
	LessEqual:  "le",
}

func (op ArithOp) String() string {
	if int(op) < len(arithOpNames) {
		return arithOpNames[op]
	}
	return fmt.Sprintf("arith(%d)", uint8(op))
}

// Cond selects which displacement-consuming condition a Jmp tests.
type Cond uint8

//nolint:revive
const (
	Always Cond = iota
	Zero
	NonZero
)

var condNames = [...]string{
	Always:  "always",
	Zero:    "z",
	NonZero: "nz",
}

func (c Cond) String() string {
	if int(c) < len(condNames) {
		return condNames[c]
	}
	return fmt.Sprintf("cond(%d)", uint8(c))
}

// PopMode selects the operand shape of a Pop instruction: One removes a
// single value, Top pops a count from the stack and removes that many
// further values below it.
type PopMode uint8

//nolint:revive
const (
	One PopMode = iota
	Top
)

func (m PopMode) String() string {
	if m == One {
		return "one"
	}
	return "top"
}

// Op is a single decoded bytecode instruction. Arg is meaningful only for
// opcodes that carry an inline operand (PushImmediate, PushImmediate24,
// Output) or a discriminant (Arith, Jmp, Pop); for all other opcodes it is
// zero and ignored.
type Op struct {
	Code Opcode
	Arg  int32
}

// The 24-bit immediate window used by PushImmediate24 and by the assembler
// to decide whether a PushInline value fits inline or must spill to the
// constants pool.
const (
	Max24 = 1<<24 - 1
	Min16 = -1 << 15
	Max16 = 1<<15 - 1
)
