// Package assembler implements the two-pass lowering of spec.md section 4.2:
// textual asm.Stmt sequences are turned into a bytecode.Program, resolving
// labels to relative displacements and harvesting over-window constants
// into a deduplicated pool.
package assembler

import (
	"fmt"

	"github.com/mna/l1vm/lang/asm"
	"github.com/mna/l1vm/lang/bytecode"
)

// Error is a fatal assembly-time error, carrying the statement index at
// which it was detected for diagnostics.
type Error struct {
	Index int
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("assembler: statement %d: %s", e.Index, e.Msg)
}

// Assemble runs the two-pass lowering described in spec.md section 4.2 over
// the given sections (at most one Data and one Code section are expected;
// a Data section's values become the initial constants pool, preceding any
// harvested constants).
func Assemble(sections []asm.Section) (*bytecode.Program, error) {
	var initial []int64
	var stmts []asm.Stmt
	for _, sec := range sections {
		switch sec := sec.(type) {
		case *asm.Data:
			initial = append(initial, sec.Values...)
		case *asm.Code:
			stmts = append(stmts, sec.Stmts...)
		}
	}

	a := &assembling{pool: newConstPool(initial)}
	if err := a.pass1(stmts); err != nil {
		return nil, err
	}
	if err := a.pass2(stmts); err != nil {
		return nil, err
	}

	return &bytecode.Program{Data: a.pool.values, Code: a.code}, nil
}

type assembling struct {
	labels map[string]int // label name -> ip
	ips    []int          // ip before each statement, parallel to stmts
	pool   *constPool
	code   []bytecode.Op
}

// pass1 walks statements left to right, fixing label addresses and
// harvesting over-window PushInline constants.
func (a *assembling) pass1(stmts []asm.Stmt) error {
	a.labels = make(map[string]int, len(stmts))
	a.ips = make([]int, len(stmts))

	ip := 0
	for i, s := range stmts {
		a.ips[i] = ip
		if lbl, ok := s.(*asm.Label); ok {
			if _, dup := a.labels[lbl.Name]; dup {
				return &Error{Index: i, Msg: fmt.Sprintf("duplicate label %q", lbl.Name)}
			}
			a.labels[lbl.Name] = ip
			continue
		}
		if pi, ok := s.(*asm.PushInline); ok && !fitsImmediate(pi.Value) {
			a.pool.intern(pi.Value)
		}
		ip += numOps(s)
	}
	return nil
}

// pass2 emits opcodes, resolving label references to relative displacements
// and pool references to indices.
func (a *assembling) pass2(stmts []asm.Stmt) error {
	for i, s := range stmts {
		switch s := s.(type) {
		case *asm.Label:
			// zero ops, nothing to emit
		case *asm.PushInline:
			if fitsImmediate16(s.Value) {
				a.emit(bytecode.PushImmediate, int32(s.Value))
			} else if fitsImmediate24(s.Value) {
				a.emit(bytecode.PushImmediate24, int32(s.Value))
			} else {
				idx, ok := a.pool.index(s.Value)
				if !ok {
					return &Error{Index: i, Msg: "constant not found in pool (internal error)"}
				}
				if err := a.pushPoolIndex(i, idx); err != nil {
					return err
				}
				a.emit(bytecode.PushConst, 0)
			}
		case *asm.PushConst:
			if err := a.pushPoolIndex(i, s.Index); err != nil {
				return err
			}
			a.emit(bytecode.PushConst, 0)
		case *asm.PushStack:
			if err := a.pushOperand(i, s.Offset); err != nil {
				return err
			}
			a.emit(bytecode.PushStack, 0)
		case *asm.Arith:
			a.emit(bytecode.Arith, int32(s.Op))
		case *asm.Jmp:
			if s.Computed() {
				a.emit(bytecode.Jmp, int32(s.Cond))
				continue
			}
			target, ok := a.labels[s.Label]
			if !ok {
				return &Error{Index: i, Msg: fmt.Sprintf("undefined label %q", s.Label)}
			}
			// current_out_len is the output length before this statement's own
			// PushImmediate is emitted (spec.md 4.2 pass 2: "rel = label_ip -
			// current_out_len").
			rel := target - a.ips[i]
			if !fitsImmediate16(int64(rel - 1)) {
				return &Error{Index: i, Msg: fmt.Sprintf("jump displacement %d does not fit a 16-bit immediate", rel-1)}
			}
			a.emit(bytecode.PushImmediate, int32(rel-1))
			a.emit(bytecode.Jmp, int32(s.Cond))
		case *asm.Output:
			a.emit(bytecode.Output, int32(s.Channel))
		case *asm.Pop:
			switch {
			case s.N == 0:
				// elided
			case s.N == 1:
				a.emit(bytecode.Pop, int32(bytecode.One))
			case s.N > 0x7FFF:
				return &Error{Index: i, Msg: fmt.Sprintf("pop count %d exceeds 0x7FFF", s.N)}
			default:
				a.emit(bytecode.PushImmediate, int32(s.N))
				a.emit(bytecode.Pop, int32(bytecode.Top))
			}
		case *asm.Move:
			if err := a.pushOperand(i, s.Offset); err != nil {
				return err
			}
			a.emit(bytecode.Move, 0)
		case *asm.Noop:
			a.emit(bytecode.Noop, 0)
		case *asm.Call:
			// A Call lowers to three ops: a pushed value consumed by the
			// callee's own computed return Jmp, then the usual
			// PushImmediate(rel-1)+Jmp(Always) pair that transfers to
			// func_<name>. Jmp always moves ip by ip_dispatch+displacement
			// (see the label case above), so the value we push for the
			// eventual return must be a displacement relative to the callee's
			// fixed return-jmp position, not the caller's absolute resume
			// address; the codegen package emits a "ret_<name>" label right
			// before that computed jump so it can be resolved here.
			retJmpIP, ok := a.labels["ret_"+s.Name]
			if !ok {
				return &Error{Index: i, Msg: fmt.Sprintf("undefined return label %q", "ret_"+s.Name)}
			}
			resumeIP := a.ips[i] + numOps(s)
			retDisp := resumeIP - retJmpIP
			if !fitsImmediate16(int64(retDisp)) {
				return &Error{Index: i, Msg: fmt.Sprintf("return displacement %d does not fit a 16-bit immediate", retDisp)}
			}
			a.emit(bytecode.PushImmediate, int32(retDisp))

			target, ok := a.labels["func_"+s.Name]
			if !ok {
				return &Error{Index: i, Msg: fmt.Sprintf("undefined function label %q", "func_"+s.Name)}
			}
			rel := target - (a.ips[i] + 1)
			if !fitsImmediate16(int64(rel - 1)) {
				return &Error{Index: i, Msg: fmt.Sprintf("call displacement %d does not fit a 16-bit immediate", rel-1)}
			}
			a.emit(bytecode.PushImmediate, int32(rel-1))
			a.emit(bytecode.Jmp, int32(bytecode.Always))
		default:
			return &Error{Index: i, Msg: fmt.Sprintf("unsupported statement type: %T", s)}
		}
	}
	return nil
}

func (a *assembling) pushPoolIndex(stmtIdx int, idx int64) error {
	return a.pushOperand(stmtIdx, idx)
}

func (a *assembling) pushOperand(stmtIdx int, v int64) error {
	if !fitsImmediate16(v) {
		return &Error{Index: stmtIdx, Msg: fmt.Sprintf("operand %d exceeds 15-bit signed capacity (not implemented)", v)}
	}
	a.emit(bytecode.PushImmediate, int32(v))
	return nil
}

func (a *assembling) emit(code bytecode.Opcode, arg int32) {
	a.code = append(a.code, bytecode.Op{Code: code, Arg: arg})
}

// numOps returns the statement's op count per spec.md's per-statement op
// count table, consistent between pass1's ip bookkeeping and pass2's
// emission.
func numOps(s asm.Stmt) int {
	switch s := s.(type) {
	case *asm.Label:
		return 0
	case *asm.Arith, *asm.Output, *asm.Noop:
		return 1
	case *asm.PushInline:
		if fitsImmediate(s.Value) {
			return 1
		}
		return 2
	case *asm.PushConst, *asm.PushStack, *asm.Move:
		return 2
	case *asm.Pop:
		switch {
		case s.N == 0:
			return 0
		case s.N == 1:
			return 1
		default:
			return 2
		}
	case *asm.Jmp:
		if s.Computed() {
			return 1
		}
		return 2
	case *asm.Call:
		return 3
	default:
		return 0
	}
}

func fitsImmediate16(v int64) bool {
	return v >= bytecode.Min16 && v <= bytecode.Max16
}

func fitsImmediate24(v int64) bool {
	return v >= 0 && v <= bytecode.Max24
}

// fitsImmediate reports whether v fits either the 16-bit signed or 24-bit
// unsigned immediate window, i.e. whether it can be pushed inline without
// spilling to the constants pool.
func fitsImmediate(v int64) bool {
	return fitsImmediate16(v) || fitsImmediate24(v)
}
