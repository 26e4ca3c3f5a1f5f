package asm

import (
	"bytes"
	"fmt"
)

// Print renders sections back to the textual form Parse accepts. Grounded
// in the teacher's Dasm, trimmed to L1's flat two-section layout (no
// per-function sub-sections, no address translation table).
func Print(sections []Section) ([]byte, error) {
	var buf bytes.Buffer
	for _, sec := range sections {
		switch sec := sec.(type) {
		case *Data:
			fmt.Fprintln(&buf, "section .const")
			for _, v := range sec.Values {
				fmt.Fprintf(&buf, "%d\n", v)
			}
		case *Code:
			fmt.Fprintln(&buf, "section .code")
			for _, s := range sec.Stmts {
				if err := printStmt(&buf, s); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("unsupported section type: %T", sec)
		}
	}
	return buf.Bytes(), nil
}

func printStmt(buf *bytes.Buffer, s Stmt) error {
	switch s := s.(type) {
	case *Label:
		fmt.Fprintf(buf, "%s:\n", s.Name)
	case *PushInline:
		fmt.Fprintf(buf, "    push %d\n", s.Value)
	case *PushConst:
		fmt.Fprintf(buf, "    push const.%d\n", s.Index)
	case *PushStack:
		fmt.Fprintf(buf, "    push stack.%d\n", s.Offset)
	case *Jmp:
		label := s.Label
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(buf, "    jmp %s %s\n", s.Cond, label)
	case *Arith:
		fmt.Fprintf(buf, "    %s\n", s.Op)
	case *Output:
		fmt.Fprintf(buf, "    output #%d\n", s.Channel)
	case *Pop:
		if s.N == 1 {
			fmt.Fprintln(buf, "    pop")
		} else {
			fmt.Fprintf(buf, "    pop %d\n", s.N)
		}
	case *Move:
		fmt.Fprintf(buf, "    move %d\n", s.Offset)
	case *Noop:
		fmt.Fprintln(buf, "    noop")
	case *Call:
		fmt.Fprintf(buf, "    call %s\n", s.Name)
	default:
		return fmt.Errorf("unsupported statement type: %T", s)
	}
	return nil
}
