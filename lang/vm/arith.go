package vm

import "github.com/mna/l1vm/lang/bytecode"

// evalArith computes op(a, b) per spec.md section 4.1's Arith table. The
// four comparison results and the two logical operators are represented as
// 0 (false) or 1 (true), matching Jmp's zero/non-zero test.
func evalArith(op bytecode.ArithOp, a, b int64) (int64, error) {
	switch op {
	case bytecode.Add:
		return a + b, nil
	case bytecode.Sub:
		return a - b, nil
	case bytecode.Mul:
		return a * b, nil
	case bytecode.Div:
		if b == 0 {
			return 0, ErrDivByZero
		}
		return a / b, nil
	case bytecode.LogicalOr:
		return boolToInt(a != 0 || b != 0), nil
	case bytecode.LogicalAnd:
		return boolToInt(a != 0 && b != 0), nil
	case bytecode.Equal:
		return boolToInt(a == b), nil
	case bytecode.NotEqual:
		return boolToInt(a != b), nil
	case bytecode.LessThan:
		return boolToInt(a < b), nil
	case bytecode.LessEqual:
		return boolToInt(a <= b), nil
	default:
		return 0, errInvalidArithOp
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
