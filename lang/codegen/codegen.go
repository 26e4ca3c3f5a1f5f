// Package codegen walks an L1 AST and emits textual assembly (lang/asm),
// maintaining a compile-time ScopeStack so that every variable reference
// lowers to a stack offset without the generator ever touching a runtime
// stack value directly. Grounded in original_source/src/bin/compiler.rs's
// CodeGen/ScopeStack/StackFrame, extended with function calls, explicit
// return, and the expression-block form spec.md section 4.3 adds beyond the
// original prototype.
package codegen

import (
	"fmt"

	"github.com/mna/l1vm/lang/asm"
	"github.com/mna/l1vm/lang/ast"
	"github.com/mna/l1vm/lang/ident"
)

// CodeGen is a single-pass AST-to-assembly lowering pass. It is not safe for
// concurrent use by multiple goroutines, but distinct CodeGen values over
// independent inputs may run concurrently (spec.md section 4.4).
type CodeGen struct {
	scopes      *ScopeStack
	out         []asm.Stmt
	labelCounts map[string]int
	names       *ident.Interner
}

// New returns a CodeGen that resolves identifier handles against names for
// error messages.
func New(names *ident.Interner) *CodeGen {
	return &CodeGen{
		scopes:      NewScopeStack(),
		labelCounts: map[string]int{},
		names:       names,
	}
}

func (cg *CodeGen) name(h ident.Handle) string { return cg.names.Name(h) }

// allocLabel generates a label name from template and a per-template
// counter, e.g. "if_end0", "if_end1", "else0".
func (cg *CodeGen) allocLabel(template string) string {
	n := cg.labelCounts[template]
	cg.labelCounts[template]++
	return fmt.Sprintf("%s%d", template, n)
}

// Generate lowers a full program (function declarations followed by
// top-level statements, in any relative order) into assembly sections, per
// spec.md section 4.3's program prologue/epilogue.
func (cg *CodeGen) Generate(program []ast.Node) ([]asm.Section, error) {
	var funcs []*ast.Function
	var stmts []ast.Stmt
	for _, n := range program {
		switch n := n.(type) {
		case *ast.Function:
			funcs = append(funcs, n)
		case ast.Stmt:
			stmts = append(stmts, n)
		default:
			return nil, fmt.Errorf("codegen: unsupported top-level node %T", n)
		}
	}

	if len(funcs) > 0 {
		cg.out = append(cg.out, &asm.Jmp{Cond: asm.Always, Label: "entry"})
	}
	for _, fn := range funcs {
		if err := cg.emitFunction(fn); err != nil {
			return nil, err
		}
	}
	if len(funcs) > 0 {
		cg.out = append(cg.out, &asm.Label{Name: "entry"})
	}
	for _, s := range stmts {
		if err := cg.emitStmt(s); err != nil {
			return nil, err
		}
	}

	return []asm.Section{&asm.Data{}, &asm.Code{Stmts: cg.out}}, nil
}

func (cg *CodeGen) emitFunction(fn *ast.Function) error {
	name := cg.name(fn.Name)
	cg.out = append(cg.out, &asm.Label{Name: "func_" + name})

	cg.scopes.PushFrame()
	for _, arg := range fn.Args {
		cg.scopes.PushLocal()
		cg.scopes.AddBinding(arg)
	}
	// accounts for the return-address value the call sequence pushes before
	// jumping here; it has no binding of its own.
	cg.scopes.PushLocal()

	if err := cg.emitStmt(fn.Body); err != nil {
		return fmt.Errorf("codegen: function %s: %w", name, err)
	}

	cg.out = append(cg.out, &asm.Move{Offset: int64(len(fn.Args) + 1)})
	cg.out = append(cg.out, &asm.Label{Name: "ret_" + name})
	cg.out = append(cg.out, &asm.Jmp{Cond: asm.Always, Label: ""})
	cg.scopes.PopFrame()
	return nil
}

func (cg *CodeGen) emitStmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.LetBinding:
		if err := cg.emitExpr(s.Value); err != nil {
			return err
		}
		cg.scopes.AddBinding(s.Name)
		return nil

	case *ast.Assign:
		if s.CompoundOp != nil {
			return fmt.Errorf("codegen: compound assignment is not supported")
		}
		if err := cg.emitExpr(s.Value); err != nil {
			return err
		}
		// Move pops the value before writing, so its offset is measured from
		// the stack as it is once the value is gone.
		if !cg.scopes.PopLocal(1) {
			return fmt.Errorf("codegen: pop_local underflow in assign to %s", cg.name(s.Name))
		}
		offset, ok := cg.scopes.Resolve(s.Name)
		if !ok {
			return fmt.Errorf("codegen: unknown binding: %s", cg.name(s.Name))
		}
		cg.out = append(cg.out, &asm.Move{Offset: int64(offset)})
		return nil

	case *ast.IfElse:
		if err := cg.emitExpr(s.Cond); err != nil {
			return err
		}
		if s.Else == nil {
			end := cg.allocLabel("if_end")
			cg.out = append(cg.out, &asm.Jmp{Cond: asm.Zero, Label: end})
			if !cg.scopes.PopLocal(1) {
				return fmt.Errorf("codegen: pop_local underflow after if condition")
			}
			if err := cg.emitStmt(s.Then); err != nil {
				return err
			}
			cg.out = append(cg.out, &asm.Label{Name: end})
			return nil
		}

		elseLabel := cg.allocLabel("else")
		cg.out = append(cg.out, &asm.Jmp{Cond: asm.Zero, Label: elseLabel})
		if !cg.scopes.PopLocal(1) {
			return fmt.Errorf("codegen: pop_local underflow after if condition")
		}
		if err := cg.emitStmt(s.Then); err != nil {
			return err
		}
		end := cg.allocLabel("if_end")
		cg.out = append(cg.out, &asm.Jmp{Cond: asm.Always, Label: end})
		cg.out = append(cg.out, &asm.Label{Name: elseLabel})
		if err := cg.emitStmt(s.Else); err != nil {
			return err
		}
		cg.out = append(cg.out, &asm.Label{Name: end})
		return nil

	case *ast.While:
		start := cg.allocLabel("while")
		cg.out = append(cg.out, &asm.Label{Name: start})
		if err := cg.emitExpr(s.Cond); err != nil {
			return err
		}
		end := cg.allocLabel("while_end")
		cg.out = append(cg.out, &asm.Jmp{Cond: asm.Zero, Label: end})
		if !cg.scopes.PopLocal(1) {
			return fmt.Errorf("codegen: pop_local underflow after while condition")
		}
		if err := cg.emitStmt(s.Body); err != nil {
			return err
		}
		cg.out = append(cg.out, &asm.Jmp{Cond: asm.Always, Label: start})
		cg.out = append(cg.out, &asm.Label{Name: end})
		return nil

	case *ast.Block:
		cg.scopes.PushFrame()
		for _, inner := range s.Stmts {
			if err := cg.emitStmt(inner); err != nil {
				return err
			}
		}
		n := cg.scopes.PopFrame()
		if !s.CleanupStack {
			if n < 1 {
				return fmt.Errorf("codegen: expression block must produce a value")
			}
			n--
			// PopFrame reset stack_top to entry; restore the one model slot
			// for the value Pop{N: n} leaves behind on the runtime stack.
			cg.scopes.PushLocal()
		}
		cg.out = append(cg.out, &asm.Pop{N: int64(n)})
		return nil

	case *ast.Print:
		for _, e := range s.Exprs {
			if err := cg.emitExpr(e); err != nil {
				return err
			}
			cg.out = append(cg.out, &asm.Output{Channel: 0})
			if !cg.scopes.PopLocal(1) {
				return fmt.Errorf("codegen: pop_local underflow after print")
			}
		}
		return nil

	case *ast.CallStmt:
		if err := cg.emitExpr(s.Call); err != nil {
			return err
		}
		cg.out = append(cg.out, &asm.Pop{N: 1})
		if !cg.scopes.PopLocal(1) {
			return fmt.Errorf("codegen: pop_local underflow after call statement")
		}
		return nil

	case *ast.Return:
		return cg.emitExpr(s.Value)

	default:
		return fmt.Errorf("codegen: unsupported statement type %T", s)
	}
}

func (cg *CodeGen) emitExpr(e ast.Expr) error {
	switch e := e.(type) {
	case *ast.Number:
		cg.out = append(cg.out, &asm.PushInline{Value: e.Value})
		cg.scopes.PushLocal()
		return nil

	case *ast.EnvLoad:
		offset, ok := cg.scopes.Resolve(e.Name)
		if !ok {
			return fmt.Errorf("codegen: unknown binding: %s", cg.name(e.Name))
		}
		cg.out = append(cg.out, &asm.PushStack{Offset: int64(offset)})
		cg.scopes.PushLocal()
		return nil

	case *ast.Op:
		left, right := e.Left, e.Right
		swapped := e.Opcode == ast.GreaterThan || e.Opcode == ast.GreaterEqual
		if swapped {
			left, right = right, left
		}
		if err := cg.emitExpr(left); err != nil {
			return err
		}
		if err := cg.emitExpr(right); err != nil {
			return err
		}
		op, err := mapArithOp(e.Opcode)
		if err != nil {
			return err
		}
		cg.out = append(cg.out, &asm.Arith{Op: op})
		if !cg.scopes.PopLocal(2) {
			return fmt.Errorf("codegen: pop_local underflow in operator %s", e.Opcode)
		}
		cg.scopes.PushLocal()
		return nil

	case *ast.Call:
		cg.out = append(cg.out, &asm.PushInline{Value: 0})
		cg.scopes.PushLocal()
		for _, arg := range e.Args {
			if err := cg.emitExpr(arg); err != nil {
				return err
			}
		}
		cg.out = append(cg.out, &asm.Call{Name: cg.name(e.Name)})
		cg.out = append(cg.out, &asm.Pop{N: int64(len(e.Args))})
		if !cg.scopes.PopLocal(len(e.Args)) {
			return fmt.Errorf("codegen: pop_local underflow after call to %s", cg.name(e.Name))
		}
		return nil

	case *ast.Error:
		return fmt.Errorf("codegen: found parse error node in expression position")

	default:
		return fmt.Errorf("codegen: unsupported expression type %T", e)
	}
}

func mapArithOp(op ast.Opcode) (asm.ArithOp, error) {
	switch op {
	case ast.Add:
		return asm.Add, nil
	case ast.Sub:
		return asm.Sub, nil
	case ast.Mul:
		return asm.Mul, nil
	case ast.Div:
		return asm.Div, nil
	case ast.Or:
		return asm.LogicalOr, nil
	case ast.And:
		return asm.LogicalAnd, nil
	case ast.Equal:
		return asm.Equal, nil
	case ast.NotEqual:
		return asm.NotEqual, nil
	case ast.LessThan, ast.GreaterThan:
		return asm.LessThan, nil
	case ast.LessEqual, ast.GreaterEqual:
		return asm.LessEqual, nil
	default:
		return 0, fmt.Errorf("codegen: unsupported operator %s", op)
	}
}
