package codegen

import "github.com/mna/l1vm/lang/ident"

// frame is a lexical scope's compile-time entry in the scope stack (spec.md
// section 4.3). bindingsTop is the stack_top value bound names in this
// frame must never be popped below; entryTop is stack_top as it was when
// the frame was pushed, used by popFrame to compute the cleanup count.
type frame struct {
	bindings    map[ident.Handle]int
	bindingsTop int
	entryTop    int
}

// ScopeStack is the code generator's compile-time model of the runtime
// stack: an ordered list of frames, each owning a binding map from handle
// to stack position, plus the shared stackTop counter. It never reads or
// writes actual machine stack values; it only predicts where each binding
// will live once the corresponding instructions run.
type ScopeStack struct {
	frames   []*frame
	stackTop int
}

// NewScopeStack returns a ScopeStack with a single top-level frame.
func NewScopeStack() *ScopeStack {
	return &ScopeStack{frames: []*frame{{bindings: map[ident.Handle]int{}}}}
}

// PushFrame starts a new frame inheriting the parent's stack_top.
func (s *ScopeStack) PushFrame() {
	s.frames = append(s.frames, &frame{
		bindings:    map[ident.Handle]int{},
		bindingsTop: s.stackTop,
		entryTop:    s.stackTop,
	})
}

// PopFrame pops the current frame, resets stack_top to the value it had
// when the frame was pushed, and returns the number of items to pop off
// the runtime stack to restore it to that same state (the difference
// between stack_top on exit and entry). Callers that emit an expression
// block's Pop{N: n-1}, leaving one value behind, must PushLocal once
// afterward so the model matches the runtime stack again.
func (s *ScopeStack) PopFrame() int {
	top := s.stackTop
	entry := s.frames[len(s.frames)-1].entryTop
	s.frames = s.frames[:len(s.frames)-1]
	s.stackTop = entry
	return top - entry
}

// AddBinding binds h to stack_top-1 (the slot just pushed) and raises this
// frame's bindingsTop so pop_local can never cross below it.
func (s *ScopeStack) AddBinding(h ident.Handle) {
	f := s.frames[len(s.frames)-1]
	f.bindings[h] = s.stackTop - 1
	f.bindingsTop = s.stackTop
}

// PushLocal advances stack_top by one, modeling a value pushed by the
// instruction(s) just emitted.
func (s *ScopeStack) PushLocal() { s.stackTop++ }

// PopLocal retreats stack_top by n, modeling n transient values popped.
// Returns false if doing so would cross below the current frame's
// bindingsTop — a code generator bug, never a valid program's fault.
func (s *ScopeStack) PopLocal(n int) bool {
	f := s.frames[len(s.frames)-1]
	if s.stackTop-n < f.bindingsTop {
		return false
	}
	s.stackTop -= n
	return true
}

// Resolve searches frames innermost-out for h, returning its offset from
// the current top of stack (stack_top - position - 1).
func (s *ScopeStack) Resolve(h ident.Handle) (int, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if pos, ok := s.frames[i].bindings[h]; ok {
			return s.stackTop - pos - 1, true
		}
	}
	return 0, false
}

// StackTop returns the current compile-time stack depth model.
func (s *ScopeStack) StackTop() int { return s.stackTop }
